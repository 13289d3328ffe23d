package stl

import (
	"github.com/philipparndt/usdzview/pkg/geometry"
)

// Encoding is the on-disk flavor of an STL file
type Encoding int

const (
	EncodingASCII Encoding = iota
	EncodingBinary
)

func (e Encoding) String() string {
	if e == EncodingBinary {
		return "binary"
	}
	return "ascii"
}

// Model is a parsed STL file
type Model struct {
	Name      string
	Encoding  Encoding
	Triangles []geometry.Triangle
}

func newModel(enc Encoding) *Model {
	return &Model{Encoding: enc, Triangles: make([]geometry.Triangle, 0)}
}

func (m *Model) add(t geometry.Triangle) {
	m.Triangles = append(m.Triangles, t)
}

// TriangleCount returns the number of triangles
func (m *Model) TriangleCount() int {
	return len(m.Triangles)
}
