package scene

import (
	"github.com/philipparndt/usdzview/pkg/geometry"
)

// Mesh is a named triangle soup with cached bounds
type Mesh struct {
	Name      string
	Triangles []geometry.Triangle
	bounds    geometry.BoundingBox
}

// NewMesh creates a mesh and computes its bounds
func NewMesh(name string, triangles []geometry.Triangle) *Mesh {
	m := &Mesh{Name: name, Triangles: triangles}
	m.bounds = geometry.NewBoundingBox()
	for _, t := range triangles {
		m.bounds.Extend(t.V1)
		m.bounds.Extend(t.V2)
		m.bounds.Extend(t.V3)
	}
	return m
}

// Bounds returns the mesh bounding box
func (m *Mesh) Bounds() geometry.BoundingBox {
	return m.bounds
}

// Group is a node of the model hierarchy
type Group struct {
	Name     string
	Meshes   []*Mesh
	Children []*Group
}

// NewGroup creates an empty group
func NewGroup(name string) *Group {
	return &Group{Name: name}
}

// AddMesh appends a mesh to the group
func (g *Group) AddMesh(m *Mesh) {
	g.Meshes = append(g.Meshes, m)
}

// AddGroup appends a child group
func (g *Group) AddGroup(child *Group) {
	g.Children = append(g.Children, child)
}

// Walk calls fn for every mesh of g and all its descendants, depth first
func (g *Group) Walk(fn func(*Mesh)) {
	if g == nil {
		return
	}
	for _, m := range g.Meshes {
		fn(m)
	}
	for _, c := range g.Children {
		c.Walk(fn)
	}
}

// Bounds returns the union of all descendant mesh bounds
func (g *Group) Bounds() geometry.BoundingBox {
	bbox := geometry.NewBoundingBox()
	g.Walk(func(m *Mesh) {
		bbox.Union(m.Bounds())
	})
	return bbox
}

// TriangleCount returns the number of triangles below g
func (g *Group) TriangleCount() int {
	n := 0
	g.Walk(func(m *Mesh) {
		n += len(m.Triangles)
	})
	return n
}

// MeshCount returns the number of meshes below g
func (g *Group) MeshCount() int {
	n := 0
	g.Walk(func(*Mesh) {
		n++
	})
	return n
}
