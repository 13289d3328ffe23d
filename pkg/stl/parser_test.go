package stl

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const asciiCube = `solid plate
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 2 0 0
      vertex 0 2 0
    endloop
  endfacet
  facet normal 0 0 1
    outer loop
      vertex 2 0 0
      vertex 2 2 0
      vertex 0 2 0
    endloop
  endfacet
endsolid plate
`

func TestParseASCII(t *testing.T) {
	model, err := ParseReader(strings.NewReader(asciiCube))
	require.NoError(t, err)

	assert.Equal(t, "plate", model.Name)
	assert.Equal(t, EncodingASCII, model.Encoding)
	require.Equal(t, 2, model.TriangleCount())
	assert.Equal(t, 2.0, model.Triangles[0].V2.X)
	assert.Equal(t, 2.0, model.Triangles[1].V3.Y)
}

func TestParseASCIIInvalidNumber(t *testing.T) {
	src := strings.Replace(asciiCube, "vertex 0 0 0", "vertex 0 x 0", 1)
	_, err := ParseReader(strings.NewReader(src))
	assert.Error(t, err)
}

func binarySTL(t *testing.T, header string, triangles [][4][3]float32) []byte {
	t.Helper()
	var buf bytes.Buffer
	h := make([]byte, binaryHeaderSize)
	copy(h, header)
	buf.Write(h)
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(len(triangles))))
	for _, tri := range triangles {
		for _, v := range tri {
			require.NoError(t, binary.Write(&buf, binary.LittleEndian, v))
		}
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint16(0)))
	}
	return buf.Bytes()
}

func TestParseBinary(t *testing.T) {
	data := binarySTL(t, "part", [][4][3]float32{
		{{0, 0, 1}, {0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
	})

	model, err := ParseReader(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "part", model.Name)
	assert.Equal(t, EncodingBinary, model.Encoding)
	assert.Equal(t, "binary", model.Encoding.String())
	require.Equal(t, 1, model.TriangleCount())
	assert.Equal(t, 1.0, model.Triangles[0].V2.X)
}

func TestParseBinaryWithSolidHeader(t *testing.T) {
	data := binarySTL(t, "solid exported by a CAD tool", [][4][3]float32{
		{{0, 0, 1}, {0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		{{0, 0, 1}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
	})

	model, err := ParseReader(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, EncodingBinary, model.Encoding)
	assert.Equal(t, 2, model.TriangleCount())
}

func TestParseBinaryTruncated(t *testing.T) {
	data := binarySTL(t, "part", [][4][3]float32{
		{{0, 0, 1}, {0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
	})

	_, err := ParseReader(bytes.NewReader(data[:len(data)-10]))
	assert.Error(t, err)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plate.stl")
	require.NoError(t, os.WriteFile(path, []byte(asciiCube), 0o644))

	model, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, 2, model.TriangleCount())

	_, err = Parse(filepath.Join(t.TempDir(), "missing.stl"))
	assert.Error(t, err)
}
