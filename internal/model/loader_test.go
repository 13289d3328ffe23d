package model

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/usdzview/pkg/usdz"
)

const plate = `solid plate
facet normal 0 0 1
outer loop
vertex 0 0 0
vertex 1 0 0
vertex 0 1 0
endloop
endfacet
endsolid plate
`

// copyConverter writes a fixed STL instead of running an external tool
type copyConverter struct {
	calls int
}

func (c *copyConverter) ConvertToSTL(_ context.Context, _, out string) error {
	c.calls++
	return os.WriteFile(out, []byte(plate), 0o644)
}

func usdzBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.CreateHeader(&zip.FileHeader{Name: "scene.usdc", Method: zip.Store})
	require.NoError(t, err)
	_, err = w.Write([]byte("PXR-USDC"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func write(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, data, 0o644))
	return p
}

func TestDetectFormat(t *testing.T) {
	f, err := DetectFormat("a.STL", nil)
	require.NoError(t, err)
	assert.Equal(t, FormatSTL, f)

	f, err = DetectFormat("a.usdz", nil)
	require.NoError(t, err)
	assert.Equal(t, FormatUSDZ, f)

	f, err = DetectFormat("download", []byte{0x50, 0x4B, 0x03, 0x04, 0x00})
	require.NoError(t, err)
	assert.Equal(t, FormatUSDZ, f)

	f, err = DetectFormat("download", []byte("solid x"))
	require.NoError(t, err)
	assert.Equal(t, FormatSTL, f)

	_, err = DetectFormat("notes.txt", []byte("hello"))
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestLoadSTL(t *testing.T) {
	p := write(t, "plate.stl", []byte(plate))
	l := NewLoader(nil, zerolog.Nop())

	m, err := l.Load(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "plate", m.Name)
	assert.Equal(t, FormatSTL, m.Format)
	assert.Equal(t, 1, m.TriangleCount())
	assert.Equal(t, p, m.LocalPath)
	assert.Equal(t, 1.0, m.Bounds().Max.X)
}

func TestLoadUSDZConverts(t *testing.T) {
	p := write(t, "chair.usdz", usdzBytes(t))
	conv := &copyConverter{}
	l := NewLoader(conv, zerolog.Nop())

	m, err := l.Load(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 1, conv.calls)
	assert.Equal(t, FormatUSDZ, m.Format)
	assert.Equal(t, "chair", m.Name)
	assert.Equal(t, 1, m.TriangleCount())
}

func TestLoadUSDZBadSignature(t *testing.T) {
	p := write(t, "chair.usdz", []byte("#usda 1.0"))
	conv := &copyConverter{}
	l := NewLoader(conv, zerolog.Nop())

	_, err := l.Load(context.Background(), p)
	assert.ErrorIs(t, err, usdz.ErrBadSignature)
	assert.Equal(t, 0, conv.calls)
}

func TestLoadUSDZWithoutConverter(t *testing.T) {
	p := write(t, "chair.usdz", usdzBytes(t))
	_, err := NewLoader(nil, zerolog.Nop()).Load(context.Background(), p)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewLoader(nil, zerolog.Nop()).Load(context.Background(), filepath.Join(t.TempDir(), "none.stl"))
	assert.Error(t, err)
}

func TestLoadRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/plate.stl" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(plate))
	}))
	defer srv.Close()

	l := NewLoader(nil, zerolog.Nop())
	m, err := l.Load(context.Background(), srv.URL+"/models/plate.stl")
	require.NoError(t, err)
	assert.Equal(t, "plate", m.Name)
	assert.Equal(t, srv.URL+"/models/plate.stl", m.Source)
	assert.Empty(t, m.LocalPath)

	_, err = l.Load(context.Background(), srv.URL+"/models/missing.stl")
	assert.Error(t, err)
}

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("https://example.com/a.usdz"))
	assert.True(t, IsRemote("http://localhost:8080/a.usdz"))
	assert.False(t, IsRemote("/tmp/a.usdz"))
	assert.False(t, IsRemote("file:///tmp/a.usdz"))
	assert.False(t, IsRemote("C:\\models\\a.usdz"))
}

func TestExpandPath(t *testing.T) {
	home, err := homedir.Dir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "models", "a.stl"), ExpandPath("~/models/a.stl"))
	assert.Equal(t, "/tmp/a.stl", ExpandPath("/tmp/a.stl"))
	assert.Equal(t, "https://example.com/~a.usdz", ExpandPath("https://example.com/~a.usdz"))
}
