package usdz

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usdzBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.CreateHeader(&zip.FileHeader{Name: "model.usdc", Method: zip.Store})
	require.NoError(t, err)
	_, err = w.Write([]byte("PXR-USDC"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid(usdzBytes(t)))
	assert.True(t, IsValid([]byte{0x50, 0x4B, 0x03, 0x04, 0x14, 0x00}))
	assert.False(t, IsValid([]byte("solid cube")))
	assert.False(t, IsValid([]byte{0x50, 0x4B, 0x05, 0x06}))
	assert.False(t, IsValid([]byte{0x50, 0x4B}))
	assert.False(t, IsValid(nil))
}

func TestCheck(t *testing.T) {
	assert.NoError(t, Check(bytes.NewReader(usdzBytes(t))))
	assert.ErrorIs(t, Check(strings.NewReader("#usda 1.0")), ErrBadSignature)
	assert.ErrorIs(t, Check(strings.NewReader("")), ErrBadSignature)
}

func TestCheckFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "chair.usdz")
	bad := filepath.Join(dir, "chair.txt")
	require.NoError(t, os.WriteFile(good, usdzBytes(t), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte("hello"), 0o644))

	assert.NoError(t, CheckFile(good))
	assert.ErrorIs(t, CheckFile(bad), ErrBadSignature)
	assert.Error(t, CheckFile(filepath.Join(dir, "missing.usdz")))
}

func TestConverterArgs(t *testing.T) {
	c := NewConverter(".", []string{"usd2stl", "-i", "{input}", "--out={output}"})
	assert.Equal(t,
		[]string{"usd2stl", "-i", "/tmp/a.usdz", "--out=/tmp/a.stl"},
		c.Args("/tmp/a.usdz", "/tmp/a.stl"))

	def := NewConverter(".", nil)
	args := def.Args("in.usdz", "out.stl")
	assert.Equal(t, "blender", args[0])
	assert.Equal(t, []string{"in.usdz", "out.stl"}, args[len(args)-2:])
}

func TestParseCommand(t *testing.T) {
	args, err := ParseCommand(`usdcat "{input}" --flatten -o '{output}'`)
	require.NoError(t, err)
	assert.Equal(t, []string{"usdcat", "{input}", "--flatten", "-o", "{output}"}, args)

	c := NewConverter(".", args)
	assert.Equal(t,
		[]string{"usdcat", "/my models/a.usdz", "--flatten", "-o", "/tmp/a.stl"},
		c.Args("/my models/a.usdz", "/tmp/a.stl"))

	_, err = ParseCommand("")
	assert.Error(t, err)

	_, err = ParseCommand(`usdcat "{input}`)
	assert.Error(t, err)

	_, err = ParseCommand("usdcat {input}")
	assert.ErrorContains(t, err, "{output}")
}

func TestConverterRejectsBadSignature(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "model.usdz")
	require.NoError(t, os.WriteFile(bad, []byte("not a zip"), 0o644))

	c := NewConverter(dir, []string{"true"})
	err := c.ConvertToSTL(context.Background(), "model.usdz", filepath.Join(dir, "out.stl"))
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestConverterMissingTool(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "model.usdz")
	require.NoError(t, os.WriteFile(in, usdzBytes(t), 0o644))

	c := NewConverter(dir, []string{"usdzview-no-such-converter", "{input}", "{output}"})
	err := c.ConvertToSTL(context.Background(), in, filepath.Join(dir, "out.stl"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found in PATH")
}
