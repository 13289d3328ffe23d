// Package model loads a model file, local or remote, into pickable geometry.
package model

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"

	"github.com/philipparndt/usdzview/internal/scene"
	"github.com/philipparndt/usdzview/pkg/geometry"
	"github.com/philipparndt/usdzview/pkg/stl"
	"github.com/philipparndt/usdzview/pkg/usdz"
)

// ErrUnsupported is returned for files that are neither STL nor USDZ
var ErrUnsupported = errors.New("unsupported model format")

// Format is the file format of a model
type Format int

const (
	FormatUnknown Format = iota
	FormatSTL
	FormatUSDZ
)

func (f Format) String() string {
	switch f {
	case FormatSTL:
		return "stl"
	case FormatUSDZ:
		return "usdz"
	default:
		return "unknown"
	}
}

// Converter produces an STL file from a USDZ package
type Converter interface {
	ConvertToSTL(ctx context.Context, usdzFile, outputFile string) error
}

// Model is a loaded model
type Model struct {
	Source    string
	LocalPath string
	Name      string
	Format    Format
	Group     *scene.Group
}

// Bounds returns the bounding box of the model geometry
func (m *Model) Bounds() geometry.BoundingBox {
	return m.Group.Bounds()
}

// TriangleCount returns the number of triangles
func (m *Model) TriangleCount() int {
	return m.Group.TriangleCount()
}

// Loader reads models from paths or http(s) URLs
type Loader struct {
	converter Converter
	client    *http.Client
	log       zerolog.Logger
}

// NewLoader creates a loader; converter may be nil when only STL is needed
func NewLoader(converter Converter, log zerolog.Logger) *Loader {
	return &Loader{
		converter: converter,
		client:    http.DefaultClient,
		log:       log.With().Str("component", "loader").Logger(),
	}
}

// IsRemote reports whether source is an http(s) URL
func IsRemote(source string) bool {
	u, err := url.Parse(source)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ExpandPath resolves a leading ~ in local sources; URLs are returned as is
func ExpandPath(source string) string {
	if IsRemote(source) {
		return source
	}
	expanded, err := homedir.Expand(source)
	if err != nil {
		return source
	}
	return expanded
}

// DetectFormat decides the format from the file name, falling back to the
// leading bytes
func DetectFormat(name string, header []byte) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".stl":
		return FormatSTL, nil
	case ".usdz":
		return FormatUSDZ, nil
	}
	if usdz.IsValid(header) {
		return FormatUSDZ, nil
	}
	if bytes.HasPrefix(bytes.TrimLeft(header, " \t\r\n"), []byte("solid")) {
		return FormatSTL, nil
	}
	return FormatUnknown, fmt.Errorf("%w: %s", ErrUnsupported, name)
}

// Load loads source, downloading it first when it is a URL
func (l *Loader) Load(ctx context.Context, source string) (*Model, error) {
	if !IsRemote(source) {
		source = ExpandPath(source)
		m, err := l.LoadFile(ctx, source)
		if err != nil {
			return nil, err
		}
		m.Source = source
		return m, nil
	}

	local, err := l.download(ctx, source)
	if err != nil {
		return nil, err
	}
	defer os.Remove(local)

	m, err := l.LoadFile(ctx, local)
	if err != nil {
		return nil, err
	}
	m.Source = source
	m.LocalPath = ""
	if u, err := url.Parse(source); err == nil {
		m.Name = strings.TrimSuffix(path.Base(u.Path), path.Ext(u.Path))
	}
	return m, nil
}

// LoadFile loads a model from disk
func (l *Loader) LoadFile(ctx context.Context, filename string) (*Model, error) {
	header, err := readHeader(filename)
	if err != nil {
		return nil, err
	}

	format, err := DetectFormat(filename, header)
	if err != nil {
		return nil, err
	}

	stlPath := filename
	if format == FormatUSDZ {
		if !usdz.IsValid(header) {
			return nil, fmt.Errorf("%s: %w", filename, usdz.ErrBadSignature)
		}
		if l.converter == nil {
			return nil, fmt.Errorf("%w: no USDZ converter configured", ErrUnsupported)
		}
		tmp, err := os.CreateTemp("", "usdzview-*.stl")
		if err != nil {
			return nil, fmt.Errorf("failed to create temp file: %w", err)
		}
		tmp.Close()
		defer os.Remove(tmp.Name())

		l.log.Debug().Str("file", filename).Msg("converting USDZ")
		if err := l.converter.ConvertToSTL(ctx, filename, tmp.Name()); err != nil {
			return nil, err
		}
		stlPath = tmp.Name()
	}

	parsed, err := stl.Parse(stlPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}

	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	group := scene.NewGroup(name)
	group.AddMesh(scene.NewMesh(parsed.Name, parsed.Triangles))

	l.log.Info().
		Str("file", filename).
		Stringer("format", format).
		Stringer("encoding", parsed.Encoding).
		Int("triangles", parsed.TriangleCount()).
		Msg("model loaded")

	return &Model{
		Source:    filename,
		LocalPath: filename,
		Name:      name,
		Format:    format,
		Group:     group,
	}, nil
}

func readHeader(filename string) ([]byte, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	header := make([]byte, 262)
	n, err := io.ReadFull(file, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read file header: %w", err)
	}
	return header[:n], nil
}

func (l *Loader) download(ctx context.Context, source string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return "", fmt.Errorf("invalid model URL: %w", err)
	}

	l.log.Info().Str("url", source).Msg("downloading model")
	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch model: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch model: %s", resp.Status)
	}

	ext := ""
	if u, err := url.Parse(source); err == nil {
		ext = path.Ext(u.Path)
	}
	tmp, err := os.CreateTemp("", "usdzview-download-*"+ext)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer tmp.Close()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to download model: %w", err)
	}
	return tmp.Name(), nil
}
