package stl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/philipparndt/usdzview/pkg/geometry"
)

const (
	binaryHeaderSize   = 80
	binaryTriangleSize = 50
)

// Parse reads an STL file and returns a Model
func Parse(filename string) (*Model, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return ParseReader(file)
}

// ParseReader reads an STL stream in either ASCII or binary form.
// Binary files whose header happens to start with "solid" are detected
// by their declared triangle count matching the payload size.
func ParseReader(reader io.Reader) (*Model, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read STL data: %w", err)
	}

	if isASCII(data) {
		return parseASCII(bytes.NewReader(data))
	}
	return parseBinary(bytes.NewReader(data))
}

func isASCII(data []byte) bool {
	if !bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("solid")) {
		return false
	}
	if len(data) >= binaryHeaderSize+4 {
		count := binary.LittleEndian.Uint32(data[binaryHeaderSize : binaryHeaderSize+4])
		if int64(len(data)) == binaryHeaderSize+4+int64(count)*binaryTriangleSize {
			return false
		}
	}
	return true
}

func parseASCII(reader io.Reader) (*Model, error) {
	scanner := bufio.NewScanner(reader)
	model := newModel(EncodingASCII)

	var currentNormal geometry.Vector3
	var vertices []geometry.Vector3

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "solid":
			if len(fields) > 1 {
				model.Name = strings.Join(fields[1:], " ")
			}

		case "facet":
			if len(fields) >= 5 && fields[1] == "normal" {
				v, err := parseVector(fields[2:5])
				if err != nil {
					return nil, fmt.Errorf("invalid facet normal: %w", err)
				}
				currentNormal = v
			}

		case "vertex":
			if len(fields) >= 4 {
				v, err := parseVector(fields[1:4])
				if err != nil {
					return nil, fmt.Errorf("invalid vertex: %w", err)
				}
				vertices = append(vertices, v)
			}

		case "endfacet":
			if len(vertices) == 3 {
				model.add(geometry.NewTriangle(currentNormal, vertices[0], vertices[1], vertices[2]))
			}
			vertices = vertices[:0]
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ASCII STL: %w", err)
	}

	return model, nil
}

func parseVector(fields []string) (geometry.Vector3, error) {
	var xyz [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return geometry.Vector3{}, err
		}
		xyz[i] = v
	}
	return geometry.FromArray(xyz), nil
}

type binaryTriangle struct {
	Normal     [3]float32
	V1, V2, V3 [3]float32
	Attribute  uint16
}

func parseBinary(reader io.Reader) (*Model, error) {
	model := newModel(EncodingBinary)

	header := make([]byte, binaryHeaderSize)
	if _, err := io.ReadFull(reader, header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	model.Name = strings.TrimSpace(string(bytes.TrimRight(header, "\x00")))

	var triangleCount uint32
	if err := binary.Read(reader, binary.LittleEndian, &triangleCount); err != nil {
		return nil, fmt.Errorf("failed to read triangle count: %w", err)
	}

	for i := uint32(0); i < triangleCount; i++ {
		var t binaryTriangle
		if err := binary.Read(reader, binary.LittleEndian, &t); err != nil {
			return nil, fmt.Errorf("failed to read triangle %d: %w", i, err)
		}
		model.add(geometry.NewTriangle(
			vec32(t.Normal), vec32(t.V1), vec32(t.V2), vec32(t.V3),
		))
	}

	return model, nil
}

func vec32(v [3]float32) geometry.Vector3 {
	return geometry.NewVector3(float64(v[0]), float64(v[1]), float64(v[2]))
}
