package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// FileSuffix is appended to the model path to name its measurement file
const FileSuffix = ".usdzview.json"

const fileFormatVersion = "1.0"

// fileData is the JSON structure of a measurement file
type fileData struct {
	Version string `json:"version"`
	// Data carries the same encoded blob as a viewer link, so a file can be
	// turned into a link and back without loss.
	Data  string   `json:"data"`
	Pairs Snapshot `json:"pairs"`
}

// File keeps the snapshot in a JSON file next to the model
type File struct {
	Path string
}

// NewFile creates a file store for the model at modelPath
func NewFile(modelPath string) *File {
	return &File{Path: modelPath + FileSuffix}
}

// Save writes the snapshot; an empty snapshot removes the file
func (f *File) Save(s Snapshot) error {
	if len(s) == 0 {
		if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove measurements file: %w", err)
		}
		return nil
	}

	blob, err := Encode(s)
	if err != nil {
		return err
	}

	jsonData, err := json.MarshalIndent(fileData{
		Version: fileFormatVersion,
		Data:    blob,
		Pairs:   s,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal measurements: %w", err)
	}

	if err := os.WriteFile(f.Path, jsonData, 0o644); err != nil {
		return fmt.Errorf("failed to write measurements file: %w", err)
	}
	return nil
}

// Load reads the measurement file. A missing file means nothing is stored.
func (f *File) Load() (Snapshot, bool, error) {
	jsonData, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read measurements file: %w", err)
	}

	var data fileData
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if data.Pairs != nil {
		return data.Pairs, true, nil
	}
	if data.Data == "" {
		return Snapshot{}, true, nil
	}
	snap, err := Decode(data.Data)
	if err != nil {
		return nil, false, err
	}
	return snap, true, nil
}
