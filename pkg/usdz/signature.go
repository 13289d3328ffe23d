// Package usdz recognizes USDZ packages and converts them into STL
// geometry with an external tool.
package usdz

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/h2non/filetype"
)

// ErrBadSignature is returned when data does not start like a USDZ package
var ErrBadSignature = errors.New("not a USDZ file: invalid zip signature")

// Signature is the local file header magic every USDZ package starts with
var Signature = []byte{0x50, 0x4B, 0x03, 0x04}

// headerSize covers what filetype needs to recognize a zip archive
const headerSize = 262

// IsValid reports whether header carries the USDZ (zip) signature.
// USDZ packages are uncompressed zip archives, so the first entry's local
// file header must come first; spanned or empty archives are rejected.
func IsValid(header []byte) bool {
	if !bytes.HasPrefix(header, Signature) {
		return false
	}
	return filetype.Is(header, "zip")
}

// Check reads the leading bytes of r and verifies the signature
func Check(r io.Reader) error {
	header := make([]byte, headerSize)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to read header: %w", err)
	}
	if !IsValid(header[:n]) {
		return ErrBadSignature
	}
	return nil
}

// CheckFile verifies the signature of a file on disk
func CheckFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if err := Check(file); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
