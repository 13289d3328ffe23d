// Package persist encodes measurement pairs into a compact URL-safe blob
// and stores them through pluggable backends.
package persist

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrMalformed is returned for blobs that cannot be decoded
var ErrMalformed = errors.New("malformed measurement data")

// Record is one persisted pair
type Record struct {
	Sphere1  [3]float64 `json:"sphere1"`
	Sphere2  [3]float64 `json:"sphere2"`
	Color    string     `json:"color"`
	Distance float64    `json:"distance"`
}

// Snapshot is the ordered list of persisted pairs, in creation order
type Snapshot []Record

// Len returns the number of pairs
func (s Snapshot) Len() int {
	return len(s)
}

// Encode serializes s as URL-escaped base64 of its JSON array form
func Encode(s Snapshot) (string, error) {
	if s == nil {
		s = Snapshot{}
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return url.QueryEscape(base64.StdEncoding.EncodeToString(raw)), nil
}

// wireRecord accepts any coordinate count so short arrays can be rejected
type wireRecord struct {
	Sphere1  []float64 `json:"sphere1"`
	Sphere2  []float64 `json:"sphere2"`
	Color    string    `json:"color"`
	Distance float64   `json:"distance"`
}

// Decode parses a blob produced by Encode
func Decode(blob string) (Snapshot, error) {
	blob = strings.TrimSpace(blob)
	if blob == "" {
		return nil, fmt.Errorf("%w: empty", ErrMalformed)
	}

	unescaped, err := url.QueryUnescape(blob)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	// Unescaped links turn '+' into a space
	unescaped = strings.ReplaceAll(unescaped, " ", "+")

	raw, err := base64.StdEncoding.DecodeString(unescaped)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var wire []wireRecord
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	snap := make(Snapshot, 0, len(wire))
	for i, w := range wire {
		if len(w.Sphere1) != 3 || len(w.Sphere2) != 3 {
			return nil, fmt.Errorf("%w: pair %d needs two points with three coordinates", ErrMalformed, i)
		}
		snap = append(snap, Record{
			Sphere1:  [3]float64{w.Sphere1[0], w.Sphere1[1], w.Sphere1[2]},
			Sphere2:  [3]float64{w.Sphere2[0], w.Sphere2[1], w.Sphere2[2]},
			Color:    w.Color,
			Distance: w.Distance,
		})
	}
	return snap, nil
}
