package persist

import (
	"errors"

	"github.com/rs/zerolog"
)

// Port stores and retrieves the measurement snapshot
type Port interface {
	// Save replaces the stored snapshot
	Save(Snapshot) error
	// Load returns the stored snapshot; ok is false when nothing is stored
	Load() (snap Snapshot, ok bool, err error)
}

// LoadOrEmpty loads from port and never fails. Decode errors are logged
// and treated as no prior state.
func LoadOrEmpty(port Port, log zerolog.Logger) Snapshot {
	if port == nil {
		return Snapshot{}
	}
	snap, ok, err := port.Load()
	if err != nil {
		ev := log.Warn().Err(err)
		if errors.Is(err, ErrMalformed) {
			ev = ev.Bool("malformed", true)
		}
		ev.Msg("ignoring stored measurements")
		return Snapshot{}
	}
	if !ok || snap == nil {
		return Snapshot{}
	}
	return snap
}

// Nop discards saves and never has anything stored
type Nop struct{}

func (Nop) Save(Snapshot) error { return nil }

func (Nop) Load() (Snapshot, bool, error) { return nil, false, nil }

// Memory keeps the snapshot in memory; useful for tests and headless runs
type Memory struct {
	snap  Snapshot
	saved bool
	Saves int
}

func (m *Memory) Save(s Snapshot) error {
	m.snap = append(Snapshot(nil), s...)
	m.saved = true
	m.Saves++
	return nil
}

func (m *Memory) Load() (Snapshot, bool, error) {
	if !m.saved {
		return nil, false, nil
	}
	return append(Snapshot(nil), m.snap...), true, nil
}
