package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchDebouncesWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.stl")
	require.NoError(t, os.WriteFile(path, []byte("solid a"), 0o644))

	fw, err := NewFileWatcher(50*time.Millisecond, zerolog.Nop())
	require.NoError(t, err)
	defer fw.Close()

	changed := make(chan string, 10)
	require.NoError(t, fw.Watch([]string{path}, func(p string) { changed <- p }))
	fw.Start()

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("solid b"), 0o644))
	}

	select {
	case got := <-changed:
		abs, _ := filepath.Abs(path)
		assert.Equal(t, abs, got)
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
	}

	select {
	case <-changed:
		t.Fatal("writes were not debounced")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatchMissingFile(t *testing.T) {
	fw, err := NewFileWatcher(time.Millisecond, zerolog.Nop())
	require.NoError(t, err)
	defer fw.Close()

	err = fw.Watch([]string{filepath.Join(t.TempDir(), "missing.stl")}, func(string) {})
	assert.Error(t, err)
}

func TestRemoveAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.stl")
	require.NoError(t, os.WriteFile(path, []byte("solid a"), 0o644))

	fw, err := NewFileWatcher(time.Millisecond, zerolog.Nop())
	require.NoError(t, err)
	defer fw.Close()

	require.NoError(t, fw.Watch([]string{path}, func(string) {}))
	require.NoError(t, fw.RemoveAll())
	assert.Empty(t, fw.callbacks)
}
