package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFullVersion(t *testing.T) {
	assert.Equal(t, "dev", GetFullVersion())

	Version, GitCommit, BuildDate = "1.2.0", "abc123", "2026-01-01"
	t.Cleanup(func() { Version, GitCommit, BuildDate = "dev", "unknown", "unknown" })

	assert.Equal(t, "1.2.0", GetVersion())
	assert.Equal(t, "1.2.0 (commit abc123, built 2026-01-01)", GetFullVersion())
}
