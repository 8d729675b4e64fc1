//go:build linux

package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCacheSize(t *testing.T) {
	for s, want := range map[string]uint64{"32K": 32 * 1024, "2M": 2 * 1024 * 1024, "512": 512} {
		got, ok := parseCacheSize(s)
		assert.True(t, ok, s)
		assert.Equal(t, want, got, s)
	}
	_, ok := parseCacheSize("lots")
	assert.False(t, ok)
	_, ok = parseCacheSize("")
	assert.False(t, ok)
}

func TestTotalMemory(t *testing.T) {
	total, ok := totalMemory()
	assert.True(t, ok)
	assert.Greater(t, total, uint64(0))
}
