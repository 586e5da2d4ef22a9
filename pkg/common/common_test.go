package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDint64(t *testing.T) {
	seen := make(map[int64]bool)
	for i := 0; i < 1000; i++ {
		id := UUIDint64()
		assert.Positive(t, id)
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
}

func TestUUID(t *testing.T) {
	assert.NotEmpty(t, UUID())
	assert.NotEqual(t, UUID(), UUID())
}

func TestFileAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "x.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))

	require.NoError(t, FileAppend(path, "first"))
	require.NoError(t, FileAppend(path, "second"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(data))
	assert.True(t, FileExists(path))
	assert.False(t, FileExists(path+".missing"))
}
