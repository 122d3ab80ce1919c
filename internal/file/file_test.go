package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("remember the milk"), 0644))

	f, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, path, f.Path)
	assert.Equal(t, "remember the milk", f.Content)
}

func TestReadRejectsBinary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image.bin")
	require.NoError(t, os.WriteFile(path, []byte{0xff, 0xfe, 0x00, 0x80}, 0644))

	_, err := Read(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not valid UTF-8")
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	expanded, err := ExpandPath("~/.ramana/config.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".ramana/config.json"), expanded)

	// Absolute paths pass through untouched.
	expanded, err = ExpandPath("/tmp/config.json")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/config.json", expanded)
}
