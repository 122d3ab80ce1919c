package configuration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInitializesDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	config, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, "https://router.huggingface.co/v1", config.APIHost)
	assert.Equal(t, defaultConfig.DefaultModel, config.DefaultModel)
	assert.True(t, config.HasModel(config.DefaultModel))

	// The default file now exists on disk.
	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestParseEnvironmentOverrides(t *testing.T) {
	t.Setenv("HF_TOKEN", "env-token")
	t.Setenv("RAMANA_AUTH_URL", "https://auth.example.com")
	t.Setenv("RAMANA_AUTH_KEY", "env-key")

	config, err := Parse(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	assert.Equal(t, "env-token", config.APIToken)
	assert.Equal(t, "https://auth.example.com", config.AuthURL)
	assert.Equal(t, "env-key", config.AuthKey)
}

func TestHasModel(t *testing.T) {
	config := &Config{Models: []string{"model-a", "model-b"}}
	assert.True(t, config.HasModel("model-a"))
	assert.False(t, config.HasModel("model-c"))
}
