package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "raw", config.DefaultCodec)
	assert.Equal(t, "info", config.Logging.Level)
}

func TestLoadConfig(t *testing.T) {
	t.Run("load existing config", func(t *testing.T) {
		tmpDir, err := os.MkdirTemp("", "gersemi_config_test")
		require.NoError(t, err)
		defer os.RemoveAll(tmpDir)

		configPath := filepath.Join(tmpDir, "config.yaml")
		original := &Config{
			DefaultCodec: "bshuf-zstd",
			Logging:      Logging{Level: "debug"},
		}
		data, err := yaml.Marshal(original)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(configPath, data, 0644))

		loaded, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, original, loaded)
	})

	t.Run("missing config", func(t *testing.T) {
		_, err := LoadConfig("/nonexistent/config.yaml")
		assert.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		tmpDir, err := os.MkdirTemp("", "gersemi_config_test")
		require.NoError(t, err)
		defer os.RemoveAll(tmpDir)

		configPath := filepath.Join(tmpDir, "config.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("{not yaml"), 0644))

		_, err = LoadConfig(configPath)
		assert.Error(t, err)
	})
}

func TestSaveConfig(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "gersemi_config_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	// SaveConfig creates intermediate directories.
	configPath := filepath.Join(tmpDir, "nested", "config.yaml")
	config := DefaultConfig()
	require.NoError(t, SaveConfig(config, configPath))

	loaded, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, config, loaded)
}

func TestConfigExists(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "gersemi_config_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	configPath := filepath.Join(tmpDir, "config.yaml")
	assert.False(t, ConfigExists(configPath))

	require.NoError(t, os.WriteFile(configPath, []byte("default_codec: raw\n"), 0644))
	assert.True(t, ConfigExists(configPath))
}
