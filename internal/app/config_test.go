package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadServerConfigDefaults(t *testing.T) {
	cfg, err := LoadServerConfig("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, time.Hour, cfg.PurgeInterval.Std())
}

func TestLoadServerConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "courierd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"listen: \":9090\"\ndata_dir: /var/lib/courier\npurge_interval: 30m\n",
	), 0o600))

	cfg, err := LoadServerConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Listen)
	assert.Equal(t, "/var/lib/courier", cfg.DataDir)
	assert.Equal(t, 30*time.Minute, cfg.PurgeInterval.Std())

	// Environment wins over the file.
	t.Setenv("COURIER_LISTEN", ":7070")
	t.Setenv("COURIER_PURGE_INTERVAL", "5m")
	cfg, err = LoadServerConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Listen)
	assert.Equal(t, 5*time.Minute, cfg.PurgeInterval.Std())
}

func TestLoadServerConfigBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "courierd.yaml")
	require.NoError(t, os.WriteFile(path, []byte("purge_interval: soon\n"), 0o600))
	_, err := LoadServerConfig(path)
	assert.Error(t, err)
}
