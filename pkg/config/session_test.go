package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionConfigLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")

	cfg := DefaultSessionConfig()
	cfg.Host = "192.168.1.50"
	cfg.Port = 8080
	cfg.PDOMappingPath = "mapping.json"
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadSessionConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.50", loaded.Host)
	assert.Equal(t, 8080, loaded.Port)
	assert.Equal(t, "192.168.1.50:8080", loaded.Addr())
	assert.Equal(t, cfg.ReadTimeout, loaded.ReadTimeout)
}

func TestSessionConfigLoadMissingFile(t *testing.T) {
	_, err := LoadSessionConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
