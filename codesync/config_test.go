package codesync

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	def := DefaultConfig()
	assert.Equal(t, def, *cfg)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codesync.yaml")
	content := []byte("url: ws://collab.local/ws\nhandshake_timeout: 3s\nmax_reconnect_tries: 9\nauto_reconnect: false\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))
	t.Setenv("CODESYNC_MAX_RECONNECT_TRIES", "2")
	t.Setenv("CODESYNC_RECONNECT_INTERVAL", "250ms")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "ws://collab.local/ws", cfg.URL)
	assert.Equal(t, 3*time.Second, cfg.HandshakeTimeout)
	assert.Equal(t, 2, cfg.MaxReconnectTries)
	assert.Equal(t, 250*time.Millisecond, cfg.ReconnectInterval)
	assert.False(t, cfg.AutoReconnect)
	assert.Equal(t, DefaultConfig().QueueSize, cfg.QueueSize)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	assert.Error(t, cfg.Validate())

	cfg.URL = "http://collab.local"
	assert.Error(t, cfg.Validate())

	cfg.URL = "wss://collab.local/ws"
	assert.NoError(t, cfg.Validate())

	cfg.MaxReconnectTries = -1
	assert.Error(t, cfg.Validate())
}
