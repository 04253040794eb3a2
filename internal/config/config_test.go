package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "redkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, "address: 127.0.0.1:6379\nlog_file: /tmp/redkit.log\nverbose: true\ntimeout_secs: 30\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:6379", cfg.Address)
	assert.Equal(t, "/tmp/redkit.log", cfg.LogFile)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, 30, cfg.TimeoutSecs)
}

func TestLoadRejectsEmptyAddress(t *testing.T) {
	path := writeConfig(t, "log_file: /tmp/redkit.log\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsNegativeTimeout(t *testing.T) {
	path := writeConfig(t, "address: 127.0.0.1:6379\ntimeout_secs: -1\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
