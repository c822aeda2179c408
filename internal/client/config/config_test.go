package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv(EnvServerURL, "")
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultServerURL, cfg.ServerURL)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "state"), cfg.StateDir)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 300*time.Millisecond, cfg.SearchDebounce)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, path, cfg.Path())
}

func TestLoad_File(t *testing.T) {
	t.Setenv(EnvServerURL, "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server_url: https://notes.example.com/
request_timeout: 5s
search_debounce: 150ms
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://notes.example.com", cfg.ServerURL)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 150*time.Millisecond, cfg.SearchDebounce)
	assert.Equal(t, "warn", cfg.LogLevel, "absent fields keep defaults")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server_url: http://file:8000\n"), 0o644))
	t.Setenv(EnvServerURL, "http://env:9000")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://env:9000", cfg.ServerURL)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv(EnvServerURL, "")
	tests := map[string]string{
		"bad yaml":          "server_url: [",
		"bad scheme":        "server_url: ftp://x\n",
		"zero timeout":      "request_timeout: 0s\n",
		"negative debounce": "search_debounce: -1s\n",
		"bad level":         "log_level: chatty\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	t.Setenv(EnvServerURL, "")
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default(path)
	cfg.SearchDebounce = time.Second
	require.NoError(t, cfg.Save())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
