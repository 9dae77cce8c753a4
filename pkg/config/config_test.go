package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"ARANGO_URL", "ARANGO_DATABASE", "ARANGO_USERNAME", "ARANGO_PASSWORD", "ARANGO_TIMEOUT", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "http://localhost:8529", cfg.URL)
	assert.Equal(t, "_system", cfg.Database)
	assert.Equal(t, 30*time.Second, cfg.Timeout)

	cfg, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "arango.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
url: http://db:8529
database: shop
username: root
timeout: 5s
logging:
  level: debug
  format: json
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://db:8529", cfg.URL)
	assert.Equal(t, "shop", cfg.Database)
	assert.Equal(t, "root", cfg.Username)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, LoggingConfig{Level: "debug", Format: "json"}, cfg.Logging)

	t.Setenv("ARANGO_DATABASE", "audit")
	t.Setenv("ARANGO_PASSWORD", "secret")
	t.Setenv("ARANGO_TIMEOUT", "1m")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "audit", cfg.Database)
	assert.Equal(t, "secret", cfg.Password)
	assert.Equal(t, time.Minute, cfg.Timeout)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	t.Run("invalid timeout", func(t *testing.T) {
		t.Setenv("ARANGO_TIMEOUT", "soon")
		_, err := Load("")
		assert.ErrorContains(t, err, "ARANGO_TIMEOUT")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("url: [unterminated"), 0o644))
		_, err := Load(path)
		assert.ErrorContains(t, err, "failed to parse config file")
	})

	t.Run("path is a directory", func(t *testing.T) {
		_, err := Load(t.TempDir())
		assert.ErrorContains(t, err, "failed to read config file")
	})
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())

	cfg.URL = ""
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Timeout = -time.Second
	assert.Error(t, cfg.Validate())
}
