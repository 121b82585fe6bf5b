package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "whereisit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{}\n"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000", cfg.API.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, 6, cfg.Browse.DefaultLimit)
	assert.True(t, cfg.Auth.RevokeOnExit)
	assert.Equal(t, "table", cfg.Output.Format)
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, int64(5<<20), cfg.Thumbnail.MaxBytes)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: https://api.whereisit.example
  timeout: 30s
browse:
  default_limit: 8
logging:
  level: debug
`)
	t.Setenv("WHEREISIT_LOGGING_FORMAT", "json")
	t.Setenv("WHEREISIT_AUTH_REVOKE_ON_EXIT", "false")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.whereisit.example", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, 8, cfg.Browse.DefaultLimit)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.False(t, cfg.Auth.RevokeOnExit)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"relative base url", "api:\n  base_url: /api\n", "api.base_url must be an absolute URL"},
		{"ftp kratos url", "auth:\n  kratos_url: ftp://kratos\n", "auth.kratos_url must use http or https"},
		{"limit outside set", "browse:\n  default_limit: 10\n", "invalid browse.default_limit"},
		{"bad level", "logging:\n  level: trace\n", "invalid logging level"},
		{"bad format", "logging:\n  format: xml\n", "invalid logging format"},
		{"bad output", "output:\n  format: csv\n", "invalid output format"},
		{"sample ratio", "telemetry:\n  sample_ratio: 2\n", "telemetry.sample_ratio"},
		{"cache size", "thumbnail:\n  cache_size: 0\n", "thumbnail.cache_size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, validate(cfg))
}
