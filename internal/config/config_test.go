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
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsAndFile(t *testing.T) {
	path := writeConfig(t, `
env: local
http_server:
  address: 0.0.0.0:8080
db:
  user: sales
  name: dashboard
report:
  key_order: sorted
cors_origins:
  - http://example.test
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "0.0.0.0:8080", cfg.Address)
	assert.Equal(t, 4*time.Second, cfg.HTTPServer.Timeout)
	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, 3306, cfg.DB.Port)
	assert.True(t, cfg.DB.ParseTime)
	assert.Equal(t, "sorted", cfg.Report.KeyOrder)
	assert.Equal(t, 10*time.Second, cfg.Report.ExcelTimeout)
	assert.Equal(t, 500, cfg.Loader.BatchSize)
	assert.Equal(t, int64(10485760), cfg.Loader.MaxBytes)
	assert.Equal(t, []string{"http://example.test"}, cfg.CORSOrigins)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
db:
  user: sales
  name: dashboard
`)
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("REPORT_KEY_ORDER", "first-seen")
	t.Setenv("LOADER_BATCH_SIZE", "50")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, "first-seen", cfg.Report.KeyOrder)
	assert.Equal(t, 50, cfg.Loader.BatchSize)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "db:\n  user: [unclosed\n"))
	assert.Error(t, err)
}
