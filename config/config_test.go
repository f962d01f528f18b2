package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rkarimi/rolodex/pkg/logging"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultUserID, cfg.UserID)
	assert.Equal(t, OutputFormatText, cfg.Output)
	assert.Equal(t, "rolodex", cfg.Database.Database)
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultUserID, cfg.UserID)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
user_id: reza
database:
  host: db.home.arpa
  port: 6432
redis:
  addr: localhost:6379
log:
  level: debug
output: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "reza", cfg.UserID)
	assert.Equal(t, "db.home.arpa", cfg.Database.Host)
	assert.Equal(t, 6432, cfg.Database.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, logging.LevelDebug, cfg.Log.Level)
	assert.Equal(t, OutputFormatJSON, cfg.Output)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("ROLODEX_USER_ID", "env-user")
	t.Setenv("ROLODEX_DB_PASSWORD", "hunter2")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "env-user", cfg.UserID)
	assert.Equal(t, "hunter2", cfg.Database.Password)
}

func TestLoadRejectsBadOutputFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output: xml\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := Default()
	cfg.UserID = "saved"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "saved", loaded.UserID)
}

func TestDBConfig(t *testing.T) {
	cfg := Default()
	cfg.Database.Host = "pg.internal"
	cfg.Database.Password = "s3cret"

	dbCfg := cfg.DBConfig()
	assert.Equal(t, "pg.internal", dbCfg.Host)
	assert.Equal(t, "s3cret", dbCfg.Password)
	// Pool sizing keeps package defaults.
	assert.Positive(t, dbCfg.MaxConns)
}
