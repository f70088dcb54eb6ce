package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutEnvFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "hospital.db", cfg.DB.Path)
	assert.False(t, cfg.DB.ResetOnStart)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessExpiry)
	assert.Equal(t, "disable", cfg.DB.SSLMode)
	assert.Equal(t, 25, cfg.DB.MaxOpenConns)
	assert.Equal(t, 30*time.Minute, cfg.DB.ConnMaxLifetime)
	assert.Equal(t, 1.0, cfg.Login.RateLimit)
	assert.Equal(t, 5, cfg.Login.Burst)
}

func TestLoad_ReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "APP_PORT=9090\nDB_DRIVER=postgres\nDB_NAME=hospital\nREDIS_ENABLED=true\nJWT_ACCESS_EXPIRY=1h\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, "hospital", cfg.DB.Name)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, time.Hour, cfg.JWT.AccessExpiry)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("DB_PATH", "/tmp/clinic.db")
	t.Setenv("JWT_ACCESS_EXPIRY", "not-a-duration")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/tmp/clinic.db", cfg.DB.Path)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessExpiry)
}
