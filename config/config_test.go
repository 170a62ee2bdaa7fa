package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "APP_PORT=9090\nJWT_SECRET=s3cret\nJWT_ACCESS_EXPIRY=30m\nDB_NAME=medilink\nDB_AUTO_MIGRATE=false\nREDIS_DB=2\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfigFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, 30*time.Minute, cfg.JWT.AccessExpiry)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshExpiry)
	assert.Equal(t, "medilink", cfg.DB.Name)
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.False(t, cfg.DB.AutoMigrate)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "/storage", cfg.Storage.URLPrefix)
	assert.Equal(t, 10, cfg.RateLimit.Burst)
}

func TestLoadConfigWithoutFileUsesEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("APP_PORT", "7070")

	cfg, err := LoadConfigFrom(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, "7070", cfg.App.Port)
}

func TestLoadConfigRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := LoadConfigFrom(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}
