package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  host: 0.0.0.0
  port: 8080
database:
  host: db.internal
  port: 5432
  user: mycolog
  password: s3cret
  dbname: mycolog
  sslmode: disable
jwt:
  secret: signing-secret
  token_ttl: 12h
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, "host=db.internal port=5432 user=mycolog password=s3cret dbname=mycolog sslmode=disable",
		cfg.Database.DSN())
	assert.Equal(t, "signing-secret", cfg.JWT.Secret)
	assert.Equal(t, 12*time.Hour, cfg.JWT.TokenTTL)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_DefaultTokenTTL(t *testing.T) {
	path := writeConfig(t, `
jwt:
  secret: s
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, cfg.JWT.TokenTTL)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "{ not valid yaml")
	_, err := Load(path)
	require.Error(t, err)
}
