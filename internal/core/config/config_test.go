package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123456789abcdef"

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestReadFileAndDefaults(t *testing.T) {
	p := writeYAML(t, `
app:
  http:
    port: 9000
jwt:
  secret: "`+secret+`"
redis:
  addr: "localhost:6379"
`)
	c, err := Read(p)
	require.NoError(t, err)

	assert.Equal(t, 9000, c.App.HTTP.Port)
	assert.Equal(t, 8081, c.App.Admin.Port)
	assert.Equal(t, "localhost:6379", c.Redis.Addr)
	assert.Equal(t, "sqlite", c.DB.Driver)
	assert.Equal(t, time.Hour, c.JWT.AccessTTL())
	assert.Equal(t, 7*24*time.Hour, c.JWT.RefreshTTL())
	assert.Equal(t, 10*time.Second, c.Limits.Timeout())
	assert.Equal(t, 500.0, c.Limits.GlobalRPS)
	assert.Equal(t, 1000, c.Limits.GlobalBurst)
}

func TestReadEnvOverride(t *testing.T) {
	t.Setenv("APP_JWT_SECRET", secret)
	t.Setenv("APP_REDIS_ADDR", "cache:6380")
	t.Setenv("APP_APP_HTTP_PORT", "7000")

	c, err := Read(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", c.Redis.Addr)
	assert.Equal(t, 7000, c.App.HTTP.Port)
}

func TestReadRejectsShortSecret(t *testing.T) {
	p := writeYAML(t, "jwt:\n  secret: short\n")
	_, err := Read(p)
	assert.Error(t, err)
}

func TestValidateSeed(t *testing.T) {
	c := &Config{
		JWT:  JWT{Secret: secret, AccessTokenTTLMin: 1, RefreshTokenTTLDays: 1},
		Seed: Seed{AdminUsername: "root"},
	}
	assert.Error(t, c.Validate())
	c.Seed.AdminPassword = "change-me"
	assert.NoError(t, c.Validate())
}
