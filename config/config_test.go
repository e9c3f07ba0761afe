package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{
		"JWT_SECRET", "CLIENT_URL", "PORT", "STORAGE_DRIVER", "SESSION_TTL", "ACTION_TOKEN_TTL",
		"COOKIE_NAME", "BCRYPT_COST", "SINGLE_USE_ACTION_TOKENS", "VERIFY_EMAIL_URL",
		"RESET_PASSWORD_URL", "CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, StoragePostgres, cfg.StorageDriver)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, time.Hour, cfg.ActionTokenTTL)
	assert.Equal(t, "token", cfg.CookieName)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.True(t, cfg.SingleUseActionTokens)
	assert.Equal(t, "http://localhost:5173/verify", cfg.VerifyEmailURL)
	assert.Equal(t, "http://localhost:5173/reset-password", cfg.ResetPasswordURL)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CLIENT_URL", "https://blog.example.com/")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("SINGLE_USE_ACTION_TOKENS", "false")
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("ELASTICSEARCH_ADDRS", "http://es1:9200,http://es2:9200")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "https://blog.example.com", cfg.ClientURL)
	assert.Equal(t, "https://blog.example.com/verify", cfg.VerifyEmailURL)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins())
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.False(t, cfg.SingleUseActionTokens)
	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, []string{"http://es1:9200", "http://es2:9200"}, cfg.ESAddrs())
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("SESSION_TTL", "soon")
	t.Setenv("BCRYPT_COST", "high")
	t.Setenv("COOKIE_SECURE", "maybe")

	cfg := Load()

	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.False(t, cfg.CookieSecure)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{JWTSecret: "s", StorageDriver: StorageMemory, MailTransport: MailTransportLog}
	}

	require.NoError(t, base().Validate())

	c := base()
	c.JWTSecret = "  "
	assert.True(t, errors.Is(c.Validate(), ErrMissingJWTSecret))

	c = base()
	c.StorageDriver = "mongo"
	assert.Error(t, c.Validate())

	c = base()
	c.MailTransport = "smtp"
	assert.Error(t, c.Validate())
}

func TestPostgresDSN(t *testing.T) {
	c := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5432", DBName: "d", DBSSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:5432/d?sslmode=disable", c.PostgresDSN())

	c.DatabaseURL = "postgres://override"
	assert.Equal(t, "postgres://override", c.PostgresDSN())
}
