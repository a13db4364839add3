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

func TestLoad_FileAndDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  cors_origins: ["https://app.example.com"]
database:
  driver: memory
auth:
  jwt_secret: file-secret
billing:
  trial_days: 30
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, "file-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 30, cfg.Billing.TrialDays)

	assert.Equal(t, 30, cfg.Billing.InvoiceDueDays)
	assert.Equal(t, int64(5000), cfg.Billing.DefaultLateFee)
	assert.Equal(t, 7*24*time.Hour, cfg.Billing.InviteTTL)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, time.Hour, cfg.Sweeper.Interval)
}

func TestLoad_EnvironmentWins(t *testing.T) {
	path := writeConfig(t, `
auth:
  jwt_secret: file-secret
server:
  port: 9090
`)
	t.Setenv("PROPERTY_AUTH_JWT_SECRET", "env-secret")
	t.Setenv("PROPERTY_SERVER_PORT", "7070")
	t.Setenv("PROPERTY_SERVER_RATE_LIMIT_RPS", "2.5")
	t.Setenv("PROPERTY_BILLING_INVITE_TTL", "48h")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, 2.5, cfg.Server.RateLimitRPS)
	assert.Equal(t, 48*time.Hour, cfg.Billing.InviteTTL)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestLoad_RequiresSecret(t *testing.T) {
	path := writeConfig(t, "database:\n  driver: memory\n")

	_, err := Load(path)
	assert.ErrorContains(t, err, "auth.jwt_secret is required")
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{Driver: "mysql"},
		Server:   ServerConfig{Port: 0},
		Billing:  BillingConfig{InvoiceDueDays: 0},
	}

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"database.driver", "jwt_secret", "server.port", "invoice_due_days"} {
		assert.Contains(t, err.Error(), want)
	}
}
