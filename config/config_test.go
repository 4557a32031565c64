package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWithDefaults(t *testing.T) {
	cfg := LoadWithDefaults()

	assert.NotNil(t, cfg)
	assert.Equal(t, 8092, cfg.Port)
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, "test-api-key", cfg.APIKey)
	assert.Equal(t, 2, cfg.KillRateLimitPerMin)
	assert.Equal(t, 5, cfg.SummaryWindowSeconds)
	assert.Equal(t, 3, cfg.SummaryTopN)
	assert.NotEmpty(t, cfg.KillAllowlist)
}

func TestLoadMissingAPIKey(t *testing.T) {
	os.Unsetenv("API_KEY")

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "API_KEY is required")
}

func TestLoadWithEnvVars(t *testing.T) {
	os.Setenv("API_KEY", "my-test-key")
	os.Setenv("PORT", "9000")
	os.Setenv("PROCESS_KILL_ALLOWLIST", "python, node ,redis-server")
	os.Setenv("PROCESS_KILL_RATE_LIMIT_PER_MIN", "5")
	os.Setenv("SUMMARY_TOP_N", "7")
	defer func() {
		os.Unsetenv("API_KEY")
		os.Unsetenv("PORT")
		os.Unsetenv("PROCESS_KILL_ALLOWLIST")
		os.Unsetenv("PROCESS_KILL_RATE_LIMIT_PER_MIN")
		os.Unsetenv("SUMMARY_TOP_N")
	}()

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "my-test-key", cfg.APIKey)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, []string{"python", "node", "redis-server"}, cfg.KillAllowlist)
	assert.Equal(t, 5, cfg.KillRateLimitPerMin)
	assert.Equal(t, 7, cfg.SummaryTopN)
}

func TestLoadMalformedIntFallsBack(t *testing.T) {
	os.Setenv("API_KEY", "my-test-key")
	os.Setenv("PROCESS_KILL_RATE_LIMIT_PER_MIN", "not-a-number")
	defer func() {
		os.Unsetenv("API_KEY")
		os.Unsetenv("PROCESS_KILL_RATE_LIMIT_PER_MIN")
	}()

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.KillRateLimitPerMin)
}

func TestJWTSecretFallsBackToAPIKey(t *testing.T) {
	os.Setenv("API_KEY", "my-test-key")
	os.Unsetenv("JWT_SECRET")
	defer os.Unsetenv("API_KEY")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "my-test-key", cfg.JWTSecret)
}

func TestConfigAddr(t *testing.T) {
	cfg := LoadWithDefaults()
	assert.Equal(t, "0.0.0.0:8092", cfg.Addr())
}
