package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the agent. It is loaded once at
// startup and never mutated afterwards.
type Config struct {
	// Server settings
	Port         int
	Host         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Authentication
	APIKey    string
	JWTSecret string

	// Security
	AllowedOrigins []string
	RateLimitRPS   int

	// Process kill policy
	KillAllowlist      []string
	KillRateLimitPerMin int

	// Summary defaults
	SummaryWindowSeconds int
	SummaryTopN          int

	// Logging
	LogLevel string
}

// DefaultKillAllowlist returns the process names that may be terminated
// without the unsafe override.
func DefaultKillAllowlist() []string {
	return []string{
		"python", "python3", "node",
		"chrome", "chromium", "firefox",
		"code", "slack", "discord",
	}
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load(getEnvFile())

	cfg := &Config{
		Port:                getEnvInt("PORT", 8092),
		Host:                getEnv("HOST", "0.0.0.0"),
		ReadTimeout:         time.Duration(getEnvInt("READ_TIMEOUT_SECONDS", 30)) * time.Second,
		WriteTimeout:        time.Duration(getEnvInt("WRITE_TIMEOUT_SECONDS", 120)) * time.Second,
		APIKey:              getEnv("API_KEY", ""),
		JWTSecret:           getEnv("JWT_SECRET", ""),
		AllowedOrigins:      getEnvSlice("ALLOWED_ORIGINS", []string{"*"}),
		RateLimitRPS:        getEnvInt("RATE_LIMIT_RPS", 100),
		KillAllowlist:       getEnvSlice("PROCESS_KILL_ALLOWLIST", DefaultKillAllowlist()),
		KillRateLimitPerMin: getEnvInt("PROCESS_KILL_RATE_LIMIT_PER_MIN", 2),
		SummaryWindowSeconds: getEnvInt("SUMMARY_WINDOW_SECONDS", 5),
		SummaryTopN:          getEnvInt("SUMMARY_TOP_N", 3),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY is required")
	}

	if cfg.JWTSecret == "" {
		// Use API key as fallback for JWT secret
		cfg.JWTSecret = cfg.APIKey
	}

	if cfg.KillRateLimitPerMin < 1 {
		cfg.KillRateLimitPerMin = 2
	}

	return cfg, nil
}

// getEnvFile returns the path to the .env file
func getEnvFile() string {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		return envFile
	}

	if _, err := os.Stat(".env"); err == nil {
		return ".env"
	}

	// Fall back to the executable's directory
	exe, err := os.Executable()
	if err == nil {
		dir := strings.TrimSuffix(exe, "/sysdash-agent")
		envPath := dir + "/.env"
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	return ".env"
}

// LoadWithDefaults loads config with defaults for testing
func LoadWithDefaults() *Config {
	return &Config{
		Port:                 8092,
		Host:                 "0.0.0.0",
		ReadTimeout:          30 * time.Second,
		WriteTimeout:         120 * time.Second,
		APIKey:               "test-api-key",
		JWTSecret:            "test-jwt-secret",
		AllowedOrigins:       []string{"*"},
		RateLimitRPS:         100,
		KillAllowlist:        DefaultKillAllowlist(),
		KillRateLimitPerMin:  2,
		SummaryWindowSeconds: 5,
		SummaryTopN:          3,
		LogLevel:             "info",
	}
}

// Addr returns the server address string
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		var out []string
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
