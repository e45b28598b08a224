package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Database drivers understood by database.Open.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all configuration for the application
type Config struct {
	Env Environment

	// Server configuration
	ServerPort  string
	ServerHost  string
	CORSOrigins []string

	// Database configuration
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// Password reset codes
	OTPTTL time.Duration

	// SMTP configuration; empty host means emails are logged instead of sent
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	EmailFrom    string
	EmailName    string

	// Write rate limiting
	RateLimitWindow time.Duration
	RateLimitWrites int

	// Recipe export storage; empty bucket disables uploads
	S3Bucket string
	S3Region string
}

// LoadConfig builds a Config from environment variables, falling back to
// Docker secrets for sensitive values, and validates it.
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{
		Env:         env,
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		ServerHost:  getEnv("SERVER_HOST", "0.0.0.0"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getSecret("DB_USER", "db_user", "postgres"),
		DBPassword: getSecret("DB_PASSWORD", "db_password", ""),
		DBName:     getEnv("DB_NAME", "recipebook"),
		DBSSLMode:  getEnv("DB_SSL_MODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "recipebook.db"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getSecret("REDIS_PASSWORD", "redis_password", ""),
		RedisURL:      getSecret("REDIS_URL", "redis_url", ""),

		JWTSecret:       getSecret("JWT_SECRET", "jwt_secret", ""),
		AccessTokenTTL:  getDuration("ACCESS_TOKEN_TTL", 60*time.Minute),
		RefreshTokenTTL: getDuration("REFRESH_TOKEN_TTL", 24*time.Hour),
		OTPTTL:          getDuration("OTP_TTL", 10*time.Minute),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUsername: getSecret("SMTP_USERNAME", "smtp_username", ""),
		SMTPPassword: getSecret("SMTP_PASSWORD", "smtp_password", ""),
		EmailFrom:    getEnv("EMAIL_FROM", "no-reply@recipebook.local"),
		EmailName:    getEnv("EMAIL_FROM_NAME", "Recipebook"),

		RateLimitWindow: getDuration("RATE_LIMIT_WINDOW", time.Hour),
		RateLimitWrites: getInt("RATE_LIMIT_WRITES", 100),

		S3Bucket: getEnv("S3_BUCKET_NAME", ""),
		S3Region: getEnv("AWS_REGION", "us-east-1"),
	}

	redisDB := getInt("REDIS_DB", 0)
	cfg.RedisDB = redisDB

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// PostgresDSN renders the connection string for the postgres driver.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// SMTPConfigured reports whether outgoing mail can be delivered.
func (c *Config) SMTPConfigured() bool {
	return c.SMTPHost != "" && c.SMTPPort != ""
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

// getSecret prefers the environment variable, then the Docker secret file.
func getSecret(envKey, secretName, fallback string) string {
	if v := getEnv(envKey, ""); v != "" {
		return v
	}
	if v := readSecret(secretName); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// getDuration accepts Go durations ("15m") or plain seconds ("900").
func getDuration(key string, fallback time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
