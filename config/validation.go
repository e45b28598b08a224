package config

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks the configuration against the rules for its environment.
// All problems are reported at once, joined.
func ValidateConfig(cfg *Config) error {
	var errs []error

	if cfg.ServerPort == "" {
		errs = append(errs, ValidationError{Field: "SERVER_PORT", Message: "is required"})
	}

	switch cfg.DBDriver {
	case DriverPostgres:
		if cfg.DBHost == "" || cfg.DBName == "" {
			errs = append(errs, ValidationError{Field: "DB_HOST/DB_NAME", Message: "are required for postgres"})
		}
	case DriverSQLite:
		if cfg.IsProduction() {
			errs = append(errs, ValidationError{Field: "DB_DRIVER", Message: "sqlite is not allowed in production"})
		}
		if cfg.SQLitePath == "" {
			errs = append(errs, ValidationError{Field: "SQLITE_PATH", Message: "is required for sqlite"})
		}
	default:
		errs = append(errs, ValidationError{Field: "DB_DRIVER", Message: fmt.Sprintf("unsupported driver %q", cfg.DBDriver)})
	}

	if cfg.JWTSecret == "" {
		errs = append(errs, ValidationError{Field: "JWT_SECRET", Message: "is required (env or jwt_secret secret)"})
	} else if cfg.IsProduction() && len(cfg.JWTSecret) < 32 {
		errs = append(errs, ValidationError{Field: "JWT_SECRET", Message: "must be at least 32 characters in production"})
	}

	if cfg.IsProduction() && cfg.DBDriver == DriverPostgres && cfg.DBPassword == "" {
		errs = append(errs, ValidationError{Field: "DB_PASSWORD", Message: "db_password secret is required"})
	}

	if cfg.AccessTokenTTL <= 0 {
		errs = append(errs, ValidationError{Field: "ACCESS_TOKEN_TTL", Message: "must be positive"})
	}
	if cfg.RefreshTokenTTL < cfg.AccessTokenTTL {
		errs = append(errs, ValidationError{Field: "REFRESH_TOKEN_TTL", Message: "must not be shorter than ACCESS_TOKEN_TTL"})
	}
	if cfg.OTPTTL <= 0 {
		errs = append(errs, ValidationError{Field: "OTP_TTL", Message: "must be positive"})
	}
	if cfg.RateLimitWrites < 0 {
		errs = append(errs, ValidationError{Field: "RATE_LIMIT_WRITES", Message: "must not be negative"})
	}

	for _, origin := range cfg.CORSOrigins {
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			errs = append(errs, ValidationError{Field: "CORS_ORIGINS", Message: fmt.Sprintf("bad origin %q", origin)})
		}
	}

	return errors.Join(errs...)
}
