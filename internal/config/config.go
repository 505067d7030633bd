package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

const (
	defaultDatabaseURL      = "investhub.db"
	defaultPort             = "8080"
	defaultJWTSecret        = "change-me-jwt-secret"
	defaultJWTAccessTTL     = "24h"
	defaultVerifyCodeTTL    = "5m"
	defaultVerifyResend     = "60s"
	defaultVerifyCodePepper = "change-me-verification-pepper"
	defaultUploadsDir       = "./uploads"
	defaultPublicBaseURL    = "http://localhost:8080"
	defaultAdminAlertEmail  = "compliance@investhub.local"
)

// Config is the process-wide runtime configuration, loaded once at startup.
type Config struct {
	AppEnv                 string
	DatabaseURL            string
	Port                   string
	JWTSecret              string
	JWTAccessTTL           time.Duration
	VerificationCodePepper string
	VerifyCodeTTL          time.Duration
	VerifyResendCooldown   time.Duration
	UploadsDir             string
	PublicBaseURL          string
	AdminAlertEmail        string

	// Bootstrap credentials for the first admin account. Empty values skip
	// the bootstrap step entirely.
	AdminEmail    string
	AdminPassword string
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.DatabaseURL = getEnv("DATABASE_URL", defaultDatabaseURL)
	cfg.Port = getEnv("PORT", defaultPort)
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.VerificationCodePepper = strings.TrimSpace(getEnv("VERIFICATION_CODE_PEPPER", defaultVerifyCodePepper))
	cfg.UploadsDir = getEnv("UPLOADS_DIR", defaultUploadsDir)
	cfg.PublicBaseURL = strings.TrimRight(getEnv("PUBLIC_BASE_URL", defaultPublicBaseURL), "/")
	cfg.AdminAlertEmail = getEnv("ADMIN_ALERT_EMAIL", defaultAdminAlertEmail)
	cfg.AdminEmail = strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL")))
	cfg.AdminPassword = os.Getenv("ADMIN_PASSWORD")

	var err error
	cfg.JWTAccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultJWTAccessTTL)
	if err != nil {
		return nil, err
	}
	cfg.VerifyCodeTTL, err = parseDurationEnv("VERIFY_CODE_TTL", defaultVerifyCodeTTL)
	if err != nil {
		return nil, err
	}
	cfg.VerifyResendCooldown, err = parseDurationEnv("VERIFY_RESEND_COOLDOWN", defaultVerifyResend)
	if err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	log.Printf("config: env=%s db=%s uploads=%s base_url=%s", cfg.AppEnv, describeDSN(cfg.DatabaseURL), cfg.UploadsDir, cfg.PublicBaseURL)

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.JWTAccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if cfg.VerifyCodeTTL <= 0 {
		return fmt.Errorf("VERIFY_CODE_TTL must be > 0")
	}
	if cfg.VerifyResendCooldown <= 0 {
		return fmt.Errorf("VERIFY_RESEND_COOLDOWN must be > 0")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if isEmptyOrDefault(cfg.VerificationCodePepper, defaultVerifyCodePepper) {
			return fmt.Errorf("in prod/release VERIFICATION_CODE_PEPPER must be set and not default")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func describeDSN(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return "postgres"
	}
	return dsn
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
