package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultDatabaseURL   = "realstate.db"
	defaultListenAddr    = ":8080"
	defaultJWTSecret     = "change-me-jwt-secret"
	defaultUserTokenTTL  = "1h"
	defaultAdminTokenTTL = "8h"
	defaultRefreshTTL    = "168h"
)

type Config struct {
	AppEnv        string
	DatabaseURL   string
	ListenAddr    string
	JWTSecret     string
	UserTokenTTL  time.Duration
	AdminTokenTTL time.Duration
	RefreshTTL    time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.DatabaseURL = getEnv("DATABASE_URL", defaultDatabaseURL)
	cfg.ListenAddr = getEnv("LISTEN_ADDR", defaultListenAddr)
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))

	var err error
	cfg.UserTokenTTL, err = parseDurationEnv("JWT_USER_TTL", defaultUserTokenTTL)
	if err != nil {
		return nil, err
	}
	cfg.AdminTokenTTL, err = parseDurationEnv("JWT_ADMIN_TTL", defaultAdminTokenTTL)
	if err != nil {
		return nil, err
	}
	cfg.RefreshTTL, err = parseDurationEnv("REFRESH_TTL", defaultRefreshTTL)
	if err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.UserTokenTTL <= 0 || cfg.AdminTokenTTL <= 0 {
		return fmt.Errorf("JWT token TTLs must be > 0")
	}
	if cfg.RefreshTTL <= 0 {
		return fmt.Errorf("REFRESH_TTL must be > 0")
	}
	if IsProdLike(cfg.AppEnv) && cfg.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
	}
	return nil
}

func IsProdLike(env string) bool {
	return env == "prod" || env == "production" || env == "release"
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
