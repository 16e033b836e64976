package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type App struct {
	Port        string `koanf:"app_port"`
	Env         string `koanf:"app_env"`
	BaseURL     string `koanf:"base_url"`
	DatabaseURL string `koanf:"database_url"`
	JWTSecret   string `koanf:"jwt_secret"`
	LogLevel    string `koanf:"log_level"`
	LogDir      string `koanf:"log_dir"`
	AutoMigrate bool   `koanf:"auto_migrate"`

	TokenTTL time.Duration `koanf:"token_ttl"`

	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// devSecret is only accepted when APP_ENV=dev.
const devSecret = "local_dev_secret"

func defaults() App {
	return App{
		Port:              "8080",
		Env:               "dev",
		BaseURL:           "/api/v1",
		JWTSecret:         devSecret,
		LogLevel:          "info",
		AutoMigrate:       true,
		TokenTTL:          24 * time.Hour,
		RateLimitRequests: 100,
		RateLimitWindow:   15 * time.Minute,
		CORSOrigins:       []string{"*"},
	}
}

func (a App) IsProduction() bool { return a.Env == "production" }

func (a App) Validate() error {
	var errs []error
	if a.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if a.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if a.JWTSecret == devSecret && a.Env != "dev" {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be set when APP_ENV=%s", a.Env))
	}
	if a.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if a.RateLimitRequests <= 0 || a.RateLimitWindow <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive"))
	}
	if a.BaseURL != "" && !strings.HasPrefix(a.BaseURL, "/") {
		errs = append(errs, fmt.Errorf("BASE_URL must start with '/', got %q", a.BaseURL))
	}
	return errors.Join(errs...)
}
