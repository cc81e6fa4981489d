package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("SESSION_COOKIE_NAME", "")
	t.Setenv("PAYMENT_LOCK_TTL", "")

	cfg := Load()

	if cfg.Server.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Auth.CookieName != "session_token" {
		t.Errorf("expected default cookie name, got %s", cfg.Auth.CookieName)
	}
	if cfg.Payment.LockTTL != 30*time.Second {
		t.Errorf("expected 30s lock ttl, got %v", cfg.Payment.LockTTL)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("DB_AUTO_MIGRATE", "false")
	t.Setenv("SESSION_COOKIE_MAX_AGE", "1h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg := Load()

	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Redis.DB != 3 {
		t.Errorf("expected redis db 3, got %d", cfg.Redis.DB)
	}
	if cfg.Database.AutoMigrate {
		t.Error("expected auto migrate disabled")
	}
	if cfg.Auth.CookieMaxAge != time.Hour {
		t.Errorf("expected 1h max age, got %v", cfg.Auth.CookieMaxAge)
	}
	if len(cfg.Server.AllowedOrigins) != 2 || cfg.Server.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("unexpected origins: %v", cfg.Server.AllowedOrigins)
	}
}

func TestGetIntEnv_InvalidFallsBack(t *testing.T) {
	t.Setenv("SOME_INT", "not-a-number")
	if got := getIntEnv("SOME_INT", 7); got != 7 {
		t.Errorf("expected fallback 7, got %d", got)
	}
}
