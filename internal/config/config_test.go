package config

import (
	"strings"
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/food")
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("ALLOWED_CHAT_ID", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")
	t.Setenv("PORT", "")
	t.Setenv("PROMETHEUS_PORT", "")
	t.Setenv("SESSION_IDLE_TIMEOUT", "")
	t.Setenv("SEED_ON_EMPTY", "")

	cfg, err := fromEnv()
	if err != nil {
		t.Fatalf("fromEnv: %v", err)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" || cfg.Port != "8080" || cfg.PrometheusPort != "9090" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.SessionIdleTimeout != 30*time.Minute {
		t.Fatalf("session timeout = %v", cfg.SessionIdleTimeout)
	}
	if !cfg.SeedOnEmpty {
		t.Fatal("expected SeedOnEmpty default true")
	}
	if cfg.BotEnabled() {
		t.Fatal("bot should be disabled without a token")
	}
}

func TestFromEnvCollectsAllErrors(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("ALLOWED_CHAT_ID", "not-a-number")
	t.Setenv("SESSION_IDLE_TIMEOUT", "soon")
	t.Setenv("SEED_ON_EMPTY", "maybe")

	_, err := fromEnv()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"DATABASE_URL", "ALLOWED_CHAT_ID", "SESSION_IDLE_TIMEOUT", "SEED_ON_EMPTY"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err.Error(), want)
		}
	}
}

func TestFromEnvAllowedChat(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/food")
	t.Setenv("ALLOWED_CHAT_ID", "-100123")
	t.Setenv("TELEGRAM_TOKEN", "token")
	t.Setenv("SESSION_IDLE_TIMEOUT", "5m")
	t.Setenv("SEED_ON_EMPTY", "false")

	cfg, err := fromEnv()
	if err != nil {
		t.Fatalf("fromEnv: %v", err)
	}
	if cfg.AllowedChatID != -100123 {
		t.Errorf("AllowedChatID = %d", cfg.AllowedChatID)
	}
	if !cfg.BotEnabled() {
		t.Error("bot should be enabled")
	}
	if cfg.SeedOnEmpty {
		t.Error("SeedOnEmpty should be false")
	}
}
