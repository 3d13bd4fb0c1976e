package app

import (
	"testing"
	"time"

	"github.com/yungbote/ibdtrack-backend/internal/platform/logger"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "REDIS_ADDR", "USER_LOCK_TTL_SECONDS", "CORS_ALLOWED_ORIGINS", "OTEL_ENABLED", "POSTGRES_DSN"} {
		t.Setenv(k, "")
	}
	cfg := LoadConfig(logger.NewNop())
	if cfg.Port != "8080" {
		t.Fatalf("Port: want=8080 got=%s", cfg.Port)
	}
	if cfg.RedisAddr != "" || cfg.UserLockTTL != 30*time.Second {
		t.Fatalf("lock config: addr=%q ttl=%s", cfg.RedisAddr, cfg.UserLockTTL)
	}
	if cfg.AllowedOrigins != nil || cfg.Otel.Enabled {
		t.Fatalf("unexpected defaults: origins=%v otel=%v", cfg.AllowedOrigins, cfg.Otel.Enabled)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("USER_LOCK_TTL_SECONDS", "5")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("OTEL_SAMPLE_RATIO", "0.5")

	cfg := LoadConfig(logger.NewNop())
	if cfg.Port != "9090" || cfg.RedisAddr != "redis:6379" || cfg.UserLockTTL != 5*time.Second {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("AllowedOrigins: got=%v", cfg.AllowedOrigins)
	}
	if !cfg.Otel.Enabled || cfg.Otel.SampleRatio != 0.5 {
		t.Fatalf("otel: got=%+v", cfg.Otel)
	}
}
