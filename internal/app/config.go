package app

import (
	"os"
	"strings"
	"time"

	"github.com/yungbote/ibdtrack-backend/internal/data/db"
	"github.com/yungbote/ibdtrack-backend/internal/observability"
	"github.com/yungbote/ibdtrack-backend/internal/platform/envutil"
	"github.com/yungbote/ibdtrack-backend/internal/platform/logger"
)

type Config struct {
	Port     string
	Postgres db.PostgresConfig

	// RedisAddr empty means per-user locks are in-process only.
	RedisAddr   string
	UserLockTTL time.Duration

	JWTSecretKey   string
	AllowedOrigins []string

	Otel observability.OtelConfig
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		Port: getEnv(log, "PORT", "8080"),
		Postgres: db.PostgresConfig{
			DSN:      envutil.String("POSTGRES_DSN", ""),
			Host:     getEnv(log, "POSTGRES_HOST", "localhost"),
			Port:     getEnv(log, "POSTGRES_PORT", "5432"),
			User:     getEnv(log, "POSTGRES_USER", "postgres"),
			Password: envutil.String("POSTGRES_PASSWORD", ""),
			Name:     getEnv(log, "POSTGRES_NAME", "ibdtrack"),
		},
		RedisAddr:      envutil.String("REDIS_ADDR", ""),
		UserLockTTL:    envutil.Seconds("USER_LOCK_TTL_SECONDS", 30*time.Second),
		JWTSecretKey:   getEnv(log, "JWT_SECRET_KEY", "defaultsecret"),
		AllowedOrigins: envutil.List("CORS_ALLOWED_ORIGINS", nil),
		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false),
			ServiceName: getEnv(log, "OTEL_SERVICE_NAME", "ibdtrack"),
			Environment: envutil.String("APP_ENV", "development"),
			Version:     envutil.String("APP_VERSION", ""),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:     observability.ParseHeaders(os.Getenv("OTEL_EXPORTER_OTLP_HEADERS")),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
			Exporter:    envutil.String("OTEL_EXPORTER", ""),
			SampleRatio: envutil.Float("OTEL_SAMPLE_RATIO", 0.1),
		},
	}
}

func getEnv(log *logger.Logger, key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	log.Debug("env not set, using default", "key", key, "default", def)
	return def
}
