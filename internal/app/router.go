package app

import (
	httpserver "github.com/yungbote/ibdtrack-backend/internal/http"
	"github.com/yungbote/ibdtrack-backend/internal/platform/logger"
)

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware) *httpserver.Server {
	return httpserver.NewServer(httpserver.RouterConfig{
		Log:                    log,
		ServiceName:            cfg.Otel.ServiceName,
		AllowedOrigins:         cfg.AllowedOrigins,
		AuthMiddleware:         middleware.Auth,
		DiseaseActivityHandler: handlers.DiseaseActivity,
		NutritionHandler:       handlers.Nutrition,
		HealthHandler:          handlers.Health,
	})
}
