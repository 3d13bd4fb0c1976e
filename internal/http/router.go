package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/ibdtrack-backend/internal/http/handlers"
	httpMW "github.com/yungbote/ibdtrack-backend/internal/http/middleware"
	"github.com/yungbote/ibdtrack-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string

	AuthMiddleware *httpMW.AuthMiddleware

	DiseaseActivityHandler *httpH.DiseaseActivityHandler
	NutritionHandler       *httpH.NutritionHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(cfg.ServiceName))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	protected := r.Group("/api")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Disease activity
		if cfg.DiseaseActivityHandler != nil {
			protected.POST("/disease-activity/assess", cfg.DiseaseActivityHandler.Assess)
			protected.GET("/disease-activity", cfg.DiseaseActivityHandler.Current)
			protected.GET("/disease-activity/history", cfg.DiseaseActivityHandler.History)
		}

		// Nutrition
		if cfg.NutritionHandler != nil {
			protected.GET("/nutrition/targets", cfg.NutritionHandler.Targets)
		}
	}

	return r
}
