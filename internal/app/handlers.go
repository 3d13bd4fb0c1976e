package app

import (
	"database/sql"

	"github.com/yungbote/ibdtrack-backend/internal/http/handlers"
	"github.com/yungbote/ibdtrack-backend/internal/platform/logger"
)

type Handlers struct {
	DiseaseActivity *handlers.DiseaseActivityHandler
	Nutrition       *handlers.NutritionHandler
	Health          *handlers.HealthHandler
}

func wireHandlers(log *logger.Logger, services Services, sqlDB *sql.DB) Handlers {
	log.Info("Wiring handlers...")
	h := Handlers{
		DiseaseActivity: handlers.NewDiseaseActivityHandler(services.Assessment),
		Nutrition:       handlers.NewNutritionHandler(services.Nutrition),
		Health:          handlers.NewHealthHandler(nil),
	}
	if sqlDB != nil {
		h.Health = handlers.NewHealthHandler(sqlDB)
	}
	return h
}
