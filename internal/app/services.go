package app

import (
	"github.com/yungbote/ibdtrack-backend/internal/modules/nutrition"
	"github.com/yungbote/ibdtrack-backend/internal/platform/logger"
	"github.com/yungbote/ibdtrack-backend/internal/services"
)

type Services struct {
	Assessment services.AssessmentService
	Nutrition  services.NutritionService
}

func wireServices(log *logger.Logger, repos Repos, clients Clients) Services {
	log.Info("Wiring services...")
	assessment := services.NewAssessmentService(
		log,
		repos.TxRunner,
		repos.SymptomEntry,
		repos.UserProfile,
		repos.DiseaseActivity,
		clients.Locker,
	)
	deriver := nutrition.NewDeriver(nutrition.DefaultReference(log))
	return Services{
		Assessment: assessment,
		Nutrition:  services.NewNutritionService(log, repos.UserProfile, assessment, deriver),
	}
}
