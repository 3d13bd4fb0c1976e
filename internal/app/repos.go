package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/ibdtrack-backend/internal/data/aggregates"
	repos "github.com/yungbote/ibdtrack-backend/internal/data/repos/health"
	"github.com/yungbote/ibdtrack-backend/internal/platform/logger"
)

type Repos struct {
	TxRunner        aggregates.TxRunner
	SymptomEntry    repos.SymptomEntryRepo
	UserProfile     repos.UserProfileRepo
	DiseaseActivity repos.DiseaseActivityRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		TxRunner:        aggregates.NewGormTxRunner(db),
		SymptomEntry:    repos.NewSymptomEntryRepo(db, log),
		UserProfile:     repos.NewUserProfileRepo(db, log),
		DiseaseActivity: repos.NewDiseaseActivityRepo(db, log),
	}
}
