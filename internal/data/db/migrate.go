package db

import (
	"fmt"

	types "github.com/yungbote/ibdtrack-backend/internal/domain/health"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(types.Models()...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return EnsureHealthConstraints(db)
}

// EnsureHealthConstraints adds the Postgres check constraints gorm tags cannot
// express. Other dialects are left alone.
func EnsureHealthConstraints(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	stmts := []string{
		`DO $$ BEGIN
			ALTER TABLE disease_activity_state ADD CONSTRAINT chk_activity_state_level
				CHECK (level IN ('remission','mild','moderate','severe'));
		EXCEPTION WHEN duplicate_object THEN NULL; END $$;`,
		`DO $$ BEGIN
			ALTER TABLE disease_activity_history ADD CONSTRAINT chk_activity_history_level
				CHECK (level IN ('remission','mild','moderate','severe'));
		EXCEPTION WHEN duplicate_object THEN NULL; END $$;`,
		`DO $$ BEGIN
			ALTER TABLE disease_activity_history ADD CONSTRAINT chk_activity_history_scores
				CHECK (confidence BETWEEN 0 AND 1 AND data_quality BETWEEN 0 AND 1 AND days_of_data >= 0);
		EXCEPTION WHEN duplicate_object THEN NULL; END $$;`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("ensure health constraints: %w", err)
		}
	}
	return nil
}
