package health

import (
	"context"
	"errors"

	"github.com/google/uuid"
	types "github.com/yungbote/ibdtrack-backend/internal/domain/health"
	"github.com/yungbote/ibdtrack-backend/internal/platform/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultHistoryLimit = 10
	MaxHistoryLimit     = 100
)

// DiseaseActivityRepo owns the current-assessment row and the append-only
// history log. History rows are insert-only; there is no update or delete.
type DiseaseActivityRepo interface {
	// GetCurrent returns (nil, nil) when the user was never assessed.
	GetCurrent(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.DiseaseActivityState, error)
	UpsertCurrent(ctx context.Context, tx *gorm.DB, state *types.DiseaseActivityState) error
	AppendHistory(ctx context.Context, tx *gorm.DB, row *types.DiseaseActivityHistory) error
	// ListHistory returns up to limit rows, newest first.
	ListHistory(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.DiseaseActivityHistory, error)
}

type diseaseActivityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDiseaseActivityRepo(db *gorm.DB, baseLog *logger.Logger) DiseaseActivityRepo {
	repoLog := baseLog.With("repo", "DiseaseActivityRepo")
	return &diseaseActivityRepo{db: db, log: repoLog}
}

func (r *diseaseActivityRepo) GetCurrent(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.DiseaseActivityState, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var st types.DiseaseActivityState
	err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Take(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *diseaseActivityRepo) UpsertCurrent(ctx context.Context, tx *gorm.DB, state *types.DiseaseActivityState) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if state == nil || state.UserID == uuid.Nil {
		return errors.New("disease activity state requires a user id")
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"level", "confidence", "data_quality", "days_of_data", "source", "assessment_date", "history_id", "updated_at",
			}),
		}).
		Create(state).Error
}

func (r *diseaseActivityRepo) AppendHistory(ctx context.Context, tx *gorm.DB, row *types.DiseaseActivityHistory) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil || row.UserID == uuid.Nil {
		return errors.New("disease activity history row requires a user id")
	}
	return transaction.WithContext(ctx).Create(row).Error
}

func (r *diseaseActivityRepo) ListHistory(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.DiseaseActivityHistory, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}
	var results []*types.DiseaseActivityHistory
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("assessment_date DESC").
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
