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

type UserProfileRepo interface {
	// GetByUserID returns (nil, nil) when the user has no profile.
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserProfile, error)
	// GetDiagnosisSeverity returns the clinician-reported severity, nil when unknown.
	GetDiagnosisSeverity(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*string, error)
	Upsert(ctx context.Context, tx *gorm.DB, profile *types.UserProfile) error
}

type userProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserProfileRepo(db *gorm.DB, baseLog *logger.Logger) UserProfileRepo {
	repoLog := baseLog.With("repo", "UserProfileRepo")
	return &userProfileRepo{db: db, log: repoLog}
}

func (r *userProfileRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var p types.UserProfile
	err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *userProfileRepo) GetDiagnosisSeverity(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*string, error) {
	p, err := r.GetByUserID(ctx, tx, userID)
	if err != nil || p == nil {
		return nil, err
	}
	return p.DiagnosisSeverity, nil
}

func (r *userProfileRepo) Upsert(ctx context.Context, tx *gorm.DB, profile *types.UserProfile) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if profile == nil {
		return nil
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"age", "weight_kg", "height_cm", "gender", "disease_type", "diagnosis_severity", "updated_at",
			}),
		}).
		Create(profile).Error
}
