package health

import (
	"context"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/ibdtrack-backend/internal/domain/health"
	"github.com/yungbote/ibdtrack-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type SymptomEntryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, entries []*types.SymptomEntry) ([]*types.SymptomEntry, error)
	// ListSince returns entries dated on or after since, newest first.
	ListSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time, limit int) ([]*types.SymptomEntry, error)
}

type symptomEntryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSymptomEntryRepo(db *gorm.DB, baseLog *logger.Logger) SymptomEntryRepo {
	repoLog := baseLog.With("repo", "SymptomEntryRepo")
	return &symptomEntryRepo{db: db, log: repoLog}
}

func (r *symptomEntryRepo) Create(ctx context.Context, tx *gorm.DB, entries []*types.SymptomEntry) ([]*types.SymptomEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(entries) == 0 {
		return []*types.SymptomEntry{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *symptomEntryRepo) ListSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time, limit int) ([]*types.SymptomEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.SymptomEntry
	if userID == uuid.Nil {
		return results, nil
	}
	q := transaction.WithContext(ctx).
		Where("user_id = ? AND entry_date >= ?", userID, since).
		Order("entry_date DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
