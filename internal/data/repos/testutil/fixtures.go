package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/ibdtrack-backend/internal/domain/health"
	"gorm.io/gorm"
)

// SeedSymptomDays inserts one entry per day ending at end, oldest last. fill may
// mutate each entry before insert; i counts back from end.
func SeedSymptomDays(tb testing.TB, db *gorm.DB, userID uuid.UUID, end time.Time, days int, fill func(i int, e *types.SymptomEntry)) []*types.SymptomEntry {
	tb.Helper()
	end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	entries := make([]*types.SymptomEntry, 0, days)
	for i := 0; i < days; i++ {
		e := &types.SymptomEntry{UserID: userID, EntryDate: end.AddDate(0, 0, -i)}
		if fill != nil {
			fill(i, e)
		}
		entries = append(entries, e)
	}
	if len(entries) == 0 {
		return entries
	}
	if err := db.WithContext(context.Background()).Create(&entries).Error; err != nil {
		tb.Fatalf("seed symptom entries: %v", err)
	}
	return entries
}
