package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/ibdtrack-backend/internal/data/repos/testutil"
	types "github.com/yungbote/ibdtrack-backend/internal/domain/health"
	"github.com/yungbote/ibdtrack-backend/internal/modules/activity"
	"github.com/yungbote/ibdtrack-backend/internal/modules/nutrition"
)

func newNutritionFixture(t *testing.T) (*fixture, NutritionService) {
	t.Helper()
	f := newFixture(t)
	deriver := nutrition.NewDeriver(nutrition.DefaultReference(testutil.Logger(t)))
	return f, NewNutritionService(testutil.Logger(t), f.profiles, f.svc, deriver)
}

func TestTargetsWithoutProfileUsesDefaults(t *testing.T) {
	_, svc := newNutritionFixture(t)

	out, err := svc.Targets(context.Background(), uuid.New(), false)
	if err != nil {
		t.Fatalf("Targets: %v", err)
	}
	det := out.CalculationDetails
	if det.Age != nutrition.DefaultAge || det.WeightKg != nutrition.DefaultWeightKg || det.Gender != "other" {
		t.Fatalf("default profile not applied: %+v", det)
	}
	if out.DiseaseActivity.Source != activity.SourceHealthyDefault {
		t.Fatalf("DiseaseActivity.Source: want=%s got=%s", activity.SourceHealthyDefault, out.DiseaseActivity.Source)
	}
	if out.DiseaseActivity.Level != det.ActivityLevel {
		t.Fatalf("derived at %s but reported %s", det.ActivityLevel, out.DiseaseActivity.Level)
	}
}

func TestTargetsUseProfileAndPersistedAssessment(t *testing.T) {
	f, svc := newNutritionFixture(t)
	userID := uuid.New()
	moderate := "moderate"
	if err := f.profiles.Upsert(context.Background(), nil, &types.UserProfile{
		UserID: userID, Age: 30, WeightKg: 70, Gender: "male", DiseaseType: "crohns", DiagnosisSeverity: &moderate,
	}); err != nil {
		t.Fatalf("Upsert profile: %v", err)
	}

	out, err := svc.Targets(context.Background(), userID, false)
	if err != nil {
		t.Fatalf("Targets: %v", err)
	}
	if out.DiseaseActivity.Level != activity.LevelModerate {
		t.Fatalf("level: want=moderate got=%s", out.DiseaseActivity.Level)
	}
	if got := out.Macronutrients["calories"]; got != 3600 {
		t.Fatalf("calories: want=3600 got=%v", got)
	}
	if got := out.Micronutrients["vitaminD"]; got != 104 {
		t.Fatalf("vitaminD: want=104 got=%v", got)
	}

	// a second call reads the persisted assessment instead of appending history
	if _, err := svc.Targets(context.Background(), userID, false); err != nil {
		t.Fatalf("Targets: %v", err)
	}
	if n := len(f.history(t, userID)); n != 1 {
		t.Fatalf("history rows: want=1 got=%d", n)
	}
	if _, err := svc.Targets(context.Background(), userID, true); err != nil {
		t.Fatalf("Targets(force): %v", err)
	}
	if n := len(f.history(t, userID)); n != 2 {
		t.Fatalf("history rows after refresh: want=2 got=%d", n)
	}
}
