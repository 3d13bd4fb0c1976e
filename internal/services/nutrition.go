package services

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/yungbote/ibdtrack-backend/internal/data/aggregates"
	repos "github.com/yungbote/ibdtrack-backend/internal/data/repos/health"
	"github.com/yungbote/ibdtrack-backend/internal/modules/activity"
	"github.com/yungbote/ibdtrack-backend/internal/modules/nutrition"
	"github.com/yungbote/ibdtrack-backend/internal/observability"
	"github.com/yungbote/ibdtrack-backend/internal/platform/logger"
)

// NutritionTargets is a derived target set plus the assessment it was derived
// from. It is computed per request and never stored.
type NutritionTargets struct {
	nutrition.Targets
	DiseaseActivity activity.Assessment `json:"diseaseActivity"`
}

type NutritionService interface {
	// Targets derives targets for the user's profile (or the default profile)
	// at the user's current disease activity, refreshing it when stale or forced.
	Targets(ctx context.Context, userID uuid.UUID, force bool) (*NutritionTargets, error)
}

type nutritionService struct {
	log         *logger.Logger
	profiles    repos.UserProfileRepo
	assessments AssessmentService
	deriver     *nutrition.Deriver
}

func NewNutritionService(log *logger.Logger, profiles repos.UserProfileRepo, assessments AssessmentService, deriver *nutrition.Deriver) NutritionService {
	serviceLog := log.With("service", "NutritionService")
	return &nutritionService{
		log:         serviceLog,
		profiles:    profiles,
		assessments: assessments,
		deriver:     deriver,
	}
}

func (s *nutritionService) Targets(ctx context.Context, userID uuid.UUID, force bool) (*NutritionTargets, error) {
	ctx, span := observability.Tracer().Start(ctx, "nutrition.targets")
	defer span.End()

	if userID == uuid.Nil {
		return nil, errMissingUser
	}
	row, err := s.profiles.GetByUserID(ctx, nil, userID)
	if err != nil {
		err = aggregates.MapError("nutrition.profile", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "profile lookup failed")
		return nil, err
	}
	if row == nil {
		s.log.Debug("no profile, using defaults", "user_id", userID)
	}

	a, err := s.assessments.CurrentOrRefresh(ctx, userID, force)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "assessment failed")
		return nil, err
	}

	targets := s.deriver.Derive(profileFromRow(row), *a)
	span.SetAttributes(
		attribute.String("activity.level", string(a.Level)),
		attribute.String("activity.source", string(a.Source)),
		attribute.Bool("profile.default", row == nil),
	)
	return &NutritionTargets{Targets: targets, DiseaseActivity: *a}, nil
}
