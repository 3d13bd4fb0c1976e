package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/yungbote/ibdtrack-backend/internal/data/aggregates"
	repos "github.com/yungbote/ibdtrack-backend/internal/data/repos/health"
	"github.com/yungbote/ibdtrack-backend/internal/modules/activity"
	"github.com/yungbote/ibdtrack-backend/internal/observability"
	"github.com/yungbote/ibdtrack-backend/internal/platform/apierr"
	"github.com/yungbote/ibdtrack-backend/internal/platform/dbctx"
	"github.com/yungbote/ibdtrack-backend/internal/platform/logger"
	"github.com/yungbote/ibdtrack-backend/internal/platform/userlock"
)

var errMissingUser = apierr.BadRequest("missing_user", fmt.Errorf("user id required"))

type AssessmentService interface {
	// Assess always recomputes and persists a new assessment.
	Assess(ctx context.Context, userID uuid.UUID) (*activity.Assessment, error)
	// Current returns the persisted assessment, or nil when the user was never assessed.
	Current(ctx context.Context, userID uuid.UUID) (*activity.Assessment, error)
	History(ctx context.Context, userID uuid.UUID, limit int) ([]activity.Assessment, error)
	// CurrentOrRefresh returns the persisted assessment unless it is stale or
	// force is set, in which case it runs Assess.
	CurrentOrRefresh(ctx context.Context, userID uuid.UUID, force bool) (*activity.Assessment, error)
}

type assessmentService struct {
	log      *logger.Logger
	tx       aggregates.TxRunner
	symptoms repos.SymptomEntryRepo
	profiles repos.UserProfileRepo
	activity repos.DiseaseActivityRepo
	locker   userlock.Locker
	now      func() time.Time
	refresh  singleflight.Group
}

func NewAssessmentService(
	log *logger.Logger,
	tx aggregates.TxRunner,
	symptoms repos.SymptomEntryRepo,
	profiles repos.UserProfileRepo,
	activityRepo repos.DiseaseActivityRepo,
	locker userlock.Locker,
) AssessmentService {
	serviceLog := log.With("service", "AssessmentService")
	if locker == nil {
		locker = userlock.NewLocal()
	}
	return &assessmentService{
		log:      serviceLog,
		tx:       tx,
		symptoms: symptoms,
		profiles: profiles,
		activity: activityRepo,
		locker:   locker,
		now:      time.Now,
	}
}

func (s *assessmentService) Assess(ctx context.Context, userID uuid.UUID) (*activity.Assessment, error) {
	ctx, span := observability.Tracer().Start(ctx, "assessment.assess")
	defer span.End()

	a, err := s.assess(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "assessment failed")
		return nil, err
	}
	span.SetAttributes(
		attribute.String("activity.level", string(a.Level)),
		attribute.String("activity.source", string(a.Source)),
		attribute.Int("activity.days_of_data", a.DaysOfData),
	)
	return a, nil
}

func (s *assessmentService) assess(ctx context.Context, userID uuid.UUID) (*activity.Assessment, error) {
	if userID == uuid.Nil {
		return nil, errMissingUser
	}
	unlock, err := s.locker.Lock(ctx, userID.String())
	if err != nil {
		return nil, aggregates.MapError("disease_activity.lock", err)
	}
	defer unlock()

	now := s.now().UTC()
	since := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -activity.LookbackDays)
	entries, err := s.symptoms.ListSince(ctx, nil, userID, since, activity.LookbackDays)
	if err != nil {
		return nil, aggregates.MapError("disease_activity.symptom_history", err)
	}
	severity, err := s.profiles.GetDiagnosisSeverity(ctx, nil, userID)
	if err != nil {
		return nil, aggregates.MapError("disease_activity.prior_diagnosis", err)
	}

	a := activity.Assess(symptomRecords(entries), severity, now)

	row, err := historyRow(userID, a)
	if err != nil {
		return nil, fmt.Errorf("encode assessment details: %w", err)
	}
	err = s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		if err := s.activity.AppendHistory(dbc.Ctx, dbc.Tx, row); err != nil {
			return err
		}
		return s.activity.UpsertCurrent(dbc.Ctx, dbc.Tx, stateRow(row))
	})
	if err != nil {
		s.log.Error("persist assessment failed", "user_id", userID, "error", err)
		return nil, aggregates.MapError("disease_activity.persist", err)
	}

	s.log.Info("disease activity assessed",
		"user_id", userID,
		"level", a.Level,
		"source", a.Source,
		"confidence", a.Confidence,
		"days_of_data", a.DaysOfData,
	)
	return &a, nil
}

func (s *assessmentService) Current(ctx context.Context, userID uuid.UUID) (*activity.Assessment, error) {
	if userID == uuid.Nil {
		return nil, errMissingUser
	}
	st, err := s.activity.GetCurrent(ctx, nil, userID)
	if err != nil {
		return nil, aggregates.MapError("disease_activity.current", err)
	}
	return assessmentFromState(st), nil
}

func (s *assessmentService) History(ctx context.Context, userID uuid.UUID, limit int) ([]activity.Assessment, error) {
	if userID == uuid.Nil {
		return nil, errMissingUser
	}
	rows, err := s.activity.ListHistory(ctx, nil, userID, limit)
	if err != nil {
		return nil, aggregates.MapError("disease_activity.history", err)
	}
	out := make([]activity.Assessment, 0, len(rows))
	for _, h := range rows {
		if h == nil {
			continue
		}
		out = append(out, assessmentFromHistory(h))
	}
	return out, nil
}

func (s *assessmentService) CurrentOrRefresh(ctx context.Context, userID uuid.UUID, force bool) (*activity.Assessment, error) {
	cur, err := s.Current(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !activity.IsStale(cur, s.now(), force) {
		return cur, nil
	}
	trace.SpanFromContext(ctx).AddEvent("assessment.refresh", trace.WithAttributes(attribute.Bool("force", force)))

	// Callers racing on the same user share one recomputation. It runs detached
	// from any single caller's cancellation; each caller stops waiting on its own ctx.
	ch := s.refresh.DoChan(userID.String(), func() (interface{}, error) {
		return s.Assess(context.WithoutCancel(ctx), userID)
	})
	select {
	case <-ctx.Done():
		return nil, aggregates.MapError("disease_activity.refresh", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*activity.Assessment), nil
	}
}
