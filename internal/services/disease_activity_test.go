package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/ibdtrack-backend/internal/data/aggregates"
	aggtest "github.com/yungbote/ibdtrack-backend/internal/data/aggregates/testutil"
	repos "github.com/yungbote/ibdtrack-backend/internal/data/repos/health"
	"github.com/yungbote/ibdtrack-backend/internal/data/repos/testutil"
	types "github.com/yungbote/ibdtrack-backend/internal/domain/health"
	"github.com/yungbote/ibdtrack-backend/internal/modules/activity"
	"github.com/yungbote/ibdtrack-backend/internal/platform/userlock"
)

var refNow = time.Date(2025, 3, 15, 9, 30, 0, 0, time.UTC)

type fixture struct {
	db       *gorm.DB
	profiles repos.UserProfileRepo
	activity repos.DiseaseActivityRepo
	svc      *assessmentService
	clock    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	f := &fixture{
		db:       db,
		profiles: repos.NewUserProfileRepo(db, log),
		activity: repos.NewDiseaseActivityRepo(db, log),
		clock:    refNow,
	}
	svc := NewAssessmentService(
		log,
		aggregates.NewGormTxRunner(db),
		repos.NewSymptomEntryRepo(db, log),
		f.profiles,
		f.activity,
		userlock.NewLocal(),
	).(*assessmentService)
	svc.now = func() time.Time { return f.clock }
	f.svc = svc
	return f
}

func (f *fixture) history(t *testing.T, userID uuid.UUID) []*types.DiseaseActivityHistory {
	t.Helper()
	rows, err := f.activity.ListHistory(context.Background(), nil, userID, repos.MaxHistoryLimit)
	if err != nil {
		t.Fatalf("ListHistory: %v", err)
	}
	return rows
}

func TestAssessHealthyDefaultIsPersisted(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()

	a, err := f.svc.Assess(context.Background(), userID)
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}
	if a.Level != activity.LevelRemission || a.Source != activity.SourceHealthyDefault || a.DaysOfData != 0 {
		t.Fatalf("Assess: got=%+v", a)
	}

	cur, err := f.activity.GetCurrent(context.Background(), nil, userID)
	if err != nil || cur == nil {
		t.Fatalf("GetCurrent: %v %v", cur, err)
	}
	rows := f.history(t, userID)
	if len(rows) != 1 {
		t.Fatalf("history rows: want=1 got=%d", len(rows))
	}
	if cur.HistoryID != rows[0].ID || cur.Level != rows[0].Level {
		t.Fatalf("current state does not match history row: %+v vs %+v", cur, rows[0])
	}
	if len(rows[0].Details) != 0 {
		t.Fatalf("fallback rows carry no details, got=%s", rows[0].Details)
	}
}

func TestAssessUsesPriorDiagnosisWithoutJournal(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	severe := "severe"
	if err := f.profiles.Upsert(context.Background(), nil, &types.UserProfile{UserID: userID, Age: 40, WeightKg: 70, Gender: "male", DiagnosisSeverity: &severe}); err != nil {
		t.Fatalf("Upsert profile: %v", err)
	}

	a, err := f.svc.Assess(context.Background(), userID)
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}
	if a.Level != activity.LevelSevere || a.Source != activity.SourceDiagnosisFallback {
		t.Fatalf("Assess: want severe/diagnosis_fallback got=%s/%s", a.Level, a.Source)
	}
	if a.Confidence != 0.3 || a.DataQuality != 0.2 {
		t.Fatalf("Assess: want confidence=0.3 dataQuality=0.2 got=%v/%v", a.Confidence, a.DataQuality)
	}
}

func TestAssessScoresJournal(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	yes := true
	testutil.SeedSymptomDays(t, f.db, userID, refNow, 40, func(i int, e *types.SymptomEntry) {
		pain, urgency, freq := 8, 8, 8
		e.BloodPresent = &yes
		e.PainSeverity = &pain
		e.UrgencyLevel = &urgency
		e.BowelFrequency = &freq
	})

	a, err := f.svc.Assess(context.Background(), userID)
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}
	if a.Source != activity.SourceAIAssessment || a.Level != activity.LevelSevere {
		t.Fatalf("Assess: want severe/ai_assessment got=%s/%s", a.Level, a.Source)
	}
	if a.DaysOfData != activity.LookbackDays {
		t.Fatalf("DaysOfData: want=%d got=%d", activity.LookbackDays, a.DaysOfData)
	}

	hist, err := f.svc.History(context.Background(), userID, 0)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(hist) != 1 || hist[0].Details == nil {
		t.Fatalf("History: want one row with details, got=%+v", hist)
	}
	if hist[0].Details.Trend != activity.TrendStable {
		t.Fatalf("Details.Trend: want=stable got=%s", hist[0].Details.Trend)
	}
}

type failingUpsert struct {
	repos.DiseaseActivityRepo
}

func (failingUpsert) UpsertCurrent(ctx context.Context, tx *gorm.DB, st *types.DiseaseActivityState) error {
	return errors.New("disk full")
}

func TestAssessPersistenceFailureRollsBackHistory(t *testing.T) {
	f := newFixture(t)
	f.svc.activity = failingUpsert{f.activity}
	userID := uuid.New()

	if _, err := f.svc.Assess(context.Background(), userID); err == nil {
		t.Fatalf("Assess: expected persistence error")
	} else if aggregates.CodeOf(err) != aggregates.CodeInternal {
		t.Fatalf("Assess error code: want=%s got=%s", aggregates.CodeInternal, aggregates.CodeOf(err))
	}
	if rows := f.history(t, userID); len(rows) != 0 {
		t.Fatalf("history rows after rollback: want=0 got=%d", len(rows))
	}
	cur, err := f.svc.Current(context.Background(), userID)
	if err != nil || cur != nil {
		t.Fatalf("Current after rollback: want nil,nil got=%v,%v", cur, err)
	}
}

func TestAssessCommitFailureLeavesNoTrace(t *testing.T) {
	f := newFixture(t)
	runner := &aggtest.InjectedTxRunner{Inner: aggregates.NewGormTxRunner(f.db), FailCommit: aggtest.ErrInjectedCommit}
	f.svc.tx = runner
	userID := uuid.New()

	_, err := f.svc.Assess(context.Background(), userID)
	if !errors.Is(err, aggtest.ErrInjectedCommit) {
		t.Fatalf("Assess: want injected commit error got=%v", err)
	}
	if runner.RollbackCalls != 1 {
		t.Fatalf("rollbacks: want=1 got=%d", runner.RollbackCalls)
	}
	if rows := f.history(t, userID); len(rows) != 0 {
		t.Fatalf("history rows after failed commit: want=0 got=%d", len(rows))
	}
	if cur, _ := f.svc.Current(context.Background(), userID); cur != nil {
		t.Fatalf("current state written despite failed commit: %+v", cur)
	}
}

func TestAssessRejectsNilUser(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.Assess(context.Background(), uuid.Nil); err == nil {
		t.Fatalf("Assess(uuid.Nil): expected error")
	}
}

type blockedLocker struct{}

func (blockedLocker) Lock(ctx context.Context, key string) (func(), error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestAssessLockFailureIsReturned(t *testing.T) {
	f := newFixture(t)
	f.svc.locker = blockedLocker{}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := f.svc.Assess(ctx, uuid.New())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Assess: want DeadlineExceeded got=%v", err)
	}
	if aggregates.CodeOf(err) != aggregates.CodeRetryable {
		t.Fatalf("Assess error code: want=%s got=%s", aggregates.CodeRetryable, aggregates.CodeOf(err))
	}
}

// gatedLocker holds every Lock call until release is closed.
type gatedLocker struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGatedLocker() *gatedLocker {
	return &gatedLocker{entered: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedLocker) Lock(ctx context.Context, key string) (func(), error) {
	g.once.Do(func() { close(g.entered) })
	select {
	case <-g.release:
		return func() {}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestCurrentOrRefreshSurvivesFirstCallerTimeout(t *testing.T) {
	f := newFixture(t)
	gate := newGatedLocker()
	f.svc.locker = gate
	userID := uuid.New()

	shortCtx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	firstErr := make(chan error, 1)
	go func() {
		_, err := f.svc.CurrentOrRefresh(shortCtx, userID, false)
		firstErr <- err
	}()
	<-gate.entered

	type result struct {
		a   *activity.Assessment
		err error
	}
	second := make(chan result, 1)
	go func() {
		a, err := f.svc.CurrentOrRefresh(context.Background(), userID, false)
		second <- result{a, err}
	}()

	err := <-firstErr
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("first caller: want DeadlineExceeded got=%v", err)
	}
	if aggregates.CodeOf(err) != aggregates.CodeRetryable {
		t.Fatalf("first caller code: want=%s got=%s", aggregates.CodeRetryable, aggregates.CodeOf(err))
	}
	close(gate.release)

	select {
	case res := <-second:
		if res.err != nil {
			t.Fatalf("second caller: %v", res.err)
		}
		if res.a == nil || res.a.Source != activity.SourceHealthyDefault {
			t.Fatalf("second caller: got=%+v", res.a)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("second caller did not return")
	}
}

func TestConcurrentAssessmentsEachAppendHistory(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()

	var wg sync.WaitGroup
	errs := make(chan error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.svc.Assess(context.Background(), userID); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("Assess: %v", err)
	}

	rows := f.history(t, userID)
	if len(rows) != 5 {
		t.Fatalf("history rows: want=5 got=%d", len(rows))
	}
	cur, err := f.activity.GetCurrent(context.Background(), nil, userID)
	if err != nil || cur == nil {
		t.Fatalf("GetCurrent: %v %v", cur, err)
	}
	found := false
	for _, r := range rows {
		if r.ID == cur.HistoryID {
			found = true
		}
	}
	if !found {
		t.Fatalf("current state points at no history row")
	}
}

func TestCurrentOrRefresh(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	ctx := context.Background()

	// never assessed: computes
	first, err := f.svc.CurrentOrRefresh(ctx, userID, false)
	if err != nil {
		t.Fatalf("CurrentOrRefresh: %v", err)
	}
	if n := len(f.history(t, userID)); n != 1 {
		t.Fatalf("history after first call: want=1 got=%d", n)
	}

	// fresh: reuses
	f.clock = refNow.Add(6 * 24 * time.Hour)
	again, err := f.svc.CurrentOrRefresh(ctx, userID, false)
	if err != nil {
		t.Fatalf("CurrentOrRefresh: %v", err)
	}
	if !again.AssessmentDate.Equal(first.AssessmentDate) {
		t.Fatalf("fresh assessment recomputed: %v vs %v", again.AssessmentDate, first.AssessmentDate)
	}
	if n := len(f.history(t, userID)); n != 1 {
		t.Fatalf("history after fresh read: want=1 got=%d", n)
	}

	// forced: recomputes
	if _, err := f.svc.CurrentOrRefresh(ctx, userID, true); err != nil {
		t.Fatalf("CurrentOrRefresh(force): %v", err)
	}
	if n := len(f.history(t, userID)); n != 2 {
		t.Fatalf("history after forced refresh: want=2 got=%d", n)
	}

	// stale: recomputes
	f.clock = f.clock.Add(8 * 24 * time.Hour)
	stale, err := f.svc.CurrentOrRefresh(ctx, userID, false)
	if err != nil {
		t.Fatalf("CurrentOrRefresh(stale): %v", err)
	}
	if !stale.AssessmentDate.Equal(f.clock) {
		t.Fatalf("stale refresh date: want=%v got=%v", f.clock, stale.AssessmentDate)
	}
	if n := len(f.history(t, userID)); n != 3 {
		t.Fatalf("history after stale refresh: want=3 got=%d", n)
	}
}
