package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	httpH "github.com/yungbote/ibdtrack-backend/internal/http/handlers"
	httpMW "github.com/yungbote/ibdtrack-backend/internal/http/middleware"
	"github.com/yungbote/ibdtrack-backend/internal/modules/activity"
	"github.com/yungbote/ibdtrack-backend/internal/platform/logger"
)

type stubAssessments struct{}

func (stubAssessments) Assess(ctx context.Context, userID uuid.UUID) (*activity.Assessment, error) {
	return &activity.Assessment{Level: activity.LevelRemission}, nil
}
func (stubAssessments) Current(ctx context.Context, userID uuid.UUID) (*activity.Assessment, error) {
	return nil, nil
}
func (stubAssessments) History(ctx context.Context, userID uuid.UUID, limit int) ([]activity.Assessment, error) {
	return nil, nil
}
func (stubAssessments) CurrentOrRefresh(ctx context.Context, userID uuid.UUID, force bool) (*activity.Assessment, error) {
	return nil, nil
}

func TestRouterProtectsAPIAndExposesHealthcheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := logger.NewNop()
	r := NewRouter(RouterConfig{
		Log:                    log,
		ServiceName:            "ibdtrack-test",
		AuthMiddleware:         httpMW.NewAuthMiddleware(log, "secret"),
		DiseaseActivityHandler: httpH.NewDiseaseActivityHandler(stubAssessments{}),
		HealthHandler:          httpH.NewHealthHandler(nil),
	})

	cases := []struct {
		method, path string
		status       int
	}{
		{http.MethodGet, "/healthcheck", http.StatusOK},
		{http.MethodPost, "/api/disease-activity/assess", http.StatusUnauthorized},
		{http.MethodGet, "/api/disease-activity", http.StatusUnauthorized},
		{http.MethodGet, "/api/disease-activity/history", http.StatusUnauthorized},
		{http.MethodGet, "/api/unknown", http.StatusNotFound},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		if rec.Code != tc.status {
			t.Fatalf("%s %s: want=%d got=%d", tc.method, tc.path, tc.status, rec.Code)
		}
		if rec.Header().Get("X-Request-Id") == "" {
			t.Fatalf("%s %s: missing X-Request-Id", tc.method, tc.path)
		}
	}
}
