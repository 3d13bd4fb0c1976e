package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/ibdtrack-backend/internal/http/response"
	"github.com/yungbote/ibdtrack-backend/internal/platform/apierr"
	"github.com/yungbote/ibdtrack-backend/internal/platform/ctxutil"
	"github.com/yungbote/ibdtrack-backend/internal/services"
)

type DiseaseActivityHandler struct {
	assessments services.AssessmentService
}

func NewDiseaseActivityHandler(assessments services.AssessmentService) *DiseaseActivityHandler {
	return &DiseaseActivityHandler{assessments: assessments}
}

// POST /api/disease-activity/assess
func (h *DiseaseActivityHandler) Assess(c *gin.Context) {
	a, err := h.assessments.Assess(c.Request.Context(), ctxutil.UserID(c.Request.Context()))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, a)
}

// GET /api/disease-activity
func (h *DiseaseActivityHandler) Current(c *gin.Context) {
	a, err := h.assessments.Current(c.Request.Context(), ctxutil.UserID(c.Request.Context()))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	if a == nil {
		response.RespondError(c, http.StatusNotFound, "no_assessment", fmt.Errorf("no disease activity assessment yet"))
		return
	}
	response.RespondOK(c, a)
}

// GET /api/disease-activity/history?limit=N
func (h *DiseaseActivityHandler) History(c *gin.Context) {
	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			response.RespondErr(c, apierr.BadRequest("invalid_limit", fmt.Errorf("limit must be a positive integer")))
			return
		}
		limit = n
	}
	rows, err := h.assessments.History(c.Request.Context(), ctxutil.UserID(c.Request.Context()), limit)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"history": rows})
}
