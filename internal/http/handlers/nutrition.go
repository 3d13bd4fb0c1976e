package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/ibdtrack-backend/internal/http/response"
	"github.com/yungbote/ibdtrack-backend/internal/platform/apierr"
	"github.com/yungbote/ibdtrack-backend/internal/platform/ctxutil"
	"github.com/yungbote/ibdtrack-backend/internal/services"
)

type NutritionHandler struct {
	nutrition services.NutritionService
}

func NewNutritionHandler(nutrition services.NutritionService) *NutritionHandler {
	return &NutritionHandler{nutrition: nutrition}
}

// GET /api/nutrition/targets?refresh=true
func (h *NutritionHandler) Targets(c *gin.Context) {
	force := false
	if raw := strings.TrimSpace(c.Query("refresh")); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			response.RespondErr(c, apierr.BadRequest("invalid_refresh", fmt.Errorf("refresh must be true or false")))
			return
		}
		force = v
	}
	out, err := h.nutrition.Targets(c.Request.Context(), ctxutil.UserID(c.Request.Context()), force)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, out)
}
