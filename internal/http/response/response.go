package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/ibdtrack-backend/internal/data/aggregates"
	"github.com/yungbote/ibdtrack-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondErr picks the status from err. Persistence errors keep their code but
// never leak the driver message.
func RespondErr(c *gin.Context, err error) {
	var agg *aggregates.Error
	if errors.As(err, &agg) {
		status := http.StatusInternalServerError
		switch agg.Code {
		case aggregates.CodeNotFound:
			status = http.StatusNotFound
		case aggregates.CodeConflict:
			status = http.StatusConflict
		case aggregates.CodeRetryable:
			status = http.StatusServiceUnavailable
		}
		_ = c.Error(err)
		RespondError(c, status, string(agg.Code), errors.New(http.StatusText(status)))
		return
	}
	ae := apierr.From(err)
	if ae.Status >= http.StatusInternalServerError {
		_ = c.Error(err)
		RespondError(c, ae.Status, ae.Code, errors.New(http.StatusText(ae.Status)))
		return
	}
	RespondError(c, ae.Status, ae.Code, ae)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
