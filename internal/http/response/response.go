package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/keywordiq-backend/internal/platform/apierr"
	"github.com/yungbote/keywordiq-backend/internal/platform/logger"
)

const (
	MessageSuccess            = "Successfully, Generated the content."
	MessageGeneric            = "Something went wrong. Please try again."
	MessageInsufficientPoints = "You don't have enough points to create a project."
	MessageNoResults          = "Could not generate results. Please try again."
	MessageUnavailable        = "This service is temporarily unavailable."
)

type ErrorEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// RespondOK writes the success envelope with payload's keys merged in.
func RespondOK(c *gin.Context, payload gin.H) {
	RespondStatus(c, http.StatusOK, payload)
}

func RespondStatus(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"success": true, "message": MessageSuccess}
	for k, v := range payload {
		if k == "success" {
			continue
		}
		body[k] = v
	}
	c.JSON(status, body)
}

// RespondError writes the failure envelope. A 5xx never exposes err.
func RespondError(c *gin.Context, status int, code string, err error) {
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Success: false,
		Message: messageFor(status, err),
		Code:    code,
	})
}

// RespondAPIError maps err to its envelope. Errors that are not *apierr.Error
// become a 500 and are logged.
func RespondAPIError(c *gin.Context, log *logger.Logger, err error) {
	ae, ok := apierr.As(err)
	if !ok {
		ae = apierr.New(http.StatusInternalServerError, "internal_error", err)
	}
	if ae.Status >= http.StatusInternalServerError && log != nil {
		log.Error("Request failed",
			"path", c.FullPath(),
			"status", ae.Status,
			"code", ae.Code,
			"error", ae.Error(),
		)
	}
	RespondError(c, ae.Status, ae.Code, ae.Err)
}

func messageFor(status int, err error) string {
	switch {
	case status == http.StatusPaymentRequired:
		return MessageInsufficientPoints
	case status == http.StatusBadGateway:
		return MessageNoResults
	case status == http.StatusServiceUnavailable:
		return MessageUnavailable
	case status >= http.StatusInternalServerError:
		return MessageGeneric
	case err != nil:
		return err.Error()
	default:
		return http.StatusText(status)
	}
}
