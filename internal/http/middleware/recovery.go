package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/keywordiq-backend/internal/http/response"
	"github.com/yungbote/keywordiq-backend/internal/platform/logger"
)

func Recovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if log != nil {
				log.Error("Panic serving request",
					"path", c.Request.URL.Path,
					"panic", fmt.Sprint(rec),
					"stack", string(debug.Stack()),
				)
			}
			response.RespondError(c, http.StatusInternalServerError, "internal_error", nil)
		}()
		c.Next()
	}
}
