package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/keywordiq-backend/internal/platform/ctxutil"
)

// AttachRequestContext seeds request data with the client address so the
// project locale can be resolved downstream.
func AttachRequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{
			ClientIP: c.ClientIP(),
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
