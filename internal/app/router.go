package app

import (
	"github.com/gin-gonic/gin"

	apphttp "github.com/yungbote/keywordiq-backend/internal/http"
	"github.com/yungbote/keywordiq-backend/internal/observability"
	"github.com/yungbote/keywordiq-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, metrics *observability.Metrics, tracingService string, handlers Handlers, middleware Middleware) *gin.Engine {
	return apphttp.NewRouter(apphttp.RouterConfig{
		Log:            log,
		Metrics:        metrics,
		TracingService: tracingService,
		HealthHandler:  handlers.Health,
		AuthHandler:    handlers.Auth,
		AuthMiddleware: middleware.Auth,
		SEOHandler:     handlers.SEO,
		CreditsHandler: handlers.Credits,
	})
}
