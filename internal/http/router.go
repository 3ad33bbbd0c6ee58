package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/keywordiq-backend/internal/http/handlers"
	httpMW "github.com/yungbote/keywordiq-backend/internal/http/middleware"
	"github.com/yungbote/keywordiq-backend/internal/observability"
	"github.com/yungbote/keywordiq-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	TracingService string

	AuthHandler    *httpH.AuthHandler
	AuthMiddleware *httpMW.AuthMiddleware
	SEOHandler     *httpH.SEOHandler
	CreditsHandler *httpH.CreditsHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(httpMW.Recovery(cfg.Log))
	if cfg.TracingService != "" {
		r.Use(otelgin.Middleware(cfg.TracingService))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.AttachRequestContext())
	r.Use(httpMW.CORS())
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.RequestLogger(cfg.Log))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// SEO dashboard
		if cfg.SEOHandler != nil {
			seo := protected.Group("/dashboard/seo_optimisation")
			seo.POST("/create", cfg.SEOHandler.CreateProject)
			for route, channel := range httpH.ChannelRoutes {
				seo.POST("/"+route, cfg.SEOHandler.RunChannel(channel))
			}
			seo.GET("/projects", cfg.SEOHandler.ListProjects)
			seo.GET("/projects/:id", cfg.SEOHandler.GetProject)
		}

		// Credits
		if cfg.CreditsHandler != nil {
			protected.GET("/credits", cfg.CreditsHandler.GetCredits)
			protected.POST("/credits/purchase", cfg.CreditsHandler.Purchase)
		}
	}

	return r
}
