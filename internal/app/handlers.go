package app

import (
	"gorm.io/gorm"

	httpH "github.com/yungbote/keywordiq-backend/internal/http/handlers"
	"github.com/yungbote/keywordiq-backend/internal/platform/logger"
)

type Handlers struct {
	Health  *httpH.HealthHandler
	Auth    *httpH.AuthHandler
	SEO     *httpH.SEOHandler
	Credits *httpH.CreditsHandler
}

func wireHandlers(db *gorm.DB, log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:  httpH.NewHealthHandler(db),
		Auth:    httpH.NewAuthHandler(log, services.Auth),
		SEO:     httpH.NewSEOHandler(log, services.SEO),
		Credits: httpH.NewCreditsHandler(log, services.SEO),
	}
}
