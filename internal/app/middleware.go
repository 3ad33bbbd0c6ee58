package app

import (
	httpMW "github.com/yungbote/keywordiq-backend/internal/http/middleware"
	"github.com/yungbote/keywordiq-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}
