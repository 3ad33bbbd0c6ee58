package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/keywordiq-backend/internal/clients/redis"
	"github.com/yungbote/keywordiq-backend/internal/data/db"
	"github.com/yungbote/keywordiq-backend/internal/modules/auth"
	seomod "github.com/yungbote/keywordiq-backend/internal/modules/seo"
	"github.com/yungbote/keywordiq-backend/internal/modules/seo/channels"
	"github.com/yungbote/keywordiq-backend/internal/modules/seo/dedup"
	"github.com/yungbote/keywordiq-backend/internal/modules/seo/ledger"
	"github.com/yungbote/keywordiq-backend/internal/modules/seo/orchestrator"
	"github.com/yungbote/keywordiq-backend/internal/modules/seo/suggestions"
	"github.com/yungbote/keywordiq-backend/internal/platform/logger"
)

type Services struct {
	Auth     auth.AuthService
	Ledger   *ledger.Ledger
	Channels *channels.Registry
	SEO      seomod.Usecases
}

func wireServices(theDB *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients) Services {
	log.Info("Wiring services...")
	tx := db.NewTxRunner(theDB)

	var leaser ledger.Leaser
	if clients.Redis != nil {
		leaser = ledger.NewRedisLeaser(redis.NewLocker(clients.Redis, "keywordiq"), cfg.LedgerLeaseTTL)
	}
	credits := ledger.New(log, reposet.Purchase, reposet.PurchaseHistory, leaser)

	authService := auth.NewAuthService(log, tx, reposet.User, credits, auth.Config{
		JWTSecretKey:       cfg.JWTSecretKey,
		AccessTokenTTL:     cfg.AccessTokenTTL,
		SignupCreditPoints: cfg.SignupCreditPoints,
	})

	registry := channels.NewRegistry(log, channels.Deps{
		LLM:    clients.LLM,
		Web:    clients.Web,
		Places: clients.Places,
		Videos: clients.Videos,
		Forum:  clients.Forum,
		Pages:  clients.Pages,
		Rates:  cfg.Rates,
		Guards: channels.NewGuards(log, channels.GuardConfigFromEnv()),
	})
	log.Info("Channels enabled", "channels", registry.Channels())

	cache := dedup.New(log, reposet.SearchQuery, reposet.Analysis, reposet.SearchAnalysisRel)
	seo := seomod.New(seomod.UsecasesDeps{
		Log:          log,
		Tx:           tx,
		Projects:     reposet.Project,
		Locale:       clients.Locale,
		Payments:     clients.Payments,
		Ledger:       credits,
		Suggestions:  suggestions.New(log, reposet.Project, reposet.Analysis),
		Orchestrator: orchestrator.New(log, cache, orchestrator.ConfigFromEnv()),
		Channels:     registry,
	})

	return Services{
		Auth:     authService,
		Ledger:   credits,
		Channels: registry,
		SEO:      seo,
	}
}
