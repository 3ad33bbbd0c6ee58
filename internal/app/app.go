package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/keywordiq-backend/internal/data/db"
	"github.com/yungbote/keywordiq-backend/internal/observability"
	"github.com/yungbote/keywordiq-backend/internal/platform/envutil"
	"github.com/yungbote/keywordiq-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Clients  Clients
	Services Services
	Metrics  *observability.Metrics

	pg            *db.PostgresService
	otelShutdown  func(context.Context) error
	cancel        context.CancelFunc
	collectorsCtx context.Context
}

func New() (*App, error) {
	logMode := envutil.String("LOG_MODE", "development")
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)
	if logMode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
	})
	metrics := observability.Init(log)

	pg, err := db.NewPostgresService(log)
	if err != nil {
		cancel()
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := db.AutoMigrateAll(pg.DB()); err != nil {
		cancel()
		_ = pg.Close()
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		cancel()
		_ = pg.Close()
		log.Sync()
		return nil, err
	}

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, clients)
	handlerset := wireHandlers(theDB, log, serviceset)
	middleware := wireMiddleware(log, serviceset)

	tracingService := ""
	if otelShutdown != nil {
		tracingService = cfg.ServiceName
	}
	router := wireRouter(log, metrics, tracingService, handlerset, middleware)

	return &App{
		Log:           log,
		DB:            theDB,
		Router:        router,
		Cfg:           cfg,
		Repos:         reposet,
		Clients:       clients,
		Services:      serviceset,
		Metrics:       metrics,
		pg:            pg,
		otelShutdown:  otelShutdown,
		cancel:        cancel,
		collectorsCtx: ctx,
	}, nil
}

// Start launches the background metric collectors.
func (a *App) Start() {
	if a == nil || a.Metrics == nil {
		return
	}
	a.Metrics.StartPostgresCollector(a.Log, a.DB)
	a.Metrics.StartRedisCollector(a.collectorsCtx, a.Log, a.Clients.Redis)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.otelShutdown(ctx); err != nil && a.Log != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
	}
	a.Clients.Close()
	if a.pg != nil {
		_ = a.pg.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
