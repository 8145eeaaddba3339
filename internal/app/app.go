package app

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/tolgee/tolgee-backend/internal/data/db"
	"github.com/tolgee/tolgee-backend/internal/data/repos"
	"github.com/tolgee/tolgee-backend/internal/http"
	"github.com/tolgee/tolgee-backend/internal/observability"
	"github.com/tolgee/tolgee-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Repos    repos.Set
	Services Services
	Clients  Clients
	Metrics  *observability.Metrics
	Server   *http.Server

	dbService     *db.Service
	otelShutdown  func(context.Context) error
	cancelWorkers context.CancelFunc
}

// New connects the store and Redis and wires every component. Background
// collectors start in Start.
func New(ctx context.Context, log *logger.Logger, cfg Config) (*App, error) {
	otelShutdown := observability.InitOTel(ctx, log, cfg.Otel)
	metrics := observability.Init(log, cfg.Metrics)

	dbService, err := db.Open(cfg.DB, log)
	if err != nil {
		_ = otelShutdown(ctx)
		return nil, fmt.Errorf("init db: %w", err)
	}
	theDB := dbService.DB()
	if cfg.AutoMigrate {
		if err := db.AutoMigrateAll(theDB); err != nil {
			_ = dbService.Close()
			_ = otelShutdown(ctx)
			return nil, fmt.Errorf("db automigrate: %w", err)
		}
	}

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		_ = dbService.Close()
		_ = otelShutdown(ctx)
		return nil, err
	}

	reposet := repos.NewSet(theDB, log)
	serviceset := wireServices(theDB, log, reposet, clients, metrics)
	handlerset := wireHandlers(log, theDB, serviceset)

	return &App{
		Log:          log,
		DB:           theDB,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Clients:      clients,
		Metrics:      metrics,
		Server:       wireServer(log, cfg, handlerset, metrics),
		dbService:    dbService,
		otelShutdown: otelShutdown,
	}, nil
}

func (a *App) Start(ctx context.Context) {
	if a == nil || a.cancelWorkers != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	a.cancelWorkers = cancel
	a.Metrics.StartDBCollector(ctx, a.Log, a.DB)
	if a.Clients.Redis != nil {
		a.Metrics.StartRedisCollector(ctx, a.Log, a.Clients.Redis)
	}
}

// Run serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Start(ctx)
	return a.Server.Run(ctx, a.Cfg.HTTP.ShutdownTimeout)
}

func (a *App) Close(ctx context.Context) {
	if a == nil {
		return
	}
	if a.cancelWorkers != nil {
		a.cancelWorkers()
		a.cancelWorkers = nil
	}
	a.Clients.Close()
	if a.dbService != nil {
		if err := a.dbService.Close(); err != nil {
			a.Log.Warn("db close failed", "error", err)
		}
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	a.Log.Sync()
}
