package app

import (
	"context"

	"gorm.io/gorm"

	"github.com/tolgee/tolgee-backend/internal/http"
	httpH "github.com/tolgee/tolgee-backend/internal/http/handlers"
	"github.com/tolgee/tolgee-backend/internal/observability"
	"github.com/tolgee/tolgee-backend/internal/platform/logger"
)

type Handlers struct {
	Health   *httpH.HealthHandler
	Activity *httpH.ActivityHandler
	Language *httpH.LanguageHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:   httpH.NewHealthHandler(dbPinger(db)),
		Activity: httpH.NewActivityHandler(log, services.Activity),
		Language: httpH.NewLanguageHandler(log, services.Projects),
	}
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, metrics *observability.Metrics) *http.Server {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return http.NewServer(log, cfg.HTTP.Addr, http.RouterConfig{
		Log:             log,
		Metrics:         metrics,
		ServiceName:     serviceName,
		CORSOrigins:     cfg.HTTP.CORSOrigins,
		HealthHandler:   handlers.Health,
		ActivityHandler: handlers.Activity,
		LanguageHandler: handlers.Language,
	})
}

func dbPinger(db *gorm.DB) httpH.Pinger {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}
