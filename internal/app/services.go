package app

import (
	"gorm.io/gorm"

	"github.com/tolgee/tolgee-backend/internal/data/repos"
	"github.com/tolgee/tolgee-backend/internal/data/txn"
	"github.com/tolgee/tolgee-backend/internal/domain/activity"
	"github.com/tolgee/tolgee-backend/internal/observability"
	"github.com/tolgee/tolgee-backend/internal/platform/logger"
	"github.com/tolgee/tolgee-backend/internal/services"
)

type Services struct {
	Retrier  *txn.Retrier
	Recorder services.ActivityRecorder
	Projects services.ProjectService
	Activity services.ActivityService
}

func wireServices(db *gorm.DB, log *logger.Logger, reposet repos.Set, clients Clients, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")
	catalog := activity.DefaultCatalog()
	retrier := txn.NewRetrier(txn.NewGormRunner(db), log, txn.NewObservabilityHooks(metrics))
	recorder := services.NewActivityRecorder(log, reposet.Revisions, catalog)
	return Services{
		Retrier:  retrier,
		Recorder: recorder,
		Projects: services.NewProjectService(log, retrier, reposet.Projects, reposet.Languages, recorder, clients.DailyCache),
		Activity: services.NewActivityService(log, reposet.Revisions, catalog, clients.DailyCache, metrics),
	}
}
