package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/tolgee/tolgee-backend/internal/clients/redis"
	"github.com/tolgee/tolgee-backend/internal/data/paging"
	"github.com/tolgee/tolgee-backend/internal/data/repos"
	types "github.com/tolgee/tolgee-backend/internal/domain"
	"github.com/tolgee/tolgee-backend/internal/domain/activity"
	"github.com/tolgee/tolgee-backend/internal/observability"
	"github.com/tolgee/tolgee-backend/internal/platform/dbctx"
	"github.com/tolgee/tolgee-backend/internal/platform/logger"
)

// ProjectActivity is one feed entry. Types listed with only_count_in_list
// carry Counts instead of DescribingRelations.
type ProjectActivity struct {
	Revision            *types.ActivityRevision           `json:"revision"`
	DescribingRelations []*types.ActivityDescribingEntity `json:"describing_relations"`
	Counts              map[string]int64                  `json:"counts,omitempty"`
}

type ActivityService interface {
	ListProjectActivity(ctx context.Context, projectID int64, pageable paging.Pageable) (paging.Page[*ProjectActivity], error)
	DailyActivity(ctx context.Context, projectID int64) ([]types.ActivityDailyCount, error)
}

type activityService struct {
	log       *logger.Logger
	revisions repos.RevisionRepo
	catalog   *activity.Catalog
	daily     redis.DailyActivityCache
	metrics   *observability.Metrics
}

func NewActivityService(log *logger.Logger, revisions repos.RevisionRepo, catalog *activity.Catalog, daily redis.DailyActivityCache, metrics *observability.Metrics) ActivityService {
	if catalog == nil {
		catalog = activity.DefaultCatalog()
	}
	if daily == nil {
		daily = redis.NoopDailyActivityCache()
	}
	return &activityService{
		log:       log.With("service", "ActivityService"),
		revisions: revisions,
		catalog:   catalog,
		daily:     daily,
		metrics:   metrics,
	}
}

func (s *activityService) ListProjectActivity(ctx context.Context, projectID int64, pageable paging.Pageable) (paging.Page[*ProjectActivity], error) {
	const op = "activity.list_project"
	dbc := dbctx.Background(ctx)
	page, err := s.revisions.GetForProject(dbc, projectID, pageable)
	if err != nil {
		return paging.Page[*ProjectActivity]{}, MapError(op, err)
	}

	ids := make([]int64, 0, len(page.Items))
	for _, rev := range page.Items {
		ids = append(ids, rev.ID)
	}

	var (
		relations []*types.ActivityDescribingEntity
		counts    []types.ActivityEntityTypeCount
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		relations, err = s.revisions.GetRelationsForRevisions(dbctx.Background(gctx), ids, s.catalog.RelationTypes())
		return err
	})
	g.Go(func() error {
		var err error
		counts, err = s.revisions.GetModifiedEntityTypeCounts(dbctx.Background(gctx), ids, s.catalog.CountTypes())
		return err
	})
	if err := g.Wait(); err != nil {
		return paging.Page[*ProjectActivity]{}, MapError(op, err)
	}

	relByRev := map[int64][]*types.ActivityDescribingEntity{}
	for _, rel := range relations {
		relByRev[rel.ActivityRevisionID] = append(relByRev[rel.ActivityRevisionID], rel)
	}
	countByRev := map[int64]map[string]int64{}
	for _, c := range counts {
		if countByRev[c.RevisionID] == nil {
			countByRev[c.RevisionID] = map[string]int64{}
		}
		countByRev[c.RevisionID][c.EntityClass] = c.Count
	}

	return paging.Map(page, func(rev *types.ActivityRevision) *ProjectActivity {
		rels := relByRev[rev.ID]
		if rels == nil {
			rels = []*types.ActivityDescribingEntity{}
		}
		return &ProjectActivity{
			Revision:            rev,
			DescribingRelations: rels,
			Counts:              countByRev[rev.ID],
		}
	}), nil
}

func (s *activityService) DailyActivity(ctx context.Context, projectID int64) ([]types.ActivityDailyCount, error) {
	const op = "activity.daily"
	cached, ok, err := s.daily.Get(ctx, projectID)
	switch {
	case err != nil:
		s.metrics.IncActivityCache("error")
		s.log.Warn("daily activity cache read failed", "project_id", projectID, "error", err)
	case ok:
		s.metrics.IncActivityCache("hit")
		return cached, nil
	default:
		s.metrics.IncActivityCache("miss")
	}

	counts, err := s.revisions.GetProjectDailyActivity(dbctx.Background(ctx), projectID)
	if err != nil {
		return nil, MapError(op, err)
	}
	if err := s.daily.Set(ctx, projectID, counts); err != nil {
		s.log.Warn("daily activity cache write failed", "project_id", projectID, "error", err)
	}
	return counts, nil
}
