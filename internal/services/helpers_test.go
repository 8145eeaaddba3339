package services

import (
	"context"
	"sync"
	"testing"

	"gorm.io/gorm"

	"github.com/tolgee/tolgee-backend/internal/data/repos"
	"github.com/tolgee/tolgee-backend/internal/data/repos/testutil"
	"github.com/tolgee/tolgee-backend/internal/data/txn"
	types "github.com/tolgee/tolgee-backend/internal/domain"
	"github.com/tolgee/tolgee-backend/internal/platform/dbctx"
)

// flakyRunner runs every attempt for real, then rolls the first failures
// attempts back with an optimistic lock conflict.
type flakyRunner struct {
	inner    txn.Runner
	failures int

	mu       sync.Mutex
	attempts int
}

func (r *flakyRunner) InTx(dbc dbctx.Context, def txn.Definition, fn func(dbc dbctx.Context) error) error {
	r.mu.Lock()
	r.attempts++
	attempt := r.attempts
	r.mu.Unlock()
	return r.inner.InTx(dbc, def, func(dbc dbctx.Context) error {
		if err := fn(dbc); err != nil {
			return err
		}
		if attempt <= r.failures {
			return txn.ErrOptimisticLock
		}
		return nil
	})
}

type memDailyCache struct {
	mu          sync.Mutex
	data        map[int64][]types.ActivityDailyCount
	gets        int
	invalidated []int64
}

func newMemDailyCache() *memDailyCache {
	return &memDailyCache{data: map[int64][]types.ActivityDailyCount{}}
}

func (c *memDailyCache) Get(_ context.Context, projectID int64) ([]types.ActivityDailyCount, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	v, ok := c.data[projectID]
	return v, ok, nil
}

func (c *memDailyCache) Set(_ context.Context, projectID int64, counts []types.ActivityDailyCount) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[projectID] = counts
	return nil
}

func (c *memDailyCache) Invalidate(_ context.Context, projectID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, projectID)
	c.invalidated = append(c.invalidated, projectID)
	return nil
}

type fixture struct {
	db       *gorm.DB
	repos    repos.Set
	runner   *flakyRunner
	cache    *memDailyCache
	recorder ActivityRecorder
	projects ProjectService
	activity ActivityService
}

func newFixture(t *testing.T, failures int) *fixture {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	set := repos.NewSet(db, log)
	runner := &flakyRunner{inner: txn.NewGormRunner(db), failures: failures}
	retrier := txn.NewRetrier(runner, log, nil)
	cache := newMemDailyCache()
	recorder := NewActivityRecorder(log, set.Revisions, nil)
	return &fixture{
		db:       db,
		repos:    set,
		runner:   runner,
		cache:    cache,
		recorder: recorder,
		projects: NewProjectService(log, retrier, set.Projects, set.Languages, recorder, cache),
		activity: NewActivityService(log, set.Revisions, nil, cache, nil),
	}
}

func (f *fixture) seedProject(t *testing.T, name string) *types.Project {
	t.Helper()
	return testutil.SeedProject(t, context.Background(), f.db, name)
}

func (f *fixture) revisionCount(t *testing.T, projectID int64, activityType types.ActivityType) int64 {
	t.Helper()
	return testutil.Count(t, f.db, &types.ActivityRevision{}, "project_id = ? AND type = ?", projectID, string(activityType))
}

func (f *fixture) languageCount(t *testing.T, projectID int64) int64 {
	t.Helper()
	return testutil.Count(t, f.db, &types.Language{}, "project_id = ?", projectID)
}
