package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	types "github.com/tolgee/tolgee-backend/internal/domain"
	"github.com/tolgee/tolgee-backend/internal/platform/logger"
)

// DailyActivityCache holds per-project daily revision counts.
type DailyActivityCache interface {
	// Get reports ok=false on a miss.
	Get(ctx context.Context, projectID int64) (counts []types.ActivityDailyCount, ok bool, err error)
	Set(ctx context.Context, projectID int64, counts []types.ActivityDailyCount) error
	Invalidate(ctx context.Context, projectID int64) error
}

type dailyActivityCache struct {
	log    *logger.Logger
	rdb    goredis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewDailyActivityCache(rdb goredis.UniversalClient, log *logger.Logger, prefix string, ttl time.Duration) DailyActivityCache {
	if rdb == nil {
		return NoopDailyActivityCache()
	}
	if log == nil {
		log = logger.Nop()
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "tolgee"
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &dailyActivityCache{
		log:    log.With("client", "DailyActivityCache"),
		rdb:    rdb,
		prefix: prefix,
		ttl:    ttl,
	}
}

func dailyActivityKey(prefix string, projectID int64) string {
	return fmt.Sprintf("%s:activity:daily:%d", prefix, projectID)
}

func (c *dailyActivityCache) Get(ctx context.Context, projectID int64) ([]types.ActivityDailyCount, bool, error) {
	raw, err := c.rdb.Get(ctx, dailyActivityKey(c.prefix, projectID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var out []types.ActivityDailyCount
	if err := json.Unmarshal(raw, &out); err != nil {
		// Undecodable entries count as a miss and are overwritten on Set.
		c.log.Warn("discarding undecodable daily activity entry", "project_id", projectID, "error", err)
		return nil, false, nil
	}
	return out, true, nil
}

func (c *dailyActivityCache) Set(ctx context.Context, projectID int64, counts []types.ActivityDailyCount) error {
	if counts == nil {
		counts = []types.ActivityDailyCount{}
	}
	raw, err := json.Marshal(counts)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, dailyActivityKey(c.prefix, projectID), raw, c.ttl).Err()
}

func (c *dailyActivityCache) Invalidate(ctx context.Context, projectID int64) error {
	return c.rdb.Del(ctx, dailyActivityKey(c.prefix, projectID)).Err()
}

type noopDailyActivityCache struct{}

// NoopDailyActivityCache always misses.
func NoopDailyActivityCache() DailyActivityCache { return noopDailyActivityCache{} }

func (noopDailyActivityCache) Get(context.Context, int64) ([]types.ActivityDailyCount, bool, error) {
	return nil, false, nil
}
func (noopDailyActivityCache) Set(context.Context, int64, []types.ActivityDailyCount) error {
	return nil
}
func (noopDailyActivityCache) Invalidate(context.Context, int64) error { return nil }
