package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/tolgee/tolgee-backend/internal/clients/redis"
	"github.com/tolgee/tolgee-backend/internal/platform/logger"
)

type Clients struct {
	Redis      *goredis.Client
	DailyCache redis.DailyActivityCache
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	if !cfg.Redis.Enabled() {
		log.Info("REDIS_ADDR not set; daily activity cache disabled")
		return Clients{DailyCache: redis.NoopDailyActivityCache()}, nil
	}
	rdb, err := redis.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		return Clients{}, fmt.Errorf("init redis: %w", err)
	}
	return Clients{
		Redis:      rdb,
		DailyCache: redis.NewDailyActivityCache(rdb, log, cfg.Redis.KeyPrefix, cfg.Redis.DailyActivityTTL),
	}, nil
}

func (c Clients) Close() {
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
