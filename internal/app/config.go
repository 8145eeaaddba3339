package app

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/tolgee/tolgee-backend/internal/clients/redis"
	"github.com/tolgee/tolgee-backend/internal/data/db"
	"github.com/tolgee/tolgee-backend/internal/observability"
)

type HTTPConfig struct {
	Addr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"15s"`
	CORSOrigins     []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

type Config struct {
	LogMode     string `env:"LOG_MODE" envDefault:"development"`
	AutoMigrate bool   `env:"DB_AUTO_MIGRATE" envDefault:"true"`

	HTTP    HTTPConfig
	DB      db.Config
	Redis   redis.Config
	Metrics observability.MetricsConfig
	Otel    observability.OtelConfig
}

func LoadConfig() (Config, error) {
	return parseConfig(env.Options{})
}

func parseConfig(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Redis.DailyActivityTTL <= 0 {
		return Config{}, fmt.Errorf("parse config: ACTIVITY_DAILY_CACHE_TTL must be positive")
	}
	return cfg, nil
}
