package observability

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/tolgee/tolgee-backend/internal/platform/logger"
)

type MetricsConfig struct {
	Enabled        bool          `env:"METRICS_ENABLED" envDefault:"false"`
	ScrapeInterval time.Duration `env:"METRICS_SCRAPE_INTERVAL" envDefault:"10s"`
}

type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge

	txnAttempts       *CounterVec
	txnAttemptLatency *HistogramVec
	txnConflicts      *CounterVec
	txnExhausted      *Counter

	activityCache *CounterVec

	dbStats   *GaugeVec
	redisUp   *Gauge
	redisPing *Gauge

	scrapeInterval time.Duration
}

var (
	initOnce sync.Once
	instance *Metrics
)

// Init builds the process-wide Metrics once. It returns nil when metrics are
// disabled; every Metrics method is a no-op on a nil receiver.
func Init(log *logger.Logger, cfg MetricsConfig) *Metrics {
	if !cfg.Enabled {
		return nil
	}
	initOnce.Do(func() {
		instance = New(cfg)
		if log != nil {
			log.Info("metrics enabled", "scrape_interval", instance.scrapeInterval.String())
		}
	})
	return instance
}

func Current() *Metrics {
	return instance
}

// New builds an independent Metrics set.
func New(cfg MetricsConfig) *Metrics {
	interval := cfg.ScrapeInterval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Metrics{
		apiRequests: NewCounterVec("tolgee_api_requests_total", "Total API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"tolgee_api_request_duration_seconds",
			"API request latency in seconds by method/route/status.",
			[]string{"method", "route", "status"},
			[]float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		),
		apiInflight: NewGauge("tolgee_api_inflight_requests", "In-flight API requests."),

		txnAttempts: NewCounterVec("tolgee_txn_attempts_total", "Serializable transaction attempts by outcome.", []string{"outcome"}),
		txnAttemptLatency: NewHistogramVec(
			"tolgee_txn_attempt_duration_seconds",
			"Serializable transaction attempt latency in seconds by outcome.",
			[]string{"outcome"},
			[]float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 5},
		),
		txnConflicts: NewCounterVec("tolgee_txn_conflicts_total", "Retried transaction conflicts by kind.", []string{"kind"}),
		txnExhausted: NewCounter("tolgee_txn_retry_exhausted_total", "Transactions that exhausted the retry budget."),

		activityCache: NewCounterVec("tolgee_activity_daily_cache_total", "Daily activity cache lookups by result.", []string{"result"}),

		dbStats:   NewGaugeVec("tolgee_db_stats", "Database connection pool stats.", []string{"metric"}),
		redisUp:   NewGauge("tolgee_redis_up", "Redis connectivity (1=up, 0=down)."),
		redisPing: NewGauge("tolgee_redis_ping_seconds", "Redis ping latency in seconds."),

		scrapeInterval: interval,
	}
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, _ *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, c := range []collector{
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.txnAttempts, m.txnAttemptLatency, m.txnConflicts, m.txnExhausted,
		m.activityCache,
		m.dbStats, m.redisUp, m.redisPing,
	} {
		if err := c.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route, status)
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveTxnAttempt(outcome string, dur time.Duration) {
	if m == nil {
		return
	}
	outcome = strings.TrimSpace(outcome)
	m.txnAttempts.Inc(outcome)
	m.txnAttemptLatency.Observe(dur.Seconds(), outcome)
}

func (m *Metrics) IncTxnConflict(kind string) {
	if m == nil {
		return
	}
	m.txnConflicts.Inc(strings.TrimSpace(kind))
}

func (m *Metrics) IncTxnExhausted() {
	if m == nil {
		return
	}
	m.txnExhausted.Inc()
}

// IncActivityCache records a daily activity cache lookup: hit, miss or error.
func (m *Metrics) IncActivityCache(result string) {
	if m == nil {
		return
	}
	m.activityCache.Inc(strings.TrimSpace(result))
}

func (m *Metrics) StartDBCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(m.scrapeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					if log != nil {
						log.Warn("metrics: db stats unavailable", "error", err)
					}
					continue
				}
				stats := sqlDB.Stats()
				m.dbStats.Set(float64(stats.OpenConnections), "open_connections")
				m.dbStats.Set(float64(stats.InUse), "in_use")
				m.dbStats.Set(float64(stats.Idle), "idle")
				m.dbStats.Set(float64(stats.WaitCount), "wait_count")
				m.dbStats.Set(stats.WaitDuration.Seconds(), "wait_duration_seconds")
				m.dbStats.Set(float64(stats.MaxOpenConnections), "max_open_connections")
			}
		}
	}()
}

// StartRedisCollector pings rdb on every scrape tick. The caller owns rdb.
func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb redis.UniversalClient) {
	if m == nil || rdb == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(m.scrapeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}
