package txn

import (
	"time"

	"github.com/tolgee/tolgee-backend/internal/observability"
)

// Hooks captures retrier observability events.
type Hooks interface {
	ObserveAttempt(outcome string, dur time.Duration)
	IncConflict(kind ConflictKind)
	IncExhausted()
}

type noopHooks struct{}

func (noopHooks) ObserveAttempt(string, time.Duration) {}
func (noopHooks) IncConflict(ConflictKind)             {}
func (noopHooks) IncExhausted()                        {}

func NoopHooks() Hooks { return noopHooks{} }

type observabilityHooks struct {
	metrics *observability.Metrics
}

// NewObservabilityHooks creates retrier hooks backed by metrics; nil
// metrics yield no-op hooks.
func NewObservabilityHooks(metrics *observability.Metrics) Hooks {
	if metrics == nil {
		return noopHooks{}
	}
	return &observabilityHooks{metrics: metrics}
}

func (h *observabilityHooks) ObserveAttempt(outcome string, dur time.Duration) {
	h.metrics.ObserveTxnAttempt(outcome, dur)
}

func (h *observabilityHooks) IncConflict(kind ConflictKind) {
	h.metrics.IncTxnConflict(kind.String())
}

func (h *observabilityHooks) IncExhausted() {
	h.metrics.IncTxnExhausted()
}
