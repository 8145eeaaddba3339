package testutil

import (
	"sync"
	"time"

	"github.com/tolgee/tolgee-backend/internal/data/txn"
)

// HooksRecorder captures retrier hook signals in tests.
type HooksRecorder struct {
	mu sync.Mutex

	Attempts  []AttemptEvent
	Conflicts []txn.ConflictKind
	Exhausted int
}

type AttemptEvent struct {
	Outcome  string
	Duration time.Duration
}

var _ txn.Hooks = (*HooksRecorder)(nil)

func (h *HooksRecorder) ObserveAttempt(outcome string, dur time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Attempts = append(h.Attempts, AttemptEvent{Outcome: outcome, Duration: dur})
}

func (h *HooksRecorder) IncConflict(kind txn.ConflictKind) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Conflicts = append(h.Conflicts, kind)
}

func (h *HooksRecorder) IncExhausted() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Exhausted++
}
