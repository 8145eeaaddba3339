package testutil

import (
	"sync"

	"github.com/tolgee/tolgee-backend/internal/data/txn"
	"github.com/tolgee/tolgee-backend/internal/platform/dbctx"
)

// InjectedRunner is a txn.Runner that never touches a database. It records
// every Definition it receives and can fail begin or commit per attempt.
type InjectedRunner struct {
	mu sync.Mutex

	// FailBegin and FailCommit receive the 1-based attempt number and return
	// the error to inject, or nil.
	FailBegin  func(attempt int) error
	FailCommit func(attempt int) error

	Definitions   []txn.Definition
	BeginCalls    int
	CommitCalls   int
	RollbackCalls int
}

var _ txn.Runner = (*InjectedRunner)(nil)

func (r *InjectedRunner) InTx(dbc dbctx.Context, def txn.Definition, fn func(dbc dbctx.Context) error) error {
	r.mu.Lock()
	r.BeginCalls++
	attempt := r.BeginCalls
	r.Definitions = append(r.Definitions, def)
	failBegin := r.FailBegin
	failCommit := r.FailCommit
	r.mu.Unlock()

	if failBegin != nil {
		if err := failBegin(attempt); err != nil {
			return err
		}
	}
	if fn != nil {
		if err := fn(dbctx.Context{Ctx: dbc.Ctx}); err != nil {
			r.mu.Lock()
			r.RollbackCalls++
			r.mu.Unlock()
			return err
		}
	}
	if failCommit != nil {
		if err := failCommit(attempt); err != nil {
			r.mu.Lock()
			r.RollbackCalls++
			r.mu.Unlock()
			return err
		}
	}
	r.mu.Lock()
	r.CommitCalls++
	r.mu.Unlock()
	return nil
}

func (r *InjectedRunner) Attempts() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.BeginCalls
}
