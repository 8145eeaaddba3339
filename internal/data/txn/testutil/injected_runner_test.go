package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/tolgee/tolgee-backend/internal/data/txn"
	"github.com/tolgee/tolgee-backend/internal/platform/dbctx"
)

func TestInjectedRunner_CommitAndRollbackCounts(t *testing.T) {
	r := &InjectedRunner{}
	dbc := dbctx.Background(context.Background())

	if err := r.InTx(dbc, txn.DefaultDefinition(), func(dbctx.Context) error { return nil }); err != nil {
		t.Fatalf("InTx commit: %v", err)
	}
	want := errors.New("boom")
	if err := r.InTx(dbc, txn.DefaultDefinition(), func(dbctx.Context) error { return want }); !errors.Is(err, want) {
		t.Fatalf("expected body error, got %v", err)
	}
	if r.BeginCalls != 2 || r.CommitCalls != 1 || r.RollbackCalls != 1 {
		t.Fatalf("unexpected counters: begin=%d commit=%d rollback=%d", r.BeginCalls, r.CommitCalls, r.RollbackCalls)
	}
	if len(r.Definitions) != 2 {
		t.Fatalf("expected 2 recorded definitions, got %d", len(r.Definitions))
	}
}

func TestInjectedRunner_FailCommitPerAttempt(t *testing.T) {
	commitErr := errors.New("commit failed")
	r := &InjectedRunner{FailCommit: func(attempt int) error {
		if attempt == 1 {
			return commitErr
		}
		return nil
	}}
	dbc := dbctx.Background(context.Background())
	body := 0
	fn := func(dbctx.Context) error { body++; return nil }

	if err := r.InTx(dbc, txn.DefaultDefinition(), fn); !errors.Is(err, commitErr) {
		t.Fatalf("expected commit error on attempt 1, got %v", err)
	}
	if err := r.InTx(dbc, txn.DefaultDefinition(), fn); err != nil {
		t.Fatalf("expected attempt 2 to commit, got %v", err)
	}
	if body != 2 || r.CommitCalls != 1 || r.RollbackCalls != 1 {
		t.Fatalf("unexpected counters: body=%d commit=%d rollback=%d", body, r.CommitCalls, r.RollbackCalls)
	}
}

func TestInjectedRunner_FailBeginSkipsBody(t *testing.T) {
	beginErr := errors.New("begin failed")
	r := &InjectedRunner{FailBegin: func(int) error { return beginErr }}
	called := false
	err := r.InTx(dbctx.Background(context.Background()), txn.DefaultDefinition(), func(dbctx.Context) error {
		called = true
		return nil
	})
	if !errors.Is(err, beginErr) {
		t.Fatalf("expected begin error, got %v", err)
	}
	if called {
		t.Fatalf("body ran after failed begin")
	}
}
