package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/tolgee/tolgee-backend/internal/data/txn"
	"github.com/tolgee/tolgee-backend/internal/domain/errs"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code errs.Code
		msg  string
	}{
		{name: "coded passes through", err: errs.Validation("x", "bad_input"), code: errs.CodeValidation, msg: "bad_input"},
		{name: "exhausted retries", err: &txn.RepeatedlyCannotSerializeError{Repeats: 100, Cause: txn.ErrOptimisticLock}, code: errs.CodeRetryable, msg: "repeatedly_cannot_serialize"},
		{name: "no transaction", err: fmt.Errorf("record: %w", txn.ErrNoTransaction), code: errs.CodeInternal, msg: "transaction_required"},
		{name: "record not found", err: gorm.ErrRecordNotFound, code: errs.CodeNotFound},
		{name: "deadline", err: context.DeadlineExceeded, code: errs.CodeRetryable},
		{name: "optimistic lock", err: &txn.OptimisticLockError{Entity: "Language", ID: 3}, code: errs.CodeConflict, msg: "optimistic_lock"},
		{name: "lock not available", err: &pgconn.PgError{Code: "55P03"}, code: errs.CodeRetryable, msg: "cannot_acquire_lock"},
		{name: "pg unique violation", err: &pgconn.PgError{Code: "23505"}, code: errs.CodeConflict},
		{name: "pg foreign key violation", err: &pgconn.PgError{Code: "23503"}, code: errs.CodePreconditionFailed},
		{name: "sqlite unique message", err: errors.New("UNIQUE constraint failed: language.tag"), code: errs.CodeConflict},
		{name: "unknown", err: errors.New("boom"), code: errs.CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError("op", tt.err)
			if !errs.IsCode(got, tt.code) {
				t.Fatalf("expected code %s, got %v", tt.code, got)
			}
			if tt.msg != "" && errs.MessageOf(got) != tt.msg {
				t.Fatalf("expected message %q, got %q", tt.msg, errs.MessageOf(got))
			}
			if !errors.Is(got, tt.err) && !errors.As(tt.err, new(*errs.Error)) {
				t.Fatalf("mapped error must wrap its cause")
			}
		})
	}
	if MapError("op", nil) != nil {
		t.Fatalf("nil must map to nil")
	}
}
