package txn

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ConflictKind
	}{
		{name: "nil", err: nil, want: ConflictNone},
		{name: "optimistic sentinel", err: ErrOptimisticLock, want: ConflictOptimisticLock},
		{name: "optimistic typed", err: &OptimisticLockError{Entity: "Language", ID: 7}, want: ConflictOptimisticLock},
		{name: "optimistic wrapped", err: fmt.Errorf("update language: %w", &OptimisticLockError{Entity: "Language", ID: 7}), want: ConflictOptimisticLock},
		{name: "lock sentinel", err: ErrCannotAcquireLock, want: ConflictCannotAcquireLock},
		{name: "pg serialization failure", err: &pgconn.PgError{Code: "40001"}, want: ConflictCannotAcquireLock},
		{name: "pg deadlock", err: fmt.Errorf("commit: %w", &pgconn.PgError{Code: "40P01"}), want: ConflictCannotAcquireLock},
		{name: "pg lock not available", err: &pgconn.PgError{Code: "55P03"}, want: ConflictCannotAcquireLock},
		{name: "pg unique violation", err: &pgconn.PgError{Code: "23505"}, want: ConflictNone},
		{name: "sqlite busy", err: sqlite3.Error{Code: sqlite3.ErrBusy}, want: ConflictCannotAcquireLock},
		{name: "sqlite locked", err: fmt.Errorf("exec: %w", sqlite3.Error{Code: sqlite3.ErrLocked}), want: ConflictCannotAcquireLock},
		{name: "sqlite constraint", err: sqlite3.Error{Code: sqlite3.ErrConstraint}, want: ConflictNone},
		{name: "flattened serialize message", err: errors.New("ERROR: could not serialize access due to concurrent update"), want: ConflictCannotAcquireLock},
		{name: "flattened deadlock message", err: errors.New("ERROR: deadlock detected"), want: ConflictCannotAcquireLock},
		{name: "flattened sqlite busy", err: errors.New("database is locked"), want: ConflictCannotAcquireLock},
		{name: "not found", err: gorm.ErrRecordNotFound, want: ConflictNone},
		{name: "canceled", err: context.Canceled, want: ConflictNone},
		{name: "plain", err: errors.New("validation failed"), want: ConflictNone},
		{name: "exhausted retry", err: &RepeatedlyCannotSerializeError{Repeats: MaxAttempts, Cause: ErrOptimisticLock}, want: ConflictNone},
		{name: "wrapped exhausted retry", err: fmt.Errorf("outer: %w", &RepeatedlyCannotSerializeError{Repeats: 3, Cause: ErrCannotAcquireLock}), want: ConflictNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Fatalf("Classify(%v) = %s, want %s", tt.err, got, tt.want)
			}
		})
	}
}

func TestRepeatedlyCannotSerializeError(t *testing.T) {
	cause := &OptimisticLockError{Entity: "Project", ID: 1}
	err := &RepeatedlyCannotSerializeError{Repeats: 100, Cause: cause}
	if err.Error() != "Retry failed 100 times." {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	if !errors.Is(err, ErrOptimisticLock) {
		t.Fatalf("expected cause reachable via errors.Is")
	}
	var lockErr *OptimisticLockError
	if !errors.As(err, &lockErr) || lockErr.ID != 1 {
		t.Fatalf("expected cause reachable via errors.As, got %+v", lockErr)
	}
}
