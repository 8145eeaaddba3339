package txn

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

// ConflictKind is the closed set of concurrency failures the retrier
// recovers from.
type ConflictKind int

const (
	ConflictNone ConflictKind = iota
	ConflictOptimisticLock
	ConflictCannotAcquireLock
)

func (k ConflictKind) String() string {
	switch k {
	case ConflictOptimisticLock:
		return "optimistic_lock"
	case ConflictCannotAcquireLock:
		return "cannot_acquire_lock"
	default:
		return "none"
	}
}

func (k ConflictKind) Retryable() bool { return k != ConflictNone }

var (
	// ErrOptimisticLock marks a version-stamp mismatch between read and write.
	ErrOptimisticLock = errors.New("optimistic lock conflict")
	// ErrCannotAcquireLock marks a lock that could not be taken or a
	// transaction the store could not serialize.
	ErrCannotAcquireLock = errors.New("cannot acquire lock")
)

// OptimisticLockError names the row whose version moved underneath a write.
type OptimisticLockError struct {
	Entity string
	ID     int64
}

func (e *OptimisticLockError) Error() string {
	return fmt.Sprintf("optimistic lock conflict on %s %d", e.Entity, e.ID)
}

func (e *OptimisticLockError) Is(target error) bool { return target == ErrOptimisticLock }

// Postgres SQLSTATEs reported for lost serialization races.
const (
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
	sqlStateLockNotAvailable     = "55P03"
)

// Classify maps err onto a ConflictKind. Errors outside the closed set,
// including an exhausted retry, classify as ConflictNone.
func Classify(err error) ConflictKind {
	if err == nil {
		return ConflictNone
	}
	var exhausted *RepeatedlyCannotSerializeError
	if errors.As(err, &exhausted) {
		return ConflictNone
	}
	if errors.Is(err, ErrOptimisticLock) {
		return ConflictOptimisticLock
	}
	if errors.Is(err, ErrCannotAcquireLock) {
		return ConflictCannotAcquireLock
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case sqlStateSerializationFailure, sqlStateDeadlockDetected, sqlStateLockNotAvailable:
			return ConflictCannotAcquireLock
		}
		return ConflictNone
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		if liteErr.Code == sqlite3.ErrBusy || liteErr.Code == sqlite3.ErrLocked {
			return ConflictCannotAcquireLock
		}
		return ConflictNone
	}

	// Drivers that flatten errors to strings.
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "could not serialize access"),
		strings.Contains(msg, "deadlock detected"),
		strings.Contains(msg, "database is locked"),
		strings.Contains(msg, "database table is locked"):
		return ConflictCannotAcquireLock
	}
	return ConflictNone
}
