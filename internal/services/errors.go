package services

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"

	"github.com/tolgee/tolgee-backend/internal/data/txn"
	"github.com/tolgee/tolgee-backend/internal/domain/errs"
)

// MapError translates store and transaction failures into coded errors.
// Already coded errors pass through unchanged.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var coded *errs.Error
	if errors.As(err, &coded) {
		return err
	}

	var exhausted *txn.RepeatedlyCannotSerializeError
	switch {
	case errors.As(err, &exhausted):
		return errs.New(errs.CodeRetryable, op, "repeatedly_cannot_serialize", err)
	case errors.Is(err, txn.ErrNoTransaction):
		return errs.New(errs.CodeInternal, op, "transaction_required", err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errs.Wrap(errs.CodeNotFound, op, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return errs.Wrap(errs.CodeRetryable, op, err)
	}

	switch txn.Classify(err) {
	case txn.ConflictOptimisticLock:
		return errs.New(errs.CodeConflict, op, "optimistic_lock", err)
	case txn.ConflictCannotAcquireLock:
		return errs.New(errs.CodeRetryable, op, "cannot_acquire_lock", err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505":
			return errs.Wrap(errs.CodeConflict, op, err) // unique_violation
		case "23503":
			return errs.Wrap(errs.CodePreconditionFailed, op, err) // foreign_key_violation
		}
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch liteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return errs.Wrap(errs.CodeConflict, op, err)
		case sqlite3.ErrConstraintForeignKey:
			return errs.Wrap(errs.CodePreconditionFailed, op, err)
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "duplicate key"), strings.Contains(msg, "unique constraint failed"):
		return errs.Wrap(errs.CodeConflict, op, err)
	default:
		return errs.Wrap(errs.CodeInternal, op, err)
	}
}
