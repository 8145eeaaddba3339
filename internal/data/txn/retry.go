package txn

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tolgee/tolgee-backend/internal/platform/dbctx"
	"github.com/tolgee/tolgee-backend/internal/platform/logger"
)

// MaxAttempts caps the number of serializable attempts per call.
const MaxAttempts = 100

const tracerName = "github.com/tolgee/tolgee-backend/internal/data/txn"

// RepeatedlyCannotSerializeError is returned once every attempt ended in a
// conflict. Nothing was committed.
type RepeatedlyCannotSerializeError struct {
	Repeats int
	Cause   error
}

func (e *RepeatedlyCannotSerializeError) Error() string {
	return fmt.Sprintf("Retry failed %d times.", e.Repeats)
}

func (e *RepeatedlyCannotSerializeError) Unwrap() error { return e.Cause }

// Retrier re-runs units of work that lose serialization races. It keeps no
// per-call state and is safe for concurrent use.
type Retrier struct {
	runner Runner
	log    *logger.Logger
	hooks  Hooks
	tracer trace.Tracer
}

func NewRetrier(runner Runner, log *logger.Logger, hooks Hooks) *Retrier {
	if log == nil {
		log = logger.Nop()
	}
	if hooks == nil {
		hooks = NoopHooks()
	}
	return &Retrier{
		runner: runner,
		log:    log.With("component", "TxRetrier"),
		hooks:  hooks,
		tracer: otel.Tracer(tracerName),
	}
}

// Run executes fn in a serializable transaction with the given propagation,
// retrying immediately on ConflictOptimisticLock and
// ConflictCannotAcquireLock. Any other error is returned as is.
func (r *Retrier) Run(dbc dbctx.Context, propagation Propagation, fn func(dbc dbctx.Context) error) error {
	if fn == nil {
		return nil
	}
	def := Definition{Isolation: sql.LevelSerializable, Propagation: propagation}

	var last error
	repeats := 0
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		start := time.Now()
		err := r.attempt(dbc, def, attempt, fn)
		kind := Classify(err)
		r.hooks.ObserveAttempt(attemptOutcome(err, kind), time.Since(start))
		if err == nil {
			return nil
		}
		if !kind.Retryable() {
			return err
		}
		last = err
		repeats++
		r.hooks.IncConflict(kind)
		r.log.Debug("transaction conflict, retrying", "attempt", attempt, "kind", kind.String(), "error", err)
	}

	r.hooks.IncExhausted()
	r.log.Warn("transaction retry budget exhausted", "repeats", repeats, "error", last)
	return &RepeatedlyCannotSerializeError{Repeats: repeats, Cause: last}
}

func (r *Retrier) attempt(dbc dbctx.Context, def Definition, attempt int, fn func(dbc dbctx.Context) error) error {
	if dbc.Ctx == nil {
		dbc.Ctx = context.Background()
	}
	ctx, span := r.tracer.Start(dbc.Ctx, "txn.attempt", trace.WithAttributes(
		attribute.Int("txn.attempt", attempt),
		attribute.String("txn.isolation", def.Isolation.String()),
		attribute.String("txn.propagation", def.Propagation.String()),
	))
	defer span.End()

	err := r.runner.InTx(dbctx.Context{Ctx: ctx, Tx: dbc.Tx}, def, fn)
	if err != nil {
		span.SetAttributes(attribute.String("txn.conflict", Classify(err).String()))
		span.RecordError(err)
		span.SetStatus(codes.Error, "attempt failed")
	}
	return err
}

func attemptOutcome(err error, kind ConflictKind) string {
	switch {
	case err == nil:
		return "committed"
	case kind.Retryable():
		return "conflict"
	default:
		return "failed"
	}
}

// ExecuteInNewRepeatableTransaction runs fn through r and returns its
// result. Only WithPropagation is honored; isolation is always serializable.
func ExecuteInNewRepeatableTransaction[T any](dbc dbctx.Context, r *Retrier, fn func(dbc dbctx.Context) (T, error), opts ...Option) (T, error) {
	var out T
	if fn == nil {
		return out, nil
	}
	def := buildDefinition(opts)
	err := r.Run(dbc, def.Propagation, func(dbc dbctx.Context) error {
		v, err := fn(dbc)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
