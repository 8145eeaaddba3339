package txn

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"

	"github.com/tolgee/tolgee-backend/internal/domain/errs"
	"github.com/tolgee/tolgee-backend/internal/platform/dbctx"
)

// ErrNoTransaction is returned for PropagationMandatory without an attached
// transaction.
var ErrNoTransaction = errors.New("txn: no transaction attached")

// Runner executes fn inside a transaction described by def. It commits when
// fn returns nil and rolls back otherwise, returning fn's error unchanged.
type Runner interface {
	InTx(dbc dbctx.Context, def Definition, fn func(dbc dbctx.Context) error) error
}

type GormRunner struct {
	db *gorm.DB
}

var _ Runner = (*GormRunner)(nil)

// NewGormRunner returns a Runner backed by GORM transactions on db.
func NewGormRunner(db *gorm.DB) *GormRunner {
	return &GormRunner{db: db}
}

func (r *GormRunner) InTx(dbc dbctx.Context, def Definition, fn func(dbc dbctx.Context) error) error {
	if fn == nil {
		return nil
	}
	if r == nil || r.db == nil {
		return errs.New(errs.CodeInternal, "txn.in_tx", "transaction runner has nil db", nil)
	}
	ctx := dbc.Ctx
	if ctx == nil {
		ctx = context.Background()
	}

	switch def.Propagation {
	case PropagationRequired:
		if dbc.Tx != nil {
			return fn(dbctx.Context{Ctx: ctx, Tx: dbc.Tx})
		}
	case PropagationMandatory:
		if dbc.Tx == nil {
			return ErrNoTransaction
		}
		return fn(dbctx.Context{Ctx: ctx, Tx: dbc.Tx})
	case PropagationNested:
		if dbc.Tx != nil {
			// Transaction on an open tx issues SAVEPOINT / ROLLBACK TO.
			return dbc.Tx.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
				return fn(dbctx.Context{Ctx: ctx, Tx: tx})
			})
		}
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	}, &sql.TxOptions{Isolation: def.Isolation})
}

// ExecuteInNewTransaction runs fn once in a transaction and returns its
// result. Defaults: store-default isolation, PropagationRequiresNew.
func ExecuteInNewTransaction[T any](dbc dbctx.Context, runner Runner, fn func(dbc dbctx.Context) (T, error), opts ...Option) (T, error) {
	var out T
	if fn == nil {
		return out, nil
	}
	def := buildDefinition(opts)
	err := runner.InTx(dbc, def, func(dbc dbctx.Context) error {
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
