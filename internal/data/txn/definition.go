package txn

import "database/sql"

// Propagation decides how a unit of work relates to a transaction already
// attached to its dbctx.Context.
type Propagation int

const (
	// PropagationRequiresNew always begins a fresh transaction.
	PropagationRequiresNew Propagation = iota
	// PropagationRequired joins the attached transaction, or begins one.
	PropagationRequired
	// PropagationNested runs in a savepoint of the attached transaction, or
	// begins one.
	PropagationNested
	// PropagationMandatory joins the attached transaction and fails without
	// one.
	PropagationMandatory
)

func (p Propagation) String() string {
	switch p {
	case PropagationRequiresNew:
		return "requires_new"
	case PropagationRequired:
		return "required"
	case PropagationNested:
		return "nested"
	case PropagationMandatory:
		return "mandatory"
	default:
		return "unknown"
	}
}

// Definition parameterizes a transaction.
type Definition struct {
	Isolation   sql.IsolationLevel
	Propagation Propagation
}

// DefaultDefinition is the store's default isolation in a new transaction.
func DefaultDefinition() Definition {
	return Definition{Isolation: sql.LevelDefault, Propagation: PropagationRequiresNew}
}

type Option func(*Definition)

func WithIsolation(level sql.IsolationLevel) Option {
	return func(d *Definition) { d.Isolation = level }
}

func WithPropagation(p Propagation) Option {
	return func(d *Definition) { d.Propagation = p }
}

func buildDefinition(opts []Option) Definition {
	def := DefaultDefinition()
	for _, opt := range opts {
		if opt != nil {
			opt(&def)
		}
	}
	return def
}
