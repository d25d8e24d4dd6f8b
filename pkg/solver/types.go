package solver

import (
	"context"
	"math"
)

// VarKind is the domain of a decision variable
type VarKind int

const (
	Continuous VarKind = iota
	Binary
	Integer
)

func (k VarKind) String() string {
	switch k {
	case Continuous:
		return "continuous"
	case Binary:
		return "binary"
	case Integer:
		return "integer"
	default:
		return "unknown"
	}
}

// IsIntegral reports whether the kind restricts values to integers
func (k VarKind) IsIntegral() bool {
	return k == Binary || k == Integer
}

// Sense is the objective direction
type Sense int

const (
	Minimize Sense = iota
	Maximize
)

func (s Sense) String() string {
	if s == Maximize {
		return "maximize"
	}
	return "minimize"
}

// Status is the outcome of Optimize
type Status int

const (
	// NotSolved means Optimize has not run
	NotSolved Status = iota
	// Optimal means the incumbent is proven optimal within the gap tolerance
	Optimal
	// Feasible means a limit stopped the search after an incumbent was found
	Feasible
	// Infeasible means no assignment satisfies the constraints
	Infeasible
	// Unbounded means the objective can improve without limit
	Unbounded
	// Interrupted means a limit stopped the search before any incumbent was found
	Interrupted
)

func (s Status) String() string {
	switch s {
	case NotSolved:
		return "not_solved"
	case Optimal:
		return "optimal"
	case Feasible:
		return "feasible"
	case Infeasible:
		return "infeasible"
	case Unbounded:
		return "unbounded"
	case Interrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

// HasSolution reports whether variable values are available
func (s Status) HasSolution() bool {
	return s == Optimal || s == Feasible
}

// Var is a handle to a declared variable
type Var int

// Cons is a handle to a declared constraint
type Cons int

// Term is one coefficient of a linear row
type Term struct {
	Var  Var
	Coef float64
}

// Problem is the engine-side state of one MILP
type Problem interface {
	// DeclareVariable adds a column with bounds [lb, ub], objective coefficient obj and kind.
	DeclareVariable(name string, lb, ub, obj float64, kind VarKind) (Var, error)
	// DeclareConstraint adds the row lb <= sum(terms) <= ub.
	DeclareConstraint(name string, terms []Term, lb, ub float64) (Cons, error)
	SetObjectiveSense(sense Sense) error
	Optimize(ctx context.Context) (Status, error)
	// Value returns the value of v in the best known solution, or ErrNoSolution.
	Value(v Var) (float64, error)
	// ObjectiveValue returns the objective of the best known solution, or ErrNoSolution.
	ObjectiveValue() (float64, error)
	// Destroy releases the problem. It is safe to call more than once.
	Destroy() error
}

// Factory creates an empty problem with the given name
type Factory func(name string) (Problem, error)

// Inf returns the +infinity sentinel for row and column bounds
func Inf() float64 {
	return math.Inf(1)
}
