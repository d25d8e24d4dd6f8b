package model

import (
	"fmt"
	"math"
	"sync"

	"github.com/dd0wney/cluso-netdesign/pkg/dataset"
	"github.com/dd0wney/cluso-netdesign/pkg/logging"
	"github.com/dd0wney/cluso-netdesign/pkg/solver"
)

// Variable is a declared column. Values returned by the Builder are copies.
type Variable struct {
	Key       VarKey
	Name      string
	Lower     float64
	Upper     float64
	Objective float64
	Kind      solver.VarKind

	handle solver.Var
}

// Term is one coefficient of a row, referring to a variable by key
type Term struct {
	Var  VarKey
	Coef float64
}

// Constraint is a sealed row: Lower <= sum(Terms) <= Upper
type Constraint struct {
	Key   RowKey
	Name  string
	Terms []Term
	Lower float64
	Upper float64

	handle solver.Cons
}

type state int

const (
	stateOpen state = iota
	stateBuilt
	stateSolved
	stateBroken
	stateClosed
)

// Builder owns the variable and constraint registries of one model and the
// solver problem they are declared in. It is not safe for concurrent use.
type Builder struct {
	ds   *dataset.Dataset
	opts options
	log  logging.Logger

	problem solver.Problem
	state   state
	result  *Result

	vars      []Variable
	varByName map[string]int
	cons      []Constraint
	conByName map[string]int

	closeOnce sync.Once
	closeErr  error
}

// New acquires a solver problem for ds. Nothing is held when it fails.
func New(ds *dataset.Dataset, opts ...Option) (*Builder, error) {
	if ds == nil {
		return nil, fmt.Errorf("%w: nil dataset", ErrDatasetUnavailable)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if math.IsNaN(o.betaUB) || math.IsInf(o.betaUB, 0) || o.betaUB <= 0 {
		return nil, fmt.Errorf("%w: beta upper bound %g", ErrInvertedBounds, o.betaUB)
	}

	log := o.logger.With(logging.Component("model"), logging.String("problem", o.problemName))
	problem, err := o.factory(o.problemName)
	if err != nil {
		return nil, fmt.Errorf("%w: create problem %s: %w", ErrSolverFailure, o.problemName, err)
	}

	return &Builder{
		ds:        ds,
		opts:      o,
		log:       log,
		problem:   problem,
		varByName: make(map[string]int),
		conByName: make(map[string]int),
	}, nil
}

// checkMutable guards every call that declares into the problem
func (b *Builder) checkMutable() error {
	switch b.state {
	case stateBroken:
		return ErrBroken
	case stateClosed:
		return ErrClosed
	case stateSolved:
		return ErrAlreadySolved
	default:
		return nil
	}
}

// fail marks the builder broken when err came from the solver
func (b *Builder) fail(err error) error {
	if err != nil && failureKind(err) == "solver_failure" {
		b.state = stateBroken
	}
	return err
}

// AddVariable declares a column under key.Name()
func (b *Builder) AddVariable(key VarKey, lower, upper, objective float64, kind solver.VarKind) (Variable, error) {
	if err := b.checkMutable(); err != nil {
		return Variable{}, err
	}

	name := key.Name()
	if _, dup := b.varByName[name]; dup {
		return Variable{}, fmt.Errorf("%w: variable %s", ErrDuplicateName, name)
	}
	if lower > upper || math.IsNaN(lower) || math.IsNaN(upper) {
		return Variable{}, fmt.Errorf("%w: variable %s [%g, %g]", ErrInvertedBounds, name, lower, upper)
	}

	handle, err := b.problem.DeclareVariable(name, lower, upper, objective, kind)
	if err != nil {
		return Variable{}, b.fail(fmt.Errorf("%w: declare variable %s: %w", ErrSolverFailure, name, err))
	}

	v := Variable{
		Key:       key,
		Name:      name,
		Lower:     lower,
		Upper:     upper,
		Objective: objective,
		Kind:      kind,
		handle:    handle,
	}
	b.varByName[name] = len(b.vars)
	b.vars = append(b.vars, v)
	if b.log.Enabled(logging.DebugLevel) {
		b.log.Debug("variable declared", logging.Variable(name), logging.String("kind", kind.String()))
	}
	return v, nil
}

// AddConstraint declares the row lower <= sum(terms) <= upper under key.Name().
// Every term must name a declared variable.
func (b *Builder) AddConstraint(key RowKey, terms []Term, lower, upper float64) (Constraint, error) {
	if err := b.checkMutable(); err != nil {
		return Constraint{}, err
	}

	name := key.Name()
	if _, dup := b.conByName[name]; dup {
		return Constraint{}, fmt.Errorf("%w: constraint %s", ErrDuplicateName, name)
	}
	if lower > upper || math.IsNaN(lower) || math.IsNaN(upper) {
		return Constraint{}, fmt.Errorf("%w: constraint %s [%g, %g]", ErrInvertedBounds, name, lower, upper)
	}

	solverTerms := make([]solver.Term, len(terms))
	for i, t := range terms {
		idx, ok := b.varByName[t.Var.Name()]
		if !ok {
			return Constraint{}, fmt.Errorf("%w: constraint %s references %s", ErrUnknownReference, name, t.Var.Name())
		}
		solverTerms[i] = solver.Term{Var: b.vars[idx].handle, Coef: t.Coef}
	}

	handle, err := b.problem.DeclareConstraint(name, solverTerms, lower, upper)
	if err != nil {
		return Constraint{}, b.fail(fmt.Errorf("%w: declare constraint %s: %w", ErrSolverFailure, name, err))
	}

	c := Constraint{
		Key:    key,
		Name:   name,
		Terms:  append([]Term(nil), terms...),
		Lower:  lower,
		Upper:  upper,
		handle: handle,
	}
	b.conByName[name] = len(b.cons)
	b.cons = append(b.cons, c)
	if b.log.Enabled(logging.DebugLevel) {
		b.log.Debug("row declared", logging.Row(name), logging.Int("terms", len(terms)))
	}
	return c.clone(), nil
}

func (c Constraint) clone() Constraint {
	c.Terms = append([]Term(nil), c.Terms...)
	return c
}

// LookupVariable returns the variable declared under key
func (b *Builder) LookupVariable(key VarKey) (Variable, bool) {
	return b.LookupVariableByName(key.Name())
}

// LookupVariableByName returns the variable with the given display name
func (b *Builder) LookupVariableByName(name string) (Variable, bool) {
	idx, ok := b.varByName[name]
	if !ok {
		return Variable{}, false
	}
	return b.vars[idx], true
}

// LookupConstraint returns the constraint declared under key
func (b *Builder) LookupConstraint(key RowKey) (Constraint, bool) {
	return b.LookupConstraintByName(key.Name())
}

// LookupConstraintByName returns the constraint with the given display name
func (b *Builder) LookupConstraintByName(name string) (Constraint, bool) {
	idx, ok := b.conByName[name]
	if !ok {
		return Constraint{}, false
	}
	return b.cons[idx].clone(), true
}

// Variables returns every variable in declaration order
func (b *Builder) Variables() []Variable {
	return append([]Variable(nil), b.vars...)
}

// Constraints returns every constraint in declaration order
func (b *Builder) Constraints() []Constraint {
	out := make([]Constraint, len(b.cons))
	for i, c := range b.cons {
		out[i] = c.clone()
	}
	return out
}

// ObjectiveTerm is a non-zero objective coefficient
type ObjectiveTerm struct {
	Var  VarKey
	Name string
	Coef float64
}

// ObjectiveTerms returns the non-zero objective coefficients in declaration order
func (b *Builder) ObjectiveTerms() []ObjectiveTerm {
	var out []ObjectiveTerm
	for _, v := range b.vars {
		if v.Objective != 0 {
			out = append(out, ObjectiveTerm{Var: v.Key, Name: v.Name, Coef: v.Objective})
		}
	}
	return out
}

// Dataset returns the dataset the builder reads
func (b *Builder) Dataset() *dataset.Dataset {
	return b.ds
}

// Close releases the solver problem. Only the first call does work; later
// calls return the same result.
func (b *Builder) Close() error {
	b.closeOnce.Do(func() {
		b.state = stateClosed
		b.result = nil
		b.vars, b.cons = nil, nil
		b.varByName, b.conByName = nil, nil
		if err := b.problem.Destroy(); err != nil {
			b.closeErr = fmt.Errorf("%w: destroy problem: %w", ErrSolverFailure, err)
		}
		b.problem = nil
		b.log.Debug("problem released")
	})
	return b.closeErr
}
