package model

import (
	"context"
	"fmt"
	"time"

	"github.com/dd0wney/cluso-netdesign/pkg/logging"
	"github.com/dd0wney/cluso-netdesign/pkg/solver"
)

// Result is the outcome of Solve. Values exist only when HasSolution is true.
type Result struct {
	Status    solver.Status
	Duration  time.Duration
	objective float64
	values    map[string]float64
	order     []VarKey
}

// HasSolution reports whether the solver produced an assignment
func (r *Result) HasSolution() bool {
	return r.Status.HasSolution()
}

// Objective returns the objective value of the assignment
func (r *Result) Objective() (float64, bool) {
	if !r.HasSolution() {
		return 0, false
	}
	return r.objective, true
}

// Value returns the assigned value of the variable under key
func (r *Result) Value(key VarKey) (float64, bool) {
	return r.ValueByName(key.Name())
}

// ValueByName returns the assigned value of the variable with the given display name
func (r *Result) ValueByName(name string) (float64, bool) {
	if !r.HasSolution() {
		return 0, false
	}
	v, ok := r.values[name]
	return v, ok
}

// Assignment is one variable value
type Assignment struct {
	Var   VarKey
	Name  string
	Value float64
}

// Assignments returns every assignment in declaration order
func (r *Result) Assignments() []Assignment {
	return r.assignments(true)
}

// NonZero returns the assignments with a non-zero value in declaration order
func (r *Result) NonZero() []Assignment {
	return r.assignments(false)
}

func (r *Result) assignments(zeros bool) []Assignment {
	if !r.HasSolution() {
		return nil
	}
	var out []Assignment
	for _, key := range r.order {
		name := key.Name()
		if v := r.values[name]; zeros || v != 0 {
			out = append(out, Assignment{Var: key, Name: name, Value: v})
		}
	}
	return out
}

// Solve optimizes the built model once. Limits and cancellation are those of
// the solver engine; a search stopped early still returns its best assignment.
func (b *Builder) Solve(ctx context.Context) (*Result, error) {
	switch b.state {
	case stateOpen:
		return nil, ErrNotBuilt
	case stateSolved:
		return b.result, nil
	}
	if err := b.checkMutable(); err != nil {
		return nil, err
	}

	timer := logging.StartTimer(b.log, "solve finished")
	status, err := b.problem.Optimize(ctx)
	if err != nil {
		timer.EndError(err)
		b.state = stateBroken
		return nil, fmt.Errorf("%w: optimize: %w", ErrSolverFailure, err)
	}

	res := &Result{Status: status}
	if status.HasSolution() {
		if err := b.collect(res); err != nil {
			timer.EndError(err)
			b.state = stateBroken
			return nil, err
		}
	}

	fields := []logging.Field{logging.String("status", status.String())}
	if res.HasSolution() {
		fields = append(fields, logging.Objective(res.objective))
	}
	res.Duration = timer.End(fields...)
	b.opts.recorder.RecordSolve(status.String(), res.Duration, res.objective, res.HasSolution())

	b.state = stateSolved
	b.result = res
	return res, nil
}

func (b *Builder) collect(res *Result) error {
	obj, err := b.problem.ObjectiveValue()
	if err != nil {
		return fmt.Errorf("%w: objective value: %w", ErrSolverFailure, err)
	}
	res.objective = obj
	res.values = make(map[string]float64, len(b.vars))
	res.order = make([]VarKey, 0, len(b.vars))
	for _, v := range b.vars {
		val, err := b.problem.Value(v.handle)
		if err != nil {
			return fmt.Errorf("%w: value of %s: %w", ErrSolverFailure, v.Name, err)
		}
		res.values[v.Name] = val
		res.order = append(res.order, v.Key)
	}
	return nil
}
