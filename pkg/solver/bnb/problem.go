package bnb

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/dd0wney/cluso-netdesign/pkg/logging"
	"github.com/dd0wney/cluso-netdesign/pkg/solver"
)

type column struct {
	name string
	lb   float64
	ub   float64
	obj  float64
	kind solver.VarKind
}

type row struct {
	name  string
	terms []solver.Term
	lb    float64
	ub    float64
}

// Problem is a MILP held in memory until Optimize runs the search.
// It is safe for concurrent use.
type Problem struct {
	name string
	opts Options

	mu        sync.Mutex
	cols      []column
	rows      []row
	sense     solver.Sense
	status    solver.Status
	solution  []float64
	objective float64
	destroyed bool
}

// New creates an empty problem
func New(name string, opts Options) *Problem {
	opts = opts.withDefaults()
	opts.Logger = opts.Logger.With(logging.Component("bnb"), logging.String("problem", name))
	return &Problem{name: name, opts: opts}
}

// NewFactory returns a solver.Factory creating problems with opts
func NewFactory(opts Options) solver.Factory {
	return func(name string) (solver.Problem, error) {
		return New(name, opts), nil
	}
}

// Name returns the problem name
func (p *Problem) Name() string {
	return p.name
}

func (p *Problem) checkMutable() error {
	if p.destroyed {
		return solver.ErrDestroyed
	}
	if p.status != solver.NotSolved {
		return solver.ErrSolved
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (p *Problem) DeclareVariable(name string, lb, ub, obj float64, kind solver.VarKind) (solver.Var, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.checkMutable(); err != nil {
		return 0, err
	}
	if math.IsNaN(lb) || math.IsNaN(ub) || lb > ub || math.IsInf(lb, 1) || math.IsInf(ub, -1) {
		return 0, fmt.Errorf("%w: column %s [%g, %g]", solver.ErrInvalidBounds, name, lb, ub)
	}
	if !finite(obj) {
		return 0, fmt.Errorf("%w: column %s objective %g", solver.ErrInvalidCoefficient, name, obj)
	}
	if kind == solver.Binary {
		lb, ub = math.Max(lb, 0), math.Min(ub, 1)
		if lb > ub {
			return 0, fmt.Errorf("%w: binary column %s has empty domain", solver.ErrInvalidBounds, name)
		}
	}

	p.cols = append(p.cols, column{name: name, lb: lb, ub: ub, obj: obj, kind: kind})
	return solver.Var(len(p.cols) - 1), nil
}

func (p *Problem) DeclareConstraint(name string, terms []solver.Term, lb, ub float64) (solver.Cons, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.checkMutable(); err != nil {
		return 0, err
	}
	if math.IsNaN(lb) || math.IsNaN(ub) || lb > ub || math.IsInf(lb, 1) || math.IsInf(ub, -1) {
		return 0, fmt.Errorf("%w: row %s [%g, %g]", solver.ErrInvalidBounds, name, lb, ub)
	}
	for _, t := range terms {
		if t.Var < 0 || int(t.Var) >= len(p.cols) {
			return 0, fmt.Errorf("%w: row %s references column %d", solver.ErrUnknownHandle, name, t.Var)
		}
		if !finite(t.Coef) {
			return 0, fmt.Errorf("%w: row %s coefficient %g", solver.ErrInvalidCoefficient, name, t.Coef)
		}
	}

	p.rows = append(p.rows, row{
		name:  name,
		terms: append([]solver.Term(nil), terms...),
		lb:    lb,
		ub:    ub,
	})
	return solver.Cons(len(p.rows) - 1), nil
}

func (p *Problem) SetObjectiveSense(sense solver.Sense) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.checkMutable(); err != nil {
		return err
	}
	p.sense = sense
	return nil
}

// Optimize runs the search once. Limits set in Options and cancellation of ctx
// stop the search early with status Feasible or Interrupted.
func (p *Problem) Optimize(ctx context.Context) (solver.Status, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.checkMutable(); err != nil {
		return p.status, err
	}

	res, err := p.search(ctx)
	if err != nil {
		return solver.NotSolved, err
	}

	p.status = res.status
	if res.status.HasSolution() {
		p.solution = res.x
		p.objective = 0
		for j, c := range p.cols {
			p.objective += c.obj * res.x[j]
		}
	}
	return p.status, nil
}

func (p *Problem) Value(v solver.Var) (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.destroyed {
		return 0, solver.ErrDestroyed
	}
	if v < 0 || int(v) >= len(p.cols) {
		return 0, fmt.Errorf("%w: column %d", solver.ErrUnknownHandle, v)
	}
	if p.solution == nil {
		return 0, solver.ErrNoSolution
	}
	return p.solution[v], nil
}

func (p *Problem) ObjectiveValue() (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.destroyed {
		return 0, solver.ErrDestroyed
	}
	if p.solution == nil {
		return 0, solver.ErrNoSolution
	}
	return p.objective, nil
}

func (p *Problem) Destroy() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.destroyed = true
	p.cols = nil
	p.rows = nil
	p.solution = nil
	return nil
}

var _ solver.Problem = (*Problem)(nil)
