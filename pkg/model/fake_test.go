package model

import (
	"context"

	"github.com/dd0wney/cluso-netdesign/pkg/dataset"
	"github.com/dd0wney/cluso-netdesign/pkg/solver"
)

// fakeProblem records declarations and fails on demand
type fakeProblem struct {
	vars      []string
	rows      []string
	sense     solver.Sense
	destroyed int

	failVariableAt int // fail the n-th DeclareVariable, 1-based; 0 never fails
	status         solver.Status
	optimizeErr    error
	values         map[string]float64
	objective      float64
}

func (f *fakeProblem) DeclareVariable(name string, lb, ub, obj float64, kind solver.VarKind) (solver.Var, error) {
	if f.failVariableAt > 0 && len(f.vars)+1 == f.failVariableAt {
		return 0, solver.ErrNumerical
	}
	f.vars = append(f.vars, name)
	return solver.Var(len(f.vars) - 1), nil
}

func (f *fakeProblem) DeclareConstraint(name string, terms []solver.Term, lb, ub float64) (solver.Cons, error) {
	f.rows = append(f.rows, name)
	return solver.Cons(len(f.rows) - 1), nil
}

func (f *fakeProblem) SetObjectiveSense(sense solver.Sense) error {
	f.sense = sense
	return nil
}

func (f *fakeProblem) Optimize(ctx context.Context) (solver.Status, error) {
	return f.status, f.optimizeErr
}

func (f *fakeProblem) Value(v solver.Var) (float64, error) {
	if !f.status.HasSolution() {
		return 0, solver.ErrNoSolution
	}
	return f.values[f.vars[v]], nil
}

func (f *fakeProblem) ObjectiveValue() (float64, error) {
	if !f.status.HasSolution() {
		return 0, solver.ErrNoSolution
	}
	return f.objective, nil
}

func (f *fakeProblem) Destroy() error {
	f.destroyed++
	return nil
}

func fakeFactory(p *fakeProblem) Option {
	return WithSolverFactory(func(string) (solver.Problem, error) {
		return p, nil
	})
}

// singleArc is one arc over two periods with one commodity
func singleArc() *dataset.Dataset {
	return &dataset.Dataset{
		TimePeriods: 2,
		Commodities: 1,
		Nodes: []dataset.Node{
			{ID: 0, LeavingArcIDs: []int{0}},
			{ID: 1, ArrivingArcIDs: []int{0}},
		},
		Arcs: []dataset.Arc{{
			ID:         0,
			SourceNode: 0,
			TargetNode: 1,
			Capacity:   []float64{20, 20},
			BuildCost:  []float64{10, 4},
			FlowCost:   [][]float64{{1}, {1}},
		}},
		DeltaXiLb: [][]float64{{0}, {0}},
		DeltaXiUb: [][]float64{{3}, {3}},
		MuBar:     [][]float64{{5}, {5}},
		Epsilon:   [][]float64{{0}, {0}},
		Revenue:   [][]float64{{12}, {12}},
		Omega:     []float64{1, 1},
	}
}

// grid has the given arcs, periods and commodities with distinct costs
func grid(arcs, periods, commodities int) *dataset.Dataset {
	table := func(base float64) [][]float64 {
		rows := make([][]float64, periods)
		for t := range rows {
			rows[t] = make([]float64, commodities)
			for k := range rows[t] {
				rows[t][k] = base + float64(t) + 0.5*float64(k)
			}
		}
		return rows
	}

	ds := &dataset.Dataset{
		TimePeriods: periods,
		Commodities: commodities,
		DeltaXiLb:   table(0),
		DeltaXiUb:   table(3),
		MuBar:       table(2),
		Epsilon:     table(0.1),
		Revenue:     table(10),
		Omega:       make([]float64, periods),
	}
	for t := range ds.Omega {
		ds.Omega[t] = 1
	}
	for a := 0; a < arcs; a++ {
		arc := dataset.Arc{ID: a, FlowCost: table(1)}
		for t := 0; t < periods; t++ {
			arc.Capacity = append(arc.Capacity, 10)
			arc.BuildCost = append(arc.BuildCost, float64(20+a-t))
		}
		ds.Arcs = append(ds.Arcs, arc)
	}
	return ds
}
