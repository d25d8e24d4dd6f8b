package model

import (
	"fmt"
	"math"

	"github.com/dd0wney/cluso-netdesign/pkg/logging"
	"github.com/dd0wney/cluso-netdesign/pkg/solver"
)

const (
	phaseValidate    = "validate"
	phaseVariables   = "variables"
	phaseConstraints = "constraints"
)

// Build validates the dataset shape, declares every variable, then every
// row, then fixes the objective sense to minimization. A failed Build leaves
// the builder broken; only Close remains useful.
func (b *Builder) Build() error {
	if b.state == stateBuilt || b.state == stateSolved {
		return ErrAlreadyBuilt
	}
	if err := b.checkMutable(); err != nil {
		return err
	}

	err := b.build()
	if err != nil {
		b.state = stateBroken
		b.opts.recorder.RecordBuildFailure(failureKind(err))
		b.log.Error("build failed", logging.Error(err))
		return err
	}

	b.state = stateBuilt
	b.opts.recorder.SetModelSize(b.familySizes())
	b.log.Info("model built",
		logging.Int("variables", len(b.vars)),
		logging.Int("constraints", len(b.cons)))
	return nil
}

func (b *Builder) build() error {
	phases := []struct {
		name string
		run  func() error
	}{
		{phaseValidate, b.ds.Validate},
		{phaseVariables, b.addVariables},
		{phaseConstraints, b.addConstraints},
	}
	for _, p := range phases {
		timer := logging.StartTimer(b.log, "build phase finished", logging.Phase(p.name))
		if err := p.run(); err != nil {
			timer.EndError(err)
			return err
		}
		b.opts.recorder.RecordBuildPhase(p.name, timer.End())
	}

	if err := b.problem.SetObjectiveSense(solver.Minimize); err != nil {
		return fmt.Errorf("%w: set objective sense: %w", ErrSolverFailure, err)
	}
	return nil
}

// addVariables declares x, Phi1 and Phi2 per arc and period, then beta1 and
// beta2 per period and commodity.
func (b *Builder) addVariables() error {
	ds := b.ds
	periods := ds.TimePeriods
	ub := b.opts.betaUB
	share := 1.0 / float64(ds.NumArcs())

	for a, arc := range ds.Arcs {
		for t := 0; t < periods; t++ {
			cost := arc.BuildCost[t]
			if t < periods-1 {
				cost -= arc.BuildCost[t+1]
			}
			if _, err := b.AddVariable(BuildKey(a, t), 0, 1, cost, solver.Binary); err != nil {
				return err
			}

			weight := ds.Omega[t] * share
			if _, err := b.AddVariable(PhiKey(1, a, t), 0, ub, weight, solver.Continuous); err != nil {
				return err
			}
			if _, err := b.AddVariable(PhiKey(2, a, t), 0, ub, -weight, solver.Continuous); err != nil {
				return err
			}
		}
	}

	for t := 0; t < periods; t++ {
		for k := 0; k < ds.Commodities; k++ {
			mu, eps := ds.MuBar[t][k], ds.Epsilon[t][k]
			if _, err := b.AddVariable(BetaKey(1, t, k), 0, ub, mu+eps, solver.Continuous); err != nil {
				return err
			}
			if _, err := b.AddVariable(BetaKey(2, t, k), 0, ub, -mu+eps, solver.Continuous); err != nil {
				return err
			}
		}
		b.log.Debug("period duals declared", logging.Period(t), logging.Count(2*ds.Commodities))
	}

	b.log.Debug("variables declared", logging.Count(len(b.vars)))
	return nil
}

// addConstraints declares the use rows of every arc, then its McCormick
// envelopes period by period.
func (b *Builder) addConstraints() error {
	periods := b.ds.TimePeriods
	ub := b.opts.betaUB
	linked := b.opts.linkedCommodity
	inf := math.Inf(1)

	for a := range b.ds.Arcs {
		for t := 1; t < periods; t++ {
			terms := []Term{
				{Var: BuildKey(a, t), Coef: 1},
				{Var: BuildKey(a, t-1), Coef: -1},
			}
			if _, err := b.AddConstraint(UseKey(a, t), terms, 0, inf); err != nil {
				return err
			}
		}

		for t := 0; t < periods; t++ {
			x := BuildKey(a, t)
			for m := 1; m <= 2; m++ {
				phi, beta := PhiKey(m, a, t), BetaKey(m, t, linked)
				rows := []struct {
					sub    int
					terms  []Term
					lo, hi float64
				}{
					{1, []Term{{phi, 1}, {x, -ub}}, -inf, 0},
					{2, []Term{{phi, 1}, {beta, -1}}, -inf, 0},
					{3, []Term{{phi, 1}, {beta, -1}, {x, -ub}}, -ub, inf},
				}
				for _, r := range rows {
					if _, err := b.AddConstraint(McCormickKey(r.sub, m, a, t), r.terms, r.lo, r.hi); err != nil {
						return err
					}
				}
			}
		}
		b.log.Debug("arc rows declared", logging.Arc(a), logging.Count(7*periods-1))
	}

	b.log.Debug("constraints declared", logging.Count(len(b.cons)), logging.Commodity(linked))
	return nil
}

// familySizes counts variables and constraints per family
func (b *Builder) familySizes() (variables, constraints map[string]int) {
	variables = make(map[string]int)
	for _, v := range b.vars {
		variables[string(v.Key.Family)]++
	}
	constraints = make(map[string]int)
	for _, c := range b.cons {
		constraints[string(c.Key.Family)]++
	}
	return variables, constraints
}
