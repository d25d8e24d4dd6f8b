package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-netdesign/pkg/solver"
	"github.com/dd0wney/cluso-netdesign/pkg/solver/bnb"
)

func TestSolve_SingleArcScenario(t *testing.T) {
	rec := &recorder{}
	b := newScenarioBuilder(t, WithMetrics(rec))
	require.NoError(t, b.Build())

	res, err := b.Solve(context.Background())
	require.NoError(t, err)
	require.Equal(t, solver.Optimal, res.Status)
	require.True(t, res.HasSolution())

	obj, ok := res.Objective()
	require.True(t, ok)
	assert.InDelta(t, -1190, obj, 1e-6)

	want := map[VarKey]float64{
		BuildKey(0, 0):   1,
		BuildKey(0, 1):   1,
		PhiKey(1, 0, 0):  0,
		PhiKey(2, 0, 0):  100,
		PhiKey(2, 0, 1):  100,
		BetaKey(1, 1, 0): 0,
		BetaKey(2, 0, 0): 100,
		BetaKey(2, 1, 0): 100,
	}
	for key, v := range want {
		got, ok := res.Value(key)
		require.True(t, ok, key.Name())
		assert.InDelta(t, v, got, 1e-6, key.Name())
	}

	_, ok = res.ValueByName("x[0,2]")
	assert.False(t, ok)

	var nonZero []string
	for _, a := range res.NonZero() {
		nonZero = append(nonZero, a.Name)
	}
	assert.Subset(t, nonZero, []string{"x[0,0]", "x[0,1]", "Phi2[0,0]", "beta2[1,0]"})
	assert.Equal(t, []string{"optimal"}, rec.solves)
}

func TestSolve_McCormickHoldsAtOptimum(t *testing.T) {
	b, err := New(grid(2, 3, 2),
		WithBetaUpperBound(50),
		WithSolverFactory(bnb.NewFactory(bnb.Options{Workers: 2})))
	require.NoError(t, err)
	defer b.Close()
	require.NoError(t, b.Build())

	res, err := b.Solve(context.Background())
	require.NoError(t, err)
	require.True(t, res.HasSolution(), "status %s", res.Status)

	for a := 0; a < 2; a++ {
		for tt := 0; tt < 3; tt++ {
			x, _ := res.Value(BuildKey(a, tt))
			if tt > 0 {
				prev, _ := res.Value(BuildKey(a, tt-1))
				assert.GreaterOrEqual(t, x, prev, "arc %d is never unbuilt", a)
			}
			for m := 1; m <= 2; m++ {
				phi, _ := res.Value(PhiKey(m, a, tt))
				beta, _ := res.Value(BetaKey(m, tt, DefaultLinkedCommodity))
				assert.InDelta(t, x*beta, phi, 1e-6, "Phi%d[%d,%d]", m, a, tt)
			}
		}
	}
}

func TestSolve_Twice(t *testing.T) {
	b := newScenarioBuilder(t)
	require.NoError(t, b.Build())

	first, err := b.Solve(context.Background())
	require.NoError(t, err)
	second, err := b.Solve(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, second)

	_, err = b.AddVariable(BuildKey(3, 3), 0, 1, 0, solver.Binary)
	assert.ErrorIs(t, err, ErrAlreadySolved)
}

func TestSolve_BeforeBuild(t *testing.T) {
	b := newScenarioBuilder(t)
	_, err := b.Solve(context.Background())
	assert.ErrorIs(t, err, ErrNotBuilt)
}

func TestSolve_NoSolution(t *testing.T) {
	for _, status := range []solver.Status{solver.Infeasible, solver.Interrupted, solver.Unbounded} {
		t.Run(status.String(), func(t *testing.T) {
			p := &fakeProblem{status: status}
			b, err := New(singleArc(), fakeFactory(p), WithLinkedCommodity(0))
			require.NoError(t, err)
			defer b.Close()
			require.NoError(t, b.Build())

			res, err := b.Solve(context.Background())
			require.NoError(t, err)
			assert.Equal(t, status, res.Status)
			assert.False(t, res.HasSolution())

			_, ok := res.Objective()
			assert.False(t, ok)
			_, ok = res.Value(BuildKey(0, 0))
			assert.False(t, ok, "no numeric value without a solution")
			assert.Nil(t, res.NonZero())
		})
	}
}

func TestSolve_FeasibleAfterLimit(t *testing.T) {
	p := &fakeProblem{
		status:    solver.Feasible,
		objective: -7,
		values:    map[string]float64{"x[0,1]": 1, "beta2[1,0]": 3},
	}
	b, err := New(singleArc(), fakeFactory(p), WithLinkedCommodity(0))
	require.NoError(t, err)
	defer b.Close()
	require.NoError(t, b.Build())

	res, err := b.Solve(context.Background())
	require.NoError(t, err)
	require.True(t, res.HasSolution())

	obj, _ := res.Objective()
	assert.Equal(t, -7.0, obj)
	assert.Equal(t, []Assignment{
		{Var: BuildKey(0, 1), Name: "x[0,1]", Value: 1},
		{Var: BetaKey(2, 1, 0), Name: "beta2[1,0]", Value: 3},
	}, res.NonZero())
}

func TestSolve_SolverFailure(t *testing.T) {
	p := &fakeProblem{optimizeErr: errors.New("out of memory")}
	b, err := New(singleArc(), fakeFactory(p), WithLinkedCommodity(0))
	require.NoError(t, err)
	require.NoError(t, b.Build())

	_, err = b.Solve(context.Background())
	require.ErrorIs(t, err, ErrSolverFailure)

	_, err = b.Solve(context.Background())
	assert.ErrorIs(t, err, ErrBroken)

	require.NoError(t, b.Close())
	assert.Equal(t, 1, p.destroyed)
}
