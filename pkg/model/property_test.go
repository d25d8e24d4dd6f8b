package model

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

const betaUB = 100.0

// satisfied evaluates a row at the given point
func satisfied(c Constraint, point map[VarKey]float64) bool {
	sum := 0.0
	for _, term := range c.Terms {
		sum += term.Coef * point[term.Var]
	}
	return sum >= c.Lower-1e-9 && sum <= c.Upper+1e-9
}

func builtGrid(t *testing.T, arcs, periods int) *Builder {
	t.Helper()
	b, err := New(grid(arcs, periods, 2), WithBetaUpperBound(betaUB))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := b.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}
	return b
}

func TestUseRowProperties(t *testing.T) {
	b := builtGrid(t, 2, 5)
	defer b.Close()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("use row holds exactly when the arc stays built", prop.ForAll(
		func(arc, period, prev, next int) bool {
			row, ok := b.LookupConstraint(UseKey(arc, period))
			if !ok {
				return false
			}
			point := map[VarKey]float64{
				BuildKey(arc, period-1): float64(prev),
				BuildKey(arc, period):   float64(next),
			}
			return satisfied(row, point) == (next >= prev)
		},
		gen.IntRange(0, 1),
		gen.IntRange(1, 4),
		gen.IntRange(0, 1),
		gen.IntRange(0, 1),
	))

	properties.Property("no use row for the first period", prop.ForAll(
		func(arc int) bool {
			_, ok := b.LookupConstraint(UseKey(arc, 0))
			return !ok
		},
		gen.IntRange(0, 1),
	))

	properties.TestingRun(t)
}

func TestMcCormickProperties(t *testing.T) {
	b := builtGrid(t, 2, 3)
	defer b.Close()

	envelope := func(m, arc, period int) []Constraint {
		rows := make([]Constraint, 0, 3)
		for sub := 1; sub <= 3; sub++ {
			c, ok := b.LookupConstraint(McCormickKey(sub, m, arc, period))
			if !ok {
				t.Fatalf("missing %s", McCormickKey(sub, m, arc, period))
			}
			rows = append(rows, c)
		}
		return rows
	}

	feasible := func(m, arc, period, x int, beta, phi float64) bool {
		if phi < 0 || phi > betaUB {
			return false
		}
		linked := BetaKey(m, period, DefaultLinkedCommodity)
		point := map[VarKey]float64{
			BuildKey(arc, period):  float64(x),
			PhiKey(m, arc, period): phi,
			linked:                 beta,
		}
		for _, row := range envelope(m, arc, period) {
			if !satisfied(row, point) {
				return false
			}
		}
		return true
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("the product x*beta is feasible", prop.ForAll(
		func(m, arc, period, x int, beta float64) bool {
			return feasible(m, arc, period, x, beta, float64(x)*beta)
		},
		gen.IntRange(1, 2),
		gen.IntRange(0, 1),
		gen.IntRange(0, 2),
		gen.IntRange(0, 1),
		gen.Float64Range(0, betaUB),
	))

	properties.Property("any other Phi is infeasible", prop.ForAll(
		func(m, arc, period, x int, beta, delta float64) bool {
			return !feasible(m, arc, period, x, beta, float64(x)*beta+delta)
		},
		gen.IntRange(1, 2),
		gen.IntRange(0, 1),
		gen.IntRange(0, 2),
		gen.IntRange(0, 1),
		gen.Float64Range(0, betaUB),
		gen.Float64Range(-betaUB, betaUB).SuchThat(func(d float64) bool {
			return math.Abs(d) > 1e-6
		}),
	))

	properties.TestingRun(t)
}

func genVarKey() gopter.Gen {
	return gopter.CombineGens(
		gen.IntRange(0, 4),
		gen.IntRange(0, 30),
		gen.IntRange(0, 30),
	).Map(func(values []interface{}) VarKey {
		i, j := values[1].(int), values[2].(int)
		switch values[0].(int) {
		case 0:
			return BuildKey(i, j)
		case 1, 2:
			return PhiKey(values[0].(int), i, j)
		default:
			return BetaKey(values[0].(int)-2, i, j)
		}
	})
}

func genRowKey() gopter.Gen {
	return gopter.CombineGens(
		gen.IntRange(0, 6),
		gen.IntRange(0, 30),
		gen.IntRange(1, 30),
	).Map(func(values []interface{}) RowKey {
		i, j := values[1].(int), values[2].(int)
		if kind := values[0].(int); kind > 0 {
			return McCormickKey((kind+1)/2, 2-kind%2, i, j)
		}
		return UseKey(i, j)
	})
}

func TestNameInjectivity(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("distinct variable keys have distinct names", prop.ForAll(
		func(a, b VarKey) bool {
			return (a == b) == (a.Name() == b.Name())
		},
		genVarKey(),
		genVarKey(),
	))

	properties.Property("distinct row keys have distinct names", prop.ForAll(
		func(a, b RowKey) bool {
			return (a == b) == (a.Name() == b.Name())
		},
		genRowKey(),
		genRowKey(),
	))

	properties.TestingRun(t)
}

func TestNameInjectivity_GeneratedModel(t *testing.T) {
	b := builtGrid(t, 3, 4)
	defer b.Close()

	seen := make(map[string]bool)
	for _, v := range b.Variables() {
		if seen[v.Name] {
			t.Fatalf("duplicate variable name %s", v.Name)
		}
		seen[v.Name] = true
	}
	for _, c := range b.Constraints() {
		if seen[c.Name] {
			t.Fatalf("duplicate constraint name %s", c.Name)
		}
		seen[c.Name] = true
	}
}
