package bnb

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/dd0wney/cluso-netdesign/pkg/solver"
)

const (
	pivotTolerance   = 1e-9
	pricingTolerance = 1e-9
	ratioTolerance   = 1e-12
)

// tableau is a dense two-phase simplex tableau for
//
//	minimize c'y  subject to  Ay = b, y >= 0, b >= 0
//
// Rows 0..m-1 are constraints, row m holds the reduced costs of c and row m+1
// those of the phase-one objective. The last column is the right-hand side;
// in the two cost rows it holds the negated objective value. Columns n and
// beyond are artificial and never enter the basis.
type tableau struct {
	t      *mat.Dense
	m, n   int
	rhs    int
	basis  []int
	active []bool
	pivots int
	limit  int
}

// newTableau starts from a basis of unit columns where a row has one and
// artificial columns elsewhere.
func newTableau(c []float64, A *mat.Dense, b []float64) *tableau {
	m, n := A.Dims()

	basis := make([]int, m)
	for i := range basis {
		basis[i] = -1
	}
	for j := 0; j < n; j++ {
		row, count := -1, 0
		for i := 0; i < m; i++ {
			if A.At(i, j) != 0 {
				row = i
				count++
			}
		}
		if count == 1 && basis[row] < 0 && A.At(row, j) > 0 {
			basis[row] = j
		}
	}
	width := n
	for i := range basis {
		if basis[i] < 0 {
			basis[i] = width
			width++
		}
	}

	tb := &tableau{
		t:      mat.NewDense(m+2, width+1, nil),
		m:      m,
		n:      n,
		rhs:    width,
		basis:  basis,
		active: make([]bool, m),
		limit:  100*(m+width) + 1000,
	}

	cost := tb.t.RawRowView(m)
	copy(cost, c)
	phase1 := tb.t.RawRowView(m + 1)
	for i := 0; i < m; i++ {
		tb.active[i] = true
		row := tb.t.RawRowView(i)
		mat.Row(row[:n], i, A)
		row[tb.rhs] = b[i]

		if j := basis[i]; j >= n {
			row[j] = 1
			phase1[j] = 1
			floats.AddScaled(phase1, -1, row)
			continue
		}
		floats.Scale(1/row[basis[i]], row)
		if cb := c[basis[i]]; cb != 0 {
			floats.AddScaled(cost, -cb, row)
		}
	}
	return tb
}

// pivot makes column j basic in row r
func (tb *tableau) pivot(r, j int) {
	pr := tb.t.RawRowView(r)
	floats.Scale(1/pr[j], pr)
	pr[j] = 1
	for k := 0; k < tb.m+2; k++ {
		if k == r {
			continue
		}
		row := tb.t.RawRowView(k)
		if f := row[j]; f != 0 {
			floats.AddScaled(row, -f, pr)
			row[j] = 0
		}
	}
	tb.basis[r] = j
}

// optimize pivots on the cost row obj with Bland's rule until no structural
// column prices out. It reports whether the objective is unbounded below.
func (tb *tableau) optimize(ctx context.Context, obj int) (bool, error) {
	cost := tb.t.RawRowView(obj)
	for {
		if err := ctx.Err(); err != nil {
			return false, fmt.Errorf("relaxation interrupted after %d pivots: %w", tb.pivots, err)
		}
		if tb.pivots >= tb.limit {
			return false, fmt.Errorf("%w: no convergence after %d pivots", solver.ErrNumerical, tb.pivots)
		}

		enter := -1
		for j := 0; j < tb.n; j++ {
			if cost[j] < -pricingTolerance {
				enter = j
				break
			}
		}
		if enter < 0 {
			return false, nil
		}

		leave, best := -1, math.Inf(1)
		for i := 0; i < tb.m; i++ {
			if !tb.active[i] {
				continue
			}
			a := tb.t.At(i, enter)
			if a <= pivotTolerance {
				continue
			}
			ratio := tb.t.At(i, tb.rhs) / a
			if leave < 0 || ratio < best-ratioTolerance ||
				(ratio <= best+ratioTolerance && tb.basis[i] < tb.basis[leave]) {
				leave, best = i, ratio
			}
		}
		if leave < 0 {
			return true, nil
		}
		tb.pivot(leave, enter)
		tb.pivots++
	}
}

// dropArtificials pivots artificial columns out of the basis after phase one.
// A row with no structural entry left is a combination of the others and is
// deactivated.
func (tb *tableau) dropArtificials() {
	for i := 0; i < tb.m; i++ {
		if tb.basis[i] < tb.n {
			continue
		}
		row := tb.t.RawRowView(i)
		enter := -1
		for j := 0; j < tb.n; j++ {
			if math.Abs(row[j]) > pivotTolerance {
				enter = j
				break
			}
		}
		if enter < 0 {
			tb.active[i] = false
			continue
		}
		tb.pivot(i, enter)
	}
}

// solveStandard solves minimize c'y subject to Ay = b, y >= 0 for b >= 0.
// Redundant equality rows are dropped; an inconsistent system is infeasible.
// ctx is checked before every pivot.
func solveStandard(ctx context.Context, c []float64, A *mat.Dense, b []float64, feasTol float64) (outcome, []float64, error) {
	tb := newTableau(c, A, b)

	if tb.rhs > tb.n {
		if _, err := tb.optimize(ctx, tb.m+1); err != nil {
			return outcomeInfeasible, nil, err
		}
		infeasibility := -tb.t.At(tb.m+1, tb.rhs)
		if infeasibility > feasTol*(1+floats.Sum(b)) {
			return outcomeInfeasible, nil, nil
		}
		tb.dropArtificials()
	}

	unbounded, err := tb.optimize(ctx, tb.m)
	if err != nil {
		return outcomeInfeasible, nil, err
	}
	if unbounded {
		return outcomeUnbounded, nil, nil
	}

	y := make([]float64, tb.n)
	for i, j := range tb.basis {
		if tb.active[i] && j < tb.n {
			y[j] = math.Max(0, tb.t.At(i, tb.rhs))
		}
	}
	return outcomeOptimal, y, nil
}
