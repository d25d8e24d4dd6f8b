package bnb

import (
	"context"
	"math"

	"gonum.org/v1/gonum/mat"
)

type outcome int

const (
	outcomeOptimal outcome = iota
	outcomeInfeasible
	outcomeUnbounded
)

func (o outcome) String() string {
	switch o {
	case outcomeOptimal:
		return "optimal"
	case outcomeInfeasible:
		return "infeasible"
	case outcomeUnbounded:
		return "unbounded"
	default:
		return "unknown"
	}
}

// relaxation is the LP solution of one node. objective is in minimization
// form: the model objective times the sense sign.
type relaxation struct {
	outcome   outcome
	x         []float64
	objective float64
}

// colMap expresses an original column as offset + y[pos] - y[neg].
// A negative index means the part is absent.
type colMap struct {
	offset float64
	pos    int
	neg    int
}

// stdRow is the equality row sum(coef[j] * y[j]) = rhs
type stdRow struct {
	coef map[int]float64
	rhs  float64
}

type standardForm struct {
	c    []float64
	rows []stdRow
	cols []colMap
}

func (sf *standardForm) newColumn(cost float64) int {
	sf.c = append(sf.c, cost)
	return len(sf.c) - 1
}

func (sf *standardForm) addRow(coef map[int]float64, rhs float64) {
	sf.rows = append(sf.rows, stdRow{coef: coef, rhs: rhs})
}

func cloneCoef(in map[int]float64) map[int]float64 {
	out := make(map[int]float64, len(in)+1)
	for k, v := range in {
		out[k] = v
	}
	return out
}

// standardForm rewrites the problem restricted to [lb, ub] as Ay = b, y >= 0.
// ok is false when a row without columns cannot be satisfied.
func (p *Problem) standardForm(lb, ub []float64, sign float64) (sf *standardForm, ok bool) {
	sf = &standardForm{cols: make([]colMap, len(p.cols))}

	for j, col := range p.cols {
		l, u := lb[j], ub[j]
		if l > u {
			return nil, false
		}
		cost := sign * col.obj
		m := colMap{pos: -1, neg: -1}
		switch {
		case l == u:
			m.offset = l
		case !math.IsInf(l, -1):
			m.offset = l
			m.pos = sf.newColumn(cost)
			if !math.IsInf(u, 1) {
				s := sf.newColumn(0)
				sf.addRow(map[int]float64{m.pos: 1, s: 1}, u-l)
			}
		case !math.IsInf(u, 1):
			m.offset = u
			m.neg = sf.newColumn(-cost)
		default:
			m.pos = sf.newColumn(cost)
			m.neg = sf.newColumn(-cost)
		}
		sf.cols[j] = m
	}

	tol := p.opts.FeasibilityTolerance
	for _, r := range p.rows {
		coef := make(map[int]float64, len(r.terms))
		shift := 0.0
		for _, t := range r.terms {
			m := sf.cols[t.Var]
			shift += t.Coef * m.offset
			if m.pos >= 0 {
				coef[m.pos] += t.Coef
			}
			if m.neg >= 0 {
				coef[m.neg] -= t.Coef
			}
		}
		for k, v := range coef {
			if v == 0 {
				delete(coef, k)
			}
		}

		lo, hi := r.lb-shift, r.ub-shift
		if len(coef) == 0 {
			if lo > tol || hi < -tol {
				return nil, false
			}
			continue
		}
		if lo == hi {
			sf.addRow(coef, lo)
			continue
		}
		if !math.IsInf(hi, 1) {
			row := cloneCoef(coef)
			row[sf.newColumn(0)] = 1
			sf.addRow(row, hi)
		}
		if !math.IsInf(lo, -1) {
			row := cloneCoef(coef)
			row[sf.newColumn(0)] = -1
			sf.addRow(row, lo)
		}
	}
	return sf, true
}

// relax solves the LP relaxation of the problem restricted to [lb, ub]. It
// stops with ctx's error when ctx is done mid-relaxation.
func (p *Problem) relax(ctx context.Context, lb, ub []float64, sign float64) (relaxation, error) {
	sf, ok := p.standardForm(lb, ub, sign)
	if !ok {
		return relaxation{outcome: outcomeInfeasible}, nil
	}

	// Columns outside every row sit at zero unless their cost pulls them to infinity.
	n := len(sf.c)
	used := make([]bool, n)
	for _, r := range sf.rows {
		for k := range r.coef {
			used[k] = true
		}
	}
	index := make([]int, n)
	width := 0
	for k := range index {
		if !used[k] {
			if sf.c[k] < 0 {
				return relaxation{outcome: outcomeUnbounded}, nil
			}
			index[k] = -1
			continue
		}
		index[k] = width
		width++
	}

	y := make([]float64, n)
	if height := len(sf.rows); height > 0 {
		c := make([]float64, width)
		for k, i := range index {
			if i >= 0 {
				c[i] = sf.c[k]
			}
		}
		A := mat.NewDense(height, width, nil)
		b := make([]float64, height)
		for i, r := range sf.rows {
			s := 1.0
			if r.rhs < 0 {
				s = -1
			}
			for k, v := range r.coef {
				A.Set(i, index[k], s*v)
			}
			b[i] = s * r.rhs
		}

		out, x, err := solveStandard(ctx, c, A, b, p.opts.FeasibilityTolerance)
		if err != nil {
			return relaxation{}, err
		}
		if out != outcomeOptimal {
			return relaxation{outcome: out}, nil
		}
		for k, i := range index {
			if i >= 0 {
				y[k] = x[i]
			}
		}
	}

	rel := relaxation{outcome: outcomeOptimal, x: make([]float64, len(p.cols))}
	for j, m := range sf.cols {
		v := m.offset
		if m.pos >= 0 {
			v += y[m.pos]
		}
		if m.neg >= 0 {
			v -= y[m.neg]
		}
		v = math.Min(math.Max(v, lb[j]), ub[j])
		rel.x[j] = v
		rel.objective += sign * p.cols[j].obj * v
	}
	return rel, nil
}
