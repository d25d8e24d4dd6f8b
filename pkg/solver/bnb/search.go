package bnb

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/dd0wney/cluso-netdesign/pkg/logging"
	"github.com/dd0wney/cluso-netdesign/pkg/parallel"
	"github.com/dd0wney/cluso-netdesign/pkg/solver"
)

// node is a subproblem waiting on the stack. bound is the relaxation
// objective of its parent, a lower bound on anything below it.
type node struct {
	lb    []float64
	ub    []float64
	depth int
	bound float64
}

type searchResult struct {
	status solver.Status
	x      []float64
}

type nodeResult struct {
	rel      relaxation
	duration time.Duration
}

// search runs depth-first branch and bound. Callers hold p.mu.
func (p *Problem) search(ctx context.Context) (searchResult, error) {
	sign := 1.0
	if p.sense == solver.Maximize {
		sign = -1
	}

	root := &node{
		lb:    make([]float64, len(p.cols)),
		ub:    make([]float64, len(p.cols)),
		bound: math.Inf(-1),
	}
	for j, c := range p.cols {
		root.lb[j], root.ub[j] = c.lb, c.ub
		if c.kind.IsIntegral() {
			root.lb[j] = math.Ceil(c.lb - p.opts.IntegralityTolerance)
			root.ub[j] = math.Floor(c.ub + p.opts.IntegralityTolerance)
			if root.lb[j] > root.ub[j] {
				return searchResult{status: solver.Infeasible}, nil
			}
		}
	}

	pool, err := parallel.NewWorkerPool(p.opts.Workers)
	if err != nil {
		return searchResult{}, err
	}
	defer pool.Close()

	log := p.opts.Logger
	obs := p.opts.Observer
	start := time.Now()

	// Relaxations run under the time limit too, so a slow one cannot outlive it.
	runCtx := ctx
	if p.opts.TimeLimit > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, p.opts.TimeLimit)
		defer cancel()
	}
	log.Debug("search started",
		logging.Int("columns", len(p.cols)),
		logging.Int("rows", len(p.rows)),
		logging.Int("workers", pool.Workers()))

	var (
		incumbent    []float64
		incumbentObj = math.Inf(1)
		stack        = []*node{root}
		explored     int
		stopped      bool
	)

	for len(stack) > 0 && !stopped {
		if reason := p.limitReached(ctx, start, explored); reason != "" {
			log.Info("search stopped", logging.String("reason", reason), logging.Count(explored))
			stopped = true
			break
		}

		batch := make([]*node, 0, pool.Workers())
		for len(stack) > 0 && len(batch) < pool.Workers() {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if p.prunable(n.bound, incumbentObj) {
				continue
			}
			batch = append(batch, n)
		}
		if p.opts.NodeLimit > 0 && explored+len(batch) > p.opts.NodeLimit {
			// Nodes over the limit go back in pop order.
			over := batch[p.opts.NodeLimit-explored:]
			batch = batch[:p.opts.NodeLimit-explored]
			for i := len(over) - 1; i >= 0; i-- {
				stack = append(stack, over[i])
			}
		}
		if len(batch) == 0 {
			continue
		}

		results := make([]nodeResult, len(batch))
		tasks := make([]func() error, len(batch))
		for i, n := range batch {
			i, n := i, n
			tasks[i] = func() error {
				began := time.Now()
				rel, err := p.relax(runCtx, n.lb, n.ub, sign)
				results[i] = nodeResult{rel: rel, duration: time.Since(began)}
				return err
			}
		}
		errs := pool.RunBatch(tasks)

		for i, n := range batch {
			if err := errs[i]; interrupted(err) {
				reason := p.limitReached(ctx, start, explored)
				if reason == "" {
					reason = "time_limit"
				}
				log.Info("search stopped", logging.String("reason", reason), logging.Count(explored))
				stopped = true
				break
			}
			explored++
			obs.NodeExplored()
			if err := errs[i]; err != nil {
				var panicErr *parallel.PanicError
				if errors.As(err, &panicErr) {
					err = fmt.Errorf("%w: %v", solver.ErrNumerical, panicErr)
				}
				obs.RelaxationSolved("error", results[i].duration)
				log.Error("relaxation failed", logging.Int("depth", n.depth), logging.Error(err))
				return searchResult{}, err
			}

			rel := results[i].rel
			obs.RelaxationSolved(rel.outcome.String(), results[i].duration)
			switch rel.outcome {
			case outcomeInfeasible:
				continue
			case outcomeUnbounded:
				log.Info("relaxation unbounded", logging.Int("depth", n.depth))
				return searchResult{status: solver.Unbounded}, nil
			}
			if p.prunable(rel.objective, incumbentObj) {
				continue
			}

			branch, frac := p.branchColumn(rel.x)
			if branch < 0 {
				incumbent = p.snap(rel.x)
				incumbentObj = rel.objective
				obs.IncumbentFound(sign * incumbentObj)
				log.Debug("incumbent found",
					logging.Objective(sign*incumbentObj),
					logging.Int("depth", n.depth),
					logging.Count(explored))
				continue
			}

			v := rel.x[branch]
			down := &node{lb: n.lb, ub: clone(n.ub), depth: n.depth + 1, bound: rel.objective}
			down.ub[branch] = math.Floor(v)
			up := &node{lb: clone(n.lb), ub: n.ub, depth: n.depth + 1, bound: rel.objective}
			up.lb[branch] = math.Ceil(v)

			// The child pushed last is explored first.
			if frac >= 0.5 {
				stack = append(stack, down, up)
			} else {
				stack = append(stack, up, down)
			}
		}
	}

	res := searchResult{x: incumbent}
	switch {
	case incumbent != nil && !stopped:
		res.status = solver.Optimal
	case incumbent != nil:
		res.status = solver.Feasible
	case stopped:
		res.status = solver.Interrupted
	default:
		res.status = solver.Infeasible
	}

	fields := []logging.Field{
		logging.String("status", res.status.String()),
		logging.Count(explored),
		logging.Latency(time.Since(start)),
	}
	if incumbent != nil {
		fields = append(fields, logging.Objective(sign*incumbentObj))
	}
	log.Info("search finished", fields...)
	return res, nil
}

// limitReached names the limit that stops the search, or returns "".
func (p *Problem) limitReached(ctx context.Context, start time.Time, explored int) string {
	switch {
	case ctx.Err() != nil:
		return "canceled"
	case p.opts.NodeLimit > 0 && explored >= p.opts.NodeLimit:
		return "node_limit"
	case p.opts.TimeLimit > 0 && time.Since(start) >= p.opts.TimeLimit:
		return "time_limit"
	default:
		return ""
	}
}

// interrupted reports whether a relaxation was stopped by cancellation or the time limit
func interrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// prunable reports whether a bound cannot beat the incumbent by more than the gap
func (p *Problem) prunable(bound, incumbent float64) bool {
	if math.IsInf(incumbent, 1) {
		return false
	}
	tol := math.Max(p.opts.FeasibilityTolerance, p.opts.Gap*math.Abs(incumbent))
	return bound >= incumbent-tol
}

// branchColumn picks the most fractional integral column, lowest index on ties.
// It returns -1 when the point is integral.
func (p *Problem) branchColumn(x []float64) (int, float64) {
	best, bestDist, bestFrac := -1, p.opts.IntegralityTolerance, 0.0
	for j, c := range p.cols {
		if !c.kind.IsIntegral() {
			continue
		}
		frac := x[j] - math.Floor(x[j])
		dist := math.Min(frac, 1-frac)
		if dist > bestDist {
			best, bestDist, bestFrac = j, dist, frac
		}
	}
	return best, bestFrac
}

// snap rounds integral columns of an accepted point
func (p *Problem) snap(x []float64) []float64 {
	out := clone(x)
	for j, c := range p.cols {
		if c.kind.IsIntegral() {
			out[j] = math.Round(out[j])
		}
	}
	return out
}

func clone(v []float64) []float64 {
	return append([]float64(nil), v...)
}
