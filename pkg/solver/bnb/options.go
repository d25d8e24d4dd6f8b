package bnb

import (
	"time"

	"github.com/dd0wney/cluso-netdesign/pkg/logging"
)

const (
	DefaultGap                  = 1e-6
	DefaultIntegralityTolerance = 1e-6
	DefaultFeasibilityTolerance = 1e-7
	DefaultWorkers              = 1
)

// Options are the limits and hooks of one search.
// Zero NodeLimit or TimeLimit means no limit.
type Options struct {
	NodeLimit            int
	TimeLimit            time.Duration
	Gap                  float64 // relative optimality gap used for pruning
	IntegralityTolerance float64
	FeasibilityTolerance float64
	Workers              int
	Logger               logging.Logger
	Observer             Observer
}

// DefaultOptions returns options for an unlimited, single-worker search
func DefaultOptions() Options {
	return Options{
		Gap:                  DefaultGap,
		IntegralityTolerance: DefaultIntegralityTolerance,
		FeasibilityTolerance: DefaultFeasibilityTolerance,
		Workers:              DefaultWorkers,
	}
}

func (o Options) withDefaults() Options {
	if o.Gap <= 0 {
		o.Gap = DefaultGap
	}
	if o.IntegralityTolerance <= 0 {
		o.IntegralityTolerance = DefaultIntegralityTolerance
	}
	if o.FeasibilityTolerance <= 0 {
		o.FeasibilityTolerance = DefaultFeasibilityTolerance
	}
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	if o.Logger == nil {
		o.Logger = logging.NewNopLogger()
	}
	if o.Observer == nil {
		o.Observer = nopObserver{}
	}
	return o
}

// Observer receives search events. Calls come from the goroutine running Optimize.
type Observer interface {
	NodeExplored()
	RelaxationSolved(outcome string, duration time.Duration)
	IncumbentFound(objective float64)
}

type nopObserver struct{}

func (nopObserver) NodeExplored()                          {}
func (nopObserver) RelaxationSolved(string, time.Duration) {}
func (nopObserver) IncumbentFound(float64)                 {}
