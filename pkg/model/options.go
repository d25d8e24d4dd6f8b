package model

import (
	"time"

	"github.com/dd0wney/cluso-netdesign/pkg/logging"
	"github.com/dd0wney/cluso-netdesign/pkg/solver"
	"github.com/dd0wney/cluso-netdesign/pkg/solver/bnb"
)

const (
	// DefaultBetaUpperBound bounds every Phi and beta column
	DefaultBetaUpperBound = 1000.0
	// DefaultLinkedCommodity is the commodity whose beta columns enter the McCormick rows
	DefaultLinkedCommodity = 1
	DefaultProblemName     = "netdesign"
)

// Recorder receives build and solve measurements. metrics.Registry implements it.
type Recorder interface {
	SetModelSize(variables, constraints map[string]int)
	RecordBuildPhase(phase string, duration time.Duration)
	RecordBuildFailure(kind string)
	RecordSolve(status string, duration time.Duration, objective float64, hasSolution bool)
}

type nopRecorder struct{}

func (nopRecorder) SetModelSize(map[string]int, map[string]int)      {}
func (nopRecorder) RecordBuildPhase(string, time.Duration)           {}
func (nopRecorder) RecordBuildFailure(string)                        {}
func (nopRecorder) RecordSolve(string, time.Duration, float64, bool) {}

type options struct {
	betaUB          float64
	linkedCommodity int
	problemName     string
	factory         solver.Factory
	logger          logging.Logger
	recorder        Recorder
}

func defaultOptions() options {
	return options{
		betaUB:          DefaultBetaUpperBound,
		linkedCommodity: DefaultLinkedCommodity,
		problemName:     DefaultProblemName,
		factory:         bnb.NewFactory(bnb.DefaultOptions()),
		logger:          logging.NewNopLogger(),
		recorder:        nopRecorder{},
	}
}

// Option configures a Builder
type Option func(*options)

// WithBetaUpperBound sets the bound U shared by Phi and beta columns
func WithBetaUpperBound(ub float64) Option {
	return func(o *options) {
		o.betaUB = ub
	}
}

// WithLinkedCommodity sets the commodity whose beta columns the McCormick rows use
func WithLinkedCommodity(k int) Option {
	return func(o *options) {
		o.linkedCommodity = k
	}
}

// WithProblemName sets the name passed to the solver factory
func WithProblemName(name string) Option {
	return func(o *options) {
		o.problemName = name
	}
}

// WithSolverFactory sets the engine that creates the problem
func WithSolverFactory(f solver.Factory) Option {
	return func(o *options) {
		o.factory = f
	}
}

// WithLogger sets the logger for build phases and, at debug level, every declaration
func WithLogger(logger logging.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics sets the recorder for build and solve measurements
func WithMetrics(r Recorder) Option {
	return func(o *options) {
		o.recorder = r
	}
}
