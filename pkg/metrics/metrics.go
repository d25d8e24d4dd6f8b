package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SetModelSize records the number of variables and constraints per family
func (r *Registry) SetModelSize(variables, constraints map[string]int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ModelVariables.Reset()
	for family, n := range variables {
		r.ModelVariables.WithLabelValues(family).Set(float64(n))
	}
	r.ModelConstraints.Reset()
	for family, n := range constraints {
		r.ModelConstraints.WithLabelValues(family).Set(float64(n))
	}
}

// RecordBuildPhase records the duration of a build phase
func (r *Registry) RecordBuildPhase(phase string, duration time.Duration) {
	r.ModelBuildDuration.WithLabelValues(phase).Observe(duration.Seconds())
}

// RecordBuildFailure counts a failed build by error kind
func (r *Registry) RecordBuildFailure(kind string) {
	r.ModelBuildFailures.WithLabelValues(kind).Inc()
}

// RecordSolve records a finished solve. hasSolution controls whether the
// objective gauge is updated.
func (r *Registry) RecordSolve(status string, duration time.Duration, objective float64, hasSolution bool) {
	r.ModelSolvesTotal.WithLabelValues(status).Inc()
	r.ModelSolveDuration.Observe(duration.Seconds())
	if hasSolution {
		r.ModelBestObjective.Set(objective)
	}
}

// NodeExplored counts one branch-and-bound node
func (r *Registry) NodeExplored() {
	r.SolverNodesTotal.Inc()
}

// RelaxationSolved records one LP relaxation by outcome
func (r *Registry) RelaxationSolved(outcome string, duration time.Duration) {
	r.SolverRelaxationsTotal.WithLabelValues(outcome).Inc()
	r.SolverRelaxationDuration.Observe(duration.Seconds())
}

// IncumbentFound records an improving integer solution
func (r *Registry) IncumbentFound(objective float64) {
	r.SolverIncumbentsTotal.Inc()
	r.SolverIncumbentObjective.Set(objective)
}

// WriteTextfile writes every metric in the Prometheus text format, for the
// node_exporter textfile collector.
func (r *Registry) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}
