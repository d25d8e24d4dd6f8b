package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for model construction and solving
type Registry struct {
	// Model Metrics
	ModelVariables     *prometheus.GaugeVec
	ModelConstraints   *prometheus.GaugeVec
	ModelBuildDuration *prometheus.HistogramVec
	ModelBuildFailures *prometheus.CounterVec
	ModelSolvesTotal   *prometheus.CounterVec
	ModelSolveDuration prometheus.Histogram
	ModelBestObjective prometheus.Gauge

	// Solver Metrics (branch and bound)
	SolverNodesTotal         prometheus.Counter
	SolverRelaxationsTotal   *prometheus.CounterVec
	SolverRelaxationDuration prometheus.Histogram
	SolverIncumbentsTotal    prometheus.Counter
	SolverIncumbentObjective prometheus.Gauge

	registry *prometheus.Registry
	mu       sync.RWMutex
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initModelMetrics()
	r.initSolverMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
