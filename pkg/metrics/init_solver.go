package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSolverMetrics() {
	r.SolverNodesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "netdesign_solver_nodes_total",
			Help: "Total number of branch-and-bound nodes explored",
		},
	)

	r.SolverRelaxationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "netdesign_solver_relaxations_total",
			Help: "Total number of LP relaxations solved by outcome",
		},
		[]string{"outcome"},
	)

	r.SolverRelaxationDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "netdesign_solver_relaxation_duration_seconds",
			Help:    "Duration of a single LP relaxation solve in seconds",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1.0, 10.0},
		},
	)

	r.SolverIncumbentsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "netdesign_solver_incumbents_total",
			Help: "Total number of improving integer solutions found",
		},
	)

	r.SolverIncumbentObjective = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "netdesign_solver_incumbent_objective",
			Help: "Objective value of the current incumbent",
		},
	)
}
