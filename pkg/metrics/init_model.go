package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initModelMetrics() {
	r.ModelVariables = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "netdesign_model_variables",
			Help: "Number of declared variables by family",
		},
		[]string{"family"},
	)

	r.ModelConstraints = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "netdesign_model_constraints",
			Help: "Number of declared constraints by family",
		},
		[]string{"family"},
	)

	r.ModelBuildDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "netdesign_model_build_duration_seconds",
			Help:    "Duration of model build phases in seconds",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
		[]string{"phase"},
	)

	r.ModelBuildFailures = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "netdesign_model_build_failures_total",
			Help: "Total number of failed builds by error kind",
		},
		[]string{"kind"},
	)

	r.ModelSolvesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "netdesign_model_solves_total",
			Help: "Total number of solves by final status",
		},
		[]string{"status"},
	)

	r.ModelSolveDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "netdesign_model_solve_duration_seconds",
			Help:    "Wall-clock duration of solves in seconds",
			Buckets: []float64{0.01, 0.1, 0.5, 1.0, 5.0, 30.0, 120.0, 600.0},
		},
	)

	r.ModelBestObjective = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "netdesign_model_best_objective",
			Help: "Objective value of the last solution found",
		},
	)
}
