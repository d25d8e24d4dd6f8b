package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var metric dto.Metric
	if err := g.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.Gauge.GetValue()
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var metric dto.Metric
	if err := c.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.Counter.GetValue()
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}

	if r.ModelVariables == nil {
		t.Error("ModelVariables not initialized")
	}
	if r.ModelSolveDuration == nil {
		t.Error("ModelSolveDuration not initialized")
	}
	if r.SolverNodesTotal == nil {
		t.Error("SolverNodesTotal not initialized")
	}
	if r.GetPrometheusRegistry() == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestSetModelSize(t *testing.T) {
	r := NewRegistry()

	r.SetModelSize(
		map[string]int{"x": 2, "Phi": 4, "beta": 4},
		map[string]int{"use": 1, "mccormick": 12},
	)

	if got := gaugeValue(t, r.ModelVariables.WithLabelValues("Phi")); got != 4 {
		t.Errorf("Phi variables = %v, want 4", got)
	}
	if got := gaugeValue(t, r.ModelConstraints.WithLabelValues("mccormick")); got != 12 {
		t.Errorf("mccormick constraints = %v, want 12", got)
	}

	// A second build replaces the previous sizes
	r.SetModelSize(map[string]int{"x": 1}, map[string]int{})
	if got := gaugeValue(t, r.ModelVariables.WithLabelValues("Phi")); got != 0 {
		t.Errorf("after reset Phi variables = %v, want 0", got)
	}
}

func TestRecordBuildFailure(t *testing.T) {
	r := NewRegistry()

	r.RecordBuildFailure("shape_mismatch")
	r.RecordBuildFailure("shape_mismatch")
	r.RecordBuildFailure("unknown_reference")

	if got := counterValue(t, r.ModelBuildFailures.WithLabelValues("shape_mismatch")); got != 2 {
		t.Errorf("shape_mismatch failures = %v, want 2", got)
	}
	if got := counterValue(t, r.ModelBuildFailures.WithLabelValues("unknown_reference")); got != 1 {
		t.Errorf("unknown_reference failures = %v, want 1", got)
	}
}

func TestRecordSolve(t *testing.T) {
	r := NewRegistry()

	r.RecordSolve("optimal", 20*time.Millisecond, -1190, true)
	r.RecordSolve("infeasible", 5*time.Millisecond, 0, false)

	if got := counterValue(t, r.ModelSolvesTotal.WithLabelValues("optimal")); got != 1 {
		t.Errorf("optimal solves = %v, want 1", got)
	}
	if got := gaugeValue(t, r.ModelBestObjective); got != -1190 {
		t.Errorf("best objective = %v, want -1190 (infeasible solve must not overwrite it)", got)
	}
}

func TestSolverObserver(t *testing.T) {
	r := NewRegistry()

	r.NodeExplored()
	r.NodeExplored()
	r.RelaxationSolved("optimal", time.Millisecond)
	r.RelaxationSolved("infeasible", time.Millisecond)
	r.RelaxationSolved("infeasible", time.Millisecond)
	r.IncumbentFound(42)

	if got := counterValue(t, r.SolverNodesTotal); got != 2 {
		t.Errorf("nodes = %v, want 2", got)
	}
	if got := counterValue(t, r.SolverRelaxationsTotal.WithLabelValues("infeasible")); got != 2 {
		t.Errorf("infeasible relaxations = %v, want 2", got)
	}
	if got := gaugeValue(t, r.SolverIncumbentObjective); got != 42 {
		t.Errorf("incumbent objective = %v, want 42", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	r := NewRegistry()
	r.NodeExplored()

	path := filepath.Join(t.TempDir(), "netdesign.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	if !strings.Contains(string(data), "netdesign_solver_nodes_total 1") {
		t.Errorf("textfile missing node counter:\n%s", data)
	}
}
