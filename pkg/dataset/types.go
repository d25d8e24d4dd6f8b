// Package dataset holds the network, time and commodity data a design model is built from.
package dataset

import (
	"encoding/json"
	"fmt"
)

// Dataset is one problem instance. Per-period tables have T rows and
// commodity-indexed tables have K columns; Validate checks both.
type Dataset struct {
	TimePeriods int    `json:"time_periods" validate:"min=1"`
	Commodities int    `json:"commodities" validate:"min=1"`
	Nodes       []Node `json:"nodes"`
	Arcs        []Arc  `json:"arcs"`

	DeltaXiLb [][]float64 `json:"delta_xi_lb"`
	DeltaXiUb [][]float64 `json:"delta_xi_ub"`
	MuBar     [][]float64 `json:"mu_bar"`
	Epsilon   [][]float64 `json:"epsilon"`
	Revenue   [][]float64 `json:"R"`
	Omega     []float64   `json:"omega"`
}

// Node is a network vertex. Node-level data is carried for completeness;
// the design model does not generate rows from it.
type Node struct {
	ID             int     `json:"id"`
	LeavingArcIDs  []int   `json:"leaving_arc_ids"`
	ArrivingArcIDs []int   `json:"arriving_arc_ids"`
	SlackCost      float64 `json:"c_v"`
	Theta          float64 `json:"theta"`
}

// Arc is a candidate link with per-period capacity and costs
type Arc struct {
	ID         int         `json:"id"`
	SourceNode int         `json:"source_node"`
	TargetNode int         `json:"target_node"`
	Initial    Flag        `json:"initial"`
	Capacity   []float64   `json:"C"`
	BuildCost  []float64   `json:"c_x"`
	FlowCost   [][]float64 `json:"c_u"`
}

// NumArcs returns the number of arcs
func (d *Dataset) NumArcs() int {
	return len(d.Arcs)
}

// NumNodes returns the number of nodes
func (d *Dataset) NumNodes() int {
	return len(d.Nodes)
}

// Flag is a boolean that also decodes from the numbers 0 and 1
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = Flag(b)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("flag: %s is neither boolean nor number", data)
	}
	switch n {
	case 0:
		*f = false
	case 1:
		*f = true
	default:
		return fmt.Errorf("flag: number %v is not 0 or 1", n)
	}
	return nil
}
