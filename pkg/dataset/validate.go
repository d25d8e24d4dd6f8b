package dataset

import (
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/dd0wney/cluso-netdesign/pkg/validation"
)

func init() {
	validation.RegisterStructRule(shapeRule, Dataset{})
}

// shapeRule checks every table against T and K. It reports nothing while
// T or K themselves are invalid; the field tags catch those.
func shapeRule(sl validator.StructLevel) {
	ds := sl.Current().Interface().(Dataset)
	periods, commodities := ds.TimePeriods, ds.Commodities
	if periods < 1 || commodities < 1 {
		return
	}

	length := func(field string, got, want int) bool {
		if got != want {
			sl.ReportError(got, field, field, "len", strconv.Itoa(want))
			return false
		}
		return true
	}
	table := func(field string, rows [][]float64) {
		if !length(field, len(rows), periods) {
			return
		}
		for t, row := range rows {
			length(fmt.Sprintf("%s[%d]", field, t), len(row), commodities)
		}
	}

	length("omega", len(ds.Omega), periods)
	table("delta_xi_lb", ds.DeltaXiLb)
	table("delta_xi_ub", ds.DeltaXiUb)
	table("mu_bar", ds.MuBar)
	table("epsilon", ds.Epsilon)
	table("R", ds.Revenue)

	for a, arc := range ds.Arcs {
		prefix := fmt.Sprintf("arcs[%d].", a)
		length(prefix+"C", len(arc.Capacity), periods)
		length(prefix+"c_x", len(arc.BuildCost), periods)
		table(prefix+"c_u", arc.FlowCost)
	}
}

// Validate checks the dimensions of every table before any index access.
// Failures are *ShapeError values naming the first offending field.
func (d *Dataset) Validate() error {
	if d == nil {
		return &ShapeError{Field: "", Detail: "nil dataset"}
	}
	err := validation.Struct(d)
	if err == nil {
		return nil
	}

	fields := validation.FieldErrors(err)
	if len(fields) == 0 {
		return fmt.Errorf("%w: %v", ErrShapeMismatch, err)
	}
	return &ShapeError{
		Field:  fields[0].Namespace,
		Detail: fields[0].Error(),
		More:   len(fields) - 1,
	}
}
