// Package report prints models and solutions for terminals and logs.
package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-netdesign/pkg/model"
)

// Printer renders with the color profile of its writer; plain writers get plain text.
type Printer struct {
	w        io.Writer
	title    lipgloss.Style
	name     lipgloss.Style
	positive lipgloss.Style
	negative lipgloss.Style
	muted    lipgloss.Style
	failure  lipgloss.Style

	// ShowZeros makes Solution list zero values too
	ShowZeros bool
}

func NewPrinter(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:        w,
		title:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FFFF")),
		name:     r.NewStyle().Foreground(lipgloss.Color("#FFFFFF")),
		positive: r.NewStyle().Foreground(lipgloss.Color("#00FF00")),
		negative: r.NewStyle().Foreground(lipgloss.Color("#FF00FF")),
		muted:    r.NewStyle().Foreground(lipgloss.Color("#888888")),
		failure:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF0000")),
	}
}

// formatValue keeps ten significant digits so LP round-off does not show
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', 10, 64)
}

func (p *Printer) signed(v float64) lipgloss.Style {
	if v < 0 {
		return p.negative
	}
	return p.positive
}

// Objective prints the non-zero objective coefficients as +c name pairs
func (p *Printer) Objective(terms []model.ObjectiveTerm) error {
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		coef := fmt.Sprintf("%+g", t.Coef)
		parts = append(parts, p.signed(t.Coef).Render(coef)+p.name.Render(t.Name))
	}
	_, err := fmt.Fprintf(p.w, "%s %s\n", p.title.Render("Objective:"), strings.Join(parts, " "))
	return err
}

// Summary prints the model size per family
func (p *Printer) Summary(vars []model.Variable, cons []model.Constraint) error {
	count := func(families []string) string {
		sizes := make(map[string]int)
		for _, f := range families {
			sizes[f]++
		}
		keys := make([]string, 0, len(sizes))
		for k := range sizes {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]string, len(keys))
		for i, k := range keys {
			out[i] = fmt.Sprintf("%s=%d", k, sizes[k])
		}
		return strings.Join(out, " ")
	}

	varFamilies := make([]string, len(vars))
	for i, v := range vars {
		varFamilies[i] = string(v.Key.Family)
	}
	conFamilies := make([]string, len(cons))
	for i, c := range cons {
		conFamilies[i] = string(c.Key.Family)
	}

	_, err := fmt.Fprintf(p.w, "%s %d variables (%s), %d constraints (%s)\n",
		p.title.Render("Model:"),
		len(vars), p.muted.Render(count(varFamilies)),
		len(cons), p.muted.Render(count(conFamilies)))
	return err
}

// Solution prints the status, the objective and every non-zero value, or a
// no-solution line.
func (p *Printer) Solution(res *model.Result) error {
	if !res.HasSolution() {
		_, err := fmt.Fprintf(p.w, "%s %s\n",
			p.failure.Render("No solution found."),
			p.muted.Render("status="+res.Status.String()))
		return err
	}

	obj, _ := res.Objective()
	if _, err := fmt.Fprintf(p.w, "%s %s %s\n",
		p.title.Render("Solution found:"),
		p.muted.Render("status="+res.Status.String()),
		p.muted.Render("objective="+formatValue(obj))); err != nil {
		return err
	}

	assignments := res.NonZero()
	if p.ShowZeros {
		assignments = res.Assignments()
	}
	width := 0
	for _, a := range assignments {
		width = max(width, lipgloss.Width(a.Name))
	}
	column := p.name.Width(width)
	for _, a := range assignments {
		if _, err := fmt.Fprintf(p.w, "  %s = %s\n",
			column.Render(a.Name),
			p.signed(a.Value).Render(formatValue(a.Value))); err != nil {
			return err
		}
	}
	return nil
}
