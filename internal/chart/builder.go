// Package chart turns schedule rows into Gantt chart specifications and
// encodes them for the browser (plotly.js) or as static images.
package chart

import (
	"sort"
	"time"

	"github.com/leapstack-labs/leapgantt/pkg/core"
)

// DefaultMilestoneColor fills every milestone marker.
const DefaultMilestoneColor = "#d62728"

// Builder converts rows into a core.ChartSpec.
type Builder struct {
	policy         ColorPolicy
	title          string
	milestoneColor string
}

// Option configures a Builder.
type Option func(*Builder)

// WithTitle sets the chart title.
func WithTitle(title string) Option {
	return func(b *Builder) { b.title = title }
}

// WithMilestoneColor overrides DefaultMilestoneColor.
func WithMilestoneColor(color string) Option {
	return func(b *Builder) {
		if color != "" {
			b.milestoneColor = color
		}
	}
}

// NewBuilder creates a Builder. A nil policy uses DefaultFixedPalette.
func NewBuilder(policy ColorPolicy, opts ...Option) *Builder {
	if policy == nil {
		policy = DefaultFixedPalette()
	}
	b := &Builder{
		policy:         policy,
		milestoneColor: DefaultMilestoneColor,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build derives the chart for rows. The input is not modified.
func (b *Builder) Build(rows []core.Row) core.ChartSpec {
	sorted := make([]core.Row, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Seq < sorted[j].Seq
	})

	spec := core.ChartSpec{
		Title:          b.title,
		Categories:     make([]string, 0, len(sorted)),
		Primitives:     make([]core.Primitive, 0, len(sorted)),
		MilestoneColor: b.milestoneColor,
	}

	resources := make([]string, 0)
	seen := make(map[string]bool)

	for i, row := range sorted {
		label := row.Label()
		spec.Categories = append(spec.Categories, label)

		if !seen[row.Resource] {
			seen[row.Resource] = true
			resources = append(resources, row.Resource)
		}

		if i == 0 || row.Start.Before(spec.AxisMin) {
			spec.AxisMin = row.Start
		}
		if i == 0 || row.End.After(spec.AxisMax) {
			spec.AxisMax = row.End
		}

		switch row.Kind {
		case core.KindTask:
			spec.Primitives = append(spec.Primitives, core.Bar{
				Resource: row.Resource,
				Label:    label,
				Index:    i,
				Start:    row.Start,
				Duration: row.End.Sub(row.Start),
			})
		case core.KindMilestone:
			spec.Primitives = append(spec.Primitives, core.Marker{
				Resource: row.Resource,
				Label:    label,
				Index:    i,
				At:       row.End,
			})
		}
	}

	spec.Colors = b.policy.Assign(resources)
	spec.Legend = make([]core.LegendEntry, 0, len(resources))
	for _, r := range resources {
		spec.Legend = append(spec.Legend, core.LegendEntry{Resource: r, Color: spec.Colors[r]})
	}

	return spec
}

// Summarize computes the project metrics for rows.
func Summarize(rows []core.Row) core.Summary {
	var s core.Summary
	for i, row := range rows {
		switch row.Kind {
		case core.KindTask:
			s.Tasks++
		case core.KindMilestone:
			s.Milestones++
		}
		if i == 0 || row.Start.Before(s.Start) {
			s.Start = row.Start
		}
		if i == 0 || row.End.After(s.End) {
			s.End = row.End
		}
	}
	if len(rows) > 0 {
		s.DurationDays = daysBetween(s.Start, s.End)
	}
	return s
}

// daysBetween counts whole days from a to b, rounding toward negative infinity.
func daysBetween(a, b time.Time) int {
	d := b.Sub(a)
	days := int(d / (24 * time.Hour))
	if d < 0 && d%(24*time.Hour) != 0 {
		days--
	}
	return days
}
