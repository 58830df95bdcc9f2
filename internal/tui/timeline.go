// Package tui shows a schedule as a scrollable terminal timeline.
package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/leapstack-labs/leapgantt/internal/chart"
	"github.com/leapstack-labs/leapgantt/internal/engine"
	"github.com/leapstack-labs/leapgantt/pkg/core"
)

const (
	barRune       = '█'
	milestoneRune = '◆'
	dateLayout    = "2006-01-02"
)

// Colorize paints s with a hex color.
type Colorize func(hex, s string) string

// plain leaves text uncolored.
func plain(_, s string) string { return s }

// RenderTimeline draws one line per chart row: the label column, then the
// bar or milestone placed on a shared date scale. width is the full line width.
func RenderTimeline(report *engine.Report, width int, colorize Colorize) string {
	if report.Empty() {
		return ""
	}
	if colorize == nil {
		colorize = plain
	}

	spec := report.Spec
	labelWidth := 0
	for _, c := range spec.Categories {
		labelWidth = max(labelWidth, lipgloss.Width(c))
	}
	labelWidth = min(labelWidth, width/3)
	barWidth := max(width-labelWidth-1, 10)

	scale := newScale(spec.AxisMin, spec.AxisMax, barWidth)
	lines := make([]string, 0, len(spec.Categories)+1)

	axis := []rune(strings.Repeat(" ", barWidth))
	startLabel, endLabel := spec.AxisMin.Format(dateLayout), spec.AxisMax.Format(dateLayout)
	copy(axis, []rune(startLabel))
	if barWidth >= 2*len(endLabel)+1 {
		copy(axis[barWidth-len(endLabel):], []rune(endLabel))
	}
	lines = append(lines, strings.Repeat(" ", labelWidth)+" "+string(axis))

	cells := make([]string, len(spec.Categories))
	for _, p := range spec.Primitives {
		row := []rune(strings.Repeat("·", barWidth))
		color := spec.ColorOf(p.Owner(), chart.DefaultFallbackColor)
		switch prim := p.(type) {
		case core.Bar:
			from, to := scale.col(prim.Start), scale.col(prim.End())
			if to < from {
				from, to = to, from
			}
			for i := from; i <= to; i++ {
				row[i] = barRune
			}
		case core.Marker:
			row[scale.col(prim.At)] = milestoneRune
		}
		if i := p.RowIndex(); i >= 0 && i < len(cells) {
			cells[i] = colorize(color, string(row))
		}
	}

	for i, c := range spec.Categories {
		lines = append(lines, fit(c, labelWidth)+" "+cells[i])
	}
	return strings.Join(lines, "\n")
}

// fit truncates or pads s to exactly w cells.
func fit(s string, w int) string {
	var sb strings.Builder
	used := 0
	for _, r := range s {
		rw := lipgloss.Width(string(r))
		if used+rw > w {
			break
		}
		sb.WriteRune(r)
		used += rw
	}
	return sb.String() + strings.Repeat(" ", w-used)
}

// scale maps dates onto columns [0, width).
type scale struct {
	from  time.Time
	span  time.Duration
	width int
}

func newScale(from, to time.Time, width int) scale {
	return scale{from: from, span: to.Sub(from), width: width}
}

func (s scale) col(t time.Time) int {
	if s.span <= 0 {
		return 0
	}
	c := int(float64(t.Sub(s.from)) / float64(s.span) * float64(s.width-1))
	return min(max(c, 0), s.width-1)
}
