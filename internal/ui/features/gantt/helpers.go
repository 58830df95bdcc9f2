package gantt

import (
	"strconv"

	"github.com/leapstack-labs/leapgantt/internal/chart"
	"github.com/leapstack-labs/leapgantt/internal/engine"
	"github.com/leapstack-labs/leapgantt/internal/ui/features/gantt/types"
)

const displayDate = "2006-01-02"

func (h *Handlers) buildViewData(labels types.Labels, report *engine.Report) types.ViewData {
	data := BuildViewData(labels, report)
	data.Title = h.opts.Title
	data.IsDev = h.opts.IsDev
	return data
}

// BuildViewData formats a report for display. A nil report yields the empty state.
func BuildViewData(labels types.Labels, report *engine.Report) types.ViewData {
	data := types.ViewData{Labels: labels}
	if report.Empty() {
		return data
	}

	data.Filename = report.Filename
	data.Rows = make([]types.RowView, 0, len(report.Rows))
	for _, row := range report.Rows {
		data.Rows = append(data.Rows, types.RowView{
			Seq:      strconv.Itoa(row.Seq),
			Step:     row.Step,
			Resource: row.Resource,
			Start:    row.Start.Format(displayDate),
			End:      row.End.Format(displayDate),
			Kind:     kindLabel(labels, row.IsMilestone()),
			Color:    report.Spec.ColorOf(row.Resource, chart.DefaultFallbackColor),
		})
	}

	s := report.Summary
	data.Summary = &types.SummaryView{
		Tasks:      strconv.Itoa(s.Tasks),
		Milestones: strconv.Itoa(s.Milestones),
		Start:      s.Start.Format(displayDate),
		End:        s.End.Format(displayDate),
		Duration:   strconv.Itoa(s.DurationDays),
	}
	return data
}

func kindLabel(labels types.Labels, milestone bool) string {
	if milestone {
		return labels.Figure.Milestone
	}
	return labels.Figure.Task
}
