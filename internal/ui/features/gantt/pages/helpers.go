// Package pages renders the Gantt chart page.
package pages

import "github.com/leapstack-labs/leapgantt/internal/ui/features/gantt/types"

// pageTitle is the configured title, or the localized default.
func pageTitle(data types.ViewData) string {
	if data.Title != "" {
		return data.Title
	}
	return data.Labels.Title
}

// metricItem is one labelled overview value.
type metricItem struct {
	Label string
	Value string
}

// overview lists the summary metrics in reading order.
func overview(l types.Labels, s *types.SummaryView) []metricItem {
	return []metricItem{
		{l.Tasks, s.Tasks},
		{l.Milestones, s.Milestones},
		{l.Start, s.Start},
		{l.End, s.End},
		{l.Duration, s.Duration + " " + l.Days},
	}
}
