package commands

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/leapgantt/internal/cli/output"
	"github.com/leapstack-labs/leapgantt/internal/engine"
	"github.com/leapstack-labs/leapgantt/internal/ui/features/gantt"
	"github.com/leapstack-labs/leapgantt/internal/ui/features/gantt/types"
	"github.com/spf13/cobra"
)

// NewSummaryCommand creates the summary command.
func NewSummaryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary FILE",
		Short: "Print the metrics and rows of a schedule",
		Long: `Parse a schedule and print the overview shown above the chart
(task and milestone counts, date range, duration) followed by its rows.

Output adapts to environment:
  - Terminal: Styled, colored output
  - Piped/Scripted: Markdown format

Use --output to override: auto, text, markdown, json`,
		Example: `  # Summarize a schedule
  leapgantt summary plan.csv

  # As JSON for scripts
  leapgantt summary plan.csv -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(cmd, args[0])
		},
	}
	return cmd
}

func runSummary(cmd *cobra.Command, path string) error {
	cc, cleanup, err := NewCommandContext(cmd, "")
	if err != nil {
		return err
	}
	defer cleanup()

	report, err := cc.Engine.BuildFile(path)
	if err != nil {
		return err
	}

	r := cc.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(summaryJSON(report))
	case output.ModeMarkdown:
		summaryMarkdown(r, gantt.BuildViewData(cc.Labels(), report))
	default:
		summaryText(r, gantt.BuildViewData(cc.Labels(), report), report)
	}
	return nil
}

func summaryText(r *output.Renderer, data types.ViewData, report *engine.Report) {
	l := data.Labels
	r.Header(1, data.Filename)
	s := data.Summary
	for _, kv := range [][2]string{
		{l.Tasks, s.Tasks},
		{l.Milestones, s.Milestones},
		{l.Start, s.Start},
		{l.End, s.End},
		{l.Duration, s.Duration + " " + l.Days},
	} {
		r.Printf("  %s %s\n", r.Styles().Bold.Render(kv[0]+":"), kv[1])
	}
	r.Println("")

	t := rowTable(l.Columns, data.Rows, func(v types.RowView) string {
		return r.Swatch(v.Color, v.Resource)
	})
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.Render()

	legend := make([]string, 0, len(report.Spec.Legend))
	for _, e := range report.Spec.Legend {
		legend = append(legend, r.Swatch(e.Color, e.Resource))
	}
	r.Println("")
	r.Println(strings.Join(legend, "  "))
}

func summaryMarkdown(r *output.Renderer, data types.ViewData) {
	l := data.Labels
	s := data.Summary
	r.Println(output.FormatHeader(1, data.Filename))
	r.Println("")
	r.Println(output.FormatKeyValue(l.Tasks, s.Tasks))
	r.Println(output.FormatKeyValue(l.Milestones, s.Milestones))
	r.Println(output.FormatKeyValue(l.Start, s.Start))
	r.Println(output.FormatKeyValue(l.End, s.End))
	r.Println(output.FormatKeyValue(l.Duration, s.Duration+" "+l.Days))
	r.Println("")

	t := rowTable(l.Columns, data.Rows, func(v types.RowView) string { return v.Resource })
	r.Println(t.RenderMarkdown())
}

func rowTable(cols types.Columns, rows []types.RowView, resource func(types.RowView) string) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row{cols.Seq, cols.Step, cols.Resource, cols.Start, cols.End, cols.Kind})
	for _, v := range rows {
		t.AppendRow(table.Row{v.Seq, v.Step, resource(v), v.Start, v.End, v.Kind})
	}
	return t
}

func summaryJSON(report *engine.Report) output.SummaryOutput {
	const layout = "2006-01-02"
	s := report.Summary
	out := output.SummaryOutput{
		File: report.Filename,
		Summary: output.SummaryMetrics{
			Tasks:        s.Tasks,
			Milestones:   s.Milestones,
			DurationDays: s.DurationDays,
		},
		Resources: make([]output.ResourceColor, 0, len(report.Spec.Legend)),
		Rows:      make([]output.RowInfo, 0, len(report.Rows)),
	}
	if !s.Start.IsZero() {
		out.Summary.Start = s.Start.Format(layout)
		out.Summary.End = s.End.Format(layout)
	}
	for _, e := range report.Spec.Legend {
		out.Resources = append(out.Resources, output.ResourceColor{Resource: e.Resource, Color: e.Color})
	}
	for _, row := range report.Rows {
		out.Rows = append(out.Rows, output.RowInfo{
			Seq:      row.Seq,
			Step:     row.Step,
			Resource: row.Resource,
			Start:    row.Start.Format(layout),
			End:      row.End.Format(layout),
			Kind:     string(row.Kind),
		})
	}
	return out
}
