// Package types holds the view models shared by the gantt handlers and pages.
package types

import "github.com/leapstack-labs/leapgantt/internal/chart"

// Labels are the user-visible strings of the page in one language.
type Labels struct {
	Lang        string
	Title       string
	DataInput   string
	ChooseFile  string
	UploadHint  string
	Submit      string
	Reset       string
	ProjectData string
	Overview    string
	Tasks       string
	Milestones  string
	Start       string
	End         string
	Duration    string
	Days        string
	Empty       string
	Error       string
	NoFile      string
	TooLarge    string
	Download    string
	Columns     Columns
	Figure      chart.FigureLabels
}

// Columns are the data table headers.
type Columns struct {
	Seq      string
	Step     string
	Resource string
	Start    string
	End      string
	Kind     string
}

// RowView is one formatted schedule row.
type RowView struct {
	Seq      string
	Step     string
	Resource string
	Start    string
	End      string
	Kind     string
	Color    string
}

// SummaryView holds the formatted dashboard metrics.
type SummaryView struct {
	Tasks      string
	Milestones string
	Start      string
	End        string
	Duration   string
}

// ViewData is everything the page renders.
type ViewData struct {
	Labels   Labels
	Title    string
	IsDev    bool
	Filename string
	Rows     []RowView
	Summary  *SummaryView
	Error    string
}

// HasChart reports whether there is a schedule to draw.
func (d ViewData) HasChart() bool {
	return len(d.Rows) > 0
}
