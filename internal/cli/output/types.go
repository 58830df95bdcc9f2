package output

// SummaryOutput is the JSON shape of the summary command.
type SummaryOutput struct {
	File      string          `json:"file"`
	Summary   SummaryMetrics  `json:"summary"`
	Resources []ResourceColor `json:"resources"`
	Rows      []RowInfo       `json:"rows"`
}

// SummaryMetrics mirrors the dashboard metrics.
type SummaryMetrics struct {
	Tasks        int    `json:"tasks"`
	Milestones   int    `json:"milestones"`
	Start        string `json:"start,omitempty"`
	End          string `json:"end,omitempty"`
	DurationDays int    `json:"duration_days"`
}

// ResourceColor is one legend entry.
type ResourceColor struct {
	Resource string `json:"resource"`
	Color    string `json:"color"`
}

// RowInfo is one parsed schedule row.
type RowInfo struct {
	Seq      int    `json:"seq"`
	Step     string `json:"step"`
	Resource string `json:"resource"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Kind     string `json:"kind"`
}
