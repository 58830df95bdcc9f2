package core

import (
	"fmt"
	"strings"
	"time"
)

// Kind distinguishes tasks from milestones.
type Kind string

// Kind values.
const (
	KindTask      Kind = "Task"
	KindMilestone Kind = "Milestone"
)

// kindAliases maps lower-cased spellings seen in real schedules to a Kind.
var kindAliases = map[string]Kind{
	"task":       KindTask,
	"tasks":      KindTask,
	"任务":         KindTask,
	"milestone":  KindMilestone,
	"milestones": KindMilestone,
	"里程碑":        KindMilestone,
}

// ParseKind resolves a kind cell. Matching is case-insensitive and ignores
// surrounding whitespace.
func ParseKind(s string) (Kind, bool) {
	k, ok := kindAliases[strings.ToLower(strings.TrimSpace(s))]
	return k, ok
}

// Row is one schedule record.
type Row struct {
	Seq      int
	Step     string
	Resource string
	Start    time.Time
	End      time.Time
	Kind     Kind

	// Line is the 1-based line in the source file, 0 when not loaded from a file.
	Line int
}

// Label returns the y-axis category for the row, e.g. "3. Design review".
func (r Row) Label() string {
	return fmt.Sprintf("%d. %s", r.Seq, r.Step)
}

// IsTask reports whether the row is drawn as a bar.
func (r Row) IsTask() bool { return r.Kind == KindTask }

// IsMilestone reports whether the row is drawn as a marker.
func (r Row) IsMilestone() bool { return r.Kind == KindMilestone }

// Summary holds the project metrics shown above the chart.
type Summary struct {
	Tasks        int
	Milestones   int
	Start        time.Time
	End          time.Time
	DurationDays int
}
