package engine

import (
	"github.com/leapstack-labs/leapgantt/pkg/core"
)

// Report is a loaded schedule with everything needed to display it.
type Report struct {
	Filename string
	Rows     []core.Row
	Spec     core.ChartSpec
	Summary  core.Summary
}

// Empty reports whether there is nothing to chart.
func (r *Report) Empty() bool {
	return r == nil || len(r.Rows) == 0
}
