package core

import "time"

// Primitive is a drawable chart element: either a Bar or a Marker.
type Primitive interface {
	primitive()
	// Row returns the y-axis category the primitive is drawn on.
	Row() string
	// RowIndex returns the position of that category in ChartSpec.Categories.
	// Labels may repeat, so renderers that lay out rows themselves use this.
	RowIndex() int
	// Owner returns the resource the primitive belongs to.
	Owner() string
}

// Bar is a horizontal segment drawn for a task.
type Bar struct {
	Resource string
	Label    string
	Index    int
	Start    time.Time
	Duration time.Duration
}

func (Bar) primitive() {}

// Row implements Primitive.
func (b Bar) Row() string { return b.Label }

// RowIndex implements Primitive.
func (b Bar) RowIndex() int { return b.Index }

// Owner implements Primitive.
func (b Bar) Owner() string { return b.Resource }

// End returns Start + Duration.
func (b Bar) End() time.Time { return b.Start.Add(b.Duration) }

// Millis returns the bar length in milliseconds, the unit of a date axis.
func (b Bar) Millis() float64 {
	return float64(b.Duration / time.Millisecond)
}

// Marker is a point drawn for a milestone.
type Marker struct {
	Resource string
	Label    string
	Index    int
	At       time.Time
}

func (Marker) primitive() {}

// Row implements Primitive.
func (m Marker) Row() string { return m.Label }

// RowIndex implements Primitive.
func (m Marker) RowIndex() int { return m.Index }

// Owner implements Primitive.
func (m Marker) Owner() string { return m.Resource }

// LegendEntry is one legend item. Each resource has exactly one.
type LegendEntry struct {
	Resource string
	Color    string
}

// ChartSpec is everything a renderer needs to draw a Gantt chart.
type ChartSpec struct {
	Title string

	// Categories are the y-axis rows in ascending sequence order.
	Categories []string

	AxisMin time.Time
	AxisMax time.Time

	Primitives []Primitive

	// Colors maps resource to a CSS hex color.
	Colors map[string]string

	Legend []LegendEntry

	// MilestoneColor fills every marker; the outline uses the resource color.
	MilestoneColor string
}

// Bars returns the Bar primitives in build order.
func (s ChartSpec) Bars() []Bar {
	var out []Bar
	for _, p := range s.Primitives {
		if b, ok := p.(Bar); ok {
			out = append(out, b)
		}
	}
	return out
}

// Markers returns the Marker primitives in build order.
func (s ChartSpec) Markers() []Marker {
	var out []Marker
	for _, p := range s.Primitives {
		if m, ok := p.(Marker); ok {
			out = append(out, m)
		}
	}
	return out
}

// ColorOf returns the color assigned to resource, or fallback.
func (s ChartSpec) ColorOf(resource, fallback string) string {
	if c, ok := s.Colors[resource]; ok {
		return c
	}
	return fallback
}

// Empty reports whether there is nothing to draw.
func (s ChartSpec) Empty() bool { return len(s.Primitives) == 0 }
