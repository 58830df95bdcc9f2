package chart

import (
	"time"

	"github.com/leapstack-labs/leapgantt/pkg/core"
)

// plotlyDate is the date format plotly.js parses on a date axis.
const plotlyDate = "2006-01-02"

// FigureLabels holds the user-visible strings of a figure.
type FigureLabels struct {
	XAxis     string
	YAxis     string
	Task      string
	Milestone string
	Start     string
	End       string
	Date      string
	Resource  string
}

// EnglishLabels are the default figure labels.
var EnglishLabels = FigureLabels{
	XAxis:     "Date",
	YAxis:     "Work item",
	Task:      "Task",
	Milestone: "Milestone",
	Start:     "Start",
	End:       "End",
	Date:      "Date",
	Resource:  "Resource",
}

// Figure is a plotly.js figure ({data, layout}).
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is a bar or scatter trace. Only the fields used by Gantt charts are modeled.
type Trace struct {
	Type          string      `json:"type"`
	Name          string      `json:"name"`
	Orientation   string      `json:"orientation,omitempty"`
	Mode          string      `json:"mode,omitempty"`
	Base          []string    `json:"base,omitempty"`
	X             []any       `json:"x"`
	Y             []string    `json:"y"`
	Marker        TraceMarker `json:"marker"`
	ShowLegend    bool        `json:"showlegend"`
	LegendGroup   string      `json:"legendgroup"`
	HoverTemplate string      `json:"hovertemplate"`
	CustomData    []string    `json:"customdata,omitempty"`
}

// TraceMarker styles bars and markers.
type TraceMarker struct {
	Color  string      `json:"color"`
	Symbol string      `json:"symbol,omitempty"`
	Size   int         `json:"size,omitempty"`
	Line   *MarkerLine `json:"line,omitempty"`
}

// MarkerLine is a marker outline.
type MarkerLine struct {
	Color string `json:"color"`
	Width int    `json:"width"`
}

// Layout is the plotly layout.
type Layout struct {
	Title      Title      `json:"title"`
	XAxis      Axis       `json:"xaxis"`
	YAxis      Axis       `json:"yaxis"`
	Height     int        `json:"height"`
	ShowLegend bool       `json:"showlegend"`
	BarMode    string     `json:"barmode"`
	Font       Font       `json:"font"`
	HoverLabel HoverLabel `json:"hoverlabel"`
	Legend     Legend     `json:"legend"`
}

// Title is a layout or axis title.
type Title struct {
	Text string `json:"text"`
}

// Axis configures one plot axis.
type Axis struct {
	Title         Title    `json:"title"`
	Type          string   `json:"type,omitempty"`
	TickFormat    string   `json:"tickformat,omitempty"`
	Range         []string `json:"range,omitempty"`
	AutoRange     string   `json:"autorange,omitempty"`
	CategoryOrder string   `json:"categoryorder,omitempty"`
	CategoryArray []string `json:"categoryarray,omitempty"`
}

// Font sets the base font size.
type Font struct {
	Size int `json:"size"`
}

// HoverLabel styles tooltips.
type HoverLabel struct {
	BgColor string `json:"bgcolor"`
}

// Legend positions the legend.
type Legend struct {
	Orientation string  `json:"orientation"`
	X           float64 `json:"x"`
	XAnchor     string  `json:"xanchor"`
	Y           float64 `json:"y"`
	YAnchor     string  `json:"yanchor"`
}

// FigureOptions tunes EncodePlotly.
type FigureOptions struct {
	Labels FigureLabels
	// Height in pixels, 600 when zero.
	Height int
}

// EncodePlotly converts a spec into a plotly.js figure. Each resource gets
// one bar trace and one marker trace sharing a legend group; only the first
// trace of a resource is shown in the legend.
func EncodePlotly(spec core.ChartSpec, opts FigureOptions) Figure {
	labels := opts.Labels
	if labels == (FigureLabels{}) {
		labels = EnglishLabels
	}
	height := opts.Height
	if height == 0 {
		height = 600
	}

	fig := Figure{Data: make([]Trace, 0, 2*len(spec.Legend))}
	inLegend := make(map[string]bool, len(spec.Legend))

	for _, entry := range spec.Legend {
		resource := entry.Resource
		color := entry.Color

		var bars []core.Bar
		var markers []core.Marker
		for _, p := range spec.Primitives {
			if p.Owner() != resource {
				continue
			}
			switch v := p.(type) {
			case core.Bar:
				bars = append(bars, v)
			case core.Marker:
				markers = append(markers, v)
			}
		}

		if len(bars) > 0 {
			tr := Trace{
				Type:        "bar",
				Name:        resource,
				Orientation: "h",
				Base:        make([]string, 0, len(bars)),
				X:           make([]any, 0, len(bars)),
				Y:           make([]string, 0, len(bars)),
				CustomData:  make([]string, 0, len(bars)),
				Marker:      TraceMarker{Color: color},
				ShowLegend:  !inLegend[resource],
				LegendGroup: resource,
				HoverTemplate: labels.Task + ": %{y}<br>" +
					labels.Start + ": %{base|%Y-%m-%d}<br>" +
					labels.End + ": %{customdata}<br>" +
					labels.Resource + ": " + resource + "<br><extra></extra>",
			}
			for _, b := range bars {
				tr.Base = append(tr.Base, b.Start.Format(plotlyDate))
				tr.X = append(tr.X, b.Millis())
				tr.Y = append(tr.Y, b.Label)
				tr.CustomData = append(tr.CustomData, b.End().Format(plotlyDate))
			}
			inLegend[resource] = true
			fig.Data = append(fig.Data, tr)
		}

		if len(markers) > 0 {
			tr := Trace{
				Type: "scatter",
				Name: resource,
				Mode: "markers",
				X:    make([]any, 0, len(markers)),
				Y:    make([]string, 0, len(markers)),
				Marker: TraceMarker{
					Color:  spec.MilestoneColor,
					Symbol: "diamond",
					Size:   16,
					Line:   &MarkerLine{Color: color, Width: 2},
				},
				ShowLegend:  !inLegend[resource],
				LegendGroup: resource,
				HoverTemplate: labels.Milestone + ": %{y}<br>" +
					labels.Date + ": %{x|%Y-%m-%d}<br>" +
					labels.Resource + ": " + resource + "<br><extra></extra>",
			}
			for _, m := range markers {
				tr.X = append(tr.X, m.At.Format(plotlyDate))
				tr.Y = append(tr.Y, m.Label)
			}
			inLegend[resource] = true
			fig.Data = append(fig.Data, tr)
		}
	}

	fig.Layout = Layout{
		Title: Title{Text: spec.Title},
		XAxis: Axis{
			Title:      Title{Text: labels.XAxis},
			Type:       "date",
			TickFormat: "%Y-%m-%d",
			Range:      axisRange(spec.AxisMin, spec.AxisMax),
		},
		YAxis: Axis{
			Title:         Title{Text: labels.YAxis},
			AutoRange:     "reversed",
			CategoryOrder: "array",
			CategoryArray: spec.Categories,
		},
		Height:     height,
		ShowLegend: true,
		BarMode:    "overlay",
		Font:       Font{Size: 12},
		HoverLabel: HoverLabel{BgColor: "white"},
		Legend: Legend{
			Orientation: "h",
			X:           1,
			XAnchor:     "right",
			Y:           1.02,
			YAnchor:     "bottom",
		},
	}

	return fig
}

func axisRange(from, to time.Time) []string {
	if from.IsZero() && to.IsZero() {
		return nil
	}
	return []string{from.Format(plotlyDate), to.Format(plotlyDate)}
}
