package chart

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodePlotly_Traces(t *testing.T) {
	spec := NewBuilder(DefaultGeneratedPalette()).Build(sampleRows())
	fig := EncodePlotly(spec, FigureOptions{})

	// A: bars + markers, B: bars, C: markers.
	require.Len(t, fig.Data, 4)

	legendCount := make(map[string]int)
	for _, tr := range fig.Data {
		assert.Equal(t, tr.Name, tr.LegendGroup)
		if tr.ShowLegend {
			legendCount[tr.Name]++
		}
	}
	assert.Equal(t, map[string]int{"A": 1, "B": 1, "C": 1}, legendCount)

	a := fig.Data[0]
	assert.Equal(t, "bar", a.Type)
	assert.Equal(t, "h", a.Orientation)
	assert.Equal(t, []string{"2024-01-01", "2024-01-08"}, a.Base)
	assert.Equal(t, []string{"1. Design", "2. Review"}, a.Y)
	assert.Equal(t, float64(9*24*60*60*1000), a.X[0])
	assert.Equal(t, spec.Colors["A"], a.Marker.Color)

	aMarkers := fig.Data[1]
	assert.Equal(t, "scatter", aMarkers.Type)
	assert.Equal(t, "markers", aMarkers.Mode)
	assert.Equal(t, "diamond", aMarkers.Marker.Symbol)
	assert.Equal(t, DefaultMilestoneColor, aMarkers.Marker.Color)
	require.NotNil(t, aMarkers.Marker.Line)
	assert.Equal(t, spec.Colors["A"], aMarkers.Marker.Line.Color)
	assert.False(t, aMarkers.ShowLegend)

	c := fig.Data[3]
	assert.Equal(t, "C", c.Name)
	assert.True(t, c.ShowLegend, "milestone-only resources still get a legend entry")
}

func TestEncodePlotly_Layout(t *testing.T) {
	spec := NewBuilder(nil, WithTitle("Roadmap")).Build(sampleRows())
	fig := EncodePlotly(spec, FigureOptions{Height: 480})

	assert.Equal(t, "Roadmap", fig.Layout.Title.Text)
	assert.Equal(t, "date", fig.Layout.XAxis.Type)
	assert.Equal(t, []string{"2024-01-01", "2024-02-03"}, fig.Layout.XAxis.Range)
	assert.Equal(t, "reversed", fig.Layout.YAxis.AutoRange)
	assert.Equal(t, spec.Categories, fig.Layout.YAxis.CategoryArray)
	assert.Equal(t, 480, fig.Layout.Height)
	assert.Equal(t, "overlay", fig.Layout.BarMode)
	assert.Equal(t, EnglishLabels.XAxis, fig.Layout.XAxis.Title.Text)
}

func TestEncodePlotly_JSON(t *testing.T) {
	spec := NewBuilder(nil).Build(sampleRows())
	data, err := json.Marshal(EncodePlotly(spec, FigureOptions{}))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "data")
	assert.Contains(t, decoded, "layout")
	assert.Contains(t, string(data), `"orientation":"h"`)
	assert.Contains(t, string(data), `"autorange":"reversed"`)
}

func TestEncodePlotly_Empty(t *testing.T) {
	fig := EncodePlotly(NewBuilder(nil).Build(nil), FigureOptions{})
	assert.Empty(t, fig.Data)
	assert.Nil(t, fig.Layout.XAxis.Range)
}
