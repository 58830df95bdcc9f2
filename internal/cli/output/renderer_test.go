package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMode(t *testing.T) {
	tests := map[string]OutputMode{
		"":         ModeAuto,
		"auto":     ModeAuto,
		"TEXT":     ModeText,
		"markdown": ModeMarkdown,
		"md":       ModeMarkdown,
		"json":     ModeJSON,
		"yaml":     ModeAuto,
	}
	for in, want := range tests {
		assert.Equal(t, want, Mode(in), "Mode(%q)", in)
	}
}

func TestRenderer_EffectiveMode(t *testing.T) {
	var out, errOut bytes.Buffer
	assert.Equal(t, ModeText, NewRendererWithTTY(&out, &errOut, true, ModeAuto).EffectiveMode())
	assert.Equal(t, ModeMarkdown, NewRendererWithTTY(&out, &errOut, false, ModeAuto).EffectiveMode())
	assert.Equal(t, ModeJSON, NewRendererWithTTY(&out, &errOut, true, ModeJSON).EffectiveMode())
	assert.False(t, NewRenderer(&out, &errOut, ModeAuto).IsTTY(), "buffers are never terminals")
}

func TestRenderer_NoANSIWithoutTTY(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRendererWithTTY(&out, &errOut, false, ModeText)
	r.Header(1, "Schedule")
	r.Success("done")
	r.Println(r.Swatch("#1f77b4", "望春"))
	r.Error("boom")

	assert.NotContains(t, out.String(), "\x1b[")
	assert.Contains(t, out.String(), "Schedule")
	assert.Contains(t, out.String(), "■ 望春")
	assert.Contains(t, errOut.String(), "boom")
}

func TestRenderer_JSON(t *testing.T) {
	var out bytes.Buffer
	r := NewRendererWithTTY(&out, &out, false, ModeJSON)
	assert.NoError(t, r.JSON(SummaryMetrics{Tasks: 2}))
	assert.Contains(t, out.String(), `"tasks": 2`)
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "## Summary", FormatHeader(2, "Summary"))
	assert.Equal(t, "# X", FormatHeader(0, "X"))
	assert.Equal(t, "- **Tasks**: 3", FormatKeyValue("Tasks", "3"))
	assert.Equal(t, "```json\n{}\n```", FormatCodeBlock("json", "{}\n"))
}
