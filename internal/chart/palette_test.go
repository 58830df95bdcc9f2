package chart

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hexPattern = regexp.MustCompile(`^#[0-9a-f]{6}$`)

func TestFixedPalette(t *testing.T) {
	p := DefaultFixedPalette()
	got := p.Assign([]string{"望春", "新厂房", "RFID跟踪", "外包"})

	assert.Equal(t, "#1f77b4", got["望春"])
	assert.Equal(t, "#2ca02c", got["新厂房"])
	assert.Equal(t, "#ff7f0e", got["RFID跟踪"])
	assert.Equal(t, DefaultFallbackColor, got["外包"])
}

func TestFixedPalette_EmptyFallback(t *testing.T) {
	p := &FixedPalette{}
	assert.Equal(t, DefaultFallbackColor, p.Assign([]string{"x"})["x"])
}

func TestGeneratedPalette(t *testing.T) {
	resources := []string{"a", "b", "c", "d", "e"}
	got := DefaultGeneratedPalette().Assign(resources)

	require.Len(t, got, len(resources))
	distinct := make(map[string]bool)
	for _, r := range resources {
		assert.Regexp(t, hexPattern, got[r])
		distinct[got[r]] = true
	}
	assert.Len(t, distinct, len(resources), "every resource gets its own color")

	again := DefaultGeneratedPalette().Assign(resources)
	assert.Equal(t, got, again, "assignment is deterministic")
}

func TestGeneratedPalette_FirstSeenOrder(t *testing.T) {
	p := DefaultGeneratedPalette()
	ab := p.Assign([]string{"a", "b"})
	ba := p.Assign([]string{"b", "a"})
	assert.Equal(t, ab["a"], ba["b"])
}

func TestNewColorPolicy(t *testing.T) {
	tests := []struct {
		name    string
		policy  string
		params  map[string]any
		check   func(t *testing.T, p ColorPolicy)
		wantErr string
	}{
		{
			name:   "default is fixed",
			policy: "",
			check: func(t *testing.T, p ColorPolicy) {
				assert.IsType(t, &FixedPalette{}, p)
				assert.Equal(t, "#1f77b4", p.Assign([]string{"望春"})["望春"])
			},
		},
		{
			name:   "fixed with configured table",
			policy: "fixed",
			params: map[string]any{
				"colors":   map[string]any{"Ops": "#123456"},
				"fallback": "#abcdef",
			},
			check: func(t *testing.T, p ColorPolicy) {
				got := p.Assign([]string{"Ops", "望春"})
				assert.Equal(t, "#123456", got["Ops"])
				assert.Equal(t, "#abcdef", got["望春"], "configured table replaces the built-in one")
			},
		},
		{
			name:   "generated with string params",
			policy: "Generated",
			params: map[string]any{"lightness": "0.5"},
			check: func(t *testing.T, p ColorPolicy) {
				gp, ok := p.(*GeneratedPalette)
				require.True(t, ok)
				assert.InDelta(t, 0.5, gp.Lightness, 1e-9)
				assert.InDelta(t, 0.55, gp.Chroma, 1e-9)
			},
		},
		{
			name:    "unknown policy",
			policy:  "rainbow",
			wantErr: "unknown color policy",
		},
		{
			name:    "unknown param",
			policy:  "generated",
			params:  map[string]any{"saturation": 1},
			wantErr: "invalid generated color policy params",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewColorPolicy(tt.policy, tt.params)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, p)
		})
	}
}
