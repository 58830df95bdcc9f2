package chart

import (
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// ColorPolicy assigns a color to every resource.
// resources are distinct and in first-seen order.
type ColorPolicy interface {
	Assign(resources []string) map[string]string
}

// Color policy names accepted by NewColorPolicy.
const (
	PolicyFixed     = "fixed"
	PolicyGenerated = "generated"
)

// DefaultFallbackColor is used by FixedPalette for unknown resources.
const DefaultFallbackColor = "#7f7f7f"

// FixedPalette looks resources up in a table, falling back to one color.
type FixedPalette struct {
	Colors   map[string]string `mapstructure:"colors"`
	Fallback string            `mapstructure:"fallback"`
}

// DefaultFixedPalette returns the table used by the planning team's schedules.
func DefaultFixedPalette() *FixedPalette {
	return &FixedPalette{
		Colors: map[string]string{
			"望春":     "#1f77b4",
			"新厂房":    "#2ca02c",
			"RFID跟踪": "#ff7f0e",
		},
		Fallback: DefaultFallbackColor,
	}
}

// Assign implements ColorPolicy.
func (p *FixedPalette) Assign(resources []string) map[string]string {
	fallback := p.Fallback
	if fallback == "" {
		fallback = DefaultFallbackColor
	}
	out := make(map[string]string, len(resources))
	for _, r := range resources {
		if c, ok := p.Colors[r]; ok {
			out[r] = c
		} else {
			out[r] = fallback
		}
	}
	return out
}

// GeneratedPalette spaces hues evenly over the resources present, so the
// palette always has exactly one color per resource.
type GeneratedPalette struct {
	Chroma    float64 `mapstructure:"chroma"`
	Lightness float64 `mapstructure:"lightness"`
	// HueOffset rotates the wheel, in degrees.
	HueOffset float64 `mapstructure:"hue_offset"`
}

// DefaultGeneratedPalette returns mid-chroma, mid-lightness colors.
func DefaultGeneratedPalette() *GeneratedPalette {
	return &GeneratedPalette{Chroma: 0.55, Lightness: 0.6, HueOffset: 250}
}

// Assign implements ColorPolicy.
func (p *GeneratedPalette) Assign(resources []string) map[string]string {
	out := make(map[string]string, len(resources))
	n := len(resources)
	for i, r := range resources {
		hue := p.HueOffset + 360*float64(i)/float64(n)
		for hue >= 360 {
			hue -= 360
		}
		out[r] = colorful.Hcl(hue, p.Chroma, p.Lightness).Clamped().Hex()
	}
	return out
}

// NewColorPolicy builds a policy from its configured name and parameters.
// Parameters override the policy's defaults; unknown keys are rejected.
func NewColorPolicy(name string, params map[string]any) (ColorPolicy, error) {
	var target ColorPolicy
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PolicyFixed:
		p := DefaultFixedPalette()
		if _, ok := params["colors"]; ok {
			// A configured table replaces the built-in one.
			p.Colors = nil
		}
		target = p
	case PolicyGenerated:
		target = DefaultGeneratedPalette()
	default:
		return nil, fmt.Errorf("unknown color policy %q (expected %q or %q)", name, PolicyFixed, PolicyGenerated)
	}

	if len(params) == 0 {
		return target, nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(params); err != nil {
		return nil, fmt.Errorf("invalid %s color policy params: %w", name, err)
	}
	return target, nil
}
