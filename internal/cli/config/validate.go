package config

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapgantt/internal/chart"
)

var validOutputs = map[string]bool{"": true, "auto": true, "text": true, "markdown": true, "md": true, "json": true}

var validLangs = map[string]bool{"auto": true, "en": true, "zh": true}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !validOutputs[strings.ToLower(c.OutputFormat)] {
		return fmt.Errorf("invalid output format %q (expected auto, text, markdown, md or json)", c.OutputFormat)
	}

	ui := c.GetUIConfig()
	if ui.Port < 0 || ui.Port > 65535 {
		return fmt.Errorf("ui.port must be between 0 and 65535, got %d", ui.Port)
	}
	if !validLangs[strings.ToLower(ui.Lang)] {
		return fmt.Errorf("invalid ui.lang %q (expected auto, en or zh)", ui.Lang)
	}
	if ui.MaxUploadBytes < 0 {
		return fmt.Errorf("ui.max_upload_bytes must not be negative")
	}

	cc := c.GetChartConfig()
	if _, err := chart.NewColorPolicy(cc.Colors, cc.Params); err != nil {
		return fmt.Errorf("invalid chart configuration: %w", err)
	}
	return nil
}
