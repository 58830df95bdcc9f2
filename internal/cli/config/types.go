// Package config provides configuration management for the LeapGantt CLI.
package config

import "time"

// UIConfig holds configuration for the UI server.
type UIConfig struct {
	Port           int           `koanf:"port"`
	AutoOpen       bool          `koanf:"auto_open"`
	Lang           string        `koanf:"lang"`
	Title          string        `koanf:"title"`
	MaxUploadBytes int64         `koanf:"max_upload_bytes"`
	SessionSecret  string        `koanf:"session_secret"`
	UploadTTL      time.Duration `koanf:"upload_ttl"`
}

// DefaultUIConfig returns a UIConfig with default values.
func DefaultUIConfig() *UIConfig {
	return &UIConfig{
		Port:           DefaultPort,
		AutoOpen:       true,
		Lang:           DefaultLang,
		Title:          DefaultTitle,
		MaxUploadBytes: DefaultMaxUploadBytes,
		UploadTTL:      DefaultUploadTTL,
	}
}

// ChartConfig holds chart rendering options.
type ChartConfig struct {
	// Colors names the color policy: "fixed" or "generated".
	Colors         string         `koanf:"colors"`
	Params         map[string]any `koanf:"params"`
	MilestoneColor string         `koanf:"milestone_color"`
	Height         int            `koanf:"height"`
}

// Config holds all CLI configuration options.
type Config struct {
	StatePath    string       `koanf:"state_path"`
	Verbose      bool         `koanf:"verbose"`
	OutputFormat string       `koanf:"output"`
	UI           *UIConfig    `koanf:"ui"`
	Chart        *ChartConfig `koanf:"chart"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-"`
}

// GetUIConfig returns the UI config with defaults applied for any unset values.
func (c *Config) GetUIConfig() *UIConfig {
	if c.UI == nil {
		return DefaultUIConfig()
	}
	ui := c.UI
	if ui.Port == 0 {
		ui.Port = DefaultPort
	}
	if ui.MaxUploadBytes == 0 {
		ui.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if ui.Lang == "" {
		ui.Lang = DefaultLang
	}
	if ui.Title == "" {
		ui.Title = DefaultTitle
	}
	return ui
}

// GetChartConfig returns the chart config, never nil.
func (c *Config) GetChartConfig() *ChartConfig {
	if c.Chart == nil {
		return &ChartConfig{Colors: DefaultColors}
	}
	return c.Chart
}

// Default configuration values.
const (
	DefaultStateFile      = ":memory:"
	DefaultOutput         = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultPort           = 8765
	DefaultLang           = "auto"
	DefaultTitle          = ""
	DefaultMaxUploadBytes = 10 << 20
	DefaultUploadTTL      = 24 * time.Hour
	DefaultColors         = "fixed"
	DefaultChartHeight    = 600
)

// ConfigFileNames are searched, in order, in the project root.
var ConfigFileNames = []string{"leapgantt.yaml", "leapgantt.yml"}
