package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "leapgantt.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, ":memory:", cfg.StatePath)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	ui := cfg.GetUIConfig()
	assert.Equal(t, DefaultPort, ui.Port)
	assert.Equal(t, DefaultLang, ui.Lang)
	assert.True(t, ui.AutoOpen)
	assert.Equal(t, int64(DefaultMaxUploadBytes), ui.MaxUploadBytes)
	assert.Equal(t, DefaultUploadTTL, ui.UploadTTL)
	chart := cfg.GetChartConfig()
	assert.Equal(t, DefaultColors, chart.Colors)
	assert.Equal(t, DefaultChartHeight, chart.Height)
	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_File(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	path := writeConfig(t, dir, `
state_path: state/uploads.db
ui:
  port: 9000
  lang: zh
  title: Roadmap
  upload_ttl: 2h
chart:
  colors: generated
  params:
    chroma: 0.4
  milestone_color: "#000000"
`)

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, path, GetConfigFileUsed())
	assert.Equal(t, filepath.Join(dir, "state", "uploads.db"), cfg.StatePath)
	assert.Equal(t, dir, cfg.ProjectRoot)
	assert.Equal(t, 9000, cfg.UI.Port)
	assert.Equal(t, "zh", cfg.UI.Lang)
	assert.Equal(t, "Roadmap", cfg.UI.Title)
	assert.Equal(t, 2*time.Hour, cfg.UI.UploadTTL)
	assert.Equal(t, "generated", cfg.Chart.Colors)
	assert.Equal(t, "#000000", cfg.Chart.MilestoneColor)
	assert.InDelta(t, 0.4, cfg.Chart.Params["chroma"], 1e-9)
}

func TestLoadConfig_UpwardSearch(t *testing.T) {
	ResetConfig()
	root := t.TempDir()
	writeConfig(t, root, "ui:\n  port: 9100\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o750))
	t.Chdir(nested)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.UI.Port)
	assert.Equal(t, root, cfg.ProjectRoot)
}

func TestLoadConfig_Precedence(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	path := writeConfig(t, dir, "ui:\n  port: 9000\n  lang: en\n")
	t.Setenv("LEAPGANTT_UI__PORT", "9200")
	t.Setenv("LEAPGANTT_UI__LANG", "zh")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("port", DefaultPort, "")
	flags.String("lang", DefaultLang, "")
	require.NoError(t, flags.Parse([]string{"--port", "9300"}))

	cfg, err := LoadConfig(path, flags)
	require.NoError(t, err)
	assert.Equal(t, 9300, cfg.UI.Port, "flag beats env")
	assert.Equal(t, "zh", cfg.UI.Lang, "env beats file")
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad output", "output: xml\n", "output"},
		{"bad port", "ui:\n  port: 70000\n", "port"},
		{"bad lang", "ui:\n  lang: fr\n", "lang"},
		{"bad colors", "chart:\n  colors: rainbow\n", "rainbow"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetConfig()
			path := writeConfig(t, t.TempDir(), tt.body)
			_, err := LoadConfig(path, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadConfig_OutputFormats(t *testing.T) {
	for _, format := range []string{"auto", "text", "markdown", "md", "json", "JSON"} {
		t.Run(format, func(t *testing.T) {
			ResetConfig()
			path := writeConfig(t, t.TempDir(), "output: "+format+"\n")
			cfg, err := LoadConfig(path, nil)
			require.NoError(t, err)
			assert.Equal(t, format, cfg.OutputFormat)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	ResetConfig()
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
}

func TestResolvePathRelativeTo(t *testing.T) {
	assert.Equal(t, "", resolvePathRelativeTo("", "/base"))
	assert.Equal(t, ":memory:", resolvePathRelativeTo(":memory:", "/base"))
	assert.Equal(t, "/abs/x.db", resolvePathRelativeTo("/abs/x.db", "/base"))
	assert.Equal(t, filepath.Join("/base", "x.db"), resolvePathRelativeTo("x.db", "/base"))
}

func TestGetLogger_Fallback(t *testing.T) {
	assert.NotNil(t, GetLogger(t.Context()))
}
