package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/leapgantt/internal/cli/config"
	"github.com/leapstack-labs/leapgantt/internal/cli/output"
	"github.com/leapstack-labs/leapgantt/internal/engine"
	"github.com/leapstack-labs/leapgantt/internal/ui/features/gantt"
	"github.com/leapstack-labs/leapgantt/internal/ui/features/gantt/types"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Engine   *engine.Engine
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with engine and renderer.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command, watchFile string) (*CommandContext, func(), error) {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	eng, err := createEngine(cfg, watchFile, logger)
	if err != nil {
		return nil, nil, err
	}

	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	cleanup := func() {
		_ = eng.Close()
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Engine:   eng,
		Renderer: r,
	}, cleanup, nil
}

// Labels picks the label set for terminal output from ui.lang and $LANG.
func (c *CommandContext) Labels() types.Labels {
	return gantt.Negotiate(c.Cfg.GetUIConfig().Lang, localeTag(os.Getenv("LANG")))
}

// getConfig returns the current configuration, or defaults when none was loaded.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return &config.Config{
		StatePath:    config.DefaultStateFile,
		OutputFormat: config.DefaultOutput,
		UI:           config.DefaultUIConfig(),
		Chart:        &config.ChartConfig{Colors: config.DefaultColors, Height: config.DefaultChartHeight},
	}
}

func createEngine(cfg *config.Config, watchFile string, logger *slog.Logger) (*engine.Engine, error) {
	// Ensure state directory exists
	if cfg.StatePath != "" && cfg.StatePath != config.DefaultStateFile {
		stateDir := filepath.Dir(cfg.StatePath)
		if stateDir != "." && stateDir != "" {
			if err := os.MkdirAll(stateDir, 0750); err != nil {
				return nil, fmt.Errorf("failed to create state directory: %w", err)
			}
		}
	}

	cc := cfg.GetChartConfig()
	return engine.New(engine.Config{
		StatePath:      cfg.StatePath,
		Colors:         cc.Colors,
		ColorParams:    cc.Params,
		Title:          cfg.GetUIConfig().Title,
		MilestoneColor: cc.MilestoneColor,
		Height:         cc.Height,
		WatchFile:      watchFile,
		Logger:         logger,
	})
}

// localeTag turns a POSIX locale such as "zh_CN.UTF-8" into "zh-CN".
func localeTag(locale string) string {
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	if locale == "C" || locale == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(locale, "_", "-")
}
