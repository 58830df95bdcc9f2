package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/leapgantt/internal/chart"
	"github.com/leapstack-labs/leapgantt/internal/cli/config"
	"github.com/leapstack-labs/leapgantt/internal/cli/output"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// starterConfig is the leapgantt.yaml written by init.
type starterConfig struct {
	StatePath string       `yaml:"state_path"`
	UI        starterUI    `yaml:"ui"`
	Chart     starterChart `yaml:"chart"`
}

type starterUI struct {
	Port           int    `yaml:"port"`
	Lang           string `yaml:"lang"`
	Title          string `yaml:"title"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
	UploadTTL      string `yaml:"upload_ttl"`
}

type starterChart struct {
	Colors         string `yaml:"colors"`
	MilestoneColor string `yaml:"milestone_color"`
	Height         int    `yaml:"height"`
}

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a starter LeapGantt project",
		Long: `Create a leapgantt.yaml with the default settings and a sample
plan.csv showing the expected columns and date format.`,
		Example: `  # Initialize in current directory
  leapgantt init

  # Initialize in a new directory
  leapgantt init my-project

  # Force overwrite existing files
  leapgantt init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			cfg := getConfig()
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))
			return runInit(r, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")

	return cmd
}

func runInit(r *output.Renderer, dir string, force bool) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, config.ConfigFileNames[0])
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", config.ConfigFileNames[0])
	}

	content, err := yaml.Marshal(defaultStarterConfig())
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(configPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}

	files, err := copyTemplate("starter", dir, force)
	if err != nil {
		return fmt.Errorf("failed to initialize project: %w", err)
	}

	r.Println(r.Muted("  created ") + config.ConfigFileNames[0])
	for _, f := range files {
		r.Println(r.Muted("  created ") + f)
	}

	r.Println("")
	r.Success("LeapGantt project initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Edit plan.csv (dates are DD/MM/YYYY)")
	r.Println("  2. Run 'leapgantt summary plan.csv' to check it")
	r.Println("  3. Run 'leapgantt serve --watch plan.csv' to see the chart")

	return nil
}

func defaultStarterConfig() starterConfig {
	return starterConfig{
		StatePath: ".leapgantt/uploads.db",
		UI: starterUI{
			Port:           config.DefaultPort,
			Lang:           config.DefaultLang,
			Title:          "Project schedule",
			MaxUploadBytes: config.DefaultMaxUploadBytes,
			UploadTTL:      config.DefaultUploadTTL.String(),
		},
		Chart: starterChart{
			Colors:         config.DefaultColors,
			MilestoneColor: chart.DefaultMilestoneColor,
			Height:         config.DefaultChartHeight,
		},
	}
}
