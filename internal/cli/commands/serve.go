package commands

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/leapstack-labs/leapgantt/internal/ui"
	"github.com/spf13/cobra"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Port      int
	Watch     string
	NoBrowser bool
	FontPath  string
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Gantt chart web page",
		Long: `Start a local web server where schedules can be uploaded and viewed
as an interactive Gantt chart.

With --watch the given schedule is shown to every visitor who has not
uploaded a file, and the page refreshes whenever the file changes.`,
		Example: `  # Start on the default port
  leapgantt serve

  # Show plan.csv and follow its changes
  leapgantt serve --watch plan.csv

  # Start on a custom port without opening a browser
  leapgantt serve --port 3000 --no-browser`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: 8765)")
	cmd.Flags().StringVar(&opts.Watch, "watch", "", "Schedule shown when no file was uploaded")
	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "Don't auto-open browser")
	cmd.Flags().StringVar(&opts.FontPath, "font", "", "TrueType font for PNG/SVG downloads")
	cmd.Flags().String("session-secret", "", "Cookie signing key (random when empty)")
	cmd.Flags().Int64("max-upload-bytes", 0, "Largest accepted upload")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cc, cleanup, err := NewCommandContext(cmd, opts.Watch)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	defer cleanup()

	if opts.Watch != "" {
		// Parse errors are shown on the page; a missing file is not.
		if _, err := os.Stat(cc.Engine.WatchFile()); err != nil {
			return fmt.Errorf("cannot watch schedule: %w", err)
		}
	}

	uiCfg := cc.Cfg.GetUIConfig()
	port := uiCfg.Port
	if opts.Port != 0 {
		port = opts.Port
	}

	server := ui.NewServer(ui.Config{
		Engine:         cc.Engine,
		Port:           port,
		SessionSecret:  uiCfg.SessionSecret,
		Title:          uiCfg.Title,
		Lang:           uiCfg.Lang,
		MaxUploadBytes: uiCfg.MaxUploadBytes,
		UploadTTL:      uiCfg.UploadTTL,
		FontPath:       opts.FontPath,
		Logger:         cc.Logger,
	})

	url := fmt.Sprintf("http://localhost:%d", port)
	if uiCfg.AutoOpen && !opts.NoBrowser {
		go openBrowser(url)
	}

	cc.Renderer.Printf("Serving Gantt chart on %s\n", url)
	cc.Renderer.Println(cc.Renderer.Muted("Press Ctrl+C to stop"))

	return server.Serve(cmd.Context())
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
