package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/leapstack-labs/leapgantt/internal/chart"
	"github.com/leapstack-labs/leapgantt/internal/engine"
	"github.com/leapstack-labs/leapgantt/internal/ui/features/gantt"
	"github.com/leapstack-labs/leapgantt/internal/ui/features/gantt/pages"
	"github.com/leapstack-labs/leapgantt/internal/ui/features/gantt/types"
	"github.com/spf13/cobra"
)

// ExportOptions holds options for the export command.
type ExportOptions struct {
	Width    int
	Height   int
	FontPath string
}

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	opts := &ExportOptions{}

	cmd := &cobra.Command{
		Use:   "export FILE DEST",
		Short: "Write a schedule's chart to a file",
		Long: `Render a schedule and write it to DEST. The format follows the extension:

  .png, .svg   static chart image
  .json        plotly.js figure
  .html        standalone page with the interactive chart
  .md          overview and rows as Markdown`,
		Example: `  # Static image
  leapgantt export plan.csv chart.png --width 1600

  # Interactive page to share
  leapgantt export plan.csv report.html`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args[0], args[1], opts)
		},
	}

	cmd.Flags().IntVar(&opts.Width, "width", 0, "Image width in pixels (default: 1200)")
	cmd.Flags().IntVar(&opts.Height, "height", 0, "Image height in pixels (default: 600)")
	cmd.Flags().StringVar(&opts.FontPath, "font", "", "TrueType font for image labels")

	return cmd
}

func runExport(cmd *cobra.Command, src, dest string, opts *ExportOptions) error {
	cc, cleanup, err := NewCommandContext(cmd, "")
	if err != nil {
		return err
	}
	defer cleanup()

	report, err := cc.Engine.BuildFile(src)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	labels := cc.Labels()
	switch ext := strings.ToLower(filepath.Ext(dest)); ext {
	case ".png", ".svg":
		format, _ := chart.ImageFormat(ext)
		err = cc.Engine.RenderImage(&buf, report, chart.ImageOptions{
			Format:   format,
			Width:    opts.Width,
			Height:   opts.Height,
			FontPath: opts.FontPath,
		})
	case ".json":
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		err = enc.Encode(cc.Engine.Figure(report, labels.Figure))
	case ".html", ".htm":
		err = exportHTML(cmd.Context(), &buf, cc.Engine, report, labels, cc.Cfg.GetUIConfig().Title)
	case ".md", ".markdown":
		err = exportMarkdown(cmd.Context(), &buf, report, labels, cc.Cfg.GetUIConfig().Title)
	default:
		return fmt.Errorf("unsupported export format %q (expected .png, .svg, .json, .html or .md)", ext)
	}
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", dest, err)
	}

	if err := os.WriteFile(dest, buf.Bytes(), 0o644); err != nil { //nolint:gosec
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	cc.Logger.Debug("exported chart", "src", src, "dest", dest, "bytes", buf.Len())
	cc.Renderer.Success(fmt.Sprintf("Wrote %s", dest))
	return nil
}

func exportHTML(ctx context.Context, buf *bytes.Buffer, eng *engine.Engine, report *engine.Report, labels types.Labels, title string) error {
	data := gantt.BuildViewData(labels, report)
	data.Title = title
	return pages.ReportPage(data, eng.Figure(report, labels.Figure)).Render(ctx, buf)
}

func exportMarkdown(ctx context.Context, buf *bytes.Buffer, report *engine.Report, labels types.Labels, title string) error {
	data := gantt.BuildViewData(labels, report)
	data.Title = title

	var body bytes.Buffer
	if err := pages.ReportBody(data).Render(ctx, &body); err != nil {
		return err
	}

	conv := converter.NewConverter(converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
		table.NewTablePlugin(),
	))
	md, err := conv.ConvertString(body.String())
	if err != nil {
		return fmt.Errorf("failed to convert to markdown: %w", err)
	}
	buf.WriteString(md)
	buf.WriteString("\n")
	return nil
}
