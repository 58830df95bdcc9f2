// Package engine turns schedule files into charts.
// It owns the upload store and the chart configuration shared by the CLI and the UI.
package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/leapstack-labs/leapgantt/internal/chart"
	"github.com/leapstack-labs/leapgantt/internal/loader"
	"github.com/leapstack-labs/leapgantt/internal/state"
)

// Engine loads schedules and renders them.
type Engine struct {
	logger   *slog.Logger
	store    state.Store
	builder  *chart.Builder
	height   int
	location *time.Location
	// watchFile is shown to sessions that have not uploaded anything.
	watchFile string
}

// Config holds engine configuration.
type Config struct {
	// StatePath is the path to the SQLite upload store (":memory:" when empty)
	StatePath string
	// Colors names the color policy ("fixed" or "generated")
	Colors string
	// ColorParams are decoded into the color policy
	ColorParams map[string]any
	// Title is drawn above the chart
	Title string
	// MilestoneColor overrides the marker color
	MilestoneColor string
	// Height of the chart in pixels
	Height int
	// WatchFile is a schedule shown when a session has no upload (optional)
	WatchFile string
	// Location dates are interpreted in (UTC when nil)
	Location *time.Location
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// New creates an engine and opens its upload store.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	policy, err := chart.NewColorPolicy(cfg.Colors, cfg.ColorParams)
	if err != nil {
		return nil, err
	}

	logger.Debug("initializing engine", "state_path", cfg.StatePath, "colors", cfg.Colors)

	store := state.NewSQLiteStore(logger)
	if err := store.Open(cfg.StatePath); err != nil {
		return nil, fmt.Errorf("failed to open upload store: %w", err)
	}
	if err := store.Migrate(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate upload store: %w", err)
	}

	watchFile := cfg.WatchFile
	if watchFile != "" {
		if abs, err := filepath.Abs(watchFile); err == nil {
			watchFile = abs
		}
	}

	return &Engine{
		logger: logger,
		store:  store,
		builder: chart.NewBuilder(policy,
			chart.WithTitle(cfg.Title),
			chart.WithMilestoneColor(cfg.MilestoneColor),
		),
		height:    cfg.Height,
		location:  cfg.Location,
		watchFile: watchFile,
	}, nil
}

// Close releases the upload store.
func (e *Engine) Close() error {
	e.logger.Debug("closing engine")
	return e.store.Close()
}

// GetStateStore returns the upload store.
func (e *Engine) GetStateStore() state.Store {
	return e.store
}

// WatchFile returns the absolute path of the fallback schedule, if any.
func (e *Engine) WatchFile() string {
	return e.watchFile
}

// Build parses a schedule and produces its chart and summary.
func (e *Engine) Build(filename string, r io.Reader) (*Report, error) {
	rows, err := loader.Load(r, loader.Options{Location: e.location, Logger: e.logger})
	if err != nil {
		return nil, err
	}

	e.logger.Debug("schedule loaded", "file", filename, "rows", len(rows))

	return &Report{
		Filename: filename,
		Rows:     rows,
		Spec:     e.builder.Build(rows),
		Summary:  chart.Summarize(rows),
	}, nil
}

// BuildFile reads and builds the schedule at path.
func (e *Engine) BuildFile(path string) (*Report, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("failed to open schedule: %w", err)
	}
	defer func() { _ = f.Close() }()
	return e.Build(filepath.Base(path), f)
}

// Upload builds data and, when it is a valid schedule, stores it for the session.
// Invalid files are not stored, so the session keeps its previous chart.
func (e *Engine) Upload(ctx context.Context, sessionID, filename string, data []byte) (*Report, error) {
	report, err := e.Build(filename, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if err := e.store.SaveUpload(ctx, &state.Upload{
		SessionID: sessionID,
		Filename:  filename,
		Content:   data,
	}); err != nil {
		return nil, err
	}
	return report, nil
}

// Current returns the report shown to a session: its latest upload, else the
// watched file. It returns (nil, nil) when there is nothing to show.
func (e *Engine) Current(ctx context.Context, sessionID string) (*Report, error) {
	if sessionID != "" {
		upload, err := e.store.LatestUpload(ctx, sessionID)
		switch {
		case err == nil:
			return e.Build(upload.Filename, bytes.NewReader(upload.Content))
		case !errors.Is(err, state.ErrNotFound):
			return nil, err
		}
	}
	if e.watchFile != "" {
		return e.BuildFile(e.watchFile)
	}
	return nil, nil
}

// Reset forgets every upload of a session.
func (e *Engine) Reset(ctx context.Context, sessionID string) error {
	return e.store.DeleteSession(ctx, sessionID)
}

// Prune removes uploads older than ttl. A zero ttl keeps everything.
func (e *Engine) Prune(ctx context.Context, ttl time.Duration) (int64, error) {
	if ttl <= 0 {
		return 0, nil
	}
	return e.store.Prune(ctx, time.Now().Add(-ttl))
}

// Figure encodes a report as a plotly figure.
func (e *Engine) Figure(report *Report, labels chart.FigureLabels) chart.Figure {
	return chart.EncodePlotly(report.Spec, chart.FigureOptions{Labels: labels, Height: e.height})
}

// RenderImage draws a report as PNG or SVG.
func (e *Engine) RenderImage(w io.Writer, report *Report, opts chart.ImageOptions) error {
	return chart.RenderImage(w, report.Spec, opts)
}
