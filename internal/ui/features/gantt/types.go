package gantt

import "log/slog"

// Options configures the gantt handlers.
type Options struct {
	// Title overrides the page and chart heading
	Title string
	// Lang is "auto", "en" or "zh"
	Lang string
	// MaxUploadBytes limits an uploaded file (0 means unlimited)
	MaxUploadBytes int64
	// FontPath is a TrueType font for server-side images (optional)
	FontPath string
	IsDev    bool
	Logger   *slog.Logger
}
