//go:build !dev

package resources

import (
	"bytes"
	"embed"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// IsDev reports whether assets are served from the filesystem.
const IsDev = false

//go:embed static/*
var staticFS embed.FS

// Handler returns an HTTP handler for serving static files.
// In production mode, files are embedded in the binary and minified once at startup.
func Handler(logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	assets := bundle(logger)
	started := time.Now()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/static/")
		content, ok := assets[name]
		if !ok {
			http.NotFound(w, r)
			return
		}
		// Cache embedded static assets for 1 year (they never change in prod)
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		http.ServeContent(w, r, name, started, bytes.NewReader(content))
	})
}

// bundle reads and minifies every embedded asset. An asset that fails to
// minify is served as is.
func bundle(logger *slog.Logger) map[string][]byte {
	assets := make(map[string][]byte)
	fsys, _ := fs.Sub(staticFS, "static")
	_ = fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		src, err := fs.ReadFile(fsys, name)
		if err != nil {
			return err
		}
		out, err := Minify(name, src)
		if err != nil {
			logger.Warn("failed to minify asset", "asset", name, "error", err)
			out = src
		}
		assets[name] = out
		return nil
	})
	return assets
}
