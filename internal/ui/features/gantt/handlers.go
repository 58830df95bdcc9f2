package gantt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/leapgantt/internal/chart"
	"github.com/leapstack-labs/leapgantt/internal/engine"
	"github.com/leapstack-labs/leapgantt/internal/ui/features/gantt/pages"
	"github.com/leapstack-labs/leapgantt/internal/ui/features/gantt/types"
	"github.com/leapstack-labs/leapgantt/internal/ui/notifier"
)

// refreshScript redraws the chart after the shell was patched.
const refreshScript = "window.leapgantt && window.leapgantt.refresh()"

// Handlers provides HTTP handlers for the gantt feature.
type Handlers struct {
	engine       *engine.Engine
	sessionStore sessions.Store
	notifier     *notifier.Notifier
	opts         Options
	logger       *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(eng *engine.Engine, sessionStore sessions.Store, notify *notifier.Notifier, opts Options) *Handlers {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{
		engine:       eng,
		sessionStore: sessionStore,
		notifier:     notify,
		opts:         opts,
		logger:       logger,
	}
}

// GanttPage renders the page with the session's current chart.
func (h *Handlers) GanttPage(w http.ResponseWriter, r *http.Request) {
	sid := h.sessionID(w, r, true)
	labels := h.labels(r)

	report, err := h.engine.Current(r.Context(), sid)
	data := h.buildViewData(labels, report)
	if err != nil {
		data.Error = err.Error()
	}

	h.render(w, r, http.StatusOK, data)
}

// Upload stores a schedule for the session and redirects back to the page.
// An invalid file re-renders the page with the error and the previous chart.
func (h *Handlers) Upload(w http.ResponseWriter, r *http.Request) {
	sid := h.sessionID(w, r, true)
	labels := h.labels(r)

	filename, content, err := h.readUpload(w, r, labels)
	if err == nil {
		_, err = h.engine.Upload(r.Context(), sid, filename, content)
	}
	if err != nil {
		h.logger.Info("upload rejected", "file", filename, "error", err)
		report, _ := h.engine.Current(r.Context(), sid)
		data := h.buildViewData(labels, report)
		data.Error = err.Error()
		h.render(w, r, http.StatusBadRequest, data)
		return
	}

	h.logger.Debug("upload stored", "file", filename, "bytes", len(content))
	h.notifier.Notify(sid)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// readUpload returns the name and content of the multipart "file" field.
func (h *Handlers) readUpload(w http.ResponseWriter, r *http.Request, labels types.Labels) (string, []byte, error) {
	if limit := h.opts.MaxUploadBytes; limit > 0 {
		if r.ContentLength > limit {
			return "", nil, errors.New(labels.TooLarge)
		}
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return "", nil, errors.New(labels.TooLarge)
		case errors.Is(err, http.ErrMissingFile):
			return "", nil, errors.New(labels.NoFile)
		default:
			return "", nil, err
		}
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(file)
	if err != nil {
		return header.Filename, nil, err
	}
	return header.Filename, content, nil
}

// Reset forgets the session's uploads.
func (h *Handlers) Reset(w http.ResponseWriter, r *http.Request) {
	if sid := h.sessionID(w, r, false); sid != "" {
		if err := h.engine.Reset(r.Context(), sid); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		h.notifier.Notify(sid)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// GanttPageUpdates is the long-lived SSE endpoint of the page.
// It does not send initial state; that is rendered by GanttPage.
func (h *Handlers) GanttPageUpdates(w http.ResponseWriter, r *http.Request) {
	sid := h.sessionID(w, r, false)
	labels := h.labels(r)

	updates := h.notifier.Subscribe(sid)
	defer h.notifier.Unsubscribe(updates)

	sse := datastar.NewSSE(w, r)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			if err := h.sendShell(ctx, sse, sid, labels); err != nil {
				_ = sse.ConsoleError(err)
				// Keep the stream open for the next update
			}
		}
	}
}

func (h *Handlers) sendShell(ctx context.Context, sse *datastar.ServerSentEventGenerator, sid string, labels types.Labels) error {
	report, err := h.engine.Current(ctx, sid)
	data := h.buildViewData(labels, report)
	if err != nil {
		data.Error = err.Error()
	}
	if err := sse.PatchElementTempl(pages.AppShell(data)); err != nil {
		return err
	}
	return sse.ExecuteScript(refreshScript)
}

// Figure returns the session's chart as a plotly figure.
func (h *Handlers) Figure(w http.ResponseWriter, r *http.Request) {
	report, ok := h.currentReport(w, r)
	if !ok {
		return
	}

	fig := h.engine.Figure(report, h.labels(r).Figure)
	if h.opts.Title != "" {
		fig.Layout.Title.Text = h.opts.Title
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(fig); err != nil {
		h.logger.Warn("failed to write figure", "error", err)
	}
}

// ChartImage returns a handler drawing the session's chart in format.
func (h *Handlers) ChartImage(format string) http.HandlerFunc {
	contentType := "image/png"
	if format == chart.FormatSVG {
		contentType = "image/svg+xml"
	}

	return func(w http.ResponseWriter, r *http.Request) {
		report, ok := h.currentReport(w, r)
		if !ok {
			return
		}

		var buf bytes.Buffer
		if err := h.engine.RenderImage(&buf, report, chart.ImageOptions{
			Format:   format,
			FontPath: h.opts.FontPath,
		}); err != nil {
			h.logger.Error("failed to render chart image", "format", format, "error", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "no-store")
		_, _ = buf.WriteTo(w)
	}
}

// currentReport writes 404 when the session has nothing to chart and 500 on errors.
func (h *Handlers) currentReport(w http.ResponseWriter, r *http.Request) (*engine.Report, bool) {
	report, err := h.engine.Current(r.Context(), h.sessionID(w, r, false))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	if report.Empty() {
		http.NotFound(w, r)
		return nil, false
	}
	return report, true
}

func (h *Handlers) labels(r *http.Request) types.Labels {
	return Negotiate(h.opts.Lang, r.Header.Get("Accept-Language"))
}

func (h *Handlers) render(w http.ResponseWriter, r *http.Request, status int, data types.ViewData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pages.GanttPage(data).Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render page", "error", err)
	}
}
