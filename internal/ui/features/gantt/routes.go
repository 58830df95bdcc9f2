// Package gantt provides the schedule upload and chart feature of the UI.
package gantt

import (
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/leapstack-labs/leapgantt/internal/chart"
	"github.com/leapstack-labs/leapgantt/internal/engine"
	"github.com/leapstack-labs/leapgantt/internal/ui/notifier"
)

// SetupRoutes configures routes for the gantt feature.
func SetupRoutes(
	router chi.Router,
	eng *engine.Engine,
	sessionStore sessions.Store,
	notify *notifier.Notifier,
	opts Options,
) error {
	handlers := NewHandlers(eng, sessionStore, notify, opts)

	router.Get("/", handlers.GanttPage)
	router.Get("/updates", handlers.GanttPageUpdates)
	router.Post("/upload", handlers.Upload)
	router.Post("/reset", handlers.Reset)
	router.Get("/figure.json", handlers.Figure)
	router.Get("/chart.png", handlers.ChartImage(chart.FormatPNG))
	router.Get("/chart.svg", handlers.ChartImage(chart.FormatSVG))

	return nil
}
