// Package ui provides the web UI of LeapGantt.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/leapgantt/internal/engine"
	ganttFeature "github.com/leapstack-labs/leapgantt/internal/ui/features/gantt"
	"github.com/leapstack-labs/leapgantt/internal/ui/notifier"
	"github.com/leapstack-labs/leapgantt/internal/ui/resources"
	"github.com/leapstack-labs/leapgantt/internal/ui/router"
)

// debounce is how long the watcher waits for a burst of writes to settle.
const debounce = 100 * time.Millisecond

// pruneInterval is how often expired uploads are removed.
const pruneInterval = time.Minute

// Server is the main UI server.
type Server struct {
	engine       *engine.Engine
	sessionStore *sessions.CookieStore
	port         int
	uploadTTL    time.Duration
	opts         ganttFeature.Options
	logger       *slog.Logger
	notifier     *notifier.Notifier
}

// Config holds configuration for the UI server.
type Config struct {
	Engine         *engine.Engine
	Port           int
	SessionSecret  string
	Title          string
	Lang           string
	MaxUploadBytes int64
	UploadTTL      time.Duration
	FontPath       string
	Logger         *slog.Logger
}

// NewServer creates a new UI server instance.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	sessionStore := sessions.NewCookieStore(sessionKey(cfg.SessionSecret, logger))
	sessionStore.MaxAge(86400 * 30) // 30 days
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	return &Server{
		engine:       cfg.Engine,
		sessionStore: sessionStore,
		port:         cfg.Port,
		uploadTTL:    cfg.UploadTTL,
		opts: ganttFeature.Options{
			Title:          cfg.Title,
			Lang:           cfg.Lang,
			MaxUploadBytes: cfg.MaxUploadBytes,
			FontPath:       cfg.FontPath,
			IsDev:          resources.IsDev,
			Logger:         logger,
		},
		logger:   logger,
		notifier: notifier.New(),
	}
}

// sessionKey returns the configured secret, or a random key. A random key
// means sessions do not survive a restart.
func sessionKey(secret string, logger *slog.Logger) []byte {
	if secret != "" {
		return []byte(secret)
	}
	logger.Debug("no session secret configured, using a random key")
	return securecookie.GenerateRandomKey(32)
}

// Handler builds the HTTP handler with middleware and all routes.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	if err := router.SetupRoutes(r, s.engine, s.sessionStore, s.notifier, s.opts); err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	return r, nil
}

// Serve starts the UI server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting UI server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	eg, egctx := errgroup.WithContext(ctx)

	handler, err := s.Handler()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start file watcher if a schedule is watched
	if file := s.engine.WatchFile(); file != "" {
		eg.Go(func() error {
			return s.watchFile(egctx, file)
		})
	}

	if s.uploadTTL > 0 {
		eg.Go(func() error {
			s.pruneUploads(egctx)
			return nil
		})
	}

	// Start HTTP server
	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down UI server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// Notifier returns the server's notifier for SSE updates.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// watchFile broadcasts to every SSE client when file changes. The parent
// directory is watched because editors often replace files on save.
func (s *Server) watchFile(ctx context.Context, file string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(file)); err != nil {
		s.logger.Error("failed to watch schedule", "file", file, "error", err)
		// Don't fail - continue without watching
		<-ctx.Done()
		return nil
	}
	s.logger.Info("watching schedule", "file", file)

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != file {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			// Debounce
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounce, func() {
				s.logger.Debug("schedule changed", "file", event.Name)
				s.notifier.Broadcast()
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}

// pruneUploads removes expired uploads until ctx is cancelled.
func (s *Server) pruneUploads(ctx context.Context) {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.engine.Prune(ctx, s.uploadTTL); err != nil && ctx.Err() == nil {
				s.logger.Warn("failed to prune uploads", "error", err)
			}
		}
	}
}
