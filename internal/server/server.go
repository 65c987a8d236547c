// Package server exposes the portal datasets over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/ceu-caminhodomar/portal/internal/portal"
	"github.com/ceu-caminhodomar/portal/internal/search"
	"github.com/ceu-caminhodomar/portal/internal/server/notifier"
	"github.com/ceu-caminhodomar/portal/internal/summary"
)

const (
	sessionName     = "portal"
	reloadDebounce  = 200 * time.Millisecond
	shutdownTimeout = 5 * time.Second
)

// Settings are the parts of the configuration that can change while serving.
type Settings struct {
	Fetcher portal.Fetcher
	Tabs    portal.Tabs
	Columns search.ColumnMapping
}

// Reloader re-reads the configuration.
type Reloader func(ctx context.Context) (Settings, error)

// Config holds configuration for the API server.
type Config struct {
	Portal        *portal.Portal
	Summaries     *summary.Service
	Columns       search.ColumnMapping
	Port          int
	SessionSecret string
	Logger        *slog.Logger

	// WatchFile is the config file to watch; empty disables watching.
	WatchFile string
	Reload    Reloader
}

// Server is the portal API server.
type Server struct {
	portal       *portal.Portal
	summaries    *summary.Service
	sessionStore *sessions.CookieStore
	notifier     *notifier.Notifier
	port         int
	watchFile    string
	reload       Reloader
	logger       *slog.Logger

	mu      sync.RWMutex
	columns search.ColumnMapping
}

// New creates a new server instance. Without a session secret a random key
// is generated, so preferences last until the process restarts.
func New(cfg Config) *Server {
	key := []byte(cfg.SessionSecret)
	if len(key) == 0 {
		key = securecookie.GenerateRandomKey(32)
	}
	sessionStore := sessions.NewCookieStore(key)
	sessionStore.MaxAge(86400 * 30) // 30 days
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	summaries := cfg.Summaries
	if summaries == nil {
		summaries = summary.NewService(nil)
	}

	return &Server{
		portal:       cfg.Portal,
		summaries:    summaries,
		sessionStore: sessionStore,
		notifier:     notifier.New(),
		port:         cfg.Port,
		watchFile:    cfg.WatchFile,
		reload:       cfg.Reload,
		logger:       logger,
		columns:      cfg.Columns,
	}
}

// Handler returns the HTTP handler with middleware and routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)
	s.routes(r)
	return r
}

// Notifier returns the server's reload notifier.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// Serve starts the server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting API server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watchFile != "" && s.reload != nil {
		eg.Go(func() error {
			return s.watchConfig(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.logger.Debug("shutting down API server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// Columns returns the current person search mapping.
func (s *Server) Columns() search.ColumnMapping {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.columns
}

// ApplyReload re-reads the configuration and refreshes the datasets.
// A failed reload keeps the previous settings.
func (s *Server) ApplyReload(ctx context.Context) error {
	if s.reload == nil {
		return errors.New("reload not configured")
	}
	settings, err := s.reload(ctx)
	if err != nil {
		return fmt.Errorf("reload config: %w", err)
	}

	s.portal.Reconfigure(settings.Fetcher, settings.Tabs)
	s.mu.Lock()
	s.columns = settings.Columns
	s.mu.Unlock()

	if err := s.portal.Refresh(ctx); err != nil {
		s.logger.Error(portal.LoadErrorText, "error", err)
	}
	s.notifier.Broadcast("config")
	return nil
}

// watchConfig reloads when the config file changes. The parent directory is
// watched so that editors replacing the file are noticed too.
func (s *Server) watchConfig(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	target, err := filepath.Abs(s.watchFile)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		s.logger.Error("failed to watch config file", "file", target, "error", err)
		// Don't fail - continue without watching
		<-ctx.Done()
		return nil
	}

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
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(reloadDebounce, func() {
				s.logger.Info("config changed, reloading", "file", target)
				if err := s.ApplyReload(ctx); err != nil {
					s.logger.Error("reload failed", "error", err)
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}
