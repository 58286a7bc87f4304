// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/ansuz/internal/api"
	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/auditor"
	"github.com/starford/ansuz/internal/mcpserver"
	"github.com/starford/ansuz/internal/report"
	"github.com/starford/ansuz/internal/sse"
	"github.com/starford/ansuz/internal/state"
	"github.com/starford/ansuz/internal/storage"
	"github.com/starford/ansuz/internal/watch"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Structured JSON logs go to stderr; stdout belongs to the report.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	out := app.out
	if out == nil {
		out = os.Stdout
	}

	switch {
	case cfg.Run.MCP:
		return runMCP(cfg, app.store, logger)
	case cfg.Run.Serve || cfg.Run.Watch:
		return runWatch(ctx, cfg, app.store, logger, out)
	default:
		for _, dir := range cfg.Library.Paths {
			if err := runBatch(cfg, dir, app.store, logger, out); err != nil {
				return fmt.Errorf("audit %s: %w", dir, err)
			}
		}
		return nil
	}
}

// newService builds the audit service for one library directory. The
// returned cleanup closes the state database, if one was opened.
func newService(cfg *Config, dir string, injected state.Store, logger *slog.Logger) (*auditor.Service, func(), error) {
	store, err := storage.NewFS(dir, cfg.Library.Extensions, cfg.Cache.File)
	if err != nil {
		return nil, nil, fmt.Errorf("init storage: %w", err)
	}

	st := injected
	cleanup := func() {}
	if st == nil && cfg.Cache.Enabled {
		db, openErr := openState(filepath.Join(dir, cfg.Cache.File), logger)
		if db != nil {
			st = db
			cleanup = func() { db.Close() }
		} else if openErr != nil {
			logger.Warn("state unavailable, running without cache", slog.String("error", openErr.Error()))
		}
	}

	return auditor.New(store, st, cfg.Library.Extensions, logger), cleanup, nil
}

// openState opens the state database, moving an unreadable file aside and
// retrying once so a corrupt cache never aborts the run. The previous file
// is preserved, not overwritten.
func openState(path string, logger *slog.Logger) (*state.DB, error) {
	db, err := state.Open(path)
	if err == nil {
		return db, nil
	}
	if !errors.Is(err, apperr.ErrCorruptState) {
		return nil, err
	}
	logger.Warn("state file unreadable, starting fresh", slog.String("path", path), slog.String("error", err.Error()))
	if renameErr := os.Rename(path, path+".corrupt"); renameErr != nil {
		return nil, renameErr
	}
	return state.Open(path)
}

func runBatch(cfg *Config, dir string, injected state.Store, logger *slog.Logger, out io.Writer) error {
	svc, cleanup, err := newService(cfg, dir, injected, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	printer := report.NewPrinter(out, report.Options{
		AllLinks: cfg.Report.AllLinks,
		NonMD:    cfg.Report.NonMD,
	})

	if cfg.Run.History {
		log, histErr := svc.History()
		if histErr != nil {
			return fmt.Errorf("load history: %w", histErr)
		}
		printer.History(log)
		return nil
	}

	res, err := svc.Run()
	if err != nil {
		return err
	}
	if n := len(res.Skipped); n > 0 {
		logger.Warn("some documents could not be read", slog.Int("skipped", n))
	}
	printer.Summary(res.Snapshot, res.Report)
	return nil
}

// runWatch keeps auditing: an initial pass, then a debounced re-audit on
// every library change. With Serve it also exposes the latest result over
// HTTP and streams change events via SSE. Watch mode handles exactly one
// library.
func runWatch(ctx context.Context, cfg *Config, injected state.Store, logger *slog.Logger, out io.Writer) error {
	if len(cfg.Library.Paths) != 1 {
		return fmt.Errorf("watch mode requires exactly one library path, got %d", len(cfg.Library.Paths))
	}
	dir := cfg.Library.Paths[0]

	svc, cleanup, err := newService(cfg, dir, injected, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	printer := report.NewPrinter(out, report.Options{
		AllLinks: cfg.Report.AllLinks,
		NonMD:    cfg.Report.NonMD,
	})

	var broker *sse.Broker
	if cfg.Run.Serve {
		broker = sse.NewBroker(2 * time.Second)
		defer broker.Close()
	}

	rerun := func() {
		res, runErr := svc.Run()
		if runErr != nil {
			logger.Error("audit failed", slog.String("error", runErr.Error()))
			return
		}
		printer.Events(res.Events)
		printer.Summary(res.Snapshot, res.Report)
		if broker != nil {
			for _, e := range res.Events {
				broker.PublishChange(e)
			}
		}
	}
	rerun()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return watch.Watch(gCtx, dir, cfg.Library.Extensions, 200*time.Millisecond, logger, rerun)
	})

	var httpServer *http.Server
	if cfg.Run.Serve {
		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.RealIP)
		r.Use(middleware.Recoverer)

		r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
		r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})

		r.Mount("/api", api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker))

		httpServer = &http.Server{
			Addr:    cfg.App.HTTP.Address(),
			Handler: r,
		}

		g.Go(func() error {
			logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
			if srvErr := httpServer.ListenAndServe(); srvErr != nil && !errors.Is(srvErr, http.ErrServerClosed) {
				return fmt.Errorf("HTTP server error: %w", srvErr)
			}
			return nil
		})
	}

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
		}

		if httpServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if shutErr := httpServer.Shutdown(shutdownCtx); shutErr != nil {
				logger.Error("HTTP server shutdown error", slog.String("error", shutErr.Error()))
			}
		}
		return context.Canceled
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("Stopped")
	return nil
}

// runMCP serves audit tools over MCP stdio for one library.
func runMCP(cfg *Config, injected state.Store, logger *slog.Logger) error {
	if len(cfg.Library.Paths) != 1 {
		return fmt.Errorf("mcp mode requires exactly one library path, got %d", len(cfg.Library.Paths))
	}
	svc, cleanup, err := newService(cfg, cfg.Library.Paths[0], injected, logger)
	if err != nil {
		return err
	}
	defer cleanup()
	return mcpserver.New(svc).ServeStdio()
}
