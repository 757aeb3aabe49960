package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ast3d/internal/astsource"
	"ast3d/internal/config"
	"ast3d/internal/handler"
	"ast3d/internal/hub"
	"ast3d/internal/logging"
	"ast3d/internal/repository/sqlite"
	"ast3d/internal/service"
	"ast3d/internal/watcher"
)

type serveOptions struct {
	configPath string
	addr       string
	dbPath     string
	graphPath  string
	origins    []string
	watch      bool
}

func newServeCmd() *cobra.Command {
	var opts serveOptions
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the engine and its HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "config file (default: search standard locations)")
	f.StringVar(&opts.addr, "addr", "", "HTTP listen address (overrides server.addr)")
	f.StringVar(&opts.dbPath, "db", "", "SQLite snapshot database (overrides database.path)")
	f.StringVarP(&opts.graphPath, "graph", "g", "", "graph or source file to load at startup")
	f.StringSliceVar(&opts.origins, "cors-origin", nil, "allowed CORS origins (default any)")
	f.BoolVar(&opts.watch, "watch", true, "reload the graph and config files when they change")
	return cmd
}

func loadConfig(path string) (*config.Config, string, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

func runServe(parent context.Context, opts serveOptions) error {
	cfg, cfgPath, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}
	if opts.dbPath != "" {
		cfg.Database.Path = opts.dbPath
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer logger.Sync()
	if cfgPath != "" {
		logger.Info("config loaded", zap.String("path", cfgPath))
	}

	style, err := config.NewStyle(cfg.Style)
	if err != nil {
		return err
	}

	repo, err := sqlite.New(cfg.Database.Path, logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer repo.Close()

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	bus := service.NewEventBus()
	session := service.NewSession(cfg.Engine, style, bus, logger)
	defer session.Close()
	session.SetPresenter(service.BusPresenter(bus))

	engine := service.NewEngine(session, time.Second/time.Duration(cfg.Engine.FrameRate), logger)
	graphs := service.NewGraphService(engine, repo, astsource.NewParser(astsource.DefaultOptions(), logger), bus, logger)
	sseHub := hub.New(logger)

	var wg sync.WaitGroup
	run := func(fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}

	run(func() { _ = engine.Run(ctx) })
	run(func() { sseHub.Run(ctx) })

	events := make(chan service.Event, 256)
	bus.Subscribe(events)
	run(func() {
		defer bus.Unsubscribe(events)
		for {
			select {
			case e := <-events:
				sseHub.Broadcast(e)
			case <-ctx.Done():
				return
			}
		}
	})

	if opts.graphPath != "" {
		loadGraphFile(ctx, graphs, opts.graphPath, logger)
	}

	if opts.watch {
		w, err := newReloader(graphs, engine, opts.graphPath, cfgPath, logger)
		if err != nil {
			return err
		}
		if w.Files() > 0 {
			run(func() {
				if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Warn("file watcher stopped", zap.Error(err))
				}
			})
		}
	}

	router := handler.NewRouter(handler.NewSceneHandler(engine, graphs, logger),
		handler.RouterOptions{Events: sseHub, AllowedOrigins: opts.origins}, logger)

	// no WriteTimeout: /events streams stay open
	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			stop()
			wg.Wait()
			return fmt.Errorf("listen: %w", err)
		}
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	stop()
	wg.Wait()
	logger.Info("server stopped")
	return nil
}

func loadGraphFile(ctx context.Context, graphs *service.GraphService, path string, logger *zap.Logger) {
	res, err := graphs.LoadFile(ctx, path)
	if err != nil {
		logger.Error("failed to load graph file", zap.String("path", path), zap.Error(err))
		return
	}
	logger.Info("graph file loaded",
		zap.String("path", path),
		zap.String("nodes", humanize.Comma(int64(res.Rebuild.Nodes))),
		zap.String("edges", humanize.Comma(int64(res.Rebuild.Edges))),
		zap.Bool("truncated", res.Truncated))
}

// newReloader watches the graph file and the config file. Graph changes
// reload the graph; config changes reapply the style section.
func newReloader(graphs *service.GraphService, engine *service.Engine, graphPath, cfgPath string, logger *zap.Logger) (*watcher.Watcher, error) {
	var graphAbs string
	if graphPath != "" {
		abs, err := filepath.Abs(graphPath)
		if err != nil {
			return nil, err
		}
		graphAbs = abs
	}

	return watcher.New(func(path string) {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if path == graphAbs {
			loadGraphFile(ctx, graphs, path, logger)
			return
		}

		cfg, _, err := config.LoadFromPath(path)
		if err != nil {
			logger.Warn("config reload failed", zap.String("path", path), zap.Error(err))
			return
		}
		err = engine.Do(ctx, func(s *service.Session) error {
			_, err := s.ApplyStyle(cfg.Style)
			return err
		})
		if err != nil {
			logger.Warn("style reload failed", zap.Error(err))
		}
	}, logger, graphPath, cfgPath)
}
