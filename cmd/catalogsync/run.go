package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dgallion1/catalogsync/internal/api"
	"github.com/dgallion1/catalogsync/internal/checkpoint"
	"github.com/dgallion1/catalogsync/internal/config"
	"github.com/dgallion1/catalogsync/internal/document"
	"github.com/dgallion1/catalogsync/internal/observability"
	"github.com/dgallion1/catalogsync/internal/pgstore"
	"github.com/dgallion1/catalogsync/internal/pipeline"
	"github.com/dgallion1/catalogsync/internal/supabase"
	"github.com/dgallion1/catalogsync/internal/syncer"
	"github.com/dgallion1/catalogsync/internal/ui"
)

func run(ctx context.Context, o options) error {
	log, err := newLogger(os.Stderr, o.logLevel, o.logFormat)
	if err != nil {
		return err
	}
	if o.startPage < 0 || o.endPage < 0 {
		return errors.New("--start-page and --end-page must be positive")
	}

	cfg, err := config.Load(o.envPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if o.metricsAddr != "" {
		cfg.MetricsAddr = o.metricsAddr
	}

	sb := supabase.NewClient(supabase.Config{
		URL:                 cfg.SupabaseURL,
		ServiceKey:          cfg.SupabaseServiceKey,
		Timeout:             cfg.HTTPTimeout,
		CacheControlSeconds: cfg.StorageCacheControl,
	})
	defer sb.Close()

	table, closeTable, err := openTable(ctx, cfg, sb)
	if err != nil {
		return err
	}
	defer closeTable()

	store, closeStore, err := openCheckpoint(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	syncClient, err := syncer.New(ctx, sb, table, cfg.ImagesBucket, log)
	if err != nil {
		return fmt.Errorf("prepare storage: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(reg)

	backend := document.Backend(cfg.PDFBackend)
	importer := pipeline.NewImporter(pipeline.Deps{
		Open: func(path string) (document.Document, error) {
			return document.Open(path, backend)
		},
		Sync:       syncClient,
		Checkpoint: store,
		Metrics:    metrics,
		Progress:   ui.NewProgressBar(os.Stderr),
		Log:        log,
	}, cfg.DefaultCurrency)

	if cfg.MetricsAddr != "" {
		stop := serveStatus(cfg.MetricsAddr, api.NewServer(importer, metrics.Handler(), cfg.StatusToken, log), log)
		defer stop()
	}

	snap, err := importer.Run(ctx, pipeline.Options{
		Path:      o.pdf,
		StartPage: o.startPage,
		EndPage:   o.endPage,
		Resume:    o.resume,
	})
	if err != nil {
		if snap.LastCheckpoint > 0 {
			return fmt.Errorf("%w (last completed page %d, re-run with --resume to continue)", err, snap.LastCheckpoint)
		}
		return err
	}
	return nil
}

func openTable(ctx context.Context, cfg config.Config, sb *supabase.Client) (syncer.TableStore, func(), error) {
	if cfg.TableBackend != config.TableBackendPostgres {
		return sb.ProductTable(cfg.ProductsTable), func() {}, nil
	}
	pg, err := pgstore.New(ctx, cfg.DatabaseURL, cfg.ProductsTable)
	if err != nil {
		return nil, nil, err
	}
	if err := pg.EnsureSchema(ctx); err != nil {
		pg.Close()
		return nil, nil, err
	}
	return pg, pg.Close, nil
}

func openCheckpoint(ctx context.Context, cfg config.Config, log *slog.Logger) (checkpoint.Store, func(), error) {
	if cfg.CheckpointRedisURL == "" {
		return checkpoint.NewFileStore(cfg.CheckpointPath, log), func() {}, nil
	}
	rs, err := checkpoint.NewRedisStore(ctx, cfg.CheckpointRedisURL, cfg.CheckpointKey, log)
	if err != nil {
		return nil, nil, err
	}
	return rs, func() { rs.Close() }, nil
}

// serveStatus runs the status server in the background and returns a func
// that shuts it down.
func serveStatus(addr string, handler http.Handler, log *slog.Logger) func() {
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		log.Info("serving status", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("status server error", "error", err)
		}
	}()
	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}
}

func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid --log-format %q", format)
	}
}
