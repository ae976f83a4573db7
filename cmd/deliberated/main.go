// Command deliberated serves the deliberation API for UI clients, with
// Prometheus metrics and a health check on a separate port.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/deliberate/deliberate/internal/api"
	"github.com/deliberate/deliberate/internal/archive"
	"github.com/deliberate/deliberate/internal/catalog"
	"github.com/deliberate/deliberate/internal/events"
	"github.com/deliberate/deliberate/pkg/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("DELIBERATE_CONFIG"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	lc := cfg.Logging
	lc.Format = "json"
	logger := lc.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := archive.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("close archive", "error", err)
		}
	}()

	opts := append(catalog.ConfigOptions(cfg), catalog.WithLogger(logger))
	if cfg.Events.NATSURL != "" {
		pub, err := events.NewNATSPublisher(ctx, cfg.Events.NATSURL, logger)
		if err != nil {
			logger.Warn("event publishing disabled", "nats_url", cfg.Events.NATSURL, "error", err)
		} else {
			defer pub.Close()
			opts = append(opts, catalog.WithPublisher(pub))
			logger.Info("publishing events", "nats_url", cfg.Events.NATSURL)
		}
	}

	svc := catalog.New(store, opts...)
	if err := svc.Refresh(ctx); err != nil {
		return fmt.Errorf("load archive: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := api.NewMetrics(reg)
	untrack := metrics.Track(svc)
	defer untrack()

	apiSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           api.NewRouter(svc, api.RouterConfig{APIKey: cfg.Server.APIKey, Metrics: metrics}, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	metricsSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler:           api.NewMetricsRouter(reg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)
	for _, srv := range []*http.Server{apiSrv, metricsSrv} {
		go func() {
			logger.Info("listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("listen %s: %w", srv.Addr, err)
			}
		}()
	}
	logger.Info("deliberated started",
		"archive", cfg.Archive.Backend,
		"deliberations", len(svc.List()),
		"port", cfg.Server.Port,
		"metrics_port", cfg.Server.MetricsPort,
	)

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case runErr = <-errCh:
		logger.Error("server failed", "error", runErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, srv := range []*http.Server{apiSrv, metricsSrv} {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown", "addr", srv.Addr, "error", err)
		}
	}
	return runErr
}
