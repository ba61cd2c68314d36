// Package main implements the epicurve forecaster service.
// The forecaster ingests the case-count dataset, fits the configured growth
// curve per tracked area, and serves forecast snapshots via HTTP API.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/epiforge/epicurve/cmd/forecaster/config"
	"github.com/epiforge/epicurve/cmd/forecaster/logger"
	"github.com/epiforge/epicurve/cmd/forecaster/metrics"
	"github.com/epiforge/epicurve/cmd/forecaster/models"
	"github.com/epiforge/epicurve/cmd/forecaster/router"
	"github.com/epiforge/epicurve/cmd/forecaster/store"
	"github.com/epiforge/epicurve/pkg/dataset"
	"github.com/epiforge/epicurve/pkg/fit"
	"github.com/epiforge/epicurve/pkg/httpx"
)

func main() {
	cfg := config.ParseFlags()

	logger := logger.New(cfg)
	slog.SetDefault(logger)

	logger.Info("starting epicurve forecaster",
		"version", "v0.1.0",
		"group", cfg.Group,
		"kind", cfg.Kind,
		"areas", cfg.Areas,
		"model", cfg.Model,
	)

	var startDate time.Time
	if cfg.StartDate != "" {
		var err error
		startDate, err = time.Parse("2006-01-02", cfg.StartDate)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid --start-date %q\n", cfg.StartDate)
			os.Exit(1)
		}
	}

	source := &dataset.Client{BaseURL: cfg.DataURL}
	model := models.New(cfg, logger)
	snapshots := store.New(cfg, logger)
	m := metrics.New()

	fitOpts := fit.Options{
		Ftol:    cfg.Ftol,
		Xtol:    cfg.Xtol,
		MaxNfev: cfg.MaxNfev,
	}

	f := New(
		cfg.Group,
		cfg.Kind,
		cfg.Areas,
		source,
		cfg.DataDir,
		model,
		startDate,
		cfg.SmoothWindow,
		cfg.NPred,
		fitOpts,
		snapshots,
		m,
		logger,
	)

	staleAfter := 2 * cfg.Interval // Snapshot is stale if older than 2x the interval
	mux := router.SetupRoutes(snapshots, staleAfter, logger)
	httpServer := httpx.NewServer(cfg.Listen, mux, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := f.Run(ctx, cfg.Interval); err != nil && err != context.Canceled {
			logger.Error("fit loop failed", "error", err)
		}
	}()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- httpServer.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig)
	case err := <-serverErr:
		if err != nil {
			logger.Error("server failed", "error", err)
		}
	}

	logger.Info("shutting down")
	cancel()

	if closer, ok := snapshots.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	if err := httpServer.Stop(10 * time.Second); err != nil {
		logger.Error("server shutdown failed", "error", err)
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}
