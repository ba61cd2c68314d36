// Package main implements the plotcurve CLI.
// It fetches the latest forecast snapshot for an area from a running
// forecaster and renders the predicted cumulative curve with gnuplot.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/epiforge/epicurve/cmd/plotcurve/config"
	"github.com/epiforge/epicurve/pkg/client"
	"github.com/epiforge/epicurve/pkg/plot"
	"github.com/epiforge/epicurve/pkg/series"
)

func main() {
	cfg := config.ParseFlags()

	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	c := client.NewForecasterClientWithTimeout(cfg.ForecasterURL, cfg.Timeout)
	result, err := c.GetSnapshot(ctx, cfg.Area)
	if err != nil {
		logger.Error("failed to fetch snapshot", "area", cfg.Area, "error", err)
		os.Exit(1)
	}

	snap := result.Snapshot
	if result.Stale {
		logger.Warn("snapshot is stale", "area", snap.Area, "generated_at", snap.GeneratedAt)
	}

	// Rebuild the dated prediction from the snapshot's anchor.
	predicted := series.Series{
		Dates:  series.DateRange(snap.AnchorDate, len(snap.Cumulative)),
		Values: snap.Cumulative,
	}
	actual := series.Series{
		Dates:  []time.Time{snap.AnchorDate},
		Values: []float64{snap.AnchorValue},
	}

	title := fmt.Sprintf("%s %s forecast (%s)", snap.Area, snap.Kind, snap.Model)
	renderer := &plot.Gnuplot{Persist: cfg.Output == "", SavePath: cfg.Output}
	if err := renderer.Plot(actual, predicted, title); err != nil {
		logger.Error("failed to render plot", "error", err)
		os.Exit(1)
	}

	logger.Info("plot rendered",
		"area", snap.Area,
		"points", predicted.Len(),
		"output", cfg.Output,
	)
}
