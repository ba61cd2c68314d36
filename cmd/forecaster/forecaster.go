package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/epiforge/epicurve/cmd/forecaster/metrics"
	"github.com/epiforge/epicurve/pkg/dataset"
	"github.com/epiforge/epicurve/pkg/fit"
	"github.com/epiforge/epicurve/pkg/forecast"
	"github.com/epiforge/epicurve/pkg/models"
	"github.com/epiforge/epicurve/pkg/series"
	"github.com/epiforge/epicurve/pkg/smooth"
	"github.com/epiforge/epicurve/pkg/storage"
	"github.com/epiforge/epicurve/pkg/summary"
)

// Forecaster orchestrates the fit loop: ingest → smooth → fit → predict → store.
type Forecaster struct {
	group   string
	kind    string
	areas   []string
	source  *dataset.Client
	dataDir string

	model        models.Curve
	startDate    time.Time
	smoothWindow int
	nPred        int
	fitOpts      fit.Options

	store   storage.Store
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New creates a new Forecaster.
func New(
	group, kind string,
	areas []string,
	source *dataset.Client,
	dataDir string,
	model models.Curve,
	startDate time.Time,
	smoothWindow, nPred int,
	fitOpts fit.Options,
	store storage.Store,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Forecaster {
	if logger == nil {
		logger = slog.Default()
	}

	return &Forecaster{
		group:        group,
		kind:         kind,
		areas:        areas,
		source:       source,
		dataDir:      dataDir,
		model:        model,
		startDate:    startDate,
		smoothWindow: smoothWindow,
		nPred:        nPred,
		fitOpts:      fitOpts,
		store:        store,
		metrics:      m,
		logger:       logger,
	}
}

// Run executes the fit loop at regular intervals.
// Blocks until context is canceled.
func (f *Forecaster) Run(ctx context.Context, interval time.Duration) error {
	f.logger.Info("starting fit loop", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if err := f.Tick(ctx); err != nil {
		f.logger.Error("fit tick failed", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			f.logger.Info("fit loop stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := f.Tick(ctx); err != nil {
				f.logger.Error("fit tick failed", "error", err)
			}
		}
	}
}

// Tick performs one ingest-fit-store cycle over all tracked areas.
// Exported for testing purposes.
func (f *Forecaster) Tick(ctx context.Context) error {
	start := time.Now()
	f.logger.Debug("starting fit tick")

	catalog, fetchDuration, err := f.ingest(ctx)
	if err != nil {
		f.metrics.RecordDatasetFetchError()
		return fmt.Errorf("ingest: %w", err)
	}
	f.metrics.ObserveDatasetFetch(fetchDuration.Seconds())

	fitted := 0
	for _, area := range f.areas {
		s, ok := catalog[area]
		if !ok {
			f.logger.Warn("area not in dataset", "area", area)
			continue
		}
		if err := f.fitArea(area, s); err != nil {
			f.metrics.RecordFitError(area)
			f.logger.Error("fit failed", "area", area, "error", err)
			continue
		}
		fitted++
	}
	f.metrics.SetAreasFitted(fitted)
	f.metrics.SetSnapshotAge(0)

	f.logger.Info("fit tick complete",
		"group", f.group,
		"kind", f.kind,
		"areas_fitted", fitted,
		"fetch_ms", fetchDuration.Milliseconds(),
		"total_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// ingest loads the dataset from the local directory or the upstream repo.
func (f *Forecaster) ingest(ctx context.Context) (dataset.Catalog, time.Duration, error) {
	start := time.Now()

	var catalog dataset.Catalog
	var err error
	if f.dataDir != "" {
		catalog, err = dataset.ReadFile(f.dataDir, f.group, f.kind)
	} else {
		catalog, err = f.source.Fetch(ctx, f.group, f.kind)
	}
	if err != nil {
		return nil, 0, err
	}

	duration := time.Since(start)
	f.logger.Debug("ingested dataset",
		"group", f.group,
		"kind", f.kind,
		"areas", len(catalog),
		"duration_ms", duration.Milliseconds(),
	)
	return catalog, duration, nil
}

// fitArea runs the fit-predict pipeline for one area and stores the snapshot.
func (f *Forecaster) fitArea(area string, s series.Series) error {
	if s.Len() == 0 {
		return forecast.ErrEmptyWindow
	}

	lastDate, lastValue := s.Last()
	startDate := f.startDate
	if startDate.IsZero() {
		startDate = s.Dates[0]
	}

	spec := forecast.Spec{
		Model:        f.model,
		Bounds:       f.model.Bounds,
		Seed:         f.model.Seed,
		StartDate:    startDate,
		LastDate:     lastDate,
		SmoothWindow: f.smoothWindow,
		NPred:        f.nPred,
		Fit:          f.fitOpts,
	}

	fitStart := time.Now()
	result, err := forecast.PredictAll(s, spec, smooth.Lowess, nil)
	if err != nil {
		return err
	}
	f.metrics.ObserveFit(area, time.Since(fitStart).Seconds())

	report := summary.FromDaily(result.Daily)
	f.metrics.SetGrowthFactor(area, report.GrowthFactor)

	snapshot := storage.Snapshot{
		Area:        area,
		Kind:        f.kind,
		Model:       f.model.Name,
		GeneratedAt: time.Now(),
		AnchorDate:  lastDate,
		AnchorValue: lastValue,
		Params:      result.Params,
		Daily:       result.Daily,
		Cumulative:  result.Cumulative.Values,
	}
	if err := f.store.Put(snapshot); err != nil {
		return fmt.Errorf("store: %w", err)
	}

	f.logger.Info("area fitted",
		"area", area,
		"model", f.model.Name,
		"params", result.Params,
		"trend", report.Trend,
		"growth_factor", report.GrowthFactor,
		"horizon_total", report.HorizonTotal,
	)
	return nil
}

// GetStore returns the underlying store for HTTP handlers.
func (f *Forecaster) GetStore() storage.Store {
	return f.store
}
