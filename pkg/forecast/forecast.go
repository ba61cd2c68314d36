// Package forecast implements the fit-predict pipeline over a cumulative
// case-count series: train a curve on a dated prefix, extend it into daily
// increments, re-anchor those into a dated cumulative forecast, and hand
// actual vs predicted to a plotting collaborator.
package forecast

import (
	"errors"
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/epiforge/epicurve/pkg/fit"
	"github.com/epiforge/epicurve/pkg/models"
	"github.com/epiforge/epicurve/pkg/series"
)

// ErrEmptyWindow is returned when date restriction leaves no training data.
var ErrEmptyWindow = errors.New("no observations in training window")

// Smoother pre-processes a series before fitting. smooth.Lowess satisfies it.
type Smoother func(s series.Series, window int) (series.Series, error)

// Plotter renders an actual series against a predicted one.
type Plotter interface {
	Plot(actual, predicted series.Series, title string) error
}

// Train fits model to the prefix of s with dates <= lastDate.
//
// The x values handed to the model are 0..n-1 relative to the window start.
// Optimizer failures and infeasible bounds propagate unmodified from pkg/fit.
func Train(s series.Series, lastDate time.Time, model models.Curve, bounds fit.Bounds, seed []float64, opts fit.Options) ([]float64, error) {
	window := s.UpTo(lastDate)
	if window.Len() == 0 {
		return nil, fmt.Errorf("no dates <= %s: %w", lastDate.Format("2006-01-02"), ErrEmptyWindow)
	}
	x := models.Indices(window.Len())
	return fit.Curve(model.Eval, x, window.Values, bounds, seed, opts)
}

// DailyPred extends a trained cumulative model nPred steps past the training
// window and returns the daily increments.
//
// The model is evaluated at indices nTrain-1 .. nTrain-1+nPred and the
// consecutive values are differenced, so the first increment is
// f(nTrain) - f(nTrain-1): the jump from the last training day to the first
// forecast day, never zero-padded.
func DailyPred(model models.Curve, params []float64, nTrain, nPred int) []float64 {
	if nPred <= 0 {
		return []float64{}
	}
	x := models.IndexRange(nTrain-1, nTrain-1+nPred)
	cum := model.Eval(x, params)
	daily := make([]float64, nPred)
	floats.SubTo(daily, cum[1:], cum[:nPred])
	return daily
}

// CumulativePred re-accumulates daily increments into a dated cumulative
// series: value i is lastActual plus the first i+1 increments, dated
// lastDate+1, lastDate+2, ...
func CumulativePred(lastActual float64, daily []float64, lastDate time.Time) series.Series {
	if len(daily) == 0 {
		return series.Series{}
	}
	dated := series.Series{
		Dates:  series.DateRange(lastDate, len(daily)),
		Values: daily,
	}
	return series.Accumulate(lastActual, dated)
}

// Spec bundles the inputs of a full fit-predict-plot run.
type Spec struct {
	// Model, Bounds, and Seed select and constrain the curve.
	Model  models.Curve
	Bounds fit.Bounds
	Seed   []float64

	// StartDate and LastDate bracket the training window.
	StartDate time.Time
	LastDate  time.Time

	// SmoothWindow is the LOWESS window passed to the smoother.
	SmoothWindow int

	// NPred is the forecast horizon in days.
	NPred int

	// Title labels the rendered plot.
	Title string

	// Fit carries the optimizer tolerances.
	Fit fit.Options
}

// Result is what a PredictAll run produces.
type Result struct {
	Params     []float64
	Daily      []float64
	Cumulative series.Series
}

// PredictAll composes the pipeline: smooth the series up to LastDate,
// restrict to StartDate onward, train, predict daily increments, re-anchor
// them at the raw series' last actual value, and plot.
//
// The cumulative forecast is anchored at the true last observation, not the
// smoothed one, so the forecast lines up with published counts.
func PredictAll(s series.Series, spec Spec, smoother Smoother, plotter Plotter) (Result, error) {
	smoothed, err := smoother(s.UpTo(spec.LastDate), spec.SmoothWindow)
	if err != nil {
		return Result{}, fmt.Errorf("smooth: %w", err)
	}

	train := smoothed.From(spec.StartDate)
	if train.Len() == 0 {
		return Result{}, fmt.Errorf("window [%s, %s]: %w",
			spec.StartDate.Format("2006-01-02"), spec.LastDate.Format("2006-01-02"), ErrEmptyWindow)
	}

	params, err := Train(train, spec.LastDate, spec.Model, spec.Bounds, spec.Seed, spec.Fit)
	if err != nil {
		return Result{}, fmt.Errorf("train: %w", err)
	}

	daily := DailyPred(spec.Model, params, train.Len(), spec.NPred)

	anchor := s.UpTo(spec.LastDate)
	var lastDate time.Time
	var lastActual float64
	if anchor.Len() > 0 {
		lastDate, lastActual = anchor.Last()
	}
	cumulative := CumulativePred(lastActual, daily, lastDate)

	if plotter != nil {
		if err := plotter.Plot(s, cumulative, spec.Title); err != nil {
			return Result{}, fmt.Errorf("plot: %w", err)
		}
	}

	return Result{Params: params, Daily: daily, Cumulative: cumulative}, nil
}
