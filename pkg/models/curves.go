// Package models defines the closed set of exponential curve variants used
// for cumulative case-count fitting.
//
// Every curve shares the same pure signature: given an index array x
// (always 0..n-1 relative to the training window start) and a parameter
// vector p, return the predicted cumulative values. The caller picks the
// variant explicitly; there is no dynamic dispatch.
//
// Variants:
//
//	SimpleExp      y = a * b^x          growth, discrete rate b per day
//	ContExp        y = a * e^(b*x)      growth, continuous rate b
//	SimpleDecline  y = c - a * b^(-x)   rises toward asymptote c, b > 1
//	ContDecline    y = c - a * e^(-b*x) rises toward asymptote c, b > 0
package models

import (
	"math"

	"github.com/epiforge/epicurve/pkg/fit"
)

// Curve maps an index array and a parameter vector to predicted values.
// Implementations must be pure and must not retain or mutate x or p.
type Curve struct {
	// Name identifies the variant in logs and stored snapshots.
	Name string

	// Eval computes predictions for x under params p.
	Eval func(x, p []float64) []float64

	// Bounds are the default box constraints for fitting.
	Bounds fit.Bounds

	// Seed is the default initial guess.
	Seed []float64
}

// SimpleExp is the discrete growth model y = a * b^x.
// a is the level at x=0, b the per-day multiplicative growth factor.
var SimpleExp = Curve{
	Name: "simple_exp",
	Eval: func(x, p []float64) []float64 {
		out := make([]float64, len(x))
		for i, xi := range x {
			out[i] = p[0] * math.Pow(p[1], xi)
		}
		return out
	},
	Bounds: fit.Bounds{
		Lower: []float64{1, 1},
		Upper: []float64{math.Inf(1), 10},
	},
	Seed: []float64{1, 1},
}

// ContExp is the continuous growth model y = a * e^(b*x).
var ContExp = Curve{
	Name: "cont_exp",
	Eval: func(x, p []float64) []float64 {
		out := make([]float64, len(x))
		for i, xi := range x {
			out[i] = p[0] * math.Exp(p[1]*xi)
		}
		return out
	},
	Bounds: fit.Bounds{
		Lower: []float64{1, 0},
		Upper: []float64{math.Inf(1), 3},
	},
	Seed: []float64{1, 0.1},
}

// SimpleDecline is the discrete decline model y = c - a * b^(-x):
// cumulative counts rising toward the asymptote c with decay base b.
var SimpleDecline = Curve{
	Name: "simple_decline",
	Eval: func(x, p []float64) []float64 {
		out := make([]float64, len(x))
		for i, xi := range x {
			out[i] = p[2] - p[0]*math.Pow(p[1], -xi)
		}
		return out
	},
	Bounds: fit.Bounds{
		Lower: []float64{1, 1, 0},
		Upper: []float64{math.Inf(1), 10, math.Inf(1)},
	},
	Seed: []float64{1, 1.1, 1},
}

// ContDecline is the continuous decline model y = c - a * e^(-b*x).
var ContDecline = Curve{
	Name: "cont_decline",
	Eval: func(x, p []float64) []float64 {
		out := make([]float64, len(x))
		for i, xi := range x {
			out[i] = p[2] - p[0]*math.Exp(-p[1]*xi)
		}
		return out
	},
	Bounds: fit.Bounds{
		Lower: []float64{1, 0, 0},
		Upper: []float64{math.Inf(1), 3, math.Inf(1)},
	},
	Seed: []float64{1, 0.1, 1},
}

// Indices returns the index array 0..n-1 as floats.
func Indices(n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = float64(i)
	}
	return x
}

// IndexRange returns the index array lo..hi inclusive as floats.
func IndexRange(lo, hi int) []float64 {
	if hi < lo {
		return nil
	}
	x := make([]float64, hi-lo+1)
	for i := range x {
		x[i] = float64(lo + i)
	}
	return x
}
