// Package summary turns a forecast into headline epidemic figures
// (growth factor, doubling time, horizon totals) using deterministic,
// clamped arithmetic.
package summary

import (
	"math"
)

// Report is the derived view of one forecast.
type Report struct {
	// GrowthFactor is the average per-day multiplicative factor of the
	// predicted daily increments (1.0 = flat).
	GrowthFactor float64

	// DoublingDays is the time for daily counts to double at GrowthFactor.
	// +Inf when counts are flat or declining.
	DoublingDays float64

	// HorizonTotal is the predicted cumulative increase over the horizon.
	HorizonTotal float64

	// PeakDaily is the largest predicted daily increment, and PeakDay its
	// zero-based offset into the horizon.
	PeakDaily float64
	PeakDay   int

	// Trend is "growing", "declining", or "flat".
	Trend string
}

// trendEpsilon separates flat from growing/declining factors.
const trendEpsilon = 0.005

// FromDaily derives a Report from predicted daily increments.
// An empty forecast yields the zero Report with Trend "flat".
func FromDaily(daily []float64) Report {
	r := Report{GrowthFactor: 1, DoublingDays: math.Inf(1), Trend: "flat"}
	if len(daily) == 0 {
		return r
	}

	// ---- sanitize ----
	vals := make([]float64, len(daily))
	for i, v := range daily {
		if v < 0 || math.IsNaN(v) {
			v = 0
		}
		vals[i] = v
	}

	for i, v := range vals {
		r.HorizonTotal += v
		if v > r.PeakDaily {
			r.PeakDaily = v
			r.PeakDay = i
		}
	}

	r.GrowthFactor = meanRatio(vals)
	switch {
	case r.GrowthFactor > 1+trendEpsilon:
		r.Trend = "growing"
		r.DoublingDays = math.Ln2 / math.Log(r.GrowthFactor)
	case r.GrowthFactor < 1-trendEpsilon:
		r.Trend = "declining"
	}
	return r
}

// meanRatio is the geometric mean of consecutive daily ratios. Zero-valued
// neighbors are skipped; with no usable pairs the factor is 1.
func meanRatio(vals []float64) float64 {
	var logSum float64
	var pairs int
	for i := 1; i < len(vals); i++ {
		if vals[i-1] <= 0 || vals[i] <= 0 {
			continue
		}
		logSum += math.Log(vals[i] / vals[i-1])
		pairs++
	}
	if pairs == 0 {
		return 1
	}
	return math.Exp(logSum / float64(pairs))
}
