// Package smooth implements LOWESS smoothing of a time series: for each
// point, a locally weighted linear regression over its nearest neighbors,
// with tricube weights. Smoothing runs before curve fitting to keep
// reporting noise out of the fitted parameters.
package smooth

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/epiforge/epicurve/pkg/series"
)

// ErrWindowTooSmall is returned for windows below two points.
var ErrWindowTooSmall = errors.New("smoothing window must be at least 2")

// Lowess smooths s with a locally weighted linear regression over the
// window nearest points, returning a series with the same date index.
//
// Values are clamped at zero since the inputs are counts. A window larger
// than the series uses the whole series for every local fit.
func Lowess(s series.Series, window int) (series.Series, error) {
	if window < 2 {
		return series.Series{}, fmt.Errorf("window %d: %w", window, ErrWindowTooSmall)
	}
	n := s.Len()
	if n == 0 {
		return series.Series{}, nil
	}
	if window > n {
		window = n
	}

	x := make([]float64, n)
	for i := range x {
		x[i] = float64(i)
	}

	smoothed := make([]float64, n)
	weights := make([]float64, n)

	for i := 0; i < n; i++ {
		lo, hi := neighborhood(i, n, window)

		// Tricube weights over the local span. The span is inflated a touch
		// so the furthest neighbor keeps a nonzero weight and the local fit
		// stays determined even at the minimum window.
		span := math.Max(x[i]-x[lo], x[hi]-x[i])
		if span == 0 {
			span = 1
		}
		span *= 1.0001
		wx := x[lo : hi+1]
		wy := s.Values[lo : hi+1]
		w := weights[lo : hi+1]
		for j := range wx {
			d := math.Abs(wx[j]-x[i]) / span
			t := 1 - d*d*d
			w[j] = t * t * t
		}

		alpha, beta := stat.LinearRegression(wx, wy, w, false)
		v := alpha + beta*x[i]
		if v < 0 {
			v = 0
		}
		smoothed[i] = v
	}

	return series.Series{Dates: s.Dates, Values: smoothed}, nil
}

// neighborhood picks the window nearest indices around i, shifted inward at
// the edges so the local fit always sees window points.
func neighborhood(i, n, window int) (lo, hi int) {
	lo = i - window/2
	if lo < 0 {
		lo = 0
	}
	hi = lo + window - 1
	if hi >= n {
		hi = n - 1
		lo = hi - window + 1
		if lo < 0 {
			lo = 0
		}
	}
	return lo, hi
}
