// Package series provides the date-indexed time series type shared by the
// dataset, smoothing, and forecasting layers.
//
// A Series holds cumulative counts: one non-negative value per calendar day,
// with strictly increasing dates. Model code never sees the dates; it works
// on index arrays 0..n-1 and dates are re-attached when output series are
// built.
package series

import (
	"errors"
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrLengthMismatch is returned when dates and values have different lengths.
	ErrLengthMismatch = errors.New("dates and values have different lengths")

	// ErrUnsorted is returned when dates are not strictly increasing.
	ErrUnsorted = errors.New("dates are not strictly increasing")

	// ErrDateNotFound is returned by At for dates outside the series.
	ErrDateNotFound = errors.New("date not found in series")
)

// Series is an ordered sequence of (date, value) pairs.
// Dates are day-resolution and strictly increasing.
type Series struct {
	Dates  []time.Time
	Values []float64
}

// New builds a Series after validating shape and ordering.
func New(dates []time.Time, values []float64) (Series, error) {
	if len(dates) != len(values) {
		return Series{}, fmt.Errorf("%d dates vs %d values: %w", len(dates), len(values), ErrLengthMismatch)
	}
	for i := 1; i < len(dates); i++ {
		if !dates[i].After(dates[i-1]) {
			return Series{}, fmt.Errorf("index %d: %w", i, ErrUnsorted)
		}
	}
	return Series{Dates: dates, Values: values}, nil
}

// Len returns the number of observations.
func (s Series) Len() int { return len(s.Values) }

// Last returns the final (date, value) pair.
// Panics on an empty series; callers slice first.
func (s Series) Last() (time.Time, float64) {
	n := s.Len()
	return s.Dates[n-1], s.Values[n-1]
}

// At returns the value recorded for the given date.
func (s Series) At(date time.Time) (float64, error) {
	d := date.Truncate(24 * time.Hour)
	for i, sd := range s.Dates {
		if sd.Equal(d) {
			return s.Values[i], nil
		}
	}
	return 0, fmt.Errorf("%s: %w", d.Format("2006-01-02"), ErrDateNotFound)
}

// UpTo returns the prefix of s with dates <= last.
func (s Series) UpTo(last time.Time) Series {
	i := 0
	for i < s.Len() && !s.Dates[i].After(last) {
		i++
	}
	return Series{Dates: s.Dates[:i], Values: s.Values[:i]}
}

// From returns the suffix of s with dates >= first.
func (s Series) From(first time.Time) Series {
	i := 0
	for i < s.Len() && s.Dates[i].Before(first) {
		i++
	}
	return Series{Dates: s.Dates[i:], Values: s.Values[i:]}
}

// Window returns the sub-series with first <= date <= last.
func (s Series) Window(first, last time.Time) Series {
	return s.From(first).UpTo(last)
}

// Daily returns the first-difference of a cumulative series: one increment
// per day starting at the second date. A series with fewer than two points
// yields an empty result.
func (s Series) Daily() Series {
	if s.Len() < 2 {
		return Series{}
	}
	inc := make([]float64, s.Len()-1)
	floats.SubTo(inc, s.Values[1:], s.Values[:s.Len()-1])
	return Series{Dates: s.Dates[1:], Values: inc}
}

// Accumulate turns daily increments into a cumulative series anchored at
// base: out[i] = base + sum(daily[0..i]).
func Accumulate(base float64, daily Series) Series {
	if daily.Len() == 0 {
		return Series{}
	}
	cum := make([]float64, daily.Len())
	copy(cum, daily.Values)
	floats.CumSum(cum, cum)
	floats.AddConst(base, cum)
	return Series{Dates: daily.Dates, Values: cum}
}

// DateRange returns n consecutive daily dates starting the day after anchor.
func DateRange(anchor time.Time, n int) []time.Time {
	dates := make([]time.Time, n)
	for i := range dates {
		dates[i] = anchor.AddDate(0, 0, i+1)
	}
	return dates
}
