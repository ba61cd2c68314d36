package series

import (
	"errors"
	"math"
	"testing"
	"time"
)

func day(n int) time.Time {
	return time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func mustSeries(t *testing.T, n int, values []float64) Series {
	t.Helper()
	dates := make([]time.Time, len(values))
	for i := range dates {
		dates[i] = day(n + i)
	}
	s, err := New(dates, values)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		dates   []time.Time
		values  []float64
		wantErr error
	}{
		{
			name:    "length mismatch",
			dates:   []time.Time{day(0), day(1)},
			values:  []float64{1},
			wantErr: ErrLengthMismatch,
		},
		{
			name:    "unsorted dates",
			dates:   []time.Time{day(1), day(0)},
			values:  []float64{1, 2},
			wantErr: ErrUnsorted,
		},
		{
			name:    "duplicate dates",
			dates:   []time.Time{day(0), day(0)},
			values:  []float64{1, 2},
			wantErr: ErrUnsorted,
		},
		{
			name:   "valid",
			dates:  []time.Time{day(0), day(1), day(2)},
			values: []float64{1, 2, 3},
		},
		{
			name: "empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.dates, tt.values)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("New() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("New() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSeries_UpToFrom(t *testing.T) {
	s := mustSeries(t, 0, []float64{10, 20, 30, 40, 50})

	upTo := s.UpTo(day(2))
	if upTo.Len() != 3 {
		t.Errorf("UpTo len = %d, want 3", upTo.Len())
	}
	if upTo.Values[2] != 30 {
		t.Errorf("UpTo last value = %f, want 30", upTo.Values[2])
	}

	from := s.From(day(3))
	if from.Len() != 2 {
		t.Errorf("From len = %d, want 2", from.Len())
	}
	if from.Values[0] != 40 {
		t.Errorf("From first value = %f, want 40", from.Values[0])
	}

	window := s.Window(day(1), day(3))
	if window.Len() != 3 {
		t.Errorf("Window len = %d, want 3", window.Len())
	}

	// Bounds outside the series clamp to empty or full.
	if got := s.UpTo(day(-1)).Len(); got != 0 {
		t.Errorf("UpTo before start len = %d, want 0", got)
	}
	if got := s.From(day(10)).Len(); got != 0 {
		t.Errorf("From past end len = %d, want 0", got)
	}
	if got := s.UpTo(day(100)).Len(); got != 5 {
		t.Errorf("UpTo past end len = %d, want 5", got)
	}
}

func TestSeries_At(t *testing.T) {
	s := mustSeries(t, 0, []float64{10, 20, 30})

	v, err := s.At(day(1))
	if err != nil {
		t.Fatalf("At() error = %v", err)
	}
	if v != 20 {
		t.Errorf("At(day 1) = %f, want 20", v)
	}

	_, err = s.At(day(7))
	if !errors.Is(err, ErrDateNotFound) {
		t.Errorf("At(missing) error = %v, want %v", err, ErrDateNotFound)
	}
}

func TestSeries_Daily(t *testing.T) {
	s := mustSeries(t, 0, []float64{100, 150, 225, 337.5})

	daily := s.Daily()
	want := []float64{50, 75, 112.5}
	if daily.Len() != len(want) {
		t.Fatalf("Daily len = %d, want %d", daily.Len(), len(want))
	}
	for i, w := range want {
		if daily.Values[i] != w {
			t.Errorf("Daily[%d] = %f, want %f", i, daily.Values[i], w)
		}
	}
	if !daily.Dates[0].Equal(day(1)) {
		t.Errorf("Daily first date = %v, want %v", daily.Dates[0], day(1))
	}

	if got := mustSeries(t, 0, []float64{1}).Daily().Len(); got != 0 {
		t.Errorf("Daily of single point len = %d, want 0", got)
	}
}

func TestAccumulate_InvertsDaily(t *testing.T) {
	s := mustSeries(t, 0, []float64{100, 150, 225, 337.5, 506.25})

	rebuilt := Accumulate(s.Values[0], s.Daily())
	if rebuilt.Len() != s.Len()-1 {
		t.Fatalf("Accumulate len = %d, want %d", rebuilt.Len(), s.Len()-1)
	}
	for i := range rebuilt.Values {
		if math.Abs(rebuilt.Values[i]-s.Values[i+1]) > 1e-9 {
			t.Errorf("Accumulate[%d] = %f, want %f", i, rebuilt.Values[i], s.Values[i+1])
		}
	}
}

func TestAccumulate_Empty(t *testing.T) {
	if got := Accumulate(100, Series{}).Len(); got != 0 {
		t.Errorf("Accumulate of empty len = %d, want 0", got)
	}
}

func TestDateRange(t *testing.T) {
	dates := DateRange(day(4), 3)
	if len(dates) != 3 {
		t.Fatalf("DateRange len = %d, want 3", len(dates))
	}
	for i, want := range []time.Time{day(5), day(6), day(7)} {
		if !dates[i].Equal(want) {
			t.Errorf("DateRange[%d] = %v, want %v", i, dates[i], want)
		}
	}
	if got := len(DateRange(day(0), 0)); got != 0 {
		t.Errorf("DateRange(0) len = %d, want 0", got)
	}
}
