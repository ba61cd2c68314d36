package summary

import (
	"math"
	"testing"
)

func TestFromDaily_Growing(t *testing.T) {
	// 50% daily growth, the worked exponential example.
	daily := []float64{253.125, 379.6875, 569.53125}

	r := FromDaily(daily)

	if r.Trend != "growing" {
		t.Errorf("Trend = %q, want growing", r.Trend)
	}
	if math.Abs(r.GrowthFactor-1.5) > 1e-9 {
		t.Errorf("GrowthFactor = %f, want 1.5", r.GrowthFactor)
	}
	wantDoubling := math.Ln2 / math.Log(1.5)
	if math.Abs(r.DoublingDays-wantDoubling) > 1e-9 {
		t.Errorf("DoublingDays = %f, want %f", r.DoublingDays, wantDoubling)
	}
	if math.Abs(r.HorizonTotal-1202.34375) > 1e-9 {
		t.Errorf("HorizonTotal = %f, want 1202.34375", r.HorizonTotal)
	}
	if r.PeakDay != 2 || r.PeakDaily != 569.53125 {
		t.Errorf("peak = (%d, %f), want (2, 569.53125)", r.PeakDay, r.PeakDaily)
	}
}

func TestFromDaily_Declining(t *testing.T) {
	r := FromDaily([]float64{100, 80, 64})

	if r.Trend != "declining" {
		t.Errorf("Trend = %q, want declining", r.Trend)
	}
	if math.Abs(r.GrowthFactor-0.8) > 1e-9 {
		t.Errorf("GrowthFactor = %f, want 0.8", r.GrowthFactor)
	}
	if !math.IsInf(r.DoublingDays, 1) {
		t.Errorf("DoublingDays = %f, want +Inf", r.DoublingDays)
	}
	if r.PeakDay != 0 {
		t.Errorf("PeakDay = %d, want 0", r.PeakDay)
	}
}

func TestFromDaily_Flat(t *testing.T) {
	r := FromDaily([]float64{50, 50, 50, 50})

	if r.Trend != "flat" {
		t.Errorf("Trend = %q, want flat", r.Trend)
	}
	if r.GrowthFactor != 1 {
		t.Errorf("GrowthFactor = %f, want 1", r.GrowthFactor)
	}
	if !math.IsInf(r.DoublingDays, 1) {
		t.Errorf("DoublingDays = %f, want +Inf", r.DoublingDays)
	}
}

func TestFromDaily_Empty(t *testing.T) {
	r := FromDaily(nil)

	if r.Trend != "flat" || r.GrowthFactor != 1 || r.HorizonTotal != 0 {
		t.Errorf("zero report = %+v", r)
	}
}

func TestFromDaily_SanitizesBadValues(t *testing.T) {
	// Negatives and NaN are clamped to zero, and zero-valued neighbors
	// are skipped when averaging ratios.
	r := FromDaily([]float64{-5, math.NaN(), 100, 150})

	if math.Abs(r.HorizonTotal-250) > 1e-9 {
		t.Errorf("HorizonTotal = %f, want 250", r.HorizonTotal)
	}
	if math.Abs(r.GrowthFactor-1.5) > 1e-9 {
		t.Errorf("GrowthFactor = %f, want 1.5", r.GrowthFactor)
	}
}

func TestFromDaily_AllZero(t *testing.T) {
	r := FromDaily([]float64{0, 0, 0})

	if r.GrowthFactor != 1 {
		t.Errorf("GrowthFactor = %f, want 1 when no usable pairs", r.GrowthFactor)
	}
	if r.Trend != "flat" {
		t.Errorf("Trend = %q, want flat", r.Trend)
	}
}
