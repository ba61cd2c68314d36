// Package metrics provides Prometheus instrumentation for the forecaster.
//
// Metrics exposed:
//   - epicurve_dataset_fetch_seconds: Histogram of dataset download latency
//   - epicurve_dataset_fetch_errors_total: Counter of dataset fetch errors
//   - epicurve_fit_seconds: Histogram of per-area fit durations
//   - epicurve_fit_errors_total: Counter of fit failures by area
//   - epicurve_areas_fitted: Gauge of areas fitted in the last cycle
//   - epicurve_growth_factor: Gauge of the fitted growth factor by area
//   - epicurve_snapshot_age_seconds: Gauge of the latest snapshot age
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	DatasetFetchSeconds prometheus.Histogram
	DatasetFetchErrors  prometheus.Counter
	FitSeconds          *prometheus.HistogramVec
	FitErrors           *prometheus.CounterVec
	AreasFitted         prometheus.Gauge
	GrowthFactor        *prometheus.GaugeVec
	SnapshotAge         prometheus.Gauge
}

func New() *Metrics {
	return &Metrics{
		DatasetFetchSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "epicurve_dataset_fetch_seconds",
			Help:    "Duration of dataset downloads",
			Buckets: prometheus.DefBuckets,
		}),

		DatasetFetchErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "epicurve_dataset_fetch_errors_total",
			Help: "Total number of dataset fetch errors",
		}),

		FitSeconds: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "epicurve_fit_seconds",
			Help:    "Duration of curve fits by area",
			Buckets: prometheus.DefBuckets,
		}, []string{"area"}),

		FitErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "epicurve_fit_errors_total",
			Help: "Total number of fit failures by area",
		}, []string{"area"}),

		AreasFitted: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "epicurve_areas_fitted",
			Help: "Number of areas fitted in the last cycle",
		}),

		GrowthFactor: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "epicurve_growth_factor",
			Help: "Fitted per-day growth factor by area",
		}, []string{"area"}),

		SnapshotAge: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "epicurve_snapshot_age_seconds",
			Help: "Age of the most recent stored snapshot",
		}),
	}
}

func (m *Metrics) ObserveDatasetFetch(seconds float64) {
	m.DatasetFetchSeconds.Observe(seconds)
}

func (m *Metrics) RecordDatasetFetchError() {
	m.DatasetFetchErrors.Inc()
}

func (m *Metrics) ObserveFit(area string, seconds float64) {
	m.FitSeconds.WithLabelValues(area).Observe(seconds)
}

func (m *Metrics) RecordFitError(area string) {
	m.FitErrors.WithLabelValues(area).Inc()
}

func (m *Metrics) SetAreasFitted(n int) {
	m.AreasFitted.Set(float64(n))
}

func (m *Metrics) SetGrowthFactor(area string, factor float64) {
	m.GrowthFactor.WithLabelValues(area).Set(factor)
}

func (m *Metrics) SetSnapshotAge(seconds float64) {
	m.SnapshotAge.Set(seconds)
}
