package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "weather_risk"

// Metrics holds the Prometheus counters, histograms, and gauges for the risk service.
type Metrics struct {
	AnalysesTotal    *prometheus.CounterVec   // labels: mode={forecast,historical}
	AnalysisDuration *prometheus.HistogramVec // labels: mode

	// Historical data provider metrics.
	HistorySource        *prometheus.CounterVec // labels: source={observed,synthetic}
	HistoryFetch         *prometheus.CounterVec // labels: outcome={success,error,insufficient}
	HistoryFetchDuration prometheus.Histogram
	ProviderUp           prometheus.Gauge

	// Geocoding metrics.
	GeocodeRequests *prometheus.CounterVec // labels: outcome={success,error,empty}
	GeocodeCache    *prometheus.CounterVec // labels: result={hit,miss}

	// Result publishing.
	Publish *prometheus.CounterVec // labels: outcome={success,error,dropped}
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.AnalysesTotal,
		m.AnalysisDuration,
		m.HistorySource,
		m.HistoryFetch,
		m.HistoryFetchDuration,
		m.ProviderUp,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.Publish,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Completed analyses by mode.",
		}, []string{"mode"}),
		AnalysisDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "End-to-end analysis duration, including provider calls.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"mode"}),
		HistorySource: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_source_total",
			Help:      "Historical analyses by the data source that backed them.",
		}, []string{"source"}),
		HistoryFetch: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_fetch_total",
			Help:      "Observed history fetches by outcome.",
		}, []string{"outcome"}),
		HistoryFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "history_fetch_duration_seconds",
			Help:      "Duration of a full observed history fetch.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		ProviderUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "provider_up",
			Help:      "1 when the last weather provider probe succeeded, 0 otherwise.",
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Reverse geocoding requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		Publish: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_total",
			Help:      "Result publications to Kafka by outcome.",
		}, []string{"outcome"}),
	}
}
