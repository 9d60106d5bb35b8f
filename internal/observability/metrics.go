package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the ETL pipeline.
type Metrics struct {
	PostsConsumed     prometheus.Counter
	PostsProduced     prometheus.Counter
	TransformErrors   prometheus.Counter
	MalformedPosts    prometheus.Counter
	HighPriorityPosts prometheus.Counter
	PipelineRunning   prometheus.Gauge

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// Per-record analysis metrics.
	HazardTypePosts *prometheus.CounterVec // label: hazard_type

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec   // labels: outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec   // labels: result={hit,miss}
	GeocodeAPIDuration prometheus.Histogram
	GeocodeEnabled     prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		PostsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hazard_etl",
			Name:      "posts_consumed_total",
			Help:      "Total raw posts read from the source topic.",
		}),
		PostsProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hazard_etl",
			Name:      "posts_produced_total",
			Help:      "Total processed records written to the sink topic.",
		}),
		TransformErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hazard_etl",
			Name:      "transform_errors_total",
			Help:      "Total transformation failures.",
		}),
		MalformedPosts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hazard_etl",
			Name:      "malformed_posts_total",
			Help:      "Total posts that failed to decode and were degraded to defaults.",
		}),
		HighPriorityPosts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hazard_etl",
			Name:      "high_priority_posts_total",
			Help:      "Total records flagged high priority (high urgency, confident hazard).",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hazard_etl",
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hazard_etl",
			Name:      "batch_size",
			Help:      "Number of posts per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hazard_etl",
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-transform-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		HazardTypePosts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hazard_etl",
			Name:      "hazard_type_posts_total",
			Help:      "Processed records by classified hazard type.",
		}, []string{"hazard_type"}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hazard_etl",
			Name:      "geocode_requests_total",
			Help:      "Geocoding API requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hazard_etl",
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hazard_etl",
			Name:      "geocode_api_duration_seconds",
			Help:      "Nominatim API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		GeocodeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hazard_etl",
			Name:      "geocode_enabled",
			Help:      "1 when geocoding enrichment is enabled, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.PostsConsumed,
		m.PostsProduced,
		m.TransformErrors,
		m.MalformedPosts,
		m.HighPriorityPosts,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.HazardTypePosts,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.GeocodeEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		PostsConsumed:           prometheus.NewCounter(prometheus.CounterOpts{Namespace: "hazard_etl", Name: "posts_consumed_total"}),
		PostsProduced:           prometheus.NewCounter(prometheus.CounterOpts{Namespace: "hazard_etl", Name: "posts_produced_total"}),
		TransformErrors:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "hazard_etl", Name: "transform_errors_total"}),
		MalformedPosts:          prometheus.NewCounter(prometheus.CounterOpts{Namespace: "hazard_etl", Name: "malformed_posts_total"}),
		HighPriorityPosts:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "hazard_etl", Name: "high_priority_posts_total"}),
		PipelineRunning:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "hazard_etl", Name: "pipeline_running"}),
		BatchSize:               prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "hazard_etl", Name: "batch_size"}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "hazard_etl", Name: "batch_processing_duration_seconds"}),
		HazardTypePosts:         prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "hazard_etl", Name: "hazard_type_posts_total"}, []string{"hazard_type"}),
		GeocodeRequests:         prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "hazard_etl", Name: "geocode_requests_total"}, []string{"outcome"}),
		GeocodeCache:            prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "hazard_etl", Name: "geocode_cache_total"}, []string{"result"}),
		GeocodeAPIDuration:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "hazard_etl", Name: "geocode_api_duration_seconds"}),
		GeocodeEnabled:          prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "hazard_etl", Name: "geocode_enabled"}),
	}
}
