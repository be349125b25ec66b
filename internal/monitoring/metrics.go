package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector owns a private prometheus registry for the dashboard
type MetricsCollector struct {
	registry *prometheus.Registry
	metrics  map[string]prometheus.Collector

	stageDuration  *prometheus.HistogramVec
	pipelineErrors *prometheus.CounterVec
	loadedRows     *prometheus.GaugeVec
	activeSessions prometheus.Gauge
}

// NewMetricsCollector creates and registers the pipeline metrics
func NewMetricsCollector() *MetricsCollector {
	registry := prometheus.NewRegistry()

	stageDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hoteldata_stage_duration_seconds",
			Help:    "Time spent in each pipeline stage",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
		},
		[]string{"stage"},
	)

	pipelineErrors := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hoteldata_pipeline_errors_total",
			Help: "Pipeline failures by stage and error kind",
		},
		[]string{"stage", "kind"},
	)

	loadedRows := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "hoteldata_loaded_rows",
			Help: "Rows kept and skipped by the most recent load",
		},
		[]string{"state"},
	)

	activeSessions := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "hoteldata_active_sessions",
			Help: "Number of open dashboard sessions",
		},
	)

	metrics := map[string]prometheus.Collector{
		"stage_duration":  stageDuration,
		"pipeline_errors": pipelineErrors,
		"loaded_rows":     loadedRows,
		"active_sessions": activeSessions,
	}

	for _, metric := range metrics {
		registry.MustRegister(metric)
	}

	return &MetricsCollector{
		registry:       registry,
		metrics:        metrics,
		stageDuration:  stageDuration,
		pipelineErrors: pipelineErrors,
		loadedRows:     loadedRows,
		activeSessions: activeSessions,
	}
}

func (c *MetricsCollector) ObserveStage(stage string, elapsed time.Duration) {
	c.stageDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
}

func (c *MetricsCollector) CountError(stage, kind string) {
	c.pipelineErrors.WithLabelValues(stage, kind).Inc()
}

func (c *MetricsCollector) SetLoadedRows(kept, skipped int) {
	c.loadedRows.WithLabelValues("kept").Set(float64(kept))
	c.loadedRows.WithLabelValues("skipped").Set(float64(skipped))
}

func (c *MetricsCollector) SetActiveSessions(n int) {
	c.activeSessions.Set(float64(n))
}

// Registry exposes the private registry, mainly for tests
func (c *MetricsCollector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the prometheus exposition format
func (c *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
