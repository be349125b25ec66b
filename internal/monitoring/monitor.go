package monitoring

import (
	"sync"
	"time"

	"github.com/rajanjha2004/HotelData/internal/models"
)

// Monitor keeps a snapshot of pipeline statistics for the dashboard
type Monitor struct {
	metrics      map[string]interface{}
	metricsMutex sync.RWMutex
	startTime    time.Time
	collector    *MetricsCollector
}

// NewMonitor creates a new monitoring instance
func NewMonitor() *Monitor {
	return &Monitor{
		metrics:   make(map[string]interface{}),
		startTime: time.Now(),
	}
}

// WithCollector mirrors recorded stages into prometheus metrics
func (m *Monitor) WithCollector(c *MetricsCollector) *Monitor {
	m.collector = c
	return m
}

// Collector returns the attached prometheus collector, if any
func (m *Monitor) Collector() *MetricsCollector {
	return m.collector
}

// RecordMetric records a metric value
func (m *Monitor) RecordMetric(name string, value interface{}) {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()
	m.metrics[name] = value
}

// GetMetric returns a specific metric value
func (m *Monitor) GetMetric(name string) (interface{}, bool) {
	m.metricsMutex.RLock()
	defer m.metricsMutex.RUnlock()
	value, exists := m.metrics[name]
	return value, exists
}

// GetMetrics returns a copy of all current metrics plus uptime
func (m *Monitor) GetMetrics() map[string]interface{} {
	m.metricsMutex.RLock()
	defer m.metricsMutex.RUnlock()

	metrics := make(map[string]interface{}, len(m.metrics)+1)
	for k, v := range m.metrics {
		metrics[k] = v
	}
	metrics["uptime_seconds"] = time.Since(m.startTime).Seconds()

	return metrics
}

// Reset clears all metrics
func (m *Monitor) Reset() {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()
	m.metrics = make(map[string]interface{})
}

// RecordStage records the outcome of one pipeline stage under "<stage>_" keys.
func (m *Monitor) RecordStage(stage string, elapsed time.Duration, err error) {
	m.metricsMutex.Lock()
	prefix := stage + "_"
	runs, _ := m.metrics[prefix+"runs"].(int)
	m.metrics[prefix+"runs"] = runs + 1
	m.metrics[prefix+"last_duration_ms"] = float64(elapsed.Microseconds()) / 1000
	m.metrics[prefix+"last_run"] = time.Now().Format(time.RFC3339)
	if err != nil {
		failures, _ := m.metrics[prefix+"errors"].(int)
		m.metrics[prefix+"errors"] = failures + 1
		m.metrics[prefix+"last_error"] = err.Error()
	}
	m.metricsMutex.Unlock()

	if m.collector != nil {
		m.collector.ObserveStage(stage, elapsed)
		if err != nil {
			m.collector.CountError(stage, models.ErrorKind(err))
		}
	}
}

// RecordLoad records the size of a freshly loaded table
func (m *Monitor) RecordLoad(source string, rows, skipped int) {
	m.metricsMutex.Lock()
	m.metrics["last_source"] = source
	m.metrics["loaded_rows"] = rows
	m.metrics["skipped_rows"] = skipped
	m.metricsMutex.Unlock()

	if m.collector != nil {
		m.collector.SetLoadedRows(rows, skipped)
	}
}

// RecordSessions records the number of open sessions
func (m *Monitor) RecordSessions(n int) {
	m.RecordMetric("active_sessions", n)
	if m.collector != nil {
		m.collector.SetActiveSessions(n)
	}
}
