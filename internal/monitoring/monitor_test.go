package monitoring

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rajanjha2004/HotelData/internal/models"
)

func TestMonitor_GetMetrics(t *testing.T) {
	m := NewMonitor()
	m.RecordMetric("loaded_rows", 42)

	metrics := m.GetMetrics()

	value, exists := metrics["loaded_rows"]
	if !exists {
		t.Fatalf("Expected 'loaded_rows' to be present in metrics, but it was not")
	}
	if value != 42 {
		t.Errorf("Expected 'loaded_rows' to be 42, but got %v", value)
	}

	if _, exists = metrics["uptime_seconds"]; !exists {
		t.Errorf("Expected 'uptime_seconds' to be present in metrics, but it was not")
	}
}

func TestMonitor_RecordStage(t *testing.T) {
	m := NewMonitor()

	m.RecordStage("forecast", 1500*time.Microsecond, nil)
	m.RecordStage("forecast", time.Millisecond, &models.InsufficientDataError{Have: 3, Need: 14})

	metrics := m.GetMetrics()
	if runs := metrics["forecast_runs"]; runs != 2 {
		t.Errorf("Expected 'forecast_runs' to be 2, but got %v", runs)
	}
	if errs := metrics["forecast_errors"]; errs != 1 {
		t.Errorf("Expected 'forecast_errors' to be 1, but got %v", errs)
	}
	if d := metrics["forecast_last_duration_ms"]; d != 1.0 {
		t.Errorf("Expected 'forecast_last_duration_ms' to be 1, but got %v", d)
	}
	if _, exists := metrics["forecast_last_run"]; !exists {
		t.Errorf("Expected 'forecast_last_run' to be present in metrics, but it was not")
	}
	if msg, _ := metrics["forecast_last_error"].(string); !strings.Contains(msg, "insufficient data") {
		t.Errorf("Expected 'forecast_last_error' to describe the failure, got %q", msg)
	}
}

func TestMonitor_Reset(t *testing.T) {
	m := NewMonitor()
	m.RecordMetric("loaded_rows", 42)

	m.Reset()

	metrics := m.GetMetrics()
	if _, exists := metrics["loaded_rows"]; exists {
		t.Errorf("Expected 'loaded_rows' to be removed after Reset(), but it was present")
	}
	if _, exists := metrics["uptime_seconds"]; !exists {
		t.Errorf("Expected 'uptime_seconds' to be present in metrics, but it was not")
	}
}

func gaugeValue(t *testing.T, c *MetricsCollector, name string) float64 {
	t.Helper()
	families, err := c.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == name && len(mf.GetMetric()) > 0 {
			return mf.GetMetric()[0].GetGauge().GetValue()
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}

func TestMetricsCollector_MirrorsMonitor(t *testing.T) {
	c := NewMetricsCollector()
	m := NewMonitor().WithCollector(c)

	m.RecordSessions(3)
	m.RecordLoad("orders.csv", 120, 4)
	m.RecordStage("aggregate", 2*time.Millisecond, nil)
	m.RecordStage("load", time.Millisecond, &models.SchemaError{Missing: []string{"timestamp"}})
	m.RecordStage("load", time.Millisecond, errors.New("disk on fire"))

	if v := gaugeValue(t, c, "hoteldata_active_sessions"); v != 3 {
		t.Errorf("active sessions = %v, want 3", v)
	}

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	out := string(body)

	for _, want := range []string{
		`hoteldata_loaded_rows{state="kept"} 120`,
		`hoteldata_loaded_rows{state="skipped"} 4`,
		`hoteldata_pipeline_errors_total{kind="schema",stage="load"} 1`,
		`hoteldata_pipeline_errors_total{kind="internal",stage="load"} 1`,
		`hoteldata_stage_duration_seconds_count{stage="aggregate"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
