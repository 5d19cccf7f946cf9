package observability

import (
	"testing"
	"time"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/tickets", "POST", 201, 40*time.Millisecond)
	m.RecordRequest("/tickets", "POST", 201, 20*time.Millisecond)
	m.RecordError("/tickets", "POST", "VALIDATION_FAILED")
	m.RecordClassification("FALLBACK")
	m.RecordClassification("FALLBACK")
	m.RecordClassification("REMOTE")

	s := m.Snapshot()
	if s.Requests["/tickets|POST|201"] != 2 {
		t.Errorf("Requests = %v", s.Requests)
	}
	if s.AvgLatencyMs["/tickets|POST|201"] != 30 {
		t.Errorf("AvgLatencyMs = %v", s.AvgLatencyMs)
	}
	if s.Errors["/tickets|POST|VALIDATION_FAILED"] != 1 {
		t.Errorf("Errors = %v", s.Errors)
	}
	if s.Classifications["FALLBACK"] != 2 || s.Classifications["REMOTE"] != 1 {
		t.Errorf("Classifications = %v", s.Classifications)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordError("/", "GET", "X")
	m.RecordClassification("REMOTE")
	if s := m.Snapshot(); len(s.Requests) != 0 {
		t.Errorf("Snapshot = %+v", s)
	}
}
