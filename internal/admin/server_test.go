package admin

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"hilmetrics/internal/config"
	"hilmetrics/internal/harness"
	"hilmetrics/internal/latency"
)

func testServer() (*Server, *latency.Collector) {
	collector := latency.NewCollector(slog.New(slog.DiscardHandler))
	cfg := &config.RunConfig{
		Constellations: []config.Constellation{{Name: "alpha", Prefix: "SAT", Count: 2}},
		Profiles:       map[string]config.Profile{"fault_detection": {Probability: 1, MinMS: 1, MaxMS: 2}},
	}
	runner := harness.NewRunner(cfg, collector, nil, time.Second)
	return NewServer(collector, runner), collector
}

func TestHandleSummary(t *testing.T) {
	srv, collector := testServer()
	collector.Record(latency.FaultDetection, "SAT1", 1.0, 5.0)

	req := httptest.NewRequest(http.MethodGet, "/summary", nil)
	w := httptest.NewRecorder()
	srv.handleSummary(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var sum latency.Summary
	if err := json.NewDecoder(resp.Body).Decode(&sum); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if sum.TotalMeasurements != 1 {
		t.Errorf("expected total 1, got %d", sum.TotalMeasurements)
	}
	if s, ok := sum.Stats[latency.FaultDetection]; !ok || s.MeanMS != 5.0 {
		t.Errorf("unexpected stats: %+v", sum.Stats)
	}
}

func TestHandleReset(t *testing.T) {
	srv, collector := testServer()
	collector.Record(latency.AgentDecision, "SAT2", 1.0, 10.0)

	w := httptest.NewRecorder()
	srv.handleReset(w, httptest.NewRequest(http.MethodPost, "/reset", nil))
	if w.Result().StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Result().StatusCode)
	}
	if collector.Len() != 0 {
		t.Error("expected collector to be empty after reset")
	}

	// GET must not reset
	collector.Record(latency.AgentDecision, "SAT2", 1.0, 10.0)
	w = httptest.NewRecorder()
	srv.handleReset(w, httptest.NewRequest(http.MethodGet, "/reset", nil))
	if w.Result().StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 for GET, got %d", w.Result().StatusCode)
	}
	if collector.Len() != 1 {
		t.Error("GET /reset must not clear the store")
	}
}

func TestHandleToggleChaos(t *testing.T) {
	srv, _ := testServer()

	w := httptest.NewRecorder()
	srv.handleToggleChaos(w, httptest.NewRequest(http.MethodPost, "/toggle-chaos", nil))
	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Result().StatusCode)
	}
	var body map[string]bool
	if err := json.NewDecoder(w.Result().Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !body["chaos"] {
		t.Error("expected chaos enabled after toggle")
	}
	if !srv.Runner.Chaos() {
		t.Error("runner chaos state not flipped")
	}
}

func TestHandleExport(t *testing.T) {
	srv, collector := testServer()
	collector.Record(latency.RecoveryAction, "SAT1", 2.0, 40.0)

	path := filepath.Join(t.TempDir(), "out.csv")
	target := "/export?path=" + url.QueryEscape(path)
	w := httptest.NewRecorder()
	srv.handleExport(w, httptest.NewRequest(http.MethodPost, target, nil))
	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Result().StatusCode)
	}

	// missing path is a client error
	w = httptest.NewRecorder()
	srv.handleExport(w, httptest.NewRequest(http.MethodPost, "/export", nil))
	if w.Result().StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 without path, got %d", w.Result().StatusCode)
	}
}
