package harness

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"hilmetrics/internal/config"
	"hilmetrics/internal/latency"
)

// MockWriter collects measurements for validation.
type MockWriter struct {
	Measurements []latency.Measurement
}

func (w *MockWriter) Write(m latency.Measurement) error {
	w.Measurements = append(w.Measurements, m)
	return nil
}

func testCollector() *latency.Collector {
	return latency.NewCollector(slog.New(slog.DiscardHandler))
}

func testConfig(invalidRate float64) *config.RunConfig {
	return &config.RunConfig{
		RunName:        "test",
		Constellations: []config.Constellation{{Name: "alpha", Prefix: "SAT", Count: 3}},
		Profiles: map[string]config.Profile{
			"fault_detection": {Probability: 1, MinMS: 5, MaxMS: 10},
			"agent_decision":  {Probability: 1, MinMS: 20, MaxMS: 40},
		},
		Chaos: config.Chaos{InvalidRate: invalidRate},
	}
}

func TestRunnerStepRecordsSamples(t *testing.T) {
	collector := testCollector()
	writer := &MockWriter{}
	r := NewRunner(testConfig(0), collector, writer, 100*time.Millisecond)
	r.start = time.Now()

	r.step(context.Background())

	// probability-1 profiles: one sample per (satellite, kind)
	want := 3 * 2
	if got := collector.Len(); got != want {
		t.Fatalf("expected %d stored samples, got %d", want, got)
	}
	if len(writer.Measurements) != want {
		t.Fatalf("expected %d mirrored samples, got %d", want, len(writer.Measurements))
	}
	for _, m := range writer.Measurements {
		if m.SatelliteID == "" || !m.MetricType.Valid() {
			t.Errorf("mirrored measurement malformed: %+v", m)
		}
		if m.ScenarioTimeS < 0 {
			t.Errorf("negative scenario time: %+v", m)
		}
		if m.DurationMS < 5 || m.DurationMS > 40 {
			t.Errorf("duration outside profile range: %+v", m)
		}
	}
}

func TestRunnerChaosSamplesDropped(t *testing.T) {
	collector := testCollector()
	writer := &MockWriter{}
	r := NewRunner(testConfig(1), collector, writer, 100*time.Millisecond)
	r.start = time.Now()

	r.step(context.Background())

	// every sample corrupted, the collector must reject all of them
	if got := collector.Len(); got != 0 {
		t.Fatalf("expected no stored samples under full chaos, got %d", got)
	}
	if len(writer.Measurements) != 0 {
		t.Fatalf("rejected samples must not reach the sink, got %d", len(writer.Measurements))
	}
}

func TestRunnerIgnoresUnknownProfileKinds(t *testing.T) {
	cfg := testConfig(0)
	cfg.Profiles["telemetry_sync"] = config.Profile{Probability: 1, MinMS: 1, MaxMS: 2}
	r := NewRunner(cfg, testCollector(), nil, time.Second)

	if len(r.profiles) != 2 {
		t.Errorf("expected unknown profile kind to be dropped, got %v", r.profiles)
	}
}

func TestRunnerToggleChaos(t *testing.T) {
	r := NewRunner(testConfig(0), testCollector(), nil, time.Second)
	if r.Chaos() {
		t.Fatal("chaos should start disabled with zero invalid_rate")
	}
	if !r.ToggleChaos() || !r.Chaos() {
		t.Error("expected chaos enabled after toggle")
	}
	if r.ToggleChaos() || r.Chaos() {
		t.Error("expected chaos disabled after second toggle")
	}
}

func TestRunnerRunStopsOnCancel(t *testing.T) {
	collector := testCollector()
	r := NewRunner(testConfig(0), collector, nil, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("runner did not stop on context cancel")
	}
	if collector.Len() == 0 {
		t.Error("expected samples to be recorded while running")
	}
}
