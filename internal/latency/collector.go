// Collector storing validated latency samples for one validation run
package latency

import (
	"log/slog"
	"math"
	"sync"
	"time"
)

// Collector captures latency samples across the swarm at the harness cadence
// (nominally 10Hz). The store is append-only; Reset is the only way to shrink
// it. Append and the per-kind counter update share one lock so readers never
// observe a counter/store mismatch.
type Collector struct {
	mu           sync.Mutex
	log          *slog.Logger
	measurements []Measurement
	counts       map[MetricKind]int
	now          func() time.Time
}

// NewCollector returns an empty collector. A nil logger falls back to
// slog.Default().
func NewCollector(log *slog.Logger) *Collector {
	if log == nil {
		log = slog.Default()
	}
	return &Collector{
		log:    log,
		counts: make(map[MetricKind]int, len(Kinds)),
		now:    time.Now,
	}
}

// Record validates and appends one latency sample. Malformed input is dropped
// from the store and logged at WARN; the return value reports whether the
// sample was stored and exists only for logging. Record never returns an
// error and never panics, so instrumented code cannot be destabilized by bad
// telemetry.
func (c *Collector) Record(kind MetricKind, satelliteID string, scenarioTimeS, durationMS float64) bool {
	if satelliteID == "" {
		c.log.Warn("invalid satellite_id", "satellite_id", satelliteID, "metric_type", string(kind))
		return false
	}
	if !finite(scenarioTimeS) || scenarioTimeS < 0 {
		c.log.Warn("invalid scenario_time_s", "scenario_time_s", scenarioTimeS, "satellite_id", satelliteID)
		return false
	}
	if !finite(durationMS) || durationMS < 0 {
		c.log.Warn("invalid duration_ms", "duration_ms", durationMS, "satellite_id", satelliteID)
		return false
	}
	if !kind.Valid() {
		c.log.Warn("invalid metric kind", "metric_type", string(kind), "satellite_id", satelliteID)
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.measurements = append(c.measurements, Measurement{
		Timestamp:     c.now(),
		MetricType:    kind,
		SatelliteID:   satelliteID,
		DurationMS:    durationMS,
		ScenarioTimeS: scenarioTimeS,
	})
	c.counts[kind]++
	c.log.Debug("recorded latency sample",
		"metric_type", string(kind), "satellite_id", satelliteID, "duration_ms", durationMS)
	return true
}

// Len returns the number of stored measurements.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.measurements)
}

// Snapshot returns a copy of all stored measurements in insertion order.
func (c *Collector) Snapshot() []Measurement {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Measurement, len(c.measurements))
	copy(out, c.measurements)
	return out
}

// Reset discards all measurements and counters together.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.measurements = nil
	c.counts = make(map[MetricKind]int, len(Kinds))
}

// finite rejects NaN and ±Inf, which would otherwise slip past the sign
// checks and poison the aggregates.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
