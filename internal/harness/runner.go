// Runner driving synthetic validation traffic into the latency collector
package harness

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"hilmetrics/internal/config"
	"hilmetrics/internal/latency"
	"hilmetrics/internal/logging"

	"github.com/google/uuid"
)

// MeasurementWriter is an interface to support different measurement sinks.
type MeasurementWriter interface {
	Write(latency.Measurement) error
}

// Optional: writers can also support batch mode.
type batchMeasurementWriter interface {
	WriteBatch([]latency.Measurement) error
}

// Runner stands in for the instrumented validation harness: at every tick it
// samples latencies for each satellite from the configured profiles, records
// them into the collector, and mirrors accepted samples to a sink. Chaos mode
// corrupts a fraction of samples so the collector's drop path is exercised
// under live load.
type Runner struct {
	runID       string
	satellites  []string
	profiles    map[latency.MetricKind]config.Profile
	collector   *latency.Collector
	writer      MeasurementWriter
	tick        time.Duration
	invalidRate float64
	chaosMode   bool
	start       time.Time
	rng         *rand.Rand
	now         func() time.Time
	mu          sync.Mutex
}

// NewRunner builds a runner from the run configuration. Profile keys that do
// not name a metric kind are ignored; the CUE schema rejects them upstream.
func NewRunner(cfg *config.RunConfig, collector *latency.Collector, writer MeasurementWriter, tick time.Duration) *Runner {
	profiles := make(map[latency.MetricKind]config.Profile, len(cfg.Profiles))
	for name, p := range cfg.Profiles {
		kind := latency.MetricKind(name)
		if !kind.Valid() {
			continue
		}
		profiles[kind] = p
	}
	return &Runner{
		runID:       uuid.NewString(),
		satellites:  cfg.SatelliteIDs(),
		profiles:    profiles,
		collector:   collector,
		writer:      writer,
		tick:        tick,
		invalidRate: cfg.Chaos.InvalidRate,
		chaosMode:   cfg.Chaos.InvalidRate > 0,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		now:         time.Now,
	}
}

// RunID returns the unique identifier of this run.
func (r *Runner) RunID() string { return r.runID }

// Satellites returns a copy of the expanded satellite IDs.
func (r *Runner) Satellites() []string {
	out := make([]string, len(r.satellites))
	copy(out, r.satellites)
	return out
}

// Chaos reports whether malformed-sample injection is active.
func (r *Runner) Chaos() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.chaosMode
}

// ToggleChaos flips malformed-sample injection and returns the new state.
func (r *Runner) ToggleChaos() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chaosMode = !r.chaosMode
	return r.chaosMode
}

// Run starts the tick loop and stops when the context is done.
func (r *Runner) Run(ctx context.Context) {
	log := logging.FromContext(ctx)
	log.Info("starting harness runner",
		"run_id", r.runID, "tick", r.tick, "satellites", len(r.satellites))

	r.mu.Lock()
	r.start = r.now()
	r.mu.Unlock()

	ticker := time.NewTicker(r.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.step(ctx)
		case <-ctx.Done():
			log.Info("stopping harness runner", "run_id", r.runID)
			return
		}
	}
}

// step emits one tick worth of samples.
func (r *Runner) step(ctx context.Context) {
	log := logging.FromContext(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()

	scenarioTime := r.now().Sub(r.start).Seconds()
	var batch []latency.Measurement
	for _, sat := range r.satellites {
		for kind, profile := range r.profiles {
			if r.rng.Float64() >= profile.Probability {
				continue
			}
			satID := sat
			duration := profile.MinMS + r.rng.Float64()*(profile.MaxMS-profile.MinMS)
			if r.chaosMode && r.rng.Float64() < r.invalidRate {
				satID, duration = r.corrupt(satID, duration)
			}
			if !r.collector.Record(kind, satID, scenarioTime, duration) {
				continue
			}
			batch = append(batch, latency.Measurement{
				Timestamp:     r.now(),
				MetricType:    kind,
				SatelliteID:   satID,
				DurationMS:    duration,
				ScenarioTimeS: scenarioTime,
			})
		}
	}

	if r.writer == nil || len(batch) == 0 {
		return
	}
	if bw, ok := r.writer.(batchMeasurementWriter); ok {
		if err := bw.WriteBatch(batch); err != nil {
			log.Error("write measurement batch failed", "error", err)
		}
		return
	}
	for _, m := range batch {
		if err := r.writer.Write(m); err != nil {
			log.Error("write measurement failed", "error", err)
			return
		}
	}
}

// corrupt turns a valid sample into one the collector must reject.
func (r *Runner) corrupt(satID string, duration float64) (string, float64) {
	if r.rng.Intn(2) == 0 {
		return "", duration
	}
	return satID, -duration - 1
}
