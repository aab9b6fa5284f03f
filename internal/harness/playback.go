package harness

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"hilmetrics/internal/latency"
)

// ReplayLog re-records measurements from a JSONL run log into collector,
// re-validating every row on the way in. A speed > 0 paces playback by the
// recorded timestamps; speed <= 0 inserts no delay. Rows the collector
// rejects are dropped and logged by the collector itself.
func ReplayLog(r io.Reader, collector *latency.Collector, writer MeasurementWriter, speed float64) error {
	dec := json.NewDecoder(r)
	var prev time.Time
	for {
		var m latency.Measurement
		if err := dec.Decode(&m); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if !prev.IsZero() && speed > 0 {
			diff := m.Timestamp.Sub(prev)
			if speed != 1 {
				diff = time.Duration(float64(diff) / speed)
			}
			if diff > 0 {
				time.Sleep(diff)
			}
		}
		collector.Record(m.MetricType, m.SatelliteID, m.ScenarioTimeS, m.DurationMS)
		if writer != nil {
			if err := writer.Write(m); err != nil {
				return err
			}
		}
		prev = m.Timestamp
	}
}

// ReplayLogFile opens a run log and replays its measurements.
func ReplayLogFile(path string, collector *latency.Collector, writer MeasurementWriter, speed float64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return ReplayLog(f, collector, writer, speed)
}
