package latency

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// csvHeader is the fixed export column order.
var csvHeader = []string{"timestamp", "metric_type", "satellite_id", "duration_ms", "scenario_time_s"}

// ExportCSV writes all stored measurements to path, creating missing parent
// directories. An empty path or empty store is a no-op. Rows that cannot be
// serialized are skipped and logged; file-system failures are logged and
// returned, since losing an export silently is unacceptable.
func (c *Collector) ExportCSV(path string) error {
	if path == "" {
		c.log.Error("invalid export path", "path", path)
		return nil
	}
	rows := c.Snapshot()
	if len(rows) == 0 {
		c.log.Warn("no measurements to export", "path", path)
		return nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			c.log.Error("create export directory failed", "dir", dir, "error", err)
			return fmt.Errorf("create export directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		c.log.Error("create export file failed", "path", path, "error", err)
		return fmt.Errorf("create export file: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		f.Close()
		c.log.Error("write export header failed", "path", path, "error", err)
		return fmt.Errorf("write export header: %w", err)
	}
	written := 0
	for _, m := range rows {
		rec, err := csvRecord(m)
		if err != nil {
			c.log.Warn("skipping measurement row", "satellite_id", m.SatelliteID, "error", err)
			continue
		}
		if err := w.Write(rec); err != nil {
			f.Close()
			c.log.Error("write export row failed", "path", path, "error", err)
			return fmt.Errorf("write export row: %w", err)
		}
		written++
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		c.log.Error("flush export failed", "path", path, "error", err)
		return fmt.Errorf("flush export: %w", err)
	}
	if err := f.Close(); err != nil {
		c.log.Error("close export file failed", "path", path, "error", err)
		return fmt.Errorf("close export file: %w", err)
	}

	c.log.Info("exported measurements", "count", written, "path", path)
	return nil
}

// csvRecord serializes one measurement. Timestamps use RFC3339Nano and floats
// the shortest round-tripping form, so a re-parse recovers every field
// exactly.
func csvRecord(m Measurement) ([]string, error) {
	if math.IsNaN(m.DurationMS) || math.IsInf(m.DurationMS, 0) {
		return nil, fmt.Errorf("duration_ms is not finite: %v", m.DurationMS)
	}
	if math.IsNaN(m.ScenarioTimeS) || math.IsInf(m.ScenarioTimeS, 0) {
		return nil, fmt.Errorf("scenario_time_s is not finite: %v", m.ScenarioTimeS)
	}
	return []string{
		m.Timestamp.Format(time.RFC3339Nano),
		string(m.MetricType),
		m.SatelliteID,
		strconv.FormatFloat(m.DurationMS, 'g', -1, 64),
		strconv.FormatFloat(m.ScenarioTimeS, 'g', -1, 64),
	}, nil
}
