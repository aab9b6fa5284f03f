package latency

import "sort"

// KindStats aggregates one metric kind across the whole run. Percentiles are
// taken at sorted index floor(count*p) without interpolation, so for small
// sample counts p95 and p99 collapse toward the maximum.
type KindStats struct {
	Count  int     `json:"count"`
	MeanMS float64 `json:"mean_ms"`
	P50MS  float64 `json:"p50_ms"`
	P95MS  float64 `json:"p95_ms"`
	P99MS  float64 `json:"p99_ms"`
	MaxMS  float64 `json:"max_ms"`
	MinMS  float64 `json:"min_ms"`
}

// SatelliteStats aggregates one metric kind for a single satellite. The
// per-satellite view omits p99; sample counts per satellite are too small for
// it to carry signal.
type SatelliteStats struct {
	Count  int     `json:"count"`
	MeanMS float64 `json:"mean_ms"`
	P50MS  float64 `json:"p50_ms"`
	P95MS  float64 `json:"p95_ms"`
	MaxMS  float64 `json:"max_ms"`
}

// Summary bundles the counters and both aggregate views for reporting.
type Summary struct {
	TotalMeasurements int                                      `json:"total_measurements"`
	MeasurementTypes  map[MetricKind]int                       `json:"measurement_types"`
	Stats             map[MetricKind]KindStats                 `json:"stats"`
	StatsBySatellite  map[string]map[MetricKind]SatelliteStats `json:"stats_by_satellite"`
}

// Stats groups all measurements by metric kind and aggregates each group.
// An empty collector yields an empty map, never an error.
func (c *Collector) Stats() map[MetricKind]KindStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return kindStats(c.measurements)
}

// StatsBySatellite groups measurements by satellite, then by kind. Satellite
// and kind combinations without samples are omitted, not zero-filled.
func (c *Collector) StatsBySatellite() map[string]map[MetricKind]SatelliteStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return satelliteStats(c.measurements)
}

// Summary returns the total count, per-kind insertion counters, and both
// aggregate views in one structure. With zero measurements the sub-structures
// stay empty and the aggregation routines are not invoked.
func (c *Collector) Summary() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Summary{
		MeasurementTypes: make(map[MetricKind]int, len(c.counts)),
		Stats:            make(map[MetricKind]KindStats),
		StatsBySatellite: make(map[string]map[MetricKind]SatelliteStats),
	}
	if len(c.measurements) == 0 {
		return s
	}
	s.TotalMeasurements = len(c.measurements)
	for kind, n := range c.counts {
		s.MeasurementTypes[kind] = n
	}
	s.Stats = kindStats(c.measurements)
	s.StatsBySatellite = satelliteStats(c.measurements)
	return s
}

func kindStats(measurements []Measurement) map[MetricKind]KindStats {
	stats := make(map[MetricKind]KindStats)
	byKind := make(map[MetricKind][]float64)
	for _, m := range measurements {
		byKind[m.MetricType] = append(byKind[m.MetricType], m.DurationMS)
	}
	for kind, latencies := range byKind {
		if len(latencies) == 0 {
			continue
		}
		sorted := append([]float64(nil), latencies...)
		sort.Float64s(sorted)
		n := len(sorted)
		stats[kind] = KindStats{
			Count:  n,
			MeanMS: mean(latencies),
			P50MS:  sorted[n/2],
			P95MS:  sorted[percentileIndex(n, 0.95)],
			P99MS:  sorted[percentileIndex(n, 0.99)],
			MaxMS:  sorted[n-1],
			MinMS:  sorted[0],
		}
	}
	return stats
}

func satelliteStats(measurements []Measurement) map[string]map[MetricKind]SatelliteStats {
	stats := make(map[string]map[MetricKind]SatelliteStats)
	bySat := make(map[string]map[MetricKind][]float64)
	for _, m := range measurements {
		kinds := bySat[m.SatelliteID]
		if kinds == nil {
			kinds = make(map[MetricKind][]float64)
			bySat[m.SatelliteID] = kinds
		}
		kinds[m.MetricType] = append(kinds[m.MetricType], m.DurationMS)
	}
	for satID, kinds := range bySat {
		stats[satID] = make(map[MetricKind]SatelliteStats, len(kinds))
		for kind, latencies := range kinds {
			if len(latencies) == 0 {
				continue
			}
			sorted := append([]float64(nil), latencies...)
			sort.Float64s(sorted)
			n := len(sorted)
			stats[satID][kind] = SatelliteStats{
				Count:  n,
				MeanMS: mean(latencies),
				P50MS:  sorted[n/2],
				P95MS:  sorted[percentileIndex(n, 0.95)],
				MaxMS:  sorted[n-1],
			}
		}
	}
	return stats
}

// percentileIndex is floor(n*p), clamped into range. For n >= 1 the floor is
// already below n, the clamp only guards against float rounding.
func percentileIndex(n int, p float64) int {
	idx := int(float64(n) * p)
	if idx > n-1 {
		idx = n - 1
	}
	return idx
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
