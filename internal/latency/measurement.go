// Measurement types for HIL latency tracking
package latency

import "time"

// MetricKind identifies one of the latency categories captured during a
// validation run.
type MetricKind string

const (
	FaultDetection MetricKind = "fault_detection"
	AgentDecision  MetricKind = "agent_decision"
	RecoveryAction MetricKind = "recovery_action"
)

// Kinds lists every member of the closed enumeration.
var Kinds = []MetricKind{FaultDetection, AgentDecision, RecoveryAction}

// Valid reports whether k names a known metric kind.
func (k MetricKind) Valid() bool {
	switch k {
	case FaultDetection, AgentDecision, RecoveryAction:
		return true
	}
	return false
}

// Measurement is a single latency sample. The timestamp is assigned by the
// collector at record time; scenario time is the simulation clock supplied by
// the harness and is independent of wall-clock time.
type Measurement struct {
	Timestamp     time.Time  `json:"timestamp"`
	MetricType    MetricKind `json:"metric_type"`
	SatelliteID   string     `json:"satellite_id"`
	DurationMS    float64    `json:"duration_ms"`
	ScenarioTimeS float64    `json:"scenario_time_s"`
}
