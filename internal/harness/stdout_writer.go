// Writer implementation printing measurements to STDOUT
package harness

import (
	"encoding/json"
	"fmt"

	"hilmetrics/internal/latency"
)

// StdoutWriter prints measurements to STDOUT as JSON lines.
type StdoutWriter struct{}

// Write outputs a single measurement.
func (w *StdoutWriter) Write(m latency.Measurement) error {
	data, _ := json.Marshal(m)
	fmt.Println(string(data))
	return nil
}

// WriteBatch outputs multiple measurements.
func (w *StdoutWriter) WriteBatch(ms []latency.Measurement) error {
	for _, m := range ms {
		_ = w.Write(m)
	}
	return nil
}
