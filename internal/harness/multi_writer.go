package harness

import "hilmetrics/internal/latency"

// MultiWriter fans measurements out to multiple writers.
type MultiWriter struct {
	writers []MeasurementWriter
}

// NewMultiWriter creates a new MultiWriter.
func NewMultiWriter(writers ...MeasurementWriter) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write sends a measurement to all writers.
func (mw *MultiWriter) Write(m latency.Measurement) error {
	for _, w := range mw.writers {
		if err := w.Write(m); err != nil {
			return err
		}
	}
	return nil
}

// WriteBatch sends multiple measurements to all writers, using batch mode
// where supported.
func (mw *MultiWriter) WriteBatch(ms []latency.Measurement) error {
	for _, w := range mw.writers {
		if bw, ok := w.(batchMeasurementWriter); ok {
			if err := bw.WriteBatch(ms); err != nil {
				return err
			}
			continue
		}
		for _, m := range ms {
			if err := w.Write(m); err != nil {
				return err
			}
		}
	}
	return nil
}
