package harness

import (
	"encoding/json"
	"os"

	"hilmetrics/internal/latency"
)

// FileWriter appends measurements to a JSONL run log, the format ReplayLog
// reads back.
type FileWriter struct {
	file *os.File
	enc  *json.Encoder
}

// NewFileWriter creates a FileWriter truncating any existing log at path.
func NewFileWriter(path string) (*FileWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &FileWriter{file: f, enc: json.NewEncoder(f)}, nil
}

// Write logs a single measurement.
func (f *FileWriter) Write(m latency.Measurement) error {
	return f.enc.Encode(m)
}

// WriteBatch logs multiple measurements.
func (f *FileWriter) WriteBatch(ms []latency.Measurement) error {
	for _, m := range ms {
		if err := f.Write(m); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying file.
func (f *FileWriter) Close() error {
	return f.file.Close()
}
