package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"hilmetrics/internal/harness"
	"hilmetrics/internal/latency"
)

func TestNewWritersPrintOnly(t *testing.T) {
	collector := latency.NewCollector(slog.New(slog.DiscardHandler))
	w, cleanup, err := newWriters(collector, true, false, "", slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("newWriters: %v", err)
	}
	defer cleanup()
	if _, ok := w.(*harness.StdoutWriter); !ok {
		t.Errorf("expected StdoutWriter, got %T", w)
	}
}

func TestNewWritersWithLogFile(t *testing.T) {
	collector := latency.NewCollector(slog.New(slog.DiscardHandler))
	logFile := filepath.Join(t.TempDir(), "run.jsonl")
	w, cleanup, err := newWriters(collector, true, false, logFile, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("newWriters: %v", err)
	}
	if _, ok := w.(*harness.MultiWriter); !ok {
		t.Errorf("expected MultiWriter, got %T", w)
	}
	cleanup()
	if _, err := os.Stat(logFile); err != nil {
		t.Errorf("expected log file to exist: %v", err)
	}
}
