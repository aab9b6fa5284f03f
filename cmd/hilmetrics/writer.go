package main

import (
	"io"
	"log/slog"
	"os"

	"hilmetrics/internal/harness"
	"hilmetrics/internal/latency"
)

// newWriters assembles the measurement sink chain from flags and env vars.
// It returns the writer and a cleanup function to close any resources.
func newWriters(collector *latency.Collector, printOnly, tui bool, logFile string, log *slog.Logger) (harness.MeasurementWriter, func(), error) {
	cleanup := func() {}

	writer, err := baseWriter(collector, printOnly, tui, log)
	if err != nil {
		return nil, nil, err
	}
	if c, ok := writer.(io.Closer); ok {
		cleanup = func() { c.Close() }
	}
	if logFile == "" {
		return writer, cleanup, nil
	}

	fw, err := harness.NewFileWriter(logFile)
	if err != nil {
		return nil, nil, err
	}
	mw := harness.NewMultiWriter(writer, fw)
	base := cleanup
	cleanup = func() {
		fw.Close()
		base()
	}
	return mw, cleanup, nil
}

// baseWriter chooses the primary sink: TUI, GreptimeDB when an endpoint is
// configured, STDOUT otherwise.
func baseWriter(collector *latency.Collector, printOnly, tui bool, log *slog.Logger) (harness.MeasurementWriter, error) {
	if tui {
		return harness.NewTUIWriter(collector), nil
	}
	if printOnly || os.Getenv("GREPTIMEDB_ENDPOINT") == "" {
		return &harness.StdoutWriter{}, nil
	}

	endpoint := os.Getenv("GREPTIMEDB_ENDPOINT")
	database := os.Getenv("GREPTIMEDB_DATABASE")
	if database == "" {
		database = "public"
	}
	table := os.Getenv("GREPTIMEDB_TABLE")
	return harness.NewGreptimeWriter(endpoint, database, table, log)
}
