package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"hilmetrics/internal/harness"
	"hilmetrics/internal/latency"
	"hilmetrics/internal/logging"
)

var (
	replayInput   string
	replaySpeed   float64
	replayCSVPath string
	replayEcho    bool
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a measurement log file",
	Long:  "replay feeds measurements from a JSONL run log back through a fresh collector, prints the summary, and optionally exports CSV.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if replayInput == "" {
			return fmt.Errorf("input file required")
		}

		log := logging.New()
		collector := latency.NewCollector(log)

		var writer harness.MeasurementWriter
		if replayEcho {
			writer = &harness.StdoutWriter{}
		}
		if err := harness.ReplayLogFile(replayInput, collector, writer, replaySpeed); err != nil {
			return err
		}

		if replayCSVPath != "" {
			if err := collector.ExportCSV(replayCSVPath); err != nil {
				return err
			}
		}

		out, err := json.MarshalIndent(collector.Summary(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayInput, "input", "", "Path to measurement log file (JSONL)")
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 0, "Playback speed multiplier (0 replays without pacing)")
	replayCmd.Flags().StringVar(&replayCSVPath, "csv", "", "CSV export path")
	replayCmd.Flags().BoolVar(&replayEcho, "echo", false, "Print replayed measurements to STDOUT")
	replayCmd.MarkFlagRequired("input")
}
