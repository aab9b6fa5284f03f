package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"hilmetrics/internal/admin"
	"hilmetrics/internal/config"
	"hilmetrics/internal/harness"
	"hilmetrics/internal/latency"
	"hilmetrics/internal/logging"
)

var (
	runConfigPath string
	runSchemaPath string
	runTick       time.Duration
	runDuration   time.Duration
	runCSVPath    string
	runLogFile    string
	runPrintOnly  bool
	runTUI        bool
	runAdminAddr  string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a synthetic validation run and collect latency metrics",
	Long:  "run drives satellite latency samples into the collector at a fixed cadence, then exports CSV and prints the summary.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(runConfigPath, runSchemaPath)
		if err != nil {
			return err
		}

		log := logging.New()
		collector := latency.NewCollector(log)

		writer, cleanup, err := newWriters(collector, runPrintOnly, runTUI, runLogFile, log)
		if err != nil {
			return err
		}
		defer cleanup()

		tick := runTick
		if envTick := os.Getenv("TICK_INTERVAL"); envTick != "" {
			d, err := time.ParseDuration(envTick)
			if err != nil {
				return err
			}
			tick = d
		}

		ctx, cancel := context.WithCancel(logging.NewContext(context.Background(), log))
		defer cancel()

		runner := harness.NewRunner(cfg, collector, writer, tick)

		srv := admin.NewServer(collector, runner)
		go func() {
			log.Info("admin API listening", "addr", runAdminAddr)
			if err := srv.Start(ctx, runAdminAddr); err != nil && err != http.ErrServerClosed {
				log.Error("admin server failed", "error", err)
			}
		}()

		go runner.Run(ctx)

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		if runDuration > 0 {
			select {
			case <-sigs:
			case <-time.After(runDuration):
			}
		} else {
			<-sigs
		}
		cancel()

		csvPath := runCSVPath
		if csvPath == "" {
			csvPath = cfg.CSVPath
		}
		if csvPath != "" {
			if err := collector.ExportCSV(csvPath); err != nil {
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
	runCmd.Flags().StringVar(&runConfigPath, "config", "config/run.yaml", "Path to run configuration YAML")
	runCmd.Flags().StringVar(&runSchemaPath, "schema", "schemas/run.cue", "Path to CUE schema file")
	runCmd.Flags().DurationVar(&runTick, "tick", 100*time.Millisecond, "Sample tick interval (e.g. 100ms for 10Hz)")
	runCmd.Flags().DurationVar(&runDuration, "duration", 0, "Stop after this long (0 runs until SIGINT)")
	runCmd.Flags().StringVar(&runCSVPath, "csv", "", "CSV export path (overrides csv_path from config)")
	runCmd.Flags().StringVar(&runLogFile, "log-file", "", "Path to export a replayable measurement log (JSONL)")
	runCmd.Flags().BoolVar(&runPrintOnly, "print-only", false, "Print measurements to STDOUT instead of writing to DB")
	runCmd.Flags().BoolVar(&runTUI, "tui", false, "Render a live latency dashboard")
	runCmd.Flags().StringVar(&runAdminAddr, "admin-addr", ":8080", "Admin API listen address")
}
