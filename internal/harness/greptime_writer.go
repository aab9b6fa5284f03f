// Measurement sink streaming into GreptimeDB via the ingester client
package harness

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"

	"hilmetrics/internal/latency"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	ingesterContext "github.com/GreptimeTeam/greptimedb-ingester-go/context"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"
)

// greptimeClient abstracts the ingester client for testing.
type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeWriter streams latency measurements to GreptimeDB.
type GreptimeWriter struct {
	client greptimeClient
	table  string
	log    *slog.Logger
}

// NewGreptimeWriter connects to GreptimeDB and auto-creates the latency
// table if needed. An empty tableName defaults to "hil_latency".
func NewGreptimeWriter(endpoint, database, tableName string, log *slog.Logger) (*GreptimeWriter, error) {
	if tableName == "" {
		tableName = "hil_latency"
	}
	if log == nil {
		log = slog.Default()
	}

	cfg := greptime.NewConfig(endpoint).WithDatabase(database)
	if host, portStr, err := net.SplitHostPort(endpoint); err == nil {
		if port, err := strconv.Atoi(portStr); err == nil {
			cfg = greptime.NewConfig(host).WithPort(port).WithDatabase(database)
		}
	}
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect greptimedb: %w", err)
	}

	return &GreptimeWriter{client: client, table: tableName, log: log}, nil
}

// Write inserts a single measurement.
func (w *GreptimeWriter) Write(m latency.Measurement) error {
	return w.WriteBatch([]latency.Measurement{m})
}

// WriteBatch inserts multiple measurements.
func (w *GreptimeWriter) WriteBatch(ms []latency.Measurement) error {
	if len(ms) == 0 {
		return nil
	}

	// The ingester protocol auto-creates the table on first write; the ttl
	// hint carries the retention the SQL DDL would otherwise have set.
	ctx := ingesterContext.New(context.Background(),
		ingesterContext.WithHint([]*ingesterContext.Hint{{Key: "ttl", Value: "30d"}}))

	tbl, err := table.New(w.table)
	if err != nil {
		return err
	}
	tbl.AddTagColumn("satellite_id", types.STRING)
	tbl.AddTagColumn("metric_type", types.STRING)
	tbl.AddFieldColumn("duration_ms", types.FLOAT64)
	tbl.AddFieldColumn("scenario_time_s", types.FLOAT64)
	tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND)

	for _, m := range ms {
		if err := tbl.AddRow(m.SatelliteID, string(m.MetricType), m.DurationMS, m.ScenarioTimeS, m.Timestamp); err != nil {
			return err
		}
	}

	if _, err := w.client.Write(ctx, tbl); err != nil {
		w.log.Error("greptimedb write failed", "rows", len(ms), "error", err)
		return err
	}
	w.log.Debug("greptimedb wrote rows", "rows", len(ms))
	return nil
}
