package ground

import (
	"context"
	"net"
	"strconv"

	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	ingesterContext "github.com/GreptimeTeam/greptimedb-ingester-go/context"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"
)

// GreptimeWriter archives accepted telemetry in GreptimeDB via the ingester
// client, for range setups with a time-series backend on the field laptop.
type GreptimeWriter struct {
	client *greptime.Client
	db     string
	table  string
}

// NewGreptimeWriter connects to endpoint ("host" or "host:port"). The table is
// auto-created by GreptimeDB on first write; the ingester client exposes no SQL
// interface, so no explicit DDL (and no table TTL) is applied.
func NewGreptimeWriter(endpoint, database, tableName string) (*GreptimeWriter, error) {
	if tableName == "" {
		tableName = "rocket_telemetry"
	}
	cfg := greptime.NewConfig(endpoint).WithDatabase(database)
	if host, port, err := net.SplitHostPort(endpoint); err == nil {
		if p, perr := strconv.Atoi(port); perr == nil {
			cfg = greptime.NewConfig(host).WithPort(p).WithDatabase(database)
		}
	}
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	return &GreptimeWriter{client: client, db: database, table: tableName}, nil
}

// Write inserts a single telemetry row.
func (w *GreptimeWriter) Write(row Row) error {
	ctx := ingesterContext.New(context.Background())

	tbl, err := table.New(w.table)
	if err != nil {
		return err
	}
	if err := tbl.AddTagColumn("session_id", types.STRING); err != nil {
		return err
	}
	for _, col := range []string{
		"timestamp_ms",
		"acc_x", "acc_y", "acc_z",
		"gyro_x", "gyro_y", "gyro_z",
		"temp_c", "pitch_deg", "roll_deg",
		"pressure_hpa", "altitude_m",
		"voltage_rocket_v", "voltage_base_v",
		"lat", "lon", "gps_alt_m",
	} {
		if err := tbl.AddFieldColumn(col, types.FLOAT64); err != nil {
			return err
		}
	}
	if err := tbl.AddTimestampColumn("received_at", types.TIMESTAMP_MILLISECOND); err != nil {
		return err
	}

	p := row.Packet
	if err := tbl.AddRow(
		row.SessionID,
		float64(p.Timestamp),
		float64(p.AccelX), float64(p.AccelY), float64(p.AccelZ),
		float64(p.GyroX), float64(p.GyroY), float64(p.GyroZ),
		float64(p.Temperature), float64(p.Pitch), float64(p.Roll),
		float64(p.Pressure), float64(p.Altitude),
		float64(p.VoltageRocket), row.BaseVoltage,
		float64(p.Latitude), float64(p.Longitude), float64(p.GPSAltitude),
		row.ReceivedAt,
	); err != nil {
		return err
	}

	_, err = w.client.Write(ctx, tbl)
	return err
}
