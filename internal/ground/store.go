// SQLite archive of accepted telemetry, one session row per ground boot.
package ground

import (
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

const initSchemaSQL = `
CREATE TABLE IF NOT EXISTS sessions (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    session_uuid TEXT NOT NULL UNIQUE,
    node_id      TEXT NOT NULL,
    started_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS telemetry (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id       INTEGER NOT NULL REFERENCES sessions(id),
    received_at      TIMESTAMP NOT NULL,
    timestamp_ms     REAL NOT NULL,
    acc_x            REAL, acc_y REAL, acc_z REAL,
    gyro_x           REAL, gyro_y REAL, gyro_z REAL,
    temp_c           REAL,
    pitch_deg        REAL, roll_deg REAL,
    pressure_hpa     REAL, altitude_m REAL,
    voltage_rocket_v REAL, voltage_base_v REAL,
    lat              REAL, lon REAL, gps_alt_m REAL,
    gps_day          INTEGER, gps_month INTEGER, gps_year INTEGER,
    gps_hour         INTEGER, gps_minute INTEGER, gps_second INTEGER
);

CREATE INDEX IF NOT EXISTS idx_telemetry_session ON telemetry(session_id, received_at);
`

const insertSessionSQL = `
INSERT INTO sessions (session_uuid, node_id) VALUES (?, ?)`

const insertTelemetrySQL = `
INSERT INTO telemetry (session_id,
                       received_at,
                       timestamp_ms,
                       acc_x, acc_y, acc_z,
                       gyro_x, gyro_y, gyro_z,
                       temp_c,
                       pitch_deg, roll_deg,
                       pressure_hpa, altitude_m,
                       voltage_rocket_v, voltage_base_v,
                       lat, lon, gps_alt_m,
                       gps_day, gps_month, gps_year,
                       gps_hour, gps_minute, gps_second)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// Store archives accepted telemetry in a SQLite database.
type Store struct {
	dbPath    string
	sessionID string
	nodeID    string

	once      sync.Once
	db        *sql.DB
	rowID     int64
	openErr   error
	closeOnce sync.Once
	closeErr  error
}

// NewStore returns a lazy store; the database opens on first write.
func NewStore(dbPath, sessionUUID, nodeID string) *Store {
	return &Store{dbPath: dbPath, sessionID: sessionUUID, nodeID: nodeID}
}

func (s *Store) open() (*sql.DB, int64, error) {
	s.once.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_journal_mode=WAL&_synchronous=NORMAL", s.dbPath))
		if err != nil {
			s.openErr = fmt.Errorf("opening archive: %w", err)
			return
		}
		if _, err := db.Exec(initSchemaSQL); err != nil {
			_ = db.Close()
			s.openErr = fmt.Errorf("initializing schema: %w", err)
			return
		}
		res, err := db.Exec(insertSessionSQL, s.sessionID, s.nodeID)
		if err != nil {
			_ = db.Close()
			s.openErr = fmt.Errorf("inserting session: %w", err)
			return
		}
		id, err := res.LastInsertId()
		if err != nil {
			_ = db.Close()
			s.openErr = fmt.Errorf("reading session id: %w", err)
			return
		}
		s.db = db
		s.rowID = id
	})
	return s.db, s.rowID, s.openErr
}

// Write implements TelemetryWriter.
func (s *Store) Write(row Row) error {
	db, sessionID, err := s.open()
	if err != nil {
		return err
	}
	p := row.Packet
	_, err = db.Exec(insertTelemetrySQL,
		sessionID,
		row.ReceivedAt,
		p.Timestamp,
		p.AccelX, p.AccelY, p.AccelZ,
		p.GyroX, p.GyroY, p.GyroZ,
		p.Temperature,
		p.Pitch, p.Roll,
		p.Pressure, p.Altitude,
		p.VoltageRocket, row.BaseVoltage,
		p.Latitude, p.Longitude, p.GPSAltitude,
		p.Day, p.Month, p.Year,
		p.Hour, p.Minute, p.Second,
	)
	if err != nil {
		return fmt.Errorf("inserting telemetry: %w", err)
	}
	return nil
}

// CountRows returns the number of archived packets for this session.
func (s *Store) CountRows() (int, error) {
	db, sessionID, err := s.open()
	if err != nil {
		return 0, err
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM telemetry WHERE session_id = ?`, sessionID).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting telemetry: %w", err)
	}
	return n, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		if s.db != nil {
			s.closeErr = s.db.Close()
		}
	})
	return s.closeErr
}
