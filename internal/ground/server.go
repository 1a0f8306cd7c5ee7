package ground

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"rocketlink/internal/wire"
)

//go:embed templates/index.html
var content embed.FS

// Server is the ground-station admin surface: a live HTML view of the
// latest packet, JSON payloads per sensor group, and the two flight-control
// actions. It only reads the station's latest-packet slot; all protocol
// work stays on the station's consumer loop.
type Server struct {
	station *Station
	tpl     *template.Template
}

func NewServer(station *Station) *Server {
	tpl := template.Must(template.New("index.html").ParseFS(content, "templates/index.html"))
	return &Server{station: station, tpl: tpl}
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /json", s.handleJSON)
	mux.HandleFunc("GET /json/motion", s.handleMotionJSON)
	mux.HandleFunc("GET /json/baro", s.handleBaroJSON)
	mux.HandleFunc("GET /json/power", s.handlePowerJSON)
	mux.HandleFunc("GET /json/gps", s.handleGPSJSON)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("POST /launch", s.handleLaunch)
	mux.HandleFunc("POST /arrival", s.handleArrival)
	return mux
}

// Start serves until ctx is done.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.routes()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
	return srv.ListenAndServe()
}

// Handler exposes the routed mux for tests.
func (s *Server) Handler() http.Handler { return s.routes() }

type indexData struct {
	Packet      wire.TelemetryPacket
	BaseVoltage float64
	HasPacket   bool
	LastSeen    string
	SessionID   string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	p, seen, ok := s.station.Latest()
	data := indexData{
		Packet:      p,
		BaseVoltage: s.station.BaseVoltage(),
		HasPacket:   ok,
		SessionID:   s.station.SessionID(),
	}
	if ok {
		data.LastSeen = humanize.Time(seen)
	}
	s.tpl.Execute(w, data)
}

func motionPayload(p wire.TelemetryPacket) map[string]any {
	return map[string]any{
		"acc_x": p.AccelX, "acc_y": p.AccelY, "acc_z": p.AccelZ,
		"gyro_x": p.GyroX, "gyro_y": p.GyroY, "gyro_z": p.GyroZ,
		"temp": p.Temperature, "pitch": p.Pitch, "roll": p.Roll,
	}
}

func baroPayload(p wire.TelemetryPacket) map[string]any {
	return map[string]any{"pressure": p.Pressure, "altitude": p.Altitude}
}

func gpsPayload(p wire.TelemetryPacket) map[string]any {
	return map[string]any{
		"latitude": p.Latitude, "longitude": p.Longitude, "altitude": p.GPSAltitude,
		"day": p.Day, "month": p.Month, "year": p.Year,
		"hour": p.Hour, "minute": p.Minute, "second": p.Second,
	}
}

func (s *Server) powerPayload(p wire.TelemetryPacket) map[string]any {
	return map[string]any{
		"voltage_rocket": p.VoltageRocket,
		"voltage_base":   s.station.BaseVoltage(),
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	p, _, _ := s.station.Latest()
	writeJSON(w, map[string]any{
		"sensors": map[string]any{
			"motion": motionPayload(p),
			"baro":   baroPayload(p),
			"power":  s.powerPayload(p),
			"gps":    gpsPayload(p),
		},
		"session_id":   s.station.SessionID(),
		"timestamp_ms": p.Timestamp,
	})
}

func (s *Server) handleMotionJSON(w http.ResponseWriter, r *http.Request) {
	p, _, _ := s.station.Latest()
	writeJSON(w, map[string]any{"motion": motionPayload(p)})
}

func (s *Server) handleBaroJSON(w http.ResponseWriter, r *http.Request) {
	p, _, _ := s.station.Latest()
	writeJSON(w, map[string]any{"baro": baroPayload(p)})
}

func (s *Server) handlePowerJSON(w http.ResponseWriter, r *http.Request) {
	p, _, _ := s.station.Latest()
	writeJSON(w, map[string]any{"power": s.powerPayload(p)})
}

func (s *Server) handleGPSJSON(w http.ResponseWriter, r *http.Request) {
	p, _, _ := s.station.Latest()
	writeJSON(w, map[string]any{"gps": gpsPayload(p)})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	_, seen, ok := s.station.Latest()
	stats := s.station.Stats()
	status := map[string]any{
		"session_id":       s.station.SessionID(),
		"node_id":          s.station.NodeID(),
		"packets_accepted": stats.PacketsAccepted,
		"packets_rejected": stats.PacketsRejected,
		"commands_sent":    stats.CommandsSent,
	}
	if ok {
		status["last_packet"] = humanize.Time(seen)
	} else {
		status["last_packet"] = "never"
	}
	writeJSON(w, status)
}

func (s *Server) sendCommand(w http.ResponseWriter, kind wire.CommandKind) {
	seq, err := s.station.SendCommand(kind)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, map[string]any{"command": kind.String(), "seq": seq})
}

func (s *Server) handleLaunch(w http.ResponseWriter, r *http.Request) {
	s.sendCommand(w, wire.CommandStartFlight)
}

func (s *Server) handleArrival(w http.ResponseWriter, r *http.Request) {
	s.sendCommand(w, wire.CommandEndFlight)
}
