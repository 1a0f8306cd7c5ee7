package ground

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// rowMsg carries one accepted telemetry row into the TUI.
type rowMsg struct{ Row }

// TUIWriter renders the latest accepted packet in a terminal table.
type TUIWriter struct {
	program teaProgram
	done    chan struct{}
}

// NewTUIWriter starts a bubbletea program and returns a TUIWriter.
func NewTUIWriter(sessionID string) *TUIWriter {
	w := &TUIWriter{done: make(chan struct{})}
	p := tea.NewProgram(newTUIModel(sessionID), tea.WithAltScreen())
	w.program = p
	go func() {
		_, _ = p.Run()
		close(w.done)
	}()
	return w
}

// Write implements TelemetryWriter.
func (w *TUIWriter) Write(row Row) error {
	w.program.Send(rowMsg{row})
	return nil
}

// Done is closed when the TUI exits.
func (w *TUIWriter) Done() <-chan struct{} { return w.done }

var (
	tuiTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	tuiHeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

type tuiModel struct {
	sessionID string
	table     table.Model
	packets   int
}

func newTUIModel(sessionID string) tuiModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Field", Width: 20},
			{Title: "Value", Width: 16},
		}),
		table.WithHeight(18),
	)
	return tuiModel{sessionID: sessionID, table: t}
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case rowMsg:
		m.packets++
		m.table.SetRows(packetRows(msg.Row))
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m tuiModel) View() string {
	header := tuiTitleStyle.Render("Rocket Telemetry") + "  " +
		tuiHeaderStyle.Render(fmt.Sprintf("session %s · %d packets · q to quit", m.sessionID, m.packets))
	return header + "\n" + m.table.View() + "\n"
}

func packetRows(r Row) []table.Row {
	p := r.Packet
	f := func(v float32) string { return fmt.Sprintf("%.2f", v) }
	return []table.Row{
		{"accel x/y/z", fmt.Sprintf("%.2f %.2f %.2f", p.AccelX, p.AccelY, p.AccelZ)},
		{"gyro x/y/z", fmt.Sprintf("%.2f %.2f %.2f", p.GyroX, p.GyroY, p.GyroZ)},
		{"temperature", f(p.Temperature)},
		{"pitch", f(p.Pitch)},
		{"roll", f(p.Roll)},
		{"pressure", f(p.Pressure)},
		{"altitude", f(p.Altitude)},
		{"voltage rocket", f(p.VoltageRocket)},
		{"voltage base", fmt.Sprintf("%.2f", r.BaseVoltage)},
		{"latitude", fmt.Sprintf("%.6f", p.Latitude)},
		{"longitude", fmt.Sprintf("%.6f", p.Longitude)},
		{"gps altitude", f(p.GPSAltitude)},
		{"gps date", fmt.Sprintf("%04d-%02d-%02d", p.Year, p.Month, p.Day)},
		{"gps time", fmt.Sprintf("%02d:%02d:%02d", p.Hour, p.Minute, p.Second)},
		{"timestamp ms", fmt.Sprintf("%.0f", p.Timestamp)},
	}
}
