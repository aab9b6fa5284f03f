// Live latency dashboard rendered with bubbletea
package harness

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/term"

	"hilmetrics/internal/latency"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// measurementMsg carries one accepted sample into the model.
type measurementMsg struct{ latency.Measurement }

const maxLogLines = 200

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	borderStyle = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240"))
)

// TUIWriter renders live latency statistics using a bubbletea TUI. It
// implements MeasurementWriter, pulling fresh aggregates from the collector
// on every accepted sample.
type TUIWriter struct {
	program    teaProgram
	done       chan struct{}
	sendSignal atomic.Bool
}

// NewTUIWriter starts a bubbletea program and returns a TUIWriter.
func NewTUIWriter(collector *latency.Collector) *TUIWriter {
	w := &TUIWriter{done: make(chan struct{})}
	w.sendSignal.Store(true)
	m := newTUIModel(collector)
	p := tea.NewProgram(m, tea.WithAltScreen())
	w.program = p
	go func() {
		_, _ = p.Run()
		close(w.done)
		if w.sendSignal.Load() {
			if proc, err := os.FindProcess(os.Getpid()); err == nil {
				_ = proc.Signal(os.Interrupt)
			}
		}
	}()
	return w
}

// Write implements MeasurementWriter.
func (w *TUIWriter) Write(m latency.Measurement) error {
	w.program.Send(measurementMsg{m})
	return nil
}

// WriteBatch sends multiple measurements to the model.
func (w *TUIWriter) WriteBatch(ms []latency.Measurement) error {
	for _, m := range ms {
		_ = w.Write(m)
	}
	return nil
}

// Close shuts down the TUI program and waits for cleanup.
func (w *TUIWriter) Close() error {
	w.sendSignal.Store(false)
	if w.program != nil {
		w.program.Send(tea.Quit())
	}
	if w.done != nil {
		<-w.done
	}
	return nil
}

type tuiModel struct {
	collector  *latency.Collector
	kindTable  table.Model
	satTable   table.Model
	vp         viewport.Model
	logs       []string
	autoscroll bool
	width      int
	height     int
}

func newTUIModel(collector *latency.Collector) tuiModel {
	kindCols := []table.Column{
		{Title: "Metric", Width: 18},
		{Title: "Count", Width: 7},
		{Title: "Mean", Width: 9},
		{Title: "p50", Width: 9},
		{Title: "p95", Width: 9},
		{Title: "p99", Width: 9},
		{Title: "Max", Width: 9},
	}
	satCols := []table.Column{
		{Title: "Satellite", Width: 12},
		{Title: "Metric", Width: 18},
		{Title: "Count", Width: 7},
		{Title: "Mean", Width: 9},
		{Title: "p95", Width: 9},
		{Title: "Max", Width: 9},
	}
	kt := table.New(table.WithColumns(kindCols), table.WithHeight(len(latency.Kinds)+1))
	st := table.New(table.WithColumns(satCols), table.WithHeight(8))

	width, height := 100, 30
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	vp := viewport.New(width, height/3)

	return tuiModel{
		collector:  collector,
		kindTable:  kt,
		satTable:   st,
		vp:         vp,
		autoscroll: true,
		width:      width,
		height:     height,
	}
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "a":
			m.autoscroll = !m.autoscroll
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.vp.Width = msg.Width
		m.vp.Height = msg.Height / 3
	case measurementMsg:
		m.appendLog(fmt.Sprintf("[%s] sat=%s metric=%s duration=%.2fms t=%.1fs",
			msg.Timestamp.Format(time.RFC3339), msg.SatelliteID, msg.MetricType,
			msg.DurationMS, msg.ScenarioTimeS))
		m.refreshTables()
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m *tuiModel) appendLog(line string) {
	m.logs = append(m.logs, wordwrap.String(line, m.width))
	if len(m.logs) > maxLogLines {
		m.logs = m.logs[len(m.logs)-maxLogLines:]
	}
	m.vp.SetContent(strings.Join(m.logs, "\n"))
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m *tuiModel) refreshTables() {
	stats := m.collector.Stats()
	var kindRows []table.Row
	for _, kind := range latency.Kinds {
		s, ok := stats[kind]
		if !ok {
			continue
		}
		kindRows = append(kindRows, table.Row{
			string(kind),
			fmt.Sprintf("%d", s.Count),
			fmt.Sprintf("%.2f", s.MeanMS),
			fmt.Sprintf("%.2f", s.P50MS),
			fmt.Sprintf("%.2f", s.P95MS),
			fmt.Sprintf("%.2f", s.P99MS),
			fmt.Sprintf("%.2f", s.MaxMS),
		})
	}
	m.kindTable.SetRows(kindRows)

	bySat := m.collector.StatsBySatellite()
	satIDs := make([]string, 0, len(bySat))
	for id := range bySat {
		satIDs = append(satIDs, id)
	}
	sort.Strings(satIDs)
	var satRows []table.Row
	for _, id := range satIDs {
		for _, kind := range latency.Kinds {
			s, ok := bySat[id][kind]
			if !ok {
				continue
			}
			satRows = append(satRows, table.Row{
				id,
				string(kind),
				fmt.Sprintf("%d", s.Count),
				fmt.Sprintf("%.2f", s.MeanMS),
				fmt.Sprintf("%.2f", s.P95MS),
				fmt.Sprintf("%.2f", s.MaxMS),
			})
		}
	}
	m.satTable.SetRows(satRows)
}

func (m tuiModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("HIL Latency Metrics"))
	b.WriteString("\n")
	b.WriteString(headerStyle.Render(fmt.Sprintf("samples=%d  [q] quit  [a] autoscroll", m.collector.Len())))
	b.WriteString("\n\n")
	b.WriteString(borderStyle.Render(m.kindTable.View()))
	b.WriteString("\n")
	b.WriteString(borderStyle.Render(m.satTable.View()))
	b.WriteString("\n")
	b.WriteString(m.vp.View())
	return b.String()
}
