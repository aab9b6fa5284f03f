package harness

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"hilmetrics/internal/latency"
)

// mockProgram captures messages sent to the TUI.
type mockProgram struct {
	msgs []tea.Msg
}

func (p *mockProgram) Send(msg tea.Msg) {
	p.msgs = append(p.msgs, msg)
}

func TestTUIWriterSendsMeasurements(t *testing.T) {
	p := &mockProgram{}
	w := &TUIWriter{program: p}

	rows := sampleMeasurements()
	if err := w.WriteBatch(rows); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	if len(p.msgs) != len(rows) {
		t.Fatalf("expected %d messages, got %d", len(rows), len(p.msgs))
	}
	msg, ok := p.msgs[0].(measurementMsg)
	if !ok {
		t.Fatalf("unexpected message type %T", p.msgs[0])
	}
	if msg.SatelliteID != "SAT1" {
		t.Errorf("unexpected measurement: %+v", msg.Measurement)
	}
}

func TestTUIModelUpdatesOnMeasurement(t *testing.T) {
	collector := testCollector()
	collector.Record(latency.FaultDetection, "SAT1", 1.0, 5.0)

	m := newTUIModel(collector)
	updated, _ := m.Update(measurementMsg{sampleMeasurements()[0]})
	model := updated.(tuiModel)

	view := model.View()
	if !strings.Contains(view, "fault_detection") {
		t.Errorf("expected stats table to list fault_detection:\n%s", view)
	}
	if !strings.Contains(view, "SAT1") {
		t.Errorf("expected satellite table to list SAT1:\n%s", view)
	}
}
