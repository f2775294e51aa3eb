package sweep

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

type fakeProgram struct{ msgs []tea.Msg }

func (f *fakeProgram) Send(msg tea.Msg) { f.msgs = append(f.msgs, msg) }

func TestTUIWriterMessages(t *testing.T) {
	p := &fakeProgram{}
	w := &TUIWriter{program: p}

	if err := w.WriteRound(Round{FaultLatencyMS: 300, Concurrency: 1, OK: true}); err != nil {
		t.Fatalf("WriteRound: %v", err)
	}
	if _, ok := p.msgs[0].(roundMsg); !ok {
		t.Fatalf("expected roundMsg, got %T", p.msgs[0])
	}
	if err := w.WriteOutcome(Outcome{FaultLatencyMS: 300, BestConcurrency: 1}); err != nil {
		t.Fatalf("WriteOutcome: %v", err)
	}
	if _, ok := p.msgs[1].(outcomeMsg); !ok {
		t.Fatalf("expected outcomeMsg, got %T", p.msgs[1])
	}
}

func TestTUIModelRounds(t *testing.T) {
	m := newTUIModel(1000, 0.05, 10)
	mi, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	m = mi.(tuiModel)

	mi, _ = m.Update(roundMsg{Round{FaultLatencyMS: 300, Concurrency: 1, P95LatencyMS: 120.5, OK: true}})
	m = mi.(tuiModel)
	mi, _ = m.Update(roundMsg{Round{FaultLatencyMS: 300, Concurrency: 2, P95LatencyMS: 1500, ErrorRate: 0.2, OK: false}})
	m = mi.(tuiModel)

	if len(m.rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(m.rows))
	}
	if m.rows[0][0] != "300" || m.rows[0][1] != "1" || m.rows[0][2] != "120.5" {
		t.Fatalf("unexpected first row: %v", m.rows[0])
	}
	view := m.table.View()
	if !strings.Contains(view, "300") {
		t.Fatalf("table view missing round data:\n%s", view)
	}
}

func TestTUIModelOutcomeLog(t *testing.T) {
	m := newTUIModel(1000, 0.05, 10)
	mi, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	m = mi.(tuiModel)

	o := Outcome{FaultLatencyMS: 300, BestConcurrency: 3, BestMetrics: &Metrics{P95LatencyMS: 800, ErrorRate: 0.01}}
	mi, _ = m.Update(outcomeMsg{o})
	m = mi.(tuiModel)

	if len(m.logs) != 1 {
		t.Fatalf("expected 1 log line, got %d", len(m.logs))
	}
	if !strings.Contains(m.logs[0], "best stable concurrency 3") {
		t.Fatalf("unexpected log line: %q", m.logs[0])
	}
}

func TestTUIModelQuitKeys(t *testing.T) {
	m := newTUIModel(1000, 0.05, 10)
	for _, key := range []rune{'q'} {
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{key}})
		if cmd == nil {
			t.Fatalf("expected quit command for %q", key)
		}
	}
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatalf("expected quit command for ctrl+c")
	}
}

func TestTUIModelAutoscrollToggle(t *testing.T) {
	m := newTUIModel(1000, 0.05, 10)
	if !m.autoscroll {
		t.Fatalf("autoscroll should start on")
	}
	mi, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	m = mi.(tuiModel)
	if m.autoscroll {
		t.Fatalf("autoscroll should toggle off")
	}
}

func TestOutcomeLine(t *testing.T) {
	got := outcomeLine(Outcome{FaultLatencyMS: 5000, BestConcurrency: 1})
	if !strings.Contains(got, "SLO violated even at minimum concurrency") {
		t.Fatalf("unexpected floor line: %q", got)
	}
}
