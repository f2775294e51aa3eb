package sweep

import (
	"fmt"
	"os"
	"strconv"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// roundMsg carries a completed round.
type roundMsg struct{ Round }

// outcomeMsg carries a finished level outcome.
type outcomeMsg struct{ Outcome }

var (
	tuiTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	tuiOKStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	tuiBadStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	tuiBorderStyle = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("8"))
)

// TUIWriter renders the running sweep in a live terminal view: a table
// of rounds and a scrolling outcome log.
type TUIWriter struct {
	program    teaProgram
	done       chan struct{}
	sendSignal atomic.Bool
}

// NewTUIWriter starts a bubbletea program and returns a TUIWriter.
// Quitting the view interrupts the process so the sweep stops with it.
func NewTUIWriter(p95SLOMS, errorSLO float64, ceiling int) *TUIWriter {
	w := &TUIWriter{done: make(chan struct{})}
	w.sendSignal.Store(true)
	m := newTUIModel(p95SLOMS, errorSLO, ceiling)
	p := tea.NewProgram(m, tea.WithAltScreen())
	w.program = p
	go func() {
		_ = p.Start()
		close(w.done)
		if w.sendSignal.Load() {
			if proc, err := os.FindProcess(os.Getpid()); err == nil {
				_ = proc.Signal(os.Interrupt)
			}
		}
	}()
	return w
}

// WriteRound implements RoundWriter.
func (w *TUIWriter) WriteRound(r Round) error {
	w.program.Send(roundMsg{r})
	return nil
}

// WriteOutcome implements OutcomeWriter.
func (w *TUIWriter) WriteOutcome(o Outcome) error {
	w.program.Send(outcomeMsg{o})
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
	p95SLOMS   float64
	errorSLO   float64
	ceiling    int
	table      table.Model
	vp         viewport.Model
	rows       []table.Row
	logs       []string
	width      int
	height     int
	autoscroll bool
}

func newTUIModel(p95SLOMS, errorSLO float64, ceiling int) tuiModel {
	cols := []table.Column{
		{Title: "Fault (ms)", Width: 10},
		{Title: "VUs", Width: 5},
		{Title: "p95 (ms)", Width: 10},
		{Title: "Err rate", Width: 9},
		{Title: "SLO", Width: 9},
	}
	t := table.New(table.WithColumns(cols), table.WithHeight(12))
	return tuiModel{
		p95SLOMS:   p95SLOMS,
		errorSLO:   errorSLO,
		ceiling:    ceiling,
		table:      t,
		vp:         viewport.New(0, 0),
		autoscroll: true,
	}
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetWidth(msg.Width)
		m.vp.Width = msg.Width
		vpHeight := msg.Height - m.table.Height() - 4
		if vpHeight < 3 {
			vpHeight = 3
		}
		m.vp.Height = vpHeight
		m.refreshLog()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "a":
			m.autoscroll = !m.autoscroll
		default:
			var cmd tea.Cmd
			m.vp, cmd = m.vp.Update(msg)
			return m, cmd
		}
	case roundMsg:
		m.rows = append(m.rows, table.Row{
			strconv.Itoa(msg.FaultLatencyMS),
			strconv.Itoa(msg.Concurrency),
			fmt.Sprintf("%.1f", msg.P95LatencyMS),
			fmt.Sprintf("%.3f", msg.ErrorRate),
			verdictLabel(msg.OK),
		})
		m.table.SetRows(m.rows)
	case outcomeMsg:
		m.logs = append(m.logs, outcomeLine(msg.Outcome))
		m.refreshLog()
	}
	return m, nil
}

func (m *tuiModel) refreshLog() {
	wrapped := make([]string, 0, len(m.logs))
	for _, l := range m.logs {
		wrapped = append(wrapped, wordwrap.String(l, m.vp.Width))
	}
	m.vp.SetContent(lipgloss.JoinVertical(lipgloss.Left, wrapped...))
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m tuiModel) View() string {
	title := tuiTitleStyle.Render(fmt.Sprintf(
		"slosweep  p95 SLO %.0fms  err SLO %.3f  ceiling %d  (q quits, a toggles autoscroll)",
		m.p95SLOMS, m.errorSLO, m.ceiling))
	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		tuiBorderStyle.Render(m.table.View()),
		m.vp.View(),
	)
}

func verdictLabel(ok bool) string {
	if ok {
		return tuiOKStyle.Render("ok")
	}
	return tuiBadStyle.Render("violated")
}

func outcomeLine(o Outcome) string {
	if o.BestMetrics == nil {
		return fmt.Sprintf("fault %dms: SLO violated even at minimum concurrency", o.FaultLatencyMS)
	}
	return fmt.Sprintf("fault %dms: best stable concurrency %d (p95=%.1fms err=%.3f)",
		o.FaultLatencyMS, o.BestConcurrency, o.BestMetrics.P95LatencyMS, o.BestMetrics.ErrorRate)
}
