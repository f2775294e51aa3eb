// ColorStdoutWriter prints human-friendly, colorized round output to STDOUT.
package sweep

import (
	"fmt"
	"io"
	"os"
	"sync"
	"text/tabwriter"

	"golang.org/x/term"
)

const (
	colorReset   = "\x1b[0m"
	colorRed     = "\x1b[31m"
	colorGreen   = "\x1b[32m"
	colorYellow  = "\x1b[33m"
	colorBlue    = "\x1b[34m"
	colorMagenta = "\x1b[35m"
	colorCyan    = "\x1b[36m"
	colorGray    = "\x1b[90m"
)

// ColorStdoutWriter prints rounds using ANSI colors. Colors are disabled
// automatically when STDOUT is not a terminal.
type ColorStdoutWriter struct {
	out      io.Writer
	colorize bool
	once     sync.Once
	p95SLOMS float64
	errorSLO float64
	ceiling  int
}

// NewColorStdoutWriter creates a ColorStdoutWriter writing to os.Stdout.
func NewColorStdoutWriter(p95SLOMS, errorSLO float64, ceiling int) *ColorStdoutWriter {
	return &ColorStdoutWriter{
		out:      os.Stdout,
		colorize: term.IsTerminal(int(os.Stdout.Fd())),
		p95SLOMS: p95SLOMS,
		errorSLO: errorSLO,
		ceiling:  ceiling,
	}
}

func (w *ColorStdoutWriter) color(c string) string {
	if !w.colorize {
		return ""
	}
	return c
}

func (w *ColorStdoutWriter) printOverview() {
	if w.p95SLOMS == 0 && w.errorSLO == 0 {
		// No thresholds known (e.g. replaying a recorded history).
		return
	}
	fmt.Fprintln(w.out, "Sweep Configuration:")
	tw := tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "p95 SLO (ms):\t%.0f\n", w.p95SLOMS)
	fmt.Fprintf(tw, "Error SLO:\t%.3f\n", w.errorSLO)
	fmt.Fprintf(tw, "Concurrency Ceiling:\t%d\n", w.ceiling)
	tw.Flush()
	fmt.Fprintln(w.out)
}

// WriteRound outputs a single round in colorized format.
func (w *ColorStdoutWriter) WriteRound(r Round) error {
	w.once.Do(w.printOverview)

	verdict := fmt.Sprintf("%sOK%s", w.color(colorGreen), w.color(colorReset))
	p95Color := colorCyan
	if !r.OK {
		verdict = fmt.Sprintf("%sVIOLATED%s", w.color(colorRed), w.color(colorReset))
		p95Color = colorYellow
	}
	_, err := fmt.Fprintf(w.out, "%sfault=%dms%s %svus=%d%s %sp95=%.1fms%s %serr=%.3f%s %s\n",
		w.color(colorBlue), r.FaultLatencyMS, w.color(colorReset),
		w.color(colorMagenta), r.Concurrency, w.color(colorReset),
		w.color(p95Color), r.P95LatencyMS, w.color(colorReset),
		w.color(colorGray), r.ErrorRate, w.color(colorReset),
		verdict,
	)
	return err
}

// WriteOutcome prints the per-level result line.
func (w *ColorStdoutWriter) WriteOutcome(o Outcome) error {
	if o.BestMetrics == nil {
		_, err := fmt.Fprintf(w.out, "%sfault=%dms: SLO violated even at minimum concurrency%s\n",
			w.color(colorRed), o.FaultLatencyMS, w.color(colorReset))
		return err
	}
	_, err := fmt.Fprintf(w.out, "%sfault=%dms: best stable concurrency %d%s (p95=%.1fms err=%.3f)\n",
		w.color(colorGreen), o.FaultLatencyMS, o.BestConcurrency, w.color(colorReset),
		o.BestMetrics.P95LatencyMS, o.BestMetrics.ErrorRate)
	return err
}
