// Package chaos defines the fault directive contract between the sweep
// tooling and the target endpoint: a comma-separated list of key:value
// tokens controlling injected latency, error probability, and CPU burn.
package chaos

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Directive holds parsed fault-injection settings.
type Directive struct {
	LatencyMS int
	ErrorRate float64
	CPUMS     int
}

// ParseDirective parses a directive like "lat:2500,err:0.03,cpu:400".
// Unknown keys are ignored, as are keys with empty values; an empty
// input yields the zero directive.
func ParseDirective(s string) Directive {
	var d Directive
	if s == "" {
		return d
	}
	for _, token := range strings.Split(s, ",") {
		k, v, _ := strings.Cut(token, ":")
		k = strings.ToLower(strings.TrimSpace(k))
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		switch k {
		case "lat":
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				d.LatencyMS = int(f)
			}
		case "err":
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				d.ErrorRate = f
			}
		case "cpu":
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				d.CPUMS = int(f)
			}
		}
	}
	return d
}

// String renders the directive in the wire format accepted by ParseDirective.
func (d Directive) String() string {
	parts := make([]string, 0, 3)
	if d.LatencyMS > 0 {
		parts = append(parts, fmt.Sprintf("lat:%d", d.LatencyMS))
	}
	if d.ErrorRate > 0 {
		parts = append(parts, fmt.Sprintf("err:%g", d.ErrorRate))
	}
	if d.CPUMS > 0 {
		parts = append(parts, fmt.Sprintf("cpu:%d", d.CPUMS))
	}
	return strings.Join(parts, ",")
}

// Zero reports whether the directive injects nothing.
func (d Directive) Zero() bool {
	return d.LatencyMS == 0 && d.ErrorRate == 0 && d.CPUMS == 0
}

// Spin busy-loops the CPU for the given number of milliseconds.
func Spin(ms int) {
	if ms <= 0 {
		return
	}
	end := time.Now().Add(time.Duration(ms) * time.Millisecond)
	x := 0
	for time.Now().Before(end) {
		x++
	}
	_ = x
}
