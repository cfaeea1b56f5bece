// Package cli implements the schematic command-line interface.
//
// The commands are:
//   - layout: compile a diagram into resolved geometry (layout JSON)
//   - render: draw diagrams as SVG, PNG, PDF or JSON
//   - extract: list or export the circuit-diagram blocks of a markdown page
//   - serve: run the HTTP API
//   - cache: inspect and clear the result cache
//   - config: print the effective configuration
//
// All commands support --verbose (-v) for debug-level logging and --config
// to select a configuration file.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with
// elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time rounded to the millisecond,
// e.g. "Rendered 3 diagrams (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
