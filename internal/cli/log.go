// Package cli implements the wordcloud command-line interface.
//
// # Commands
//
//   - layout: place a word list and write a layout snapshot
//   - render: produce PNG, SVG or JSON from a word list or snapshot
//   - hit: report the word at a canvas point of a snapshot
//   - serve: run the HTTP API
//   - cache: manage the local layout and artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which includes
// per-word placement events from the layout pass.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs completion of an operation with its elapsed time.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g. "Rendered png (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
