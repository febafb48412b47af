// Package cli implements the distortviz command-line interface.
//
// # Commands
//
//   - serve: run the web front end
//   - layout: lay out two edge-list files headless and export the result
//   - run: send one distortion request and print the colour table, or pick
//     regions interactively with --interactive
//   - cache: inspect or clear the distortion response cache
//   - snapshot: list, export and delete saved views
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging through
// charmbracelet/log. Command results go to stdout, logs to stderr.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/distortviz/internal/config"
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

// done logs msg along with the elapsed time, e.g. "Laid out 42 nodes (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// configHint is the default config path with the home directory shortened.
func configHint() string {
	p := config.Path()
	if home, err := os.UserHomeDir(); err == nil && strings.HasPrefix(p, home) {
		return filepath.Join("~", strings.TrimPrefix(p, home))
	}
	return p
}
