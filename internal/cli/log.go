// Package cli implements the mindmap command-line interface.
//
// The commands lay out reply-tree feeds offline, show them live in the
// terminal, or serve a live map over HTTP. The CLI is built with cobra and
// logs through charmbracelet/log.
//
// # Commands
//
//   - render: settle a feed and export SVG, JSON, DOT, PNG or PDF
//   - view: interactive terminal map with mouse drag, zoom and pan
//   - serve: HTTP API over a live map with an optional feed watcher
//   - generate: write a shuffled demo feed
//   - cache: clear or locate the layout cache
//
// # Logging
//
// --verbose (-v) switches every command to debug logging. The logger
// travels in the command context so long steps can report progress.
//
// # Example
//
//	c := cli.New(os.Stderr, cli.LogInfo)
//	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	    cli.PrintError(err)
//	    os.Exit(cli.ExitCode(err))
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a logger with short timestamps ("15:04:05.00").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs a message with the time elapsed since it was created.
// Commands create one before a long step and call done after it.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress starts timing from now.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Settled 42 items (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// ctxKey keeps context keys private to this package.
type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a copy of ctx carrying l. The root command stores the
// configured logger this way before any subcommand runs.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger stored by withLogger, or
// log.Default when there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
