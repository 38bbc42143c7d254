// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the diagnostic logger shared by every stage.
// Diagnostics go to stderr; user-facing status lines stay on stdout.
package logging

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/phuslu/log"
)

// New returns a logger writing to w at the named level. Unknown level
// names fall back to info. Console output is coloured when w is a terminal.
func New(level string, w io.Writer) *log.Logger {
	color := false
	if f, ok := w.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd())
	}
	return &log.Logger{
		Level:      log.ParseLevel(level),
		TimeFormat: "15:04:05",
		Writer: &log.ConsoleWriter{
			Writer:      w,
			ColorOutput: color,
			QuoteString: true,
		},
	}
}

// Discard returns a logger that drops every entry. Tests and callers that
// pass no logger use it.
func Discard() *log.Logger {
	return &log.Logger{
		Level:  log.PanicLevel,
		Writer: &log.IOWriter{Writer: io.Discard},
	}
}

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l *log.Logger) *log.Logger {
	if l == nil {
		return Discard()
	}
	return l
}
