package main

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/tsawler/tabulate"
)

// newLogger writes human readable log lines to w. Only warnings and
// errors are shown unless verbose is set.
func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{
		Out:          w,
		NoColor:      !isTerminal(w),
		PartsExclude: []string{zerolog.TimestampFieldName},
	}
	return zerolog.New(out).Level(level)
}

func logWarnings(log zerolog.Logger, warnings []tabulate.Warning) {
	for _, w := range warnings {
		ev := log.Warn()
		if w.Row >= 0 {
			ev = ev.Int("row", w.Row)
		}
		ev.Msg(w.Message)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// terminalWidth reports the width of the terminal w writes to.
var terminalWidth = func(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0, false
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return 0, false
	}
	return width, true
}

// checkWidth warns when the widest line will wrap on the terminal.
func checkWidth(log zerolog.Logger, w io.Writer, lineLength int) {
	width, ok := terminalWidth(w)
	if !ok || lineLength <= width {
		return
	}
	log.Warn().
		Int("line_length", lineLength).
		Int("terminal_width", width).
		Msg("output is wider than the terminal and will wrap")
}
