package tabulate

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidArgument is the only error kind the engine produces. Every
// error returned by Tabulate and the Tabulator wraps it, so callers can
// test with errors.Is.
var ErrInvalidArgument = errors.New("tabulate: invalid argument")

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidArgument}, args...)...)
}

// Warning describes a non-fatal condition noticed while tabulating, such
// as cells dropped from an over-long row. The rendered output is still
// complete and correct when warnings are present.
type Warning struct {
	// Row is the 0-based input row the warning refers to, or -1 when the
	// warning concerns the layout configuration rather than a row.
	Row     int
	Message string
}

// String returns the warning as a single human-readable line.
func (w Warning) String() string {
	if w.Row < 0 {
		return w.Message
	}
	return fmt.Sprintf("row %d: %s", w.Row, w.Message)
}

// FormatWarnings joins warnings into a single string, one per line.
// It returns an empty string when there are no warnings.
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}
