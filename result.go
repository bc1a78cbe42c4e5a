package tabulate

import "strings"

// Result is the rendered table. It is an immutable value and safe to copy
// and share.
type Result struct {
	text          string
	maxLineLength int
}

// Text returns the rendered table. Every line, including the last, ends
// with "\n"; a table with no rows renders as the empty string.
func (r Result) Text() string { return r.text }

// MaxLineLength returns the width of the longest rendered line, line
// terminator excluded, in the unit of the width mode used.
func (r Result) MaxLineLength() int { return r.maxLineLength }

// String implements fmt.Stringer and returns Text().
func (r Result) String() string { return r.text }

// LineCount returns the number of rendered lines.
func (r Result) LineCount() int { return strings.Count(r.text, "\n") }

// Lines returns the rendered lines without their terminators.
func (r Result) Lines() []string {
	if r.text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(r.text, "\n"), "\n")
}
