package tabulate

import (
	"bytes"
	"strings"
	"unicode"
)

// renderer writes normalized rows into a single text block following a
// Plan. Each line is written in full, padding included, and then cut back
// to the end of its last non-blank cell.
type renderer struct {
	plan   Plan
	buf    bytes.Buffer
	spaces []byte

	maxLineLength int
}

func newRenderer(plan Plan) *renderer {
	return &renderer{
		plan:   plan,
		spaces: bytes.Repeat([]byte{' '}, plan.maxSpaces),
	}
}

func (r *renderer) pad(n int) {
	for n > 0 {
		chunk := min(n, len(r.spaces))
		r.buf.Write(r.spaces[:chunk])
		n -= chunk
	}
}

// line renders one row. The row must have exactly NumColumns cells.
func (r *renderer) line(row []string) {
	p := &r.plan
	start := r.buf.Len()
	mark, markWidth := start, 0
	col := 0

	for i, value := range row {
		if i > 0 && p.gaps[i] > 0 {
			r.pad(p.gaps[i])
			col += p.gaps[i]
		}

		w := 0
		if value != "" {
			w = p.widthMode.Measure(value)
		}
		fill := p.widths[i] - w

		if p.rightAligned[i] && fill > 0 {
			r.pad(fill)
			col += fill
		}
		r.buf.WriteString(value)
		col += w
		if !isBlank(value) {
			mark, markWidth = r.buf.Len(), col
		}
		if !p.rightAligned[i] && fill > 0 {
			r.pad(fill)
			col += fill
		}
	}

	r.buf.Truncate(mark)
	r.buf.WriteByte('\n')
	r.maxLineLength = max(r.maxLineLength, markWidth)
}

// ruleRow builds a row of rule characters spanning each column's width.
// Columns with no content get an empty cell so the rule is trimmed with
// the rest of the line.
func (r *renderer) ruleRow(ch rune) []string {
	p := &r.plan
	cw := max(p.widthMode.Measure(string(ch)), 1)
	row := make([]string, len(p.widths))
	for i, w := range p.widths {
		row[i] = strings.Repeat(string(ch), w/cw)
	}
	return row
}

func (r *renderer) result() Result {
	return Result{text: r.buf.String(), maxLineLength: r.maxLineLength}
}

// render is the second pass: it emits one line per row, in order, with an
// optional rule line after the first headerRows rows.
func render(plan Plan, opts LayoutOptions, rows [][]string) Result {
	r := newRenderer(plan)
	for i, row := range rows {
		r.line(row)
		if opts.headerRows > 0 && i == opts.headerRows-1 {
			r.line(r.ruleRow(opts.ruleChar))
		}
	}
	return r.result()
}

// isBlank reports whether s is empty or contains only white space.
func isBlank(s string) bool {
	for _, r := range s {
		if !isWhitespace(r) {
			return false
		}
	}
	return true
}

// isWhitespace reports separator spaces and the ASCII layout controls.
// No-break spaces are content, so a cell holding only U+00A0 still
// renders.
func isWhitespace(r rune) bool {
	switch r {
	case '\u00a0', '\u2007', '\u202f':
		return false
	case '\t', '\n', '\v', '\f', '\r', '\u001c', '\u001d', '\u001e', '\u001f':
		return true
	}
	return unicode.In(r, unicode.Zs, unicode.Zl, unicode.Zp)
}
