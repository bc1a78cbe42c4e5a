package tabulate

import (
	"fmt"
	"iter"

	"golang.org/x/text/unicode/norm"
)

// normalizer collects a row source into rows of exactly numColumns cells.
// Short rows are padded with empty cells, long rows are cut, and a nil row
// becomes an all-empty row. It never fails: ragged input is normalized,
// not rejected.
type normalizer struct {
	numColumns int
	nfc        bool

	rows     [][]string
	warnings []Warning
}

func newNormalizer(numColumns int, opts LayoutOptions) *normalizer {
	return &normalizer{
		numColumns: numColumns,
		nfc:        opts.nfc,
	}
}

// addSlice appends one row given as a slice.
func (n *normalizer) addSlice(cells []string) {
	row := make([]string, n.numColumns)
	copy(row, cells)
	if n.nfc {
		for i, c := range row {
			row[i] = norm.NFC.String(c)
		}
	}
	if len(cells) > n.numColumns {
		n.dropped(len(cells) - n.numColumns)
	}
	n.rows = append(n.rows, row)
}

// addSeq appends one row given as a lazy cell sequence. Cells past the
// last column are consumed and counted but not stored.
func (n *normalizer) addSeq(cells iter.Seq[string]) {
	row := make([]string, n.numColumns)
	if cells == nil {
		n.rows = append(n.rows, row)
		return
	}
	i, extra := 0, 0
	for c := range cells {
		if i < n.numColumns {
			if n.nfc {
				c = norm.NFC.String(c)
			}
			row[i] = c
			i++
			continue
		}
		extra++
	}
	if extra > 0 {
		n.dropped(extra)
	}
	n.rows = append(n.rows, row)
}

func (n *normalizer) dropped(count int) {
	n.warnings = append(n.warnings, Warning{
		Row:     len(n.rows),
		Message: fmt.Sprintf("%d cell(s) beyond column %d ignored", count, n.numColumns),
	})
}

// normalizeSlices normalizes an in-memory row collection.
func normalizeSlices(numColumns int, opts LayoutOptions, rows [][]string) ([][]string, []Warning) {
	n := newNormalizer(numColumns, opts)
	n.rows = make([][]string, 0, len(rows))
	for _, r := range rows {
		n.addSlice(r)
	}
	return n.rows, n.warnings
}

// normalizeSeq drains a lazy row source exactly once, in order.
func normalizeSeq(numColumns int, opts LayoutOptions, rows iter.Seq[iter.Seq[string]]) ([][]string, []Warning) {
	n := newNormalizer(numColumns, opts)
	for r := range rows {
		n.addSeq(r)
	}
	return n.rows, n.warnings
}
