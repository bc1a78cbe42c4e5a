// Package tabulate lays out rows of text cells as a block of monospaced
// text with aligned columns.
//
// Column widths are measured over every row before anything is rendered,
// so the whole row set is held in memory. A width is a count of
// characters (Unicode code points) unless another WidthMode is chosen.
// Each column is left or right aligned and separated from the previous
// one by a configurable number of spaces. Trailing padding and trailing
// empty columns are trimmed from every line.
//
// Basic usage:
//
//	res, err := tabulate.TabulateRows(2, nil, nil,
//	    []string{"a", "bb"},
//	    []string{"ccc", "d"},
//	)
//	if err != nil {
//	    // handle error
//	}
//	fmt.Print(res.Text())
//	// a   bb
//	// ccc d
//
// With options:
//
//	res, warnings, err := tabulate.New(3).
//	    RightAlign(2).
//	    Gap(2, 4).
//	    HeaderRule(1).
//	    Render(rows)
//
// Row sources for CSV, HTML and XLSX input live in the delimited, htmldoc
// and xlsx packages.
package tabulate

import (
	"iter"
	"slices"
)

// Tabulate lays out rows in numColumns columns.
//
// rightAligned[i] right-aligns column i; nil or missing entries mean left
// aligned. gaps[k] is the number of spaces between column k and column
// k+1; nil or missing entries mean one space. Rows shorter than
// numColumns are padded with empty cells, longer rows are cut, and a nil
// row renders as a blank line.
//
// The only error is an invalid argument: a negative numColumns or a nil
// rows collection. It is reported before any row is read.
func Tabulate(numColumns int, rightAligned []bool, gaps []int, rows [][]string) (Result, error) {
	res, _, err := New(numColumns).Alignment(rightAligned).Gaps(gaps).Render(rows)
	return res, err
}

// TabulateRows is Tabulate with the rows passed as arguments.
func TabulateRows(numColumns int, rightAligned []bool, gaps []int, rows ...[]string) (Result, error) {
	res, _, err := New(numColumns).Alignment(rightAligned).Gaps(gaps).RenderRows(rows...)
	return res, err
}

// TabulateSeq is Tabulate over a lazy row source, where each row is itself
// a sequence of cells. A nil row sequence renders as a blank line. The
// source is consumed exactly once.
func TabulateSeq(numColumns int, rightAligned []bool, gaps []int, rows iter.Seq[iter.Seq[string]]) (Result, error) {
	res, _, err := New(numColumns).Alignment(rightAligned).Gaps(gaps).RenderSeq(rows)
	return res, err
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	text := tabulate.Must(tabulate.TabulateRows(2, nil, nil, row1, row2)).Text()
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustRender is a helper that wraps a call to Render, RenderRows,
// RenderSeq or RenderTable and panics if the error is non-nil. It discards
// warnings and returns just the result.
//
// Example:
//
//	res := tabulate.MustRender(tabulate.New(2).RightAlign(1).Render(rows))
func MustRender(res Result, _ []Warning, err error) Result {
	if err != nil {
		panic(err)
	}
	return res
}

// SliceSeq adapts an in-memory row collection to the lazy row form
// accepted by TabulateSeq. A nil row maps to a nil cell sequence.
func SliceSeq(rows [][]string) iter.Seq[iter.Seq[string]] {
	return func(yield func(iter.Seq[string]) bool) {
		for _, row := range rows {
			var cells iter.Seq[string]
			if row != nil {
				cells = slices.Values(row)
			}
			if !yield(cells) {
				return
			}
		}
	}
}
