package tabulate

import (
	"iter"

	"github.com/tsawler/tabulate/model"
)

// Tabulator provides a fluent interface for laying out tables.
// Each configuration method returns a new Tabulator instance, making it
// safe for concurrent use and allowing method chaining.
type Tabulator struct {
	numColumns int

	// Configuration
	options LayoutOptions

	// Accumulated error (fail-fast)
	err error
}

// New returns a Tabulator for tables of numColumns columns with the
// default layout: every column left aligned and one space between columns.
// A negative numColumns is reported by the terminal operation.
func New(numColumns int) *Tabulator {
	t := &Tabulator{
		numColumns: numColumns,
		options:    defaultOptions(),
	}
	if numColumns < 0 {
		t.err = invalidArgument("numColumns %d", numColumns)
	}
	return t
}

// ForTable returns a Tabulator sized to the widest row of tbl. Header
// rows of tbl are followed by a rule line.
func ForTable(tbl *model.Table) *Tabulator {
	if tbl == nil {
		t := New(0)
		t.err = invalidArgument("nil table")
		return t
	}
	return New(tbl.ColCount()).HeaderRule(tbl.HeaderRows)
}

// clone creates a shallow copy of the Tabulator with a deep copy of options.
// This ensures immutability - each chain method returns a new instance.
func (t *Tabulator) clone() *Tabulator {
	return &Tabulator{
		numColumns: t.numColumns,
		options:    t.options.clone(),
		err:        t.err,
	}
}

func (t *Tabulator) checkColumn(col int) bool {
	if t.err != nil {
		return false
	}
	if col < 0 || col >= t.numColumns {
		t.err = invalidArgument("column %d out of range [0, %d)", col, t.numColumns)
		return false
	}
	return true
}

// NumColumns returns the configured column count.
func (t *Tabulator) NumColumns() int { return t.numColumns }

// RightAlign marks the given 0-based columns as right aligned.
func (t *Tabulator) RightAlign(cols ...int) *Tabulator {
	nt := t.clone()
	for _, c := range cols {
		if !nt.checkColumn(c) {
			return nt
		}
		for len(nt.options.rightAligned) <= c {
			nt.options.rightAligned = append(nt.options.rightAligned, false)
		}
		nt.options.rightAligned[c] = true
	}
	return nt
}

// Alignment replaces the alignment flags. rightAligned[i] applies to
// column i; missing entries mean left aligned.
func (t *Tabulator) Alignment(rightAligned []bool) *Tabulator {
	nt := t.clone()
	nt.options.rightAligned = append([]bool(nil), rightAligned...)
	return nt
}

// Gap sets the number of spaces placed before column col. The first
// column never has a gap, so col must be at least 1.
func (t *Tabulator) Gap(col, spaces int) *Tabulator {
	nt := t.clone()
	if !nt.checkColumn(col) {
		return nt
	}
	if col == 0 {
		nt.err = invalidArgument("column 0 has no gap")
		return nt
	}
	if spaces < 0 {
		nt.err = invalidArgument("negative gap %d before column %d", spaces, col)
		return nt
	}
	for len(nt.options.gaps) <= col {
		nt.options.gaps = append(nt.options.gaps, nt.options.defaultGap)
	}
	nt.options.gaps[col] = spaces
	return nt
}

// Gaps replaces the gap plan. gaps[k] is the number of spaces between
// column k and column k+1, so n columns take n-1 gaps. Missing entries
// use the default gap.
func (t *Tabulator) Gaps(gaps []int) *Tabulator {
	nt := t.clone()
	nt.options.gaps = nil
	if len(gaps) > 0 {
		// Stored per column; column 0 has no gap.
		nt.options.gaps = append([]int{0}, gaps...)
	}
	return nt
}

// DefaultGap sets the gap used for columns without an explicit gap. Gap
// fills the columns before col with the default current at the time, so
// call DefaultGap first.
func (t *Tabulator) DefaultGap(spaces int) *Tabulator {
	nt := t.clone()
	if spaces < 0 && nt.err == nil {
		nt.err = invalidArgument("negative default gap %d", spaces)
		return nt
	}
	nt.options.defaultGap = spaces
	return nt
}

// WidthMode selects how cell widths are measured. The default is
// WidthRunes; WidthDisplay and WidthEastAsian count terminal cells.
func (t *Tabulator) WidthMode(mode WidthMode) *Tabulator {
	nt := t.clone()
	if !mode.valid() && nt.err == nil {
		nt.err = invalidArgument("unknown width mode %d", int(mode))
		return nt
	}
	nt.options.widthMode = mode
	return nt
}

// NormalizeUnicode converts every cell to Unicode normalization form C
// before measuring, so composed and decomposed text line up the same.
func (t *Tabulator) NormalizeUnicode() *Tabulator {
	nt := t.clone()
	nt.options.nfc = true
	return nt
}

// HeaderRule inserts a rule line after the first rows rows. The rule is
// drawn with '-' across each column's width. Zero disables the rule.
func (t *Tabulator) HeaderRule(rows int) *Tabulator {
	nt := t.clone()
	if rows < 0 && nt.err == nil {
		nt.err = invalidArgument("negative header row count %d", rows)
		return nt
	}
	nt.options.headerRows = rows
	return nt
}

// RuleChar sets the character used to draw the header rule.
func (t *Tabulator) RuleChar(ch rune) *Tabulator {
	nt := t.clone()
	nt.options.ruleChar = ch
	return nt
}

// Strict makes alignment or gap arrays longer than the column count, and
// negative gaps, an error instead of a warning.
func (t *Tabulator) Strict() *Tabulator {
	nt := t.clone()
	nt.options.strict = true
	return nt
}

// Render lays out an in-memory row collection. A nil row renders as a
// blank line; rows may be shorter or longer than the column count.
func (t *Tabulator) Render(rows [][]string) (Result, []Warning, error) {
	if err := t.validate(); err != nil {
		return Result{}, nil, err
	}
	if rows == nil {
		return Result{}, nil, invalidArgument("nil row collection")
	}
	return t.run(func() ([][]string, []Warning) {
		return normalizeSlices(t.numColumns, t.options, rows)
	})
}

// RenderRows is a convenience form of Render taking rows as arguments.
// Calling it with no rows yields an empty result.
func (t *Tabulator) RenderRows(rows ...[]string) (Result, []Warning, error) {
	if rows == nil {
		rows = [][]string{}
	}
	return t.Render(rows)
}

// RenderSeq lays out a lazy row source. The source is consumed exactly
// once, in order, and only after the configuration has been validated.
func (t *Tabulator) RenderSeq(rows iter.Seq[iter.Seq[string]]) (Result, []Warning, error) {
	if err := t.validate(); err != nil {
		return Result{}, nil, err
	}
	if rows == nil {
		return Result{}, nil, invalidArgument("nil row source")
	}
	return t.run(func() ([][]string, []Warning) {
		return normalizeSeq(t.numColumns, t.options, rows)
	})
}

// RenderTable lays out the text of a model.Table.
func (t *Tabulator) RenderTable(tbl *model.Table) (Result, []Warning, error) {
	if tbl == nil {
		if err := t.validate(); err != nil {
			return Result{}, nil, err
		}
		return Result{}, nil, invalidArgument("nil table")
	}
	return t.Render(tbl.Strings())
}

// Plan measures rows and returns the layout Render would use, without
// rendering anything.
func (t *Tabulator) Plan(rows [][]string) (Plan, error) {
	if err := t.validate(); err != nil {
		return Plan{}, err
	}
	if rows == nil {
		return Plan{}, invalidArgument("nil row collection")
	}
	if _, err := t.options.checkLengths(t.numColumns); err != nil {
		return Plan{}, err
	}
	normalized, _ := normalizeSlices(t.numColumns, t.options, rows)
	return measure(t.numColumns, t.options, normalized), nil
}

func (t *Tabulator) validate() error {
	if t.err != nil {
		return t.err
	}
	if t.numColumns < 0 {
		return invalidArgument("numColumns %d", t.numColumns)
	}
	return nil
}

// run validates the layout, normalizes, measures and renders.
func (t *Tabulator) run(normalize func() ([][]string, []Warning)) (Result, []Warning, error) {
	warnings, err := t.options.checkLengths(t.numColumns)
	if err != nil {
		return Result{}, nil, err
	}
	rows, rowWarnings := normalize()
	warnings = append(warnings, rowWarnings...)
	plan := measure(t.numColumns, t.options, rows)
	return render(plan, t.options, rows), warnings, nil
}
