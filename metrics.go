package tabulate

// Plan is the finalized layout of a table: the measured width of every
// column together with the gap and alignment that apply to it. All three
// slices have exactly NumColumns entries.
type Plan struct {
	widths       []int
	gaps         []int
	rightAligned []bool
	widthMode    WidthMode

	// maxSpaces sizes the padding buffer shared by every line.
	maxSpaces int
}

// NumColumns returns the number of columns in the plan.
func (p Plan) NumColumns() int { return len(p.widths) }

// Widths returns a copy of the measured column widths.
func (p Plan) Widths() []int { return append([]int(nil), p.widths...) }

// Gaps returns a copy of the finalized gaps. Gaps()[0] is always 0.
func (p Plan) Gaps() []int { return append([]int(nil), p.gaps...) }

// RightAligned returns a copy of the finalized alignment flags.
func (p Plan) RightAligned() []bool { return append([]bool(nil), p.rightAligned...) }

// Width returns the width of the whole table: the sum of every column
// width and every gap. Lines are never longer than this.
func (p Plan) Width() int {
	total := 0
	for i := range p.widths {
		total += p.widths[i] + p.gaps[i]
	}
	return total
}

// measure computes the plan for already normalized rows. Every row must
// have exactly numColumns cells.
func measure(numColumns int, opts LayoutOptions, rows [][]string) Plan {
	p := Plan{
		widths:       make([]int, numColumns),
		gaps:         make([]int, numColumns),
		rightAligned: make([]bool, numColumns),
		widthMode:    opts.widthMode,
	}

	for _, row := range rows {
		for i, cell := range row {
			if cell == "" {
				continue
			}
			if w := opts.widthMode.Measure(cell); w > p.widths[i] {
				p.widths[i] = w
			}
		}
	}

	copy(p.rightAligned, opts.rightAligned)

	for i := 1; i < numColumns; i++ {
		g := opts.defaultGap
		if i < len(opts.gaps) {
			g = opts.gaps[i]
		}
		if g < 0 {
			g = 0
		}
		p.gaps[i] = g
	}

	for i := 0; i < numColumns; i++ {
		p.maxSpaces = max(p.maxSpaces, p.widths[i], p.gaps[i])
	}

	return p
}
