package tabulate

// defaultGap is the number of spaces placed before every column after the
// first when the caller does not say otherwise.
const defaultGap = 1

// LayoutOptions holds the per-column layout configuration of a table.
type LayoutOptions struct {
	// Per-column configuration, indexed by column. Either may be shorter
	// or longer than the column count.
	rightAligned []bool
	gaps         []int
	defaultGap   int

	// Measurement
	widthMode WidthMode
	nfc       bool

	// Output
	headerRows int // rows followed by a rule line; 0 means no rule
	ruleChar   rune

	// Length mismatches and negative gaps are errors instead of warnings
	strict bool
}

// defaultOptions returns the default layout options: every column left
// aligned, one space between columns, widths counted in characters.
func defaultOptions() LayoutOptions {
	return LayoutOptions{
		rightAligned: nil,
		gaps:         nil,
		defaultGap:   defaultGap,
		widthMode:    WidthRunes,
		nfc:          false,
		headerRows:   0,
		ruleChar:     '-',
		strict:       false,
	}
}

// clone creates a deep copy of LayoutOptions.
func (o LayoutOptions) clone() LayoutOptions {
	newOpts := o

	// Deep copy per-column slices
	if o.rightAligned != nil {
		newOpts.rightAligned = make([]bool, len(o.rightAligned))
		copy(newOpts.rightAligned, o.rightAligned)
	}
	if o.gaps != nil {
		newOpts.gaps = make([]int, len(o.gaps))
		copy(newOpts.gaps, o.gaps)
	}

	return newOpts
}

// checkLengths reports per-column arrays that are longer than numColumns.
// In strict mode the mismatch is an error; otherwise the extra entries are
// ignored and a warning is produced.
func (o LayoutOptions) checkLengths(numColumns int) ([]Warning, error) {
	var warnings []Warning
	if len(o.rightAligned) > numColumns {
		if o.strict {
			return nil, invalidArgument("%d alignment flags for %d columns", len(o.rightAligned), numColumns)
		}
		warnings = append(warnings, Warning{Row: -1, Message: "alignment flags beyond the last column ignored"})
	}
	if len(o.gaps) > numColumns {
		if o.strict {
			return nil, invalidArgument("%d gaps for %d columns, want at most %d", len(o.gaps)-1, numColumns, max(numColumns-1, 0))
		}
		warnings = append(warnings, Warning{Row: -1, Message: "gaps beyond the last column ignored"})
	}
	for i, g := range o.gaps {
		if g >= 0 || i == 0 || i >= numColumns {
			continue
		}
		if o.strict {
			return nil, invalidArgument("negative gap %d before column %d", g, i)
		}
		warnings = append(warnings, Warning{Row: -1, Message: "negative gaps treated as 0"})
		break
	}
	if o.defaultGap < 0 {
		return nil, invalidArgument("negative default gap %d", o.defaultGap)
	}
	return warnings, nil
}
