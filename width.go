package tabulate

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/width"
)

// WidthMode selects how the "length" of a cell is measured. Column widths,
// alignment padding and Result.MaxLineLength are all expressed in the
// unit of the selected mode.
type WidthMode int

const (
	// WidthDisplay measures terminal display cells: East Asian wide runes
	// and most emoji count 2, combining marks count 0, everything else 1.
	// For ASCII text this equals the byte length.
	WidthDisplay WidthMode = iota
	// WidthEastAsian measures like WidthDisplay but also treats runes of
	// ambiguous East Asian width as wide, matching CJK terminal locales.
	WidthEastAsian
	// WidthRunes counts Unicode code points, so every character is one
	// column wide. It is the default of New and Tabulate.
	WidthRunes
)

// displayCondition is pinned rather than taken from the environment so the
// output does not depend on the caller's locale.
var displayCondition = newDisplayCondition()

func newDisplayCondition() *runewidth.Condition {
	c := runewidth.NewCondition()
	c.EastAsianWidth = false
	return c
}

// String returns the mode name as accepted by ParseWidthMode.
func (m WidthMode) String() string {
	switch m {
	case WidthDisplay:
		return "display"
	case WidthEastAsian:
		return "east-asian"
	case WidthRunes:
		return "runes"
	default:
		return fmt.Sprintf("WidthMode(%d)", int(m))
	}
}

// ParseWidthMode parses a mode name ("display", "east-asian", "runes").
// The empty string selects WidthDisplay.
func ParseWidthMode(s string) (WidthMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "display":
		return WidthDisplay, nil
	case "east-asian", "eastasian", "cjk":
		return WidthEastAsian, nil
	case "runes", "rune", "chars":
		return WidthRunes, nil
	}
	return WidthDisplay, invalidArgument("unknown width mode %q", s)
}

func (m WidthMode) valid() bool {
	return m >= WidthDisplay && m <= WidthRunes
}

// Measure returns the width of s in the unit of m.
func (m WidthMode) Measure(s string) int {
	switch m {
	case WidthEastAsian:
		return eastAsianWidth(s)
	case WidthRunes:
		return utf8.RuneCountInString(s)
	default:
		return displayCondition.StringWidth(s)
	}
}

func eastAsianWidth(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsControl(r) || unicode.In(r, unicode.Mn, unicode.Me) {
			continue
		}
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth, width.EastAsianAmbiguous:
			n += 2
		default:
			n++
		}
	}
	return n
}
