package main

import (
	"bytes"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/tsawler/tabulate"
)

// layoutFile is the YAML layout loaded with --config:
//
//	columns:
//	  - align: left
//	  - align: right
//	    gap: 3
//	default_gap: 2
//	width_mode: east-asian
//	header_rule: true
//	rule_char: "="
type layoutFile struct {
	Columns    []columnLayout `yaml:"columns"`
	DefaultGap *int           `yaml:"default_gap"`
	WidthMode  string         `yaml:"width_mode"`
	NFC        bool           `yaml:"nfc"`
	Strict     bool           `yaml:"strict"`
	HeaderRule bool           `yaml:"header_rule"`
	RuleChar   string         `yaml:"rule_char"`
}

type columnLayout struct {
	Align string `yaml:"align"` // left or right
	Gap   *int   `yaml:"gap"`   // Spaces before the column; ignored for the first
}

// layout is the resolved set of layout choices for one run.
type layout struct {
	columns    int // 0 means the widest row
	right      []bool
	gaps       []int  // From --gaps, between consecutive columns; replaces fileGaps
	fileGaps   []*int // Per column gaps from the layout file; nil uses the default
	defaultGap int
	widthMode  tabulate.WidthMode
	nfc        bool
	strict     bool
	headerRule bool
	ruleChar   rune
	autoAlign  bool
}

func defaultLayout() layout {
	return layout{defaultGap: 1, ruleChar: '-'}
}

// loadLayoutFile reads a YAML layout. A leading ~ in path is the home
// directory. Unknown keys are rejected so typos do not pass silently.
func loadLayoutFile(path string) (*layoutFile, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to expand layout file path")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read layout file")
	}

	var lf layoutFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&lf); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrapf(err, "failed to parse layout file %s", path)
	}
	return &lf, nil
}

// apply merges the file into l.
func (lf *layoutFile) apply(l *layout) error {
	if lf.DefaultGap != nil {
		l.defaultGap = *lf.DefaultGap
	}
	if lf.WidthMode != "" {
		mode, err := tabulate.ParseWidthMode(lf.WidthMode)
		if err != nil {
			return errors.Wrap(err, "layout file")
		}
		l.widthMode = mode
	}
	l.nfc = l.nfc || lf.NFC
	l.strict = l.strict || lf.Strict
	l.headerRule = l.headerRule || lf.HeaderRule
	if lf.RuleChar != "" {
		ch, err := parseRuleChar(lf.RuleChar)
		if err != nil {
			return errors.Wrap(err, "layout file")
		}
		l.ruleChar = ch
	}

	if len(lf.Columns) == 0 {
		return nil
	}
	l.right = make([]bool, len(lf.Columns))
	l.fileGaps = make([]*int, len(lf.Columns))
	for i, col := range lf.Columns {
		switch strings.ToLower(col.Align) {
		case "", "left":
		case "right":
			l.right[i] = true
		default:
			return errors.Errorf("layout file: column %d: unknown align %q", i, col.Align)
		}
		l.fileGaps[i] = col.Gap
	}
	return nil
}

func parseRuleChar(s string) (rune, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, errors.Errorf("rule char %q must be a single character", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

// resolveLayout builds the layout from --config and the layout flags.
// Flags given on the command line override the file.
func resolveLayout(flags *pflag.FlagSet) (layout, error) {
	l := defaultLayout()

	if path, _ := flags.GetString("config"); path != "" {
		lf, err := loadLayoutFile(path)
		if err != nil {
			return l, err
		}
		if err := lf.apply(&l); err != nil {
			return l, err
		}
	}

	var err error
	if l.columns, err = flags.GetInt("columns"); err != nil {
		return l, err
	}
	if l.columns < 0 {
		return l, errors.Errorf("--columns must not be negative, got %d", l.columns)
	}

	if flags.Changed("gap") {
		if l.defaultGap, err = flags.GetInt("gap"); err != nil {
			return l, err
		}
	}
	if flags.Changed("gaps") {
		if l.gaps, err = flags.GetIntSlice("gaps"); err != nil {
			return l, err
		}
	}
	if flags.Changed("right") {
		cols, err := flags.GetIntSlice("right")
		if err != nil {
			return l, err
		}
		l.right = nil
		for _, c := range cols {
			if c < 0 {
				return l, errors.Errorf("--right: negative column %d", c)
			}
			for len(l.right) <= c {
				l.right = append(l.right, false)
			}
			l.right[c] = true
		}
	}
	if flags.Changed("width-mode") {
		name, _ := flags.GetString("width-mode")
		if l.widthMode, err = tabulate.ParseWidthMode(name); err != nil {
			return l, err
		}
	}
	if flags.Changed("rule-char") {
		s, _ := flags.GetString("rule-char")
		if l.ruleChar, err = parseRuleChar(s); err != nil {
			return l, err
		}
	}

	for name, dst := range map[string]*bool{
		"nfc":         &l.nfc,
		"strict":      &l.strict,
		"header-rule": &l.headerRule,
		"auto-align":  &l.autoAlign,
	} {
		if flags.Changed(name) {
			if *dst, err = flags.GetBool(name); err != nil {
				return l, err
			}
		}
	}
	return l, nil
}

// gapPlan returns the gaps between consecutive columns. The layout file
// gives a gap per column, and the first column has none.
func (l layout) gapPlan() []int {
	if l.gaps != nil || len(l.fileGaps) < 2 {
		return l.gaps
	}
	gaps := make([]int, len(l.fileGaps)-1)
	for i, g := range l.fileGaps[1:] {
		gaps[i] = l.defaultGap
		if g != nil {
			gaps[i] = *g
		}
	}
	return gaps
}

// tabulator configures the engine for a table of numColumns columns
// whose first headerRows rows form the header.
func (l layout) tabulator(numColumns, headerRows int) *tabulate.Tabulator {
	t := tabulate.New(numColumns).
		DefaultGap(l.defaultGap).
		Alignment(l.right).
		Gaps(l.gapPlan()).
		WidthMode(l.widthMode)
	if l.nfc {
		t = t.NormalizeUnicode()
	}
	if l.strict {
		t = t.Strict()
	}
	if l.headerRule && headerRows > 0 {
		t = t.HeaderRule(headerRows).RuleChar(l.ruleChar)
	}
	return t
}

// withNumeric right aligns the columns flagged in numeric, on top of any
// explicit alignment.
func (l layout) withNumeric(numeric []bool) layout {
	right := make([]bool, max(len(l.right), len(numeric)))
	copy(right, l.right)
	for i, n := range numeric {
		right[i] = right[i] || n
	}
	l.right = right
	return l
}
