package model

import (
	"encoding/csv"
	"io"
	"strings"
)

// Table is a list of rows of cells. Rows may have different lengths.
type Table struct {
	Rows       [][]Cell
	HeaderRows int    // Number of leading rows that form the header
	Caption    string // Table caption or sheet name, if any
}

// Cell is one table cell.
type Cell struct {
	Text     string
	IsHeader bool
	ColSpan  int // Columns covered by the cell; 0 or 1 means one
}

// AddRow appends a row built from plain cell texts.
func (t *Table) AddRow(texts ...string) {
	t.Rows = append(t.Rows, newRow(texts, false))
}

// AddHeader appends a header row. Header rows are only counted while
// they form a contiguous run at the top of the table.
func (t *Table) AddHeader(texts ...string) {
	if t.HeaderRows == len(t.Rows) {
		t.HeaderRows++
	}
	t.Rows = append(t.Rows, newRow(texts, true))
}

func newRow(texts []string, header bool) []Cell {
	row := make([]Cell, len(texts))
	for i, s := range texts {
		row[i] = Cell{Text: s, IsHeader: header}
	}
	return row
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColCount returns the length of the widest row.
func (t *Table) ColCount() int {
	n := 0
	for _, row := range t.Rows {
		n = max(n, len(row))
	}
	return n
}

// Text returns the text of the cell at row, col. Cells missing from a
// short row, or outside the table, read as "".
func (t *Table) Text(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col].Text
}

// Strings returns the cell texts row by row. Row lengths are preserved.
func (t *Table) Strings() [][]string {
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		texts := make([]string, len(row))
		for j, cell := range row {
			texts[j] = cell.Text
		}
		out[i] = texts
	}
	return out
}

// Header returns the header rows merged into one row of ColCount cells:
// the non-empty texts of each column joined by a space. It returns nil
// when the table has no header rows.
func (t *Table) Header() []string {
	n := t.headerRows()
	if n == 0 {
		return nil
	}
	header := make([]string, t.ColCount())
	for c := range header {
		var parts []string
		for _, row := range t.Rows[:n] {
			if c < len(row) && row[c].Text != "" {
				parts = append(parts, row[c].Text)
			}
		}
		header[c] = strings.Join(parts, " ")
	}
	return header
}

// Body returns the texts of the rows after the header rows.
func (t *Table) Body() [][]string {
	return t.Strings()[t.headerRows():]
}

func (t *Table) headerRows() int {
	return min(max(t.HeaderRows, 0), len(t.Rows))
}

// ToMarkdown converts the table to a Markdown pipe table. The header rows
// are merged into the Markdown header; a table without header rows gets
// an empty one. Short rows are padded to the widest row.
func (t *Table) ToMarkdown() string {
	cols := t.ColCount()
	if cols == 0 {
		return ""
	}

	var sb strings.Builder
	writeRow := func(row []string) {
		for j := 0; j < cols; j++ {
			sb.WriteString("| ")
			if j < len(row) {
				sb.WriteString(escapeMarkdown(row[j]))
			}
			sb.WriteString(" ")
		}
		sb.WriteString("|\n")
	}

	writeRow(t.Header())
	sb.WriteString(strings.Repeat("|---", cols))
	sb.WriteString("|\n")
	for _, row := range t.Body() {
		writeRow(row)
	}
	return sb.String()
}

// WriteCSV writes the table as delimited records separated by comma.
// Rows keep their own length.
func (t *Table) WriteCSV(w io.Writer, comma rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = comma
	for _, record := range t.Strings() {
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// escapeMarkdown escapes characters that break a Markdown table cell.
func escapeMarkdown(text string) string {
	r := strings.NewReplacer("|", "\\|", "\r\n", " ", "\n", " ", "\r", "")
	return r.Replace(text)
}
