package xlsx

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tsawler/tabulate/model"
)

// ErrCellRef is wrapped by every cell or range reference parse error.
var ErrCellRef = errors.New("xlsx: invalid cell reference")

// Excel limits, used to reject references that cannot exist.
const (
	maxRows = 1048576
	maxCols = 16384
)

// CellType represents the type of data in a cell.
type CellType int

const (
	// CellTypeEmpty indicates an empty cell.
	CellTypeEmpty CellType = iota
	// CellTypeString indicates a string value.
	CellTypeString
	// CellTypeNumber indicates a numeric value.
	CellTypeNumber
	// CellTypeBoolean indicates a boolean value.
	CellTypeBoolean
	// CellTypeFormula indicates a formula without a cached value.
	CellTypeFormula
	// CellTypeError indicates an error value such as #DIV/0!.
	CellTypeError
)

// String returns the string representation of the cell type.
func (t CellType) String() string {
	switch t {
	case CellTypeString:
		return "string"
	case CellTypeNumber:
		return "number"
	case CellTypeBoolean:
		return "boolean"
	case CellTypeFormula:
		return "formula"
	case CellTypeError:
		return "error"
	case CellTypeEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// Cell represents a cell in a worksheet.
type Cell struct {
	Value string   // The cell's display value
	Type  CellType // The type of data

	// Merge information
	IsMerged    bool // Part of a merged region
	IsMergeRoot bool // Top-left cell of a merged region
}

// IsNumeric reports whether the cell holds a number. Numeric columns are
// usually rendered right aligned.
func (c Cell) IsNumeric() bool {
	return c.Type == CellTypeNumber
}

// Sheet represents a worksheet. Rows are ragged: each row is only as long
// as its last populated cell.
type Sheet struct {
	Name  string
	Index int
	Rows  [][]Cell
}

// Cell returns the cell at the given row and column (0-indexed).
// Returns nil if the cell doesn't exist.
func (s *Sheet) Cell(row, col int) *Cell {
	if row < 0 || row >= len(s.Rows) {
		return nil
	}
	if col < 0 || col >= len(s.Rows[row]) {
		return nil
	}
	return &s.Rows[row][col]
}

// CellByRef returns the cell at the given reference (e.g., "A1").
// Returns nil if the cell doesn't exist.
func (s *Sheet) CellByRef(ref string) *Cell {
	col, row, err := ParseCellRef(ref)
	if err != nil {
		return nil
	}
	return s.Cell(row, col)
}

// RowCount returns the number of rows in the sheet.
func (s *Sheet) RowCount() int {
	return len(s.Rows)
}

// ColCount returns the length of the longest row.
func (s *Sheet) ColCount() int {
	n := 0
	for _, row := range s.Rows {
		n = max(n, len(row))
	}
	return n
}

// NumericColumns reports, per column, whether every non-empty cell below
// the first headerRows rows is a number.
func (s *Sheet) NumericColumns(headerRows int) []bool {
	cols := s.ColCount()
	numeric := make([]bool, cols)
	seen := make([]bool, cols)
	for i := range numeric {
		numeric[i] = true
	}
	for r := headerRows; r < len(s.Rows); r++ {
		for c, cell := range s.Rows[r] {
			if cell.Type == CellTypeEmpty {
				continue
			}
			seen[c] = true
			if !cell.IsNumeric() {
				numeric[c] = false
			}
		}
	}
	for i := range numeric {
		numeric[i] = numeric[i] && seen[i]
	}
	return numeric
}

// Table converts the sheet into a table. Cells covered by a merged
// region, other than its top-left cell, are left empty.
func (s *Sheet) Table(headerRows int) *model.Table {
	table := &model.Table{Caption: s.Name}
	for r, row := range s.Rows {
		cells := make([]model.Cell, len(row))
		for c, cell := range row {
			if cell.IsMerged && !cell.IsMergeRoot {
				continue
			}
			cells[c] = model.Cell{Text: cell.Value, IsHeader: r < headerRows}
		}
		table.Rows = append(table.Rows, cells)
	}
	table.HeaderRows = min(headerRows, len(table.Rows))
	return table
}

// ParseCellRef parses a cell reference like "A1" or "AA100" into column and row indices (0-indexed).
// Absolute references such as "$B$3" are accepted.
func ParseCellRef(ref string) (col, row int, err error) {
	ref = strings.ReplaceAll(ref, "$", "")
	if ref == "" {
		return 0, 0, fmt.Errorf("%w: empty", ErrCellRef)
	}

	// Find where letters end and numbers begin
	i := 0
	for i < len(ref) && isLetter(ref[i]) {
		i++
	}

	if i == 0 {
		return 0, 0, fmt.Errorf("%w: %q has no column letters", ErrCellRef, ref)
	}
	if i == len(ref) {
		return 0, 0, fmt.Errorf("%w: %q has no row number", ErrCellRef, ref)
	}

	colPart := ref[:i]
	rowPart := ref[i:]

	// Parse column (A=0, B=1, ..., Z=25, AA=26, etc.)
	col = ColumnToIndex(colPart)
	if col < 0 || col >= maxCols {
		return 0, 0, fmt.Errorf("%w: column %s", ErrCellRef, colPart)
	}

	// Parse row (1-indexed in Excel, convert to 0-indexed)
	rowNum, err := strconv.Atoi(rowPart)
	if err != nil || rowNum < 1 || rowNum > maxRows {
		return 0, 0, fmt.Errorf("%w: row %s", ErrCellRef, rowPart)
	}

	return col, rowNum - 1, nil
}

// ColumnToIndex converts a column letter(s) to a 0-indexed column number.
// A=0, B=1, ..., Z=25, AA=26, AB=27, etc. It returns -1 for anything that
// is not a column name.
func ColumnToIndex(col string) int {
	if col == "" || len(col) > 3 {
		return -1
	}
	result := 0
	for _, c := range strings.ToUpper(col) {
		if c < 'A' || c > 'Z' {
			return -1
		}
		result = result*26 + int(c-'A') + 1
	}
	return result - 1
}

// IndexToColumn converts a 0-indexed column number to column letter(s).
// 0=A, 1=B, ..., 25=Z, 26=AA, 27=AB, etc.
func IndexToColumn(index int) string {
	if index < 0 {
		return ""
	}

	var buf []byte
	for index++; index > 0; index /= 26 {
		index-- // Adjust for 0-based modulo
		buf = append([]byte{byte('A' + index%26)}, buf...)
	}
	return string(buf)
}

// CellRef creates a cell reference string from column and row indices (0-indexed).
func CellRef(col, row int) string {
	return IndexToColumn(col) + strconv.Itoa(row+1)
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// ParseRangeRef parses a range reference like "A1:D10" into start and end
// coordinates. A single cell reference is a one-cell range.
func ParseRangeRef(ref string) (startCol, startRow, endCol, endRow int, err error) {
	start, end, found := strings.Cut(ref, ":")
	if !found {
		end = start
	}

	startCol, startRow, err = ParseCellRef(start)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("range start: %w", err)
	}

	endCol, endRow, err = ParseCellRef(end)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("range end: %w", err)
	}

	if endCol < startCol {
		startCol, endCol = endCol, startCol
	}
	if endRow < startRow {
		startRow, endRow = endRow, startRow
	}
	return startCol, startRow, endCol, endRow, nil
}
