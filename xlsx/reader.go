// Package xlsx reads the cell values of Office Open XML spreadsheets
// (.xlsx) as tables.
package xlsx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
)

var (
	ErrMissingPart   = errors.New("xlsx: missing required part")
	ErrNoWorksheets  = errors.New("xlsx: no worksheets found")
	ErrSheetNotFound = errors.New("xlsx: sheet not found")
)

// Reader provides access to the worksheets of an XLSX workbook. All
// sheets are parsed when the Reader is opened.
type Reader struct {
	closer        io.Closer
	files         map[string]*zip.File
	sharedStrings []string
	sheetRels     map[string]string // RID -> target path
	sheets        []*Sheet
}

// Open opens an XLSX file for reading.
func Open(filename string) (*Reader, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}

	r, err := newReader(&zr.Reader)
	if err != nil {
		zr.Close()
		return nil, err
	}
	r.closer = zr
	return r, nil
}

// OpenReaderAt reads an XLSX workbook from an io.ReaderAt of the given size.
func OpenReaderAt(ra io.ReaderAt, size int64) (*Reader, error) {
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}
	return newReader(zr)
}

// OpenBytes reads an XLSX workbook held in memory.
func OpenBytes(data []byte) (*Reader, error) {
	return OpenReaderAt(bytes.NewReader(data), int64(len(data)))
}

func newReader(zr *zip.Reader) (*Reader, error) {
	r := &Reader{
		files:     make(map[string]*zip.File, len(zr.File)),
		sheetRels: make(map[string]string),
	}
	for _, f := range zr.File {
		r.files[f.Name] = f
	}

	// Validate required files exist
	for _, name := range []string{"[Content_Types].xml", "xl/workbook.xml"} {
		if _, ok := r.files[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingPart, name)
		}
	}

	if err := r.parseRelationships(); err != nil {
		return nil, fmt.Errorf("parsing relationships: %w", err)
	}

	// Shared strings are optional but common
	if err := r.parseSharedStrings(); err != nil {
		return nil, fmt.Errorf("parsing shared strings: %w", err)
	}

	if err := r.parseWorksheets(); err != nil {
		return nil, err
	}

	return r, nil
}

// Close releases resources associated with the Reader.
func (r *Reader) Close() error {
	if r.closer != nil {
		err := r.closer.Close()
		r.closer = nil
		return err
	}
	return nil
}

// getFileContent reads the content of a file from the ZIP archive.
// It returns nil, nil if the file does not exist.
func (r *Reader) getFileContent(name string) ([]byte, error) {
	f, ok := r.files[name]
	if !ok {
		return nil, nil
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// parseRelationships parses the workbook relationships file.
func (r *Reader) parseRelationships() error {
	data, err := r.getFileContent("xl/_rels/workbook.xml.rels")
	if err != nil || data == nil {
		return err // Relationships are optional
	}

	var rels relationshipsXML
	if err := xml.Unmarshal(data, &rels); err != nil {
		return err
	}

	// Build map of RID to target
	for _, rel := range rels.Relationship {
		r.sheetRels[rel.ID] = rel.Target
	}

	return nil
}

// parseSharedStrings parses the shared strings table.
func (r *Reader) parseSharedStrings() error {
	data, err := r.getFileContent("xl/sharedStrings.xml")
	if err != nil || data == nil {
		return err
	}

	var sst sharedStringsXML
	if err := xml.Unmarshal(data, &sst); err != nil {
		return err
	}

	r.sharedStrings = make([]string, len(sst.SI))
	for i := range sst.SI {
		r.sharedStrings[i] = sst.SI[i].text()
	}

	return nil
}

// sheetPath resolves a relationship target to a path inside the archive.
func sheetPath(target string, index int) string {
	if target == "" {
		// Try default naming
		return fmt.Sprintf("xl/worksheets/sheet%d.xml", index+1)
	}
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Clean(path.Join("xl", target))
}

// parseWorksheets parses every worksheet listed in the workbook. Sheets
// whose part is missing are skipped.
func (r *Reader) parseWorksheets() error {
	data, err := r.getFileContent("xl/workbook.xml")
	if err != nil {
		return fmt.Errorf("reading workbook: %w", err)
	}
	var wb workbookXML
	if err := xml.Unmarshal(data, &wb); err != nil {
		return fmt.Errorf("parsing workbook: %w", err)
	}

	for i, ref := range wb.Sheets.Sheet {
		name := sheetPath(r.sheetRels[ref.RID], i)
		data, err := r.getFileContent(name)
		if err != nil {
			return fmt.Errorf("reading sheet %q: %w", ref.Name, err)
		}
		if data == nil {
			continue
		}

		sheet, err := r.parseWorksheet(data, ref.Name, len(r.sheets))
		if err != nil {
			return fmt.Errorf("parsing sheet %q: %w", ref.Name, err)
		}
		r.sheets = append(r.sheets, sheet)
	}

	if len(r.sheets) == 0 {
		return ErrNoWorksheets
	}
	return nil
}

// parseWorksheet parses a single worksheet.
func (r *Reader) parseWorksheet(data []byte, name string, index int) (*Sheet, error) {
	var ws worksheetXML
	if err := xml.Unmarshal(data, &ws); err != nil {
		return nil, err
	}

	sheet := &Sheet{
		Name:  name,
		Index: index,
	}

	rowIdx := -1
	for _, rowData := range ws.SheetData.Rows {
		// Rows and cells without a reference follow the previous one
		if rowData.R > 0 && rowData.R <= maxRows {
			rowIdx = rowData.R - 1
		} else {
			rowIdx++
		}
		for len(sheet.Rows) <= rowIdx {
			sheet.Rows = append(sheet.Rows, nil)
		}

		col := -1
		for _, cellXML := range rowData.Cells {
			if cellXML.R != "" {
				c, _, err := ParseCellRef(cellXML.R)
				if err != nil {
					return nil, err
				}
				col = c
			} else {
				col++
			}

			cell := r.cellValue(cellXML)
			if cell.Type == CellTypeEmpty {
				continue
			}
			row := sheet.Rows[rowIdx]
			for len(row) <= col {
				row = append(row, Cell{})
			}
			row[col] = cell
			sheet.Rows[rowIdx] = row
		}
	}

	if ws.MergeCells != nil {
		for _, mc := range ws.MergeCells.MergeCell {
			startCol, startRow, endCol, endRow, err := ParseRangeRef(mc.Ref)
			if err != nil {
				continue
			}
			applyMerge(sheet, startCol, startRow, endCol, endRow)
		}
	}

	return sheet, nil
}

// applyMerge flags the populated cells of a merged region.
func applyMerge(sheet *Sheet, startCol, startRow, endCol, endRow int) {
	for row := startRow; row <= endRow && row < len(sheet.Rows); row++ {
		for col := startCol; col <= endCol && col < len(sheet.Rows[row]); col++ {
			cell := &sheet.Rows[row][col]
			cell.IsMerged = true
			cell.IsMergeRoot = row == startRow && col == startCol
		}
	}
}

// cellValue determines the type and display value of a cell.
func (r *Reader) cellValue(c cellXML) Cell {
	switch c.T {
	case "s": // Shared string
		idx, err := strconv.Atoi(c.V)
		if err == nil && idx >= 0 && idx < len(r.sharedStrings) {
			return Cell{Value: r.sharedStrings[idx], Type: CellTypeString}
		}
		return Cell{}
	case "b": // Boolean
		if c.V == "1" {
			return Cell{Value: "TRUE", Type: CellTypeBoolean}
		}
		return Cell{Value: "FALSE", Type: CellTypeBoolean}
	case "e": // Error
		return Cell{Value: c.V, Type: CellTypeError}
	case "str": // Formula string result
		return Cell{Value: c.V, Type: CellTypeString}
	case "inlineStr": // Inline string
		return Cell{Value: c.Is.text(), Type: CellTypeString}
	}

	// Number or empty
	switch {
	case c.V != "":
		return Cell{Value: c.V, Type: CellTypeNumber}
	case c.F != "":
		return Cell{Type: CellTypeFormula} // Formula without cached value
	}
	return Cell{}
}

// SheetCount returns the number of sheets in the workbook.
func (r *Reader) SheetCount() int {
	return len(r.sheets)
}

// SheetNames returns the names of all sheets.
func (r *Reader) SheetNames() []string {
	names := make([]string, len(r.sheets))
	for i, s := range r.sheets {
		names[i] = s.Name
	}
	return names
}

// Sheet returns the sheet at the given index (0-indexed).
func (r *Reader) Sheet(index int) (*Sheet, error) {
	if index < 0 || index >= len(r.sheets) {
		return nil, fmt.Errorf("%w: index %d of %d", ErrSheetNotFound, index, len(r.sheets))
	}
	return r.sheets[index], nil
}

// SheetByName returns the sheet with the given name.
func (r *Reader) SheetByName(name string) (*Sheet, error) {
	for _, s := range r.sheets {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, name)
}
