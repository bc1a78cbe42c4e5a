package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/tsawler/tabulate/delimited"
	"github.com/tsawler/tabulate/format"
	"github.com/tsawler/tabulate/htmldoc"
	"github.com/tsawler/tabulate/model"
	"github.com/tsawler/tabulate/xlsx"
)

const readChunk = 32 * 1024

// readInput reads all of r, giving up when ctx is cancelled between
// reads.
func readInput(ctx context.Context, r io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	chunk := make([]byte, readChunk)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := r.Read(chunk)
		buf.Write(chunk[:n])
		if err == io.EOF {
			return buf.Bytes(), nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// openInput returns the contents of the named file, or of stdin when name
// is empty or "-".
func openInput(ctx context.Context, name string, stdin io.Reader) ([]byte, error) {
	if name == "" || name == "-" {
		data, err := readInput(ctx, stdin)
		return data, errors.Wrap(err, "failed to read stdin")
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open input")
	}
	defer f.Close()
	data, err := readInput(ctx, f)
	return data, errors.Wrapf(err, "failed to read %s", name)
}

// selection picks which table of a multi-table input is rendered.
type selection struct {
	table      int    // HTML table index
	sheet      string // XLSX sheet name; empty selects by index
	sheetIndex int
	headerRows int // Header rows of CSV, TSV and XLSX input
	comma      string
}

func delimitedOptions(f format.Format, sel selection) (delimited.Options, error) {
	opts := delimited.CSVOptions()
	if f == format.TSV {
		opts = delimited.TSVOptions()
	}
	if sel.comma != "" {
		r := []rune(sel.comma)
		if len(r) != 1 {
			return opts, errors.Errorf("--comma %q must be a single character", sel.comma)
		}
		opts.Comma = r[0]
	}
	opts.HeaderRows = sel.headerRows
	return opts, nil
}

// source is a loaded table, with the columns that hold only numbers when
// the input says so.
type source struct {
	table   *model.Table
	numeric []bool
}

// loadTable reads the selected table of data in format f.
func loadTable(f format.Format, data []byte, sel selection) (*source, error) {
	switch f {
	case format.CSV, format.TSV:
		opts, err := delimitedOptions(f, sel)
		if err != nil {
			return nil, err
		}
		r, err := delimited.OpenReader(bytes.NewReader(data), opts)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read delimited input")
		}
		tbl, err := r.Table()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse %s input", f)
		}
		return &source{table: tbl, numeric: numericColumns(tbl)}, nil

	case format.HTML:
		r, err := htmldoc.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse HTML input")
		}
		defer r.Close()
		tbl, err := r.Table(sel.table)
		if err != nil {
			return nil, errors.Wrapf(err, "document has %d table(s)", r.TableCount())
		}
		return &source{table: tbl, numeric: numericColumns(tbl)}, nil

	case format.XLSX:
		r, err := xlsx.OpenBytes(data)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read workbook")
		}
		defer r.Close()
		sheet, err := pickSheet(r, sel)
		if err != nil {
			return nil, err
		}
		return &source{table: sheet.Table(sel.headerRows), numeric: sheet.NumericColumns(sel.headerRows)}, nil
	}
	return nil, errors.Errorf("unsupported input format %s", f)
}

func pickSheet(r *xlsx.Reader, sel selection) (*xlsx.Sheet, error) {
	if sel.sheet != "" {
		sheet, err := r.SheetByName(sel.sheet)
		return sheet, errors.Wrapf(err, "sheets are %s", strings.Join(r.SheetNames(), ", "))
	}
	sheet, err := r.Sheet(sel.sheetIndex)
	return sheet, errors.Wrapf(err, "workbook has %d sheet(s)", r.SheetCount())
}

// listTables describes every table or sheet in data, one per line.
func listTables(f format.Format, data []byte) ([]string, error) {
	switch f {
	case format.HTML:
		r, err := htmldoc.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse HTML input")
		}
		var out []string
		for i, tbl := range r.Tables() {
			out = append(out, describe(strconv.Itoa(i), tbl.Caption, tbl))
		}
		return out, nil

	case format.XLSX:
		r, err := xlsx.OpenBytes(data)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read workbook")
		}
		var out []string
		for i, name := range r.SheetNames() {
			sheet, _ := r.Sheet(i)
			out = append(out, describe(strconv.Itoa(i), name, sheet.Table(0)))
		}
		return out, nil
	}
	return nil, errors.Errorf("%s input holds a single table", f)
}

func describe(index, name string, tbl *model.Table) string {
	s := index + ": " + strconv.Itoa(tbl.RowCount()) + "x" + strconv.Itoa(tbl.ColCount())
	if name != "" {
		s += " " + strconv.Quote(name)
	}
	return s
}

// numericColumns reports, per column, whether every non-empty body cell
// parses as a number.
func numericColumns(tbl *model.Table) []bool {
	cols := tbl.ColCount()
	numeric := make([]bool, cols)
	seen := make([]bool, cols)
	for i := range numeric {
		numeric[i] = true
	}
	for r := tbl.HeaderRows; r < len(tbl.Rows); r++ {
		for c, cell := range tbl.Rows[r] {
			text := strings.TrimSpace(cell.Text)
			if text == "" {
				continue
			}
			seen[c] = true
			if !isNumber(text) {
				numeric[c] = false
			}
		}
	}
	for i := range numeric {
		numeric[i] = numeric[i] && seen[i]
	}
	return numeric
}

func isNumber(s string) bool {
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ",", "")
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
