package main

import (
	"bytes"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tsawler/tabulate"
	"github.com/tsawler/tabulate/delimited"
	"github.com/tsawler/tabulate/format"
	"github.com/tsawler/tabulate/model"
)

const (
	rootExample = `
# Align a CSV file
tabulate prices.csv

# Right align the second and third columns, three spaces between columns
tabulate --right 1,2 --gap 3 prices.csv

# Read the second table of an HTML page from stdin
curl -s https://example.com/report.html | tabulate --format html --table 1

# Render one sheet of a workbook with a rule under the header row
tabulate --sheet Summary --header-rule --auto-align book.xlsx

# Use a layout file and count CJK ambiguous characters as wide
tabulate --config layout.yaml --width-mode east-asian data.tsv`

	rootLong = `Tabulate lays out rows of text as aligned columns of monospaced text.

Input is CSV, TSV, an HTML document or an XLSX workbook, read from the named
file or from stdin. The format is taken from --format, then the file
extension, then the content.

Column widths are measured over every row before output starts, so every
column is as wide as its widest cell. Columns are left aligned unless listed
in --right (0-based indices). Trailing blank cells of a row are dropped.`
)

// NewRootCmd returns the tabulate command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tabulate [file]",
		Short:         "Print tabular input as aligned text columns",
		Long:          rootLong,
		Example:       rootExample,
		Args:          cobra.MaximumNArgs(1),
		RunE:          runTabulate,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.Flags()
	flags.StringP("format", "f", "", "Input format (csv|tsv|html|xlsx); detected when empty")
	flags.IntP("table", "t", 0, "Index of the HTML table to render")
	flags.String("sheet", "", "Name of the XLSX sheet to render (default: the first sheet)")
	flags.Int("sheet-index", 0, "Index of the XLSX sheet to render")
	flags.Bool("list", false, "List the tables or sheets of the input instead of rendering")
	flags.String("comma", "", "Field separator for delimited input (default: ',' for CSV, tab for TSV)")
	flags.Int("header-rows", 1, "Number of header rows in CSV, TSV and XLSX input")

	flags.IntSliceP("right", "r", nil, "Right align these 0-based columns, e.g. --right 1,3")
	flags.Bool("auto-align", false, "Right align columns that hold only numbers")
	flags.IntP("gap", "g", 1, "Spaces between columns")
	flags.IntSlice("gaps", nil, "Spaces between consecutive columns, e.g. --gaps 2,1; overrides --gap")
	flags.IntP("columns", "n", 0, "Number of columns (default: the widest row); streams delimited input when set")
	flags.String("width-mode", "display", "How to measure text (display|east-asian|runes)")
	flags.Bool("nfc", false, "Normalize cells to Unicode NFC before measuring")
	flags.Bool("strict", false, "Treat layout settings that do not fit the table as errors")
	flags.Bool("header-rule", false, "Draw a rule under the header rows")
	flags.String("rule-char", "-", "Character used to draw the header rule")
	flags.StringP("config", "c", "", "YAML layout file; flags override its settings")
	flags.StringP("output", "o", "text", "Output (text|grid|markdown|csv|tsv); grid and markdown merge the --header-rows into one header")
	flags.BoolP("verbose", "v", false, "Log debug details to stderr")

	return cmd
}

func runTabulate(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	verbose, _ := flags.GetBool("verbose")
	log := newLogger(cmd.ErrOrStderr(), verbose)

	lay, err := resolveLayout(flags)
	if err != nil {
		return err
	}

	var name string
	if len(args) > 0 {
		name = args[0]
	}
	data, err := openInput(cmd.Context(), name, cmd.InOrStdin())
	if err != nil {
		return err
	}

	formatName, _ := flags.GetString("format")
	f, err := format.Resolve(formatName, name, data)
	if err != nil {
		return errors.Wrap(err, "use --format to name the input format")
	}
	log.Debug().Str("format", f.String()).Int("bytes", len(data)).Msg("read input")

	out := cmd.OutOrStdout()
	if list, _ := flags.GetBool("list"); list {
		lines, err := listTables(f, data)
		if err != nil {
			return err
		}
		for _, line := range lines {
			fmt.Fprintln(out, line)
		}
		return nil
	}

	sel, err := readSelection(cmd)
	if err != nil {
		return err
	}
	output, _ := flags.GetString("output")

	var res tabulate.Result
	var warnings []tabulate.Warning
	switch {
	case output != "text":
		return writeExport(out, output, lay, f, data, sel)
	case lay.columns > 0 && (f == format.CSV || f == format.TSV) && !lay.autoAlign:
		res, warnings, err = streamDelimited(log, lay, f, data, sel)
	default:
		res, warnings, err = renderTable(log, lay, f, data, sel)
	}
	if err != nil {
		return err
	}

	logWarnings(log, warnings)
	log.Debug().
		Int("lines", res.LineCount()).
		Int("max_line_length", res.MaxLineLength()).
		Msg("rendered")
	checkWidth(log, out, res.MaxLineLength())

	_, err = io.WriteString(out, res.Text())
	return errors.Wrap(err, "failed to write output")
}

func readSelection(cmd *cobra.Command) (selection, error) {
	flags := cmd.Flags()
	var sel selection
	var err error
	if sel.table, err = flags.GetInt("table"); err != nil {
		return sel, err
	}
	if sel.sheet, err = flags.GetString("sheet"); err != nil {
		return sel, err
	}
	if sel.sheetIndex, err = flags.GetInt("sheet-index"); err != nil {
		return sel, err
	}
	if sel.comma, err = flags.GetString("comma"); err != nil {
		return sel, err
	}
	if sel.headerRows, err = flags.GetInt("header-rows"); err != nil {
		return sel, err
	}
	if sel.headerRows < 0 {
		return sel, errors.Errorf("--header-rows must not be negative, got %d", sel.headerRows)
	}
	return sel, nil
}

// streamDelimited renders delimited input record by record. The column
// count is known up front, so no table is built.
func streamDelimited(log zerolog.Logger, lay layout, f format.Format, data []byte, sel selection) (tabulate.Result, []tabulate.Warning, error) {
	opts, err := delimitedOptions(f, sel)
	if err != nil {
		return tabulate.Result{}, nil, err
	}
	r, err := delimited.OpenReader(bytes.NewReader(data), opts)
	if err != nil {
		return tabulate.Result{}, nil, errors.Wrap(err, "failed to read delimited input")
	}
	log.Debug().Int("columns", lay.columns).Msg("streaming delimited input")

	res, warnings, err := lay.tabulator(lay.columns, sel.headerRows).RenderSeq(r.Rows())
	if err != nil {
		return res, warnings, errors.Wrap(err, "failed to tabulate")
	}
	if err := r.Err(); err != nil {
		return res, warnings, errors.Wrapf(err, "failed to parse %s input", f)
	}
	return res, warnings, nil
}

func renderTable(log zerolog.Logger, lay layout, f format.Format, data []byte, sel selection) (tabulate.Result, []tabulate.Warning, error) {
	src, err := loadTable(f, data, sel)
	if err != nil {
		return tabulate.Result{}, nil, err
	}
	tbl := src.table

	columns := lay.columns
	if columns == 0 {
		columns = tbl.ColCount()
	}
	if lay.autoAlign {
		lay = lay.withNumeric(src.numeric)
	}
	log.Debug().
		Int("rows", tbl.RowCount()).
		Int("columns", columns).
		Int("header_rows", tbl.HeaderRows).
		Msg("loaded table")

	res, warnings, err := lay.tabulator(columns, tbl.HeaderRows).RenderTable(tbl)
	return res, warnings, errors.Wrap(err, "failed to tabulate")
}

// writeExport writes the selected table as a bordered grid, Markdown,
// CSV or TSV instead of aligned text.
func writeExport(w io.Writer, output string, lay layout, f format.Format, data []byte, sel selection) error {
	switch output {
	case "grid", "markdown", "md", "csv", "tsv":
	default:
		return errors.Errorf("unknown output %q (want text, grid, markdown, csv or tsv)", output)
	}
	src, err := loadTable(f, data, sel)
	if err != nil {
		return err
	}
	switch output {
	case "grid":
		if lay.autoAlign {
			lay = lay.withNumeric(src.numeric)
		}
		err = writeGrid(w, src.table, lay.right)
	case "csv":
		err = src.table.WriteCSV(w, ',')
	case "tsv":
		err = src.table.WriteCSV(w, '\t')
	default:
		_, err = io.WriteString(w, src.table.ToMarkdown())
	}
	return errors.Wrap(err, "failed to write output")
}

// writeGrid draws tbl with box borders. The header rows, merged into one,
// form the grid header; a table without header rows has none.
func writeGrid(w io.Writer, tbl *model.Table, right []bool) error {
	ew := &errWriter{w: w}
	grid := tablewriter.NewWriter(ew)
	grid.SetAutoFormatHeaders(false)
	grid.SetAutoWrapText(false)

	cols := tbl.ColCount()
	align := make([]int, cols)
	for i := range align {
		align[i] = tablewriter.ALIGN_LEFT
		if i < len(right) && right[i] {
			align[i] = tablewriter.ALIGN_RIGHT
		}
	}
	grid.SetColumnAlignment(align)

	if header := tbl.Header(); header != nil {
		grid.SetHeader(header)
	}
	for _, row := range tbl.Body() {
		grid.Append(padRow(row, cols))
	}
	grid.Render()
	return ew.err
}

func padRow(row []string, cols int) []string {
	out := make([]string, cols)
	copy(out, row)
	return out
}

// errWriter keeps the first write error of a writer that does not report
// errors itself.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}
