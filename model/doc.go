// Package model provides the table representation shared by the row
// sources and the layout engine.
//
// Readers for CSV, HTML and XLSX input all produce a [Table]; the
// tabulate package renders one with [github.com/tsawler/tabulate.ForTable]:
//
//	tbl := &model.Table{}
//	tbl.AddHeader("Name", "Size")
//	tbl.AddRow("a.txt", "12")
//	res, warnings, err := tabulate.ForTable(tbl).RightAlign(1).RenderTable(tbl)
//
// # Tables
//
// A [Table] is a list of rows of [Cell] values. Rows may be ragged; the
// column count of a table is the length of its widest row. Leading rows
// can be marked as header rows, which the renderer follows with a rule
// line.
//
// Besides aligned text, a table can be exported with ToMarkdown() and
// WriteCSV().
package model
