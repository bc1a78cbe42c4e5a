// Package htmldoc extracts tables from HTML documents.
package htmldoc

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/tsawler/tabulate/model"
)

// ErrNoTable is returned by Table when the requested table does not exist.
var ErrNoTable = errors.New("htmldoc: table not found")

// maxColSpan caps colspan values so a hostile document cannot blow up a row.
const maxColSpan = 1000

// Reader provides access to the tables of an HTML document.
type Reader struct {
	doc    *html.Node
	title  string
	tables []*model.Table
}

// Open opens an HTML file for reading.
func Open(filename string) (*Reader, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return OpenReader(f)
}

// OpenReader parses HTML from an io.Reader.
func OpenReader(r io.Reader) (*Reader, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	reader := &Reader{doc: doc}
	if title := findElement(doc, "title"); title != nil {
		reader.title = getTextContent(title)
	}
	reader.collectTables(doc)

	return reader, nil
}

// Close releases resources associated with the Reader.
func (r *Reader) Close() error {
	// Nothing to close for HTML (no file handles kept)
	return nil
}

// Title returns the document title, if any.
func (r *Reader) Title() string {
	return r.title
}

// TableCount returns the number of tables in the document, nested tables
// included.
func (r *Reader) TableCount() int {
	return len(r.tables)
}

// Tables returns every table in document order. A nested table follows
// the table that contains it.
func (r *Reader) Tables() []*model.Table {
	return r.tables
}

// Table returns the table at the given 0-based index.
func (r *Reader) Table(index int) (*model.Table, error) {
	if index < 0 || index >= len(r.tables) {
		return nil, fmt.Errorf("%w: index %d of %d", ErrNoTable, index, len(r.tables))
	}
	return r.tables[index], nil
}

func (r *Reader) collectTables(n *html.Node) {
	if n.Type == html.ElementNode {
		if shouldSkipElement(n.Data) {
			return
		}
		if n.Data == "table" {
			r.tables = append(r.tables, parseTable(n))
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		r.collectTables(c)
	}
}

// parseTable extracts a table from an HTML table element.
func parseTable(tableNode *html.Node) *model.Table {
	table := &model.Table{}
	var footer [][]model.Cell

	// Find caption, thead, tbody, tfoot, or direct tr children
	for c := tableNode.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "caption":
			table.Caption = getTextContent(c)
		case "thead":
			table.Rows = append(table.Rows, parseTableRows(c, true)...)
		case "tbody":
			table.Rows = append(table.Rows, parseTableRows(c, false)...)
		case "tfoot":
			footer = append(footer, parseTableRows(c, false)...)
		case "tr":
			if row := parseTableRow(c, false); len(row) > 0 {
				table.Rows = append(table.Rows, row)
			}
		}
	}
	table.Rows = append(table.Rows, footer...)

	// Leading rows made only of header cells form the header
	for _, row := range table.Rows {
		if !isHeaderRow(row) {
			break
		}
		table.HeaderRows++
	}

	return table
}

// parseTableRows parses rows within thead, tbody or tfoot.
func parseTableRows(section *html.Node, isHeader bool) [][]model.Cell {
	var rows [][]model.Cell
	for c := section.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "tr" {
			if row := parseTableRow(c, isHeader); len(row) > 0 {
				rows = append(rows, row)
			}
		}
	}
	return rows
}

// parseTableRow parses a single table row. A cell spanning several
// columns is followed by empty cells so later cells stay in their column.
func parseTableRow(tr *html.Node, isHeader bool) []model.Cell {
	var row []model.Cell

	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || (c.Data != "td" && c.Data != "th") {
			continue
		}
		cell := model.Cell{
			Text:     getTextContent(c),
			IsHeader: isHeader || c.Data == "th",
			ColSpan:  colSpan(c),
		}
		row = append(row, cell)
		for i := 1; i < cell.ColSpan; i++ {
			row = append(row, model.Cell{IsHeader: cell.IsHeader})
		}
	}

	return row
}

func colSpan(n *html.Node) int {
	for _, attr := range n.Attr {
		if attr.Key != "colspan" {
			continue
		}
		span, err := strconv.Atoi(strings.TrimSpace(attr.Val))
		if err != nil || span < 1 {
			return 1
		}
		return min(span, maxColSpan)
	}
	return 1
}

func isHeaderRow(row []model.Cell) bool {
	for _, cell := range row {
		if !cell.IsHeader {
			return false
		}
	}
	return len(row) > 0
}

// shouldSkipElement returns true if the element should be skipped during content extraction.
func shouldSkipElement(tagName string) bool {
	switch tagName {
	case "script", "style", "noscript", "template", "svg", "math", "iframe", "object", "embed":
		return true
	}
	return false
}

// findElement finds the first element with the given tag name.
func findElement(n *html.Node, tagName string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tagName {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if result := findElement(c, tagName); result != nil {
			return result
		}
	}
	return nil
}

// getTextContent extracts the text of a node and its descendants with
// white space runs collapsed to single spaces. Nested tables are left out;
// they are extracted as tables of their own.
func getTextContent(n *html.Node) string {
	var result strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		getTextContentRecursive(c, &result)
	}
	return strings.Join(strings.Fields(result.String()), " ")
}

func getTextContentRecursive(n *html.Node, result *strings.Builder) {
	if n.Type == html.TextNode {
		result.WriteString(n.Data)
	}
	if n.Type == html.ElementNode {
		// Skip script/style content and nested tables
		if shouldSkipElement(n.Data) || n.Data == "table" {
			return
		}
		if n.Data == "br" {
			result.WriteString(" ")
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		getTextContentRecursive(c, result)
	}
	// Separate block elements from what follows
	if n.Type == html.ElementNode {
		switch n.Data {
		case "p", "div", "li", "h1", "h2", "h3", "h4", "h5", "h6":
			result.WriteString(" ")
		}
	}
}
