package htmldoc

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestOpenReader_SimpleTable(t *testing.T) {
	html := `<!DOCTYPE html>
<html>
<head><title>Inventory</title></head>
<body>
	<table>
		<caption>Stock</caption>
		<thead><tr><th>Item</th><th>Qty</th></tr></thead>
		<tbody>
			<tr><td>apple</td><td>3</td></tr>
			<tr><td>  water
				melon </td><td>12</td></tr>
		</tbody>
		<tfoot><tr><td>total</td><td>15</td></tr></tfoot>
	</table>
</body>
</html>`

	r, err := OpenReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("OpenReader() failed: %v", err)
	}
	defer r.Close()

	if r.Title() != "Inventory" {
		t.Errorf("Title() = %q, want 'Inventory'", r.Title())
	}
	if r.TableCount() != 1 {
		t.Fatalf("TableCount() = %d, want 1", r.TableCount())
	}

	table, err := r.Table(0)
	if err != nil {
		t.Fatalf("Table(0) failed: %v", err)
	}
	if table.Caption != "Stock" {
		t.Errorf("Caption = %q, want 'Stock'", table.Caption)
	}
	if table.HeaderRows != 1 {
		t.Errorf("HeaderRows = %d, want 1", table.HeaderRows)
	}

	want := [][]string{
		{"Item", "Qty"},
		{"apple", "3"},
		{"water melon", "12"},
		{"total", "15"},
	}
	if diff := cmp.Diff(want, table.Strings()); diff != "" {
		t.Errorf("Strings() mismatch (-want +got):\n%s", diff)
	}
}

func TestOpenReader_ImplicitRowsAndThHeader(t *testing.T) {
	html := `<table>
		<tr><th>a</th><th>b</th></tr>
		<tr><th>row</th><td>1</td></tr>
	</table>`

	r, err := OpenReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("OpenReader() failed: %v", err)
	}

	table, _ := r.Table(0)
	if table.HeaderRows != 1 {
		t.Errorf("HeaderRows = %d, want 1", table.HeaderRows)
	}
	if !table.Rows[1][0].IsHeader || table.Rows[1][1].IsHeader {
		t.Error("IsHeader should follow th/td per cell")
	}
}

func TestOpenReader_ColSpan(t *testing.T) {
	html := `<table>
		<tr><td colspan="2">wide</td><td>c</td></tr>
		<tr><td>a</td><td>b</td><td>c</td></tr>
		<tr><td colspan="bogus">x</td><td colspan="0">y</td></tr>
	</table>`

	r, _ := OpenReader(strings.NewReader(html))
	table, _ := r.Table(0)

	want := [][]string{
		{"wide", "", "c"},
		{"a", "b", "c"},
		{"x", "y"},
	}
	if diff := cmp.Diff(want, table.Strings()); diff != "" {
		t.Errorf("Strings() mismatch (-want +got):\n%s", diff)
	}
	if table.Rows[0][0].ColSpan != 2 {
		t.Errorf("ColSpan = %d, want 2", table.Rows[0][0].ColSpan)
	}
}

func TestOpenReader_NestedTables(t *testing.T) {
	html := `<table>
		<tr><td>outer <table><tr><td>inner</td></tr></table></td><td>b</td></tr>
	</table>
	<table><tr><td>second</td></tr></table>`

	r, _ := OpenReader(strings.NewReader(html))
	if r.TableCount() != 3 {
		t.Fatalf("TableCount() = %d, want 3", r.TableCount())
	}

	outer, _ := r.Table(0)
	if got := outer.Rows[0][0].Text; got != "outer" {
		t.Errorf("outer cell = %q, want nested table text left out", got)
	}
	inner, _ := r.Table(1)
	if got := inner.Rows[0][0].Text; got != "inner" {
		t.Errorf("inner cell = %q, want 'inner'", got)
	}
	second, _ := r.Table(2)
	if got := second.Rows[0][0].Text; got != "second" {
		t.Errorf("second table cell = %q", got)
	}
}

func TestOpenReader_SkipsScriptsAndBreaks(t *testing.T) {
	html := `<table><tr><td>a<br>b<script>var x = 1;</script></td></tr></table>
	<template><table><tr><td>hidden</td></tr></table></template>`

	r, _ := OpenReader(strings.NewReader(html))
	if r.TableCount() != 1 {
		t.Fatalf("TableCount() = %d, want 1", r.TableCount())
	}
	table, _ := r.Table(0)
	if got := table.Rows[0][0].Text; got != "a b" {
		t.Errorf("cell = %q, want 'a b'", got)
	}
}

func TestReader_TableOutOfRange(t *testing.T) {
	r, _ := OpenReader(strings.NewReader(`<p>no tables here</p>`))

	if r.TableCount() != 0 {
		t.Errorf("TableCount() = %d, want 0", r.TableCount())
	}
	for _, i := range []int{-1, 0, 5} {
		if _, err := r.Table(i); !errors.Is(err, ErrNoTable) {
			t.Errorf("Table(%d) error = %v, want ErrNoTable", i, err)
		}
	}
}

func TestOpen_NotFound(t *testing.T) {
	if _, err := Open("/nonexistent/file.html"); err == nil {
		t.Error("Open() expected error for nonexistent file")
	}
}

func TestOpen_ValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.html")
	if err := os.WriteFile(path, []byte("<table><tr><td>x</td></tr></table>"), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer r.Close()

	if r.TableCount() != 1 {
		t.Errorf("TableCount() = %d, want 1", r.TableCount())
	}
}

func TestReader_Close(t *testing.T) {
	r, _ := OpenReader(strings.NewReader(`<html><body></body></html>`))

	// Close should succeed
	if err := r.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}

	// Second close should be safe
	if err := r.Close(); err != nil {
		t.Errorf("Second Close() failed: %v", err)
	}
}
