package model

import (
	"bytes"
	"testing"
)

func TestTableRowColCount(t *testing.T) {
	t.Run("ragged table", func(t *testing.T) {
		table := &Table{}
		table.AddRow("a")
		table.AddRow("a", "b", "c")
		table.AddRow()
		if table.RowCount() != 3 {
			t.Errorf("RowCount() = %d, want 3", table.RowCount())
		}
		if table.ColCount() != 3 {
			t.Errorf("ColCount() = %d, want 3", table.ColCount())
		}
	})

	t.Run("empty table", func(t *testing.T) {
		table := &Table{}
		if table.RowCount() != 0 {
			t.Errorf("empty table RowCount() = %d, want 0", table.RowCount())
		}
		if table.ColCount() != 0 {
			t.Errorf("empty table ColCount() = %d, want 0", table.ColCount())
		}
	})
}

func TestTableAddHeader(t *testing.T) {
	table := &Table{}
	table.AddHeader("Name", "Size")
	table.AddHeader("", "bytes")
	table.AddRow("a.txt", "12")
	table.AddHeader("late", "header")

	if table.HeaderRows != 2 {
		t.Errorf("HeaderRows = %d, want 2", table.HeaderRows)
	}
	if !table.Rows[0][0].IsHeader || table.Rows[2][0].IsHeader {
		t.Error("IsHeader not set from AddHeader/AddRow")
	}
	if !table.Rows[3][1].IsHeader {
		t.Error("late header row should still mark its cells")
	}
}

func TestTableText(t *testing.T) {
	table := &Table{}
	table.AddRow("a", "b")
	table.AddRow("c")

	tests := []struct {
		name     string
		row, col int
		want     string
	}{
		{"present", 0, 1, "b"},
		{"short row", 1, 1, ""},
		{"row out of range", 5, 0, ""},
		{"negative row", -1, 0, ""},
		{"negative col", 0, -1, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := table.Text(tt.row, tt.col); got != tt.want {
				t.Errorf("Text(%d, %d) = %q, want %q", tt.row, tt.col, got, tt.want)
			}
		})
	}
}

func TestTableStrings(t *testing.T) {
	table := &Table{}
	table.AddRow("a", "b")
	table.AddRow("c")
	table.Rows = append(table.Rows, nil)

	got := table.Strings()
	if len(got) != 3 {
		t.Fatalf("Strings() returned %d rows, want 3", len(got))
	}
	if len(got[0]) != 2 || got[0][1] != "b" {
		t.Errorf("row 0 = %q, want [a b]", got[0])
	}
	if len(got[1]) != 1 || got[1][0] != "c" {
		t.Errorf("row 1 = %q, want [c]", got[1])
	}
	if len(got[2]) != 0 {
		t.Errorf("row 2 = %q, want empty", got[2])
	}
}

func TestTableToMarkdown(t *testing.T) {
	table := &Table{}
	table.AddHeader("Header1", "Header2")
	table.AddRow("Data1", "Data2")
	table.AddRow("Data3", "Data4")

	want := "| Header1 | Header2 |\n|---|---|\n| Data1 | Data2 |\n| Data3 | Data4 |\n"
	if got := table.ToMarkdown(); got != want {
		t.Errorf("ToMarkdown() = %q, want %q", got, want)
	}
}

func TestTableToMarkdown_Ragged(t *testing.T) {
	table := &Table{}
	table.AddRow("a", "b|c")
	table.AddRow("d\ne")

	want := "|  |  |\n|---|---|\n| a | b\\|c |\n| d e |  |\n"
	if got := table.ToMarkdown(); got != want {
		t.Errorf("ToMarkdown() = %q, want %q", got, want)
	}
}

func TestTableToMarkdown_MultiRowHeader(t *testing.T) {
	table := &Table{}
	table.AddHeader("Size", "")
	table.AddHeader("bytes", "Name")
	table.AddRow("12", "a.txt")

	want := "| Size bytes | Name |\n|---|---|\n| 12 | a.txt |\n"
	if got := table.ToMarkdown(); got != want {
		t.Errorf("ToMarkdown() = %q, want %q", got, want)
	}
}

func TestTableHeaderAndBody(t *testing.T) {
	table := &Table{HeaderRows: 5}
	table.AddRow("a", "b")
	table.AddRow("c")

	if got := table.Header(); len(got) != 2 || got[0] != "a c" || got[1] != "b" {
		t.Errorf("Header() = %q, want [\"a c\" \"b\"]", got)
	}
	if got := table.Body(); len(got) != 0 {
		t.Errorf("Body() = %q, want no rows", got)
	}

	table.HeaderRows = 0
	if got := table.Header(); got != nil {
		t.Errorf("Header() without header rows = %q, want nil", got)
	}
	if got := table.Body(); len(got) != 2 {
		t.Errorf("Body() = %q, want both rows", got)
	}
}

func TestTableToMarkdown_Empty(t *testing.T) {
	table := &Table{}
	if md := table.ToMarkdown(); md != "" {
		t.Error("empty table should produce empty markdown")
	}
}

func TestTableWriteCSV(t *testing.T) {
	table := &Table{}
	table.AddRow("Hello, World", `Say "Hi"`)
	table.AddRow("short")

	tests := []struct {
		name  string
		comma rune
		want  string
	}{
		{"comma", ',', "\"Hello, World\",\"Say \"\"Hi\"\"\"\nshort\n"},
		{"tab", '\t', "Hello, World\t\"Say \"\"Hi\"\"\"\nshort\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := table.WriteCSV(&buf, tt.comma); err != nil {
				t.Fatalf("WriteCSV() error = %v", err)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("WriteCSV() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTableWriteCSV_InvalidComma(t *testing.T) {
	table := &Table{}
	table.AddRow("a")
	if err := table.WriteCSV(&bytes.Buffer{}, '"'); err == nil {
		t.Error("WriteCSV() with a quote separator should fail")
	}
}
