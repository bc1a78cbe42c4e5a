// Package format detects the input formats tabulate can read rows from.
package format

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ErrUnknownFormat is returned when a format name or input is not recognized.
var ErrUnknownFormat = errors.New("format: unknown format")

// Format represents a supported input format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// CSV indicates comma-separated values.
	CSV
	// TSV indicates tab-separated values.
	TSV
	// HTML indicates an HTML document.
	HTML
	// XLSX indicates a Microsoft Excel (.xlsx) workbook.
	XLSX
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case CSV:
		return "CSV"
	case TSV:
		return "TSV"
	case HTML:
		return "HTML"
	case XLSX:
		return "XLSX"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case CSV:
		return ".csv"
	case TSV:
		return ".tsv"
	case HTML:
		return ".html"
	case XLSX:
		return ".xlsx"
	default:
		return ""
	}
}

// Parse returns the format named by s, as given on a command line.
func Parse(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return CSV, nil
	case "tsv", "tab":
		return TSV, nil
	case "html", "htm":
		return HTML, nil
	case "xlsx", "excel":
		return XLSX, nil
	}
	return Unknown, fmt.Errorf("%w %q", ErrUnknownFormat, s)
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return CSV
	case ".tsv", ".tab":
		return TSV
	case ".html", ".htm", ".xhtml":
		return HTML
	case ".xlsx":
		return XLSX
	default:
		return Unknown
	}
}

// sniffLen is how much leading content the detectors look at.
const sniffLen = 512

var zipMagic = []byte("PK\x03\x04")

// DetectFromMagic checks leading bytes to determine format. A ZIP archive
// is reported as Unknown; use DetectFromReader to look inside it. Plain
// text falls back to TSV when its first line holds a tab and to CSV when
// it holds a comma.
func DetectFromMagic(data []byte) Format {
	if len(data) > sniffLen {
		data = data[:sniffLen]
	}
	if bytes.HasPrefix(data, zipMagic) {
		return Unknown
	}
	if detectHTMLMagic(data) {
		return HTML
	}
	return detectDelimited(data)
}

// detectHTMLMagic checks if the data looks like HTML content.
func detectHTMLMagic(data []byte) bool {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")) // UTF-8 BOM
	data = bytes.TrimLeft(data, " \t\r\n")
	if len(data) == 0 {
		return false
	}

	// Check for common HTML signatures (case-insensitive)
	upper := bytes.ToUpper(data)
	for _, sig := range []string{"<!DOCTYPE HTML", "<HTML", "<TABLE", "<HEAD", "<BODY", "<!--"} {
		if bytes.HasPrefix(upper, []byte(sig)) {
			return true
		}
	}
	// XML declaration followed by html-like content could be XHTML
	return bytes.HasPrefix(upper, []byte("<?XML")) && bytes.Contains(upper, []byte("<HTML"))
}

// detectDelimited looks at the first line of text for a field separator.
func detectDelimited(data []byte) Format {
	line, _, _ := bytes.Cut(data, []byte("\n"))
	switch {
	case bytes.IndexByte(line, 0) >= 0:
		return Unknown // Binary
	case bytes.IndexByte(line, '\t') >= 0:
		return TSV
	case bytes.IndexByte(line, ',') >= 0:
		return CSV
	}
	return Unknown
}

// DetectFromReader inspects the content to determine format. Unlike
// DetectFromMagic it can tell an XLSX workbook from other ZIP archives.
func DetectFromReader(r io.ReaderAt, size int64) (Format, error) {
	magic := make([]byte, sniffLen)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	magic = magic[:n]

	if bytes.HasPrefix(magic, zipMagic) {
		return detectZIPFormat(r, size)
	}
	return DetectFromMagic(magic), nil
}

// detectZIPFormat reports XLSX for Office Open XML spreadsheets.
func detectZIPFormat(r io.ReaderAt, size int64) (Format, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Unknown, err
	}

	var contentTypes, workbook bool
	for _, f := range zr.File {
		switch {
		case f.Name == "[Content_Types].xml":
			contentTypes = true
		case strings.HasPrefix(f.Name, "xl/"):
			workbook = true
		}
	}
	if contentTypes && workbook {
		return XLSX, nil
	}
	return Unknown, nil
}

// Resolve picks the format of an input: an explicit name wins, then the
// filename extension, then the content.
func Resolve(name, filename string, data []byte) (Format, error) {
	if name != "" {
		return Parse(name)
	}
	if f := Detect(filename); f != Unknown {
		return f, nil
	}
	f, err := DetectFromReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Unknown, fmt.Errorf("format: detecting content: %w", err)
	}
	if f == Unknown {
		return Unknown, fmt.Errorf("%w: cannot detect format of %s", ErrUnknownFormat, displayName(filename))
	}
	return f, nil
}

func displayName(filename string) string {
	if filename == "" || filename == "-" {
		return "stdin"
	}
	return filename
}
