// Package delimited reads CSV and TSV input as table rows.
//
// Records may have different numbers of fields. Rows can be streamed with
// [Reader.Rows], which feeds tabulate.TabulateSeq directly, or collected
// into a model.Table with [Reader.Table]. A Reader is single-pass: its
// rows can be read once.
package delimited

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"slices"

	"github.com/tsawler/tabulate/model"
)

var (
	// ErrConsumed is returned when the records of a Reader are read a
	// second time.
	ErrConsumed = errors.New("delimited: rows already read")
	// ErrComma is wrapped when Options.Comma cannot separate fields.
	ErrComma = errors.New("delimited: invalid separator")
)

// Options controls how records are split into cells.
type Options struct {
	Comma            rune // Field separator
	Comment          rune // Lines starting with Comment are skipped; 0 disables
	TrimLeadingSpace bool // Ignore leading white space in a field
	LazyQuotes       bool // Allow quotes inside unquoted fields
	HeaderRows       int  // Leading records marked as header rows in Table()
}

// CSVOptions returns options for comma-separated input.
func CSVOptions() Options {
	return Options{Comma: ','}
}

// TSVOptions returns options for tab-separated input. Quotes are taken
// literally, as most TSV producers do not quote.
func TSVOptions() Options {
	return Options{Comma: '\t', LazyQuotes: true}
}

// Reader provides access to delimited records.
type Reader struct {
	file     *os.File
	csv      *csv.Reader
	opts     Options
	line     int
	consumed bool
	err      error
}

// Open opens a delimited file for reading. The Reader must be closed.
func Open(filename string, opts Options) (*Reader, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	r, err := OpenReader(f, opts)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.file = f
	return r, nil
}

// OpenReader reads delimited records from an io.Reader.
func OpenReader(src io.Reader, opts Options) (*Reader, error) {
	if opts.Comma == 0 {
		opts.Comma = ','
	}
	if opts.Comma == '"' || opts.Comma == '\r' || opts.Comma == '\n' || opts.Comma == opts.Comment {
		return nil, fmt.Errorf("%w: %q", ErrComma, opts.Comma)
	}

	cr := csv.NewReader(src)
	cr.Comma = opts.Comma
	cr.Comment = opts.Comment
	cr.TrimLeadingSpace = opts.TrimLeadingSpace
	cr.LazyQuotes = opts.LazyQuotes
	cr.FieldsPerRecord = -1 // Ragged records are allowed

	return &Reader{csv: cr, opts: opts}, nil
}

// Close releases the underlying file, if the Reader opened one.
func (r *Reader) Close() error {
	if r.file != nil {
		err := r.file.Close()
		r.file = nil
		return err
	}
	return nil
}

// Err returns the first error met while streaming with Rows.
func (r *Reader) Err() error {
	return r.err
}

// Rows returns the records as a lazy row source. Iteration stops at the
// first malformed record; check Err afterwards.
func (r *Reader) Rows() iter.Seq[iter.Seq[string]] {
	return func(yield func(iter.Seq[string]) bool) {
		if r.consumed {
			r.err = ErrConsumed
			return
		}
		r.consumed = true
		for {
			record, err := r.next()
			if err == io.EOF {
				return
			}
			if err != nil {
				r.err = err
				return
			}
			if !yield(slices.Values(record)) {
				return
			}
		}
	}
}

// Table reads every remaining record into a table.
func (r *Reader) Table() (*model.Table, error) {
	if r.consumed {
		return nil, ErrConsumed
	}
	r.consumed = true

	table := &model.Table{}
	for {
		record, err := r.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(table.Rows) < r.opts.HeaderRows {
			table.AddHeader(record...)
		} else {
			table.AddRow(record...)
		}
	}
	return table, nil
}

func (r *Reader) next() ([]string, error) {
	record, err := r.csv.Read()
	if err != nil {
		if err == io.EOF {
			return nil, err
		}
		return nil, fmt.Errorf("reading record %d: %w", r.line+1, err)
	}
	r.line++
	return record, nil
}
