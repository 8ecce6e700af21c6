package row

import (
	"bufio"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/gofhir/rf2"
)

// maxLineSize bounds a single RF2 line. Terms and definitions are far shorter.
const maxLineSize = 1 << 20

// Reader reads data rows of one kind from an RF2 file.
// The first line is the header and is skipped without validation.
// Blank lines are ignored; a UTF-8 byte order mark and CR line endings are
// accepted.
type Reader struct {
	kind    Kind
	name    string
	scanner *bufio.Scanner
	line    int
	header  []string
	row     Row
	err     error
}

// NewReader returns a Reader over r. name labels errors; it is usually the
// archive entry name.
func NewReader(r io.Reader, kind Kind, name string) *Reader {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	scanner := bufio.NewScanner(decoded)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Reader{kind: kind, name: name, scanner: scanner}
}

// Next advances to the next data row. It returns false at end of input or on
// the first error; Err reports which.
func (r *Reader) Next() bool {
	if r.err != nil {
		return false
	}
	for r.scanner.Scan() {
		r.line++
		text := strings.TrimSuffix(r.scanner.Text(), "\r")
		if r.line == 1 {
			r.header = Split(text, Delimiter)
			continue
		}
		if text == "" {
			continue
		}
		row, err := Parse(r.kind, text)
		if err != nil {
			r.err = rf2.NewRowError(r.name, r.line, r.kind.String(), err)
			return false
		}
		r.row = row
		return true
	}
	if err := r.scanner.Err(); err != nil {
		r.err = rf2.NewRowError(r.name, r.line+1, r.kind.String(), err)
	}
	return false
}

// Row returns the current data row.
func (r *Reader) Row() Row {
	return r.row
}

// Line returns the 1-based physical line number of the current row.
func (r *Reader) Line() int {
	return r.line
}

// Header returns the fields of the header line, once read.
func (r *Reader) Header() []string {
	return r.header
}

// Err returns the first error encountered. Malformed rows and I/O failures
// are reported as *rf2.RowError.
func (r *Reader) Err() error {
	return r.err
}

// ReadAll reads every remaining data row.
func (r *Reader) ReadAll() ([]Row, error) {
	var rows []Row
	for r.Next() {
		rows = append(rows, r.Row())
	}
	return rows, r.Err()
}
