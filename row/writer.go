package row

import (
	"bufio"
	"io"

	"github.com/gofhir/rf2/pool"
)

// LineEnding is the line terminator written by Writer. RF2 releases use CRLF.
const LineEnding = "\r\n"

// Writer writes a header followed by data rows of one kind.
type Writer struct {
	kind    Kind
	w       *bufio.Writer
	rows    int
	started bool
}

// NewWriter returns a Writer over w.
func NewWriter(w io.Writer, kind Kind) *Writer {
	return &Writer{kind: kind, w: bufio.NewWriter(w)}
}

// WriteHeader writes the header line. Write calls it on first use.
func (w *Writer) WriteHeader() error {
	if w.started {
		return nil
	}
	w.started = true
	return w.writeLine(w.kind.Columns())
}

// Write writes one data row. Values must not contain a tab or a line break.
func (w *Writer) Write(fields ...string) error {
	if err := w.WriteHeader(); err != nil {
		return err
	}
	if err := checkFields(w.kind, fields); err != nil {
		return err
	}
	if err := w.writeLine(fields); err != nil {
		return err
	}
	w.rows++
	return nil
}

// Rows returns the number of data rows written.
func (w *Writer) Rows() int {
	return w.rows
}

// Flush writes the header if nothing was written yet and flushes buffered data.
func (w *Writer) Flush() error {
	if err := w.WriteHeader(); err != nil {
		return err
	}
	return w.w.Flush()
}

func (w *Writer) writeLine(fields []string) error {
	b := pool.AcquireLine()
	defer pool.ReleaseLine(b)

	*b = appendJoined(*b, fields, Delimiter)
	*b = append(*b, LineEnding...)
	_, err := w.w.Write(*b)
	return err
}
