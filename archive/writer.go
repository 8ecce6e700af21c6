package archive

import "io"

// Writer creates the entries of an output archive in order.
type Writer interface {
	// Create starts a new entry; the previous entry is complete.
	Create(name string) (io.Writer, error)

	// Close finishes the archive. It does not close the underlying writer.
	Close() error
}

type flatWriter struct {
	w       io.Writer
	created bool
}

// NewFlatWriter returns a Writer that accepts exactly one entry and writes it
// to w unframed. The entry name is ignored.
func NewFlatWriter(w io.Writer) Writer {
	return &flatWriter{w: w}
}

func (f *flatWriter) Create(string) (io.Writer, error) {
	if f.created {
		return nil, ErrSingleEntry
	}
	f.created = true
	return f.w, nil
}

func (f *flatWriter) Close() error {
	return nil
}
