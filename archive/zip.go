package archive

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zip"
)

type zipArchive struct {
	entries []Entry
	closer  io.Closer
}

func (a *zipArchive) Format() Format   { return FormatZip }
func (a *zipArchive) Entries() []Entry { return a.entries }

func (a *zipArchive) Close() error {
	if a.closer != nil {
		return a.closer.Close()
	}
	return nil
}

// OpenZip opens a zip bundle of the given size.
func OpenZip(r io.ReaderAt, size int64) (Archive, error) {
	a, err := openZip(r, size)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func openZip(r io.ReaderAt, size int64) (*zipArchive, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to open zip: %w", err)
	}

	a := &zipArchive{}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || skipEntry(f.Name) {
			continue
		}
		file := f
		a.entries = append(a.entries, Entry{
			Name: file.Name,
			Size: int64(file.UncompressedSize64), //nolint:gosec // Safe: entry sizes fit in int64
			open: file.Open,
		})
	}
	return a, nil
}

type zipWriter struct {
	zw *zip.Writer
}

// NewZipWriter returns a Writer producing a zip bundle on w.
func NewZipWriter(w io.Writer) Writer {
	return &zipWriter{zw: zip.NewWriter(w)}
}

func (w *zipWriter) Create(name string) (io.Writer, error) {
	ew, err := w.zw.Create(name)
	if err != nil {
		return nil, fmt.Errorf("failed to create zip entry %s: %w", name, err)
	}
	return ew, nil
}

func (w *zipWriter) Close() error {
	return w.zw.Close()
}
