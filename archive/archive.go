// Package archive presents zip bundles, gzip-compressed tar bundles and flat
// streams as one abstraction: a sequence of named entries. A flat stream is a
// single entry with an empty name.
package archive

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
)

// Format identifies the container an archive was read from.
type Format string

// Supported formats.
const (
	FormatZip  Format = "zip"
	FormatTgz  Format = "tgz"
	FormatFlat Format = "flat"
)

// ErrSingleEntry is returned when a second entry is created on a flat writer.
var ErrSingleEntry = errors.New("flat stream holds a single entry")

// Entry is one named member of an archive.
type Entry struct {
	// Name is the path inside the archive; empty for a flat stream.
	Name string

	// Size is the uncompressed size in bytes, or -1 if unknown.
	Size int64

	open func() (io.ReadCloser, error)
}

// Open returns a reader over the entry's content. The caller must close it.
func (e Entry) Open() (io.ReadCloser, error) {
	if e.open == nil {
		return nil, fmt.Errorf("entry %q has no content", e.Name)
	}
	return e.open()
}

// BaseName returns the last path element of the entry name.
func (e Entry) BaseName() string {
	return path.Base(e.Name)
}

// NewEntry returns an entry backed by data.
func NewEntry(name string, data []byte) Entry {
	return Entry{
		Name: name,
		Size: int64(len(data)),
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// Archive is a sequence of named entries.
type Archive interface {
	// Format returns the container format.
	Format() Format

	// Entries returns the entries in physical order, directories excluded.
	Entries() []Entry

	// Close releases resources held by the archive.
	Close() error
}

type memArchive struct {
	format  Format
	entries []Entry
	closer  io.Closer
}

func (a *memArchive) Format() Format   { return a.format }
func (a *memArchive) Entries() []Entry { return a.entries }

func (a *memArchive) Close() error {
	if a.closer != nil {
		return a.closer.Close()
	}
	return nil
}

// Flat wraps a single stream as an archive with one anonymous entry.
func Flat(data []byte) Archive {
	return &memArchive{format: FormatFlat, entries: []Entry{NewEntry("", data)}}
}

// FromEntries builds an archive from pre-built entries, in the given order.
func FromEntries(format Format, entries ...Entry) Archive {
	return &memArchive{format: format, entries: entries}
}

// Sniff reports the container format of data from its leading bytes.
func Sniff(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, []byte("PK\x03\x04")), bytes.HasPrefix(data, []byte("PK\x05\x06")):
		return FormatZip
	case bytes.HasPrefix(data, []byte{0x1f, 0x8b}):
		return FormatTgz
	default:
		return FormatFlat
	}
}

// Open reads r fully and opens it according to its sniffed format.
func Open(r io.Reader) (Archive, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive: %w", err)
	}
	return OpenBytes(data)
}

// OpenBytes opens data according to its sniffed format.
func OpenBytes(data []byte) (Archive, error) {
	switch Sniff(data) {
	case FormatZip:
		return OpenZip(bytes.NewReader(data), int64(len(data)))
	case FormatTgz:
		return OpenTgz(bytes.NewReader(data))
	default:
		return Flat(data), nil
	}
}

// OpenFile opens the archive at path. Zip files are read in place; other
// formats are loaded into memory.
func OpenFile(name string) (Archive, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	var magic [4]byte
	n, err := f.ReadAt(magic[:], 0)
	if err != nil && !errors.Is(err, io.EOF) {
		_ = f.Close()
		return nil, fmt.Errorf("failed to read archive header: %w", err)
	}

	if Sniff(magic[:n]) == FormatZip {
		info, err := f.Stat()
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to stat archive: %w", err)
		}
		a, err := openZip(f, info.Size())
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		a.closer = f
		return a, nil
	}

	defer f.Close()
	return Open(f)
}

// Classify reports whether the entry name contains token, ignoring case, and
// none of the exclude tokens. Only the base name is matched.
func Classify(name, token string, exclude ...string) bool {
	base := strings.ToLower(path.Base(name))
	if !strings.Contains(base, strings.ToLower(token)) {
		return false
	}
	for _, x := range exclude {
		if strings.Contains(base, strings.ToLower(x)) {
			return false
		}
	}
	return true
}

// Select returns the entries of a whose names Classify as token.
func Select(a Archive, token string, exclude ...string) []Entry {
	var out []Entry
	for _, e := range a.Entries() {
		if Classify(e.Name, token, exclude...) {
			out = append(out, e)
		}
	}
	return out
}

// skipEntry reports entries that never hold release content: directories and
// resource-fork files added by macOS archivers.
func skipEntry(name string) bool {
	if name == "" || strings.HasSuffix(name, "/") {
		return true
	}
	if strings.HasPrefix(name, "__MACOSX/") || strings.Contains(name, "/__MACOSX/") {
		return true
	}
	return strings.HasPrefix(path.Base(name), "._")
}
