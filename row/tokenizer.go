// Package row implements the RF2 tab-delimited row format: a tokenizer that
// preserves empty trailing fields, fixed per-kind column schemas, and a
// line reader/writer that skips and emits the header line.
package row

import (
	"strings"

	"github.com/gofhir/rf2/pool"
)

// Delimiter is the RF2 field separator.
const Delimiter = "\t"

// Split returns the fields of line separated by delim, keeping empty
// trailing fields: Split("a\t\t", "\t") is ["a", "", ""].
// An empty delim is treated as Delimiter.
func Split(line, delim string) []string {
	if delim == "" {
		delim = Delimiter
	}
	return strings.Split(line, delim)
}

// Join is the exact inverse of Split: Split(Join(f, d), d) equals f for every
// non-empty f, including slices ending in empty strings.
func Join(fields []string, delim string) string {
	if delim == "" {
		delim = Delimiter
	}
	switch len(fields) {
	case 0:
		return ""
	case 1:
		return fields[0]
	}

	b := pool.AcquireLine()
	defer pool.ReleaseLine(b)

	*b = appendJoined(*b, fields, delim)
	return string(*b)
}

// appendJoined appends fields joined by delim to dst.
func appendJoined(dst []byte, fields []string, delim string) []byte {
	for i, f := range fields {
		if i > 0 {
			dst = append(dst, delim...)
		}
		dst = append(dst, f...)
	}
	return dst
}
