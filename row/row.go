package row

import (
	"fmt"
	"strings"

	"github.com/gofhir/rf2"
)

// Row is one parsed data line.
type Row struct {
	Kind   Kind
	Fields []string
}

// Parse splits line and checks the field count against the kind's schema.
func Parse(kind Kind, line string) (Row, error) {
	fields := Split(line, Delimiter)
	if want := kind.Width(); len(fields) != want {
		return Row{}, fmt.Errorf("%w: got %d fields, want %d", rf2.ErrMalformedRow, len(fields), want)
	}
	return Row{Kind: kind, Fields: fields}, nil
}

// Get returns the value of column, or "" if the kind has no such column.
func (r Row) Get(column string) string {
	i := r.Kind.Index(column)
	if i < 0 || i >= len(r.Fields) {
		return ""
	}
	return r.Fields[i]
}

// ID returns the id column.
func (r Row) ID() string {
	return r.Fields[0]
}

// Last returns the last column.
func (r Row) Last() string {
	return r.Fields[len(r.Fields)-1]
}

// Format joins fields after checking them against the kind's schema.
func Format(kind Kind, fields ...string) (string, error) {
	if err := checkFields(kind, fields); err != nil {
		return "", err
	}
	return Join(fields, Delimiter), nil
}

// checkFields rejects rows of the wrong width and values holding a tab or a
// line break, which would shift columns or split the row on read.
func checkFields(kind Kind, fields []string) error {
	if want := kind.Width(); len(fields) != want {
		return fmt.Errorf("%w: %s row has %d fields, want %d", rf2.ErrMalformedRow, kind, len(fields), want)
	}
	for i, f := range fields {
		if strings.ContainsAny(f, Delimiter+"\r\n") {
			return fmt.Errorf("%w: %s column %s contains a tab or line break", rf2.ErrMalformedRow, kind, kind.schema().columns[i])
		}
	}
	return nil
}
