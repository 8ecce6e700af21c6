package rf2

import (
	"errors"
	"fmt"
	"testing"
)

func TestRowError(t *testing.T) {
	tests := []struct {
		err  *RowError
		want string
	}{
		{
			err:  NewRowError("sct2_Description_Snapshot-es_INT_20240131.txt", 12, "description", ErrMalformedRow),
			want: "sct2_Description_Snapshot-es_INT_20240131.txt:12: description row: malformed row",
		},
		{
			err:  NewRowError("", 2, "", ErrMissingDefinition),
			want: "<stream>:2: missing definition row",
		},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q; want %q", got, tt.want)
		}
	}
}

func TestRowError_Unwrap(t *testing.T) {
	err := fmt.Errorf("import failed: %w", NewRowError("x.txt", 3, "language", ErrDanglingLink))

	if !errors.Is(err, ErrDanglingLink) {
		t.Error("errors.Is(err, ErrDanglingLink) = false; want true")
	}

	var rowErr *RowError
	if !errors.As(err, &rowErr) {
		t.Fatal("errors.As(err, *RowError) = false; want true")
	}
	if rowErr.Line != 3 || rowErr.Entry != "x.txt" {
		t.Errorf("RowError = %+v", rowErr)
	}
}
