package row

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplit_KeepsTrailingEmptyFields(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"plain", "a\tb\tc", []string{"a", "b", "c"}},
		{"empty last column", "a\tb\t", []string{"a", "b", ""}},
		{"two empty trailing", "a\t\t", []string{"a", "", ""}},
		{"only delimiters", "\t\t", []string{"", "", ""}},
		{"empty line", "", []string{""}},
		{"empty leading", "\tb", []string{"", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Split(tt.line, "\t"))
		})
	}
}

func TestSplitJoin_RoundTrip(t *testing.T) {
	cases := [][]string{
		{""},
		{"", ""},
		{"a"},
		{"a", ""},
		{"a", "", ""},
		{"", "", "", ""},
		{"900000000000207008", "", "1", "es", "Término con espacios", ""},
		{"x", "y z", "ü"},
	}

	for _, fields := range cases {
		joined := Join(fields, "\t")
		assert.Equal(t, fields, Split(joined, "\t"), "round trip of %q", fields)
	}
}

func TestSplitJoin_OtherDelimiter(t *testing.T) {
	fields := []string{"a", "", "c", ""}
	assert.Equal(t, "a||c|", Join(fields, "|"))
	assert.Equal(t, fields, Split("a||c|", "|"))
}

func TestSplitJoin_EmptyDelimiterMeansTab(t *testing.T) {
	assert.Equal(t, "a\tb", Join([]string{"a", "b"}, ""))
	assert.Equal(t, []string{"a", "b"}, Split("a\tb", ""))
}

func TestJoin_Empty(t *testing.T) {
	assert.Equal(t, "", Join(nil, "\t"))
}
