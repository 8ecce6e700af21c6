package row

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gofhir/rf2"
	"github.com/gofhir/rf2/pool"
)

func TestParse(t *testing.T) {
	r, err := Parse(KindDescription, "101\t20240131\t1\t450829007\t22298006\tes\t900000000000013009\tinfarto de miocardio\t")
	require.NoError(t, err)

	assert.Equal(t, "101", r.ID())
	assert.Equal(t, "22298006", r.Get(ColConceptID))
	assert.Equal(t, "infarto de miocardio", r.Get(ColTerm))
	assert.Equal(t, "", r.Get(ColCaseSignificanceID))
	assert.Equal(t, "", r.Last())
	assert.Equal(t, "", r.Get(ColAcceptabilityID))
}

func TestParse_FieldCountMismatch(t *testing.T) {
	_, err := Parse(KindLanguage, "1\t\t1\tmod\trefset\t101")
	require.Error(t, err)
	assert.True(t, errors.Is(err, rf2.ErrMalformedRow))

	_, err = Parse(KindSimple, "1\t\t1\tmod\trefset\t101\textra")
	assert.ErrorIs(t, err, rf2.ErrMalformedRow)
}

func TestFormat(t *testing.T) {
	line, err := Format(KindSimple, "1", "", "1", "mod", "refset", "")
	require.NoError(t, err)
	assert.Equal(t, "1\t\t1\tmod\trefset\t", line)

	_, err = Format(KindSimple, "1")
	assert.ErrorIs(t, err, rf2.ErrMalformedRow)
}

func TestReader(t *testing.T) {
	input := "\ufeff" + KindSimple.Header() + "\r\n" +
		"a\t\t1\tm\tr\t100\r\n" +
		"\r\n" +
		"b\t20240131\t0\tm\tr\t200\n"

	rr := NewReader(strings.NewReader(input), KindSimple, "der2_Refset_SimpleSnapshot_INT_20240131.txt")
	rows, err := rr.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "a", rows[0].ID())
	assert.Equal(t, "100", rows[0].Get(ColReferencedComponentID))
	assert.Equal(t, "200", rows[1].Last())
	assert.Equal(t, KindSimple.Columns(), rr.Header())
}

func TestReader_HeaderNotValidated(t *testing.T) {
	rr := NewReader(strings.NewReader("whatever header\nx\t\t1\tm\tr\t1\n"), KindSimple, "")
	rows, err := rr.ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestReader_MalformedRow(t *testing.T) {
	input := KindLanguage.Header() + "\n" +
		"1\t\t1\tm\tr\t101\tpref\n" +
		"2\t\t1\tm\tr\t102\n"

	rr := NewReader(strings.NewReader(input), KindLanguage, "lang.txt")
	rows, err := rr.ReadAll()
	require.Error(t, err)
	assert.Len(t, rows, 1)
	assert.ErrorIs(t, err, rf2.ErrMalformedRow)

	var rowErr *rf2.RowError
	require.True(t, errors.As(err, &rowErr))
	assert.Equal(t, 3, rowErr.Line)
	assert.Equal(t, "lang.txt", rowErr.Entry)
	assert.Equal(t, "language", rowErr.Kind)
}

func TestReader_HeaderOnly(t *testing.T) {
	rr := NewReader(strings.NewReader(KindSimple.Header()+"\n"), KindSimple, "")
	rows, err := rr.ReadAll()
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, KindSimple)

	require.NoError(t, w.Write("a", "", "1", "m", "r", "100"))
	require.NoError(t, w.Write("b", "", "1", "m", "r", ""))
	require.NoError(t, w.Flush())
	assert.Equal(t, 2, w.Rows())

	lines := strings.Split(strings.TrimSuffix(buf.String(), LineEnding), LineEnding)
	require.Len(t, lines, 3)
	assert.Equal(t, KindSimple.Header(), lines[0])
	assert.Equal(t, "b\t\t1\tm\tr\t", lines[2])

	// Written output reads back to the same rows
	rows, err := NewReader(&buf, KindSimple, "").ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"b", "", "1", "m", "r", ""}, rows[1].Fields)
}

func TestWriter_WrongWidth(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, KindLanguage)
	err := w.Write("a", "b")
	assert.ErrorIs(t, err, rf2.ErrMalformedRow)
}

func TestFieldsPool_FitsWidestKind(t *testing.T) {
	widest := 0
	for k := KindConcept; k.IsValid(); k++ {
		widest = max(widest, k.Width())
	}
	f := pool.AcquireFields()
	defer pool.ReleaseFields(f)
	assert.GreaterOrEqual(t, cap(*f), widest)
}

func TestWriter_RejectsLineBreaksAndTabs(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"tab", "first\tsecond"},
		{"newline", "line one\nline two"},
		{"carriage return", "line one\rline two"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			w := NewWriter(&buf, KindDefinition)
			err := w.Write("a", "", "1", "m", "r", "r", tt.value)
			require.Error(t, err)
			assert.ErrorIs(t, err, rf2.ErrMalformedRow)
			assert.Contains(t, err.Error(), ColDefinition)
			assert.Zero(t, w.Rows())

			_, err = Format(KindDefinition, "a", "", "1", "m", "r", "r", tt.value)
			assert.ErrorIs(t, err, rf2.ErrMalformedRow)
		})
	}
}

func TestWriter_EmptyFlushWritesHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, KindDefinition)
	require.NoError(t, w.Flush())
	assert.Equal(t, KindDefinition.Header()+LineEnding, buf.String())
}
