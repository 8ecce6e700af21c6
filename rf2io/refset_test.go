package rf2io

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gofhir/rf2"
	"github.com/gofhir/rf2/row"
)

func definitionFile(rows ...string) string {
	return lines(definitionHeader, rows)
}

func definitionRow(text string) string {
	return strings.Join([]string{
		memberID("definition", 0), "20240131", "1", sourceModule, simpleRefset, simpleRefset, text,
	}, "\t")
}

func TestImportMembers(t *testing.T) {
	c := NewRefsetCodec()
	refset := newRefset()

	members, err := c.ImportMembers(context.Background(), strings.NewReader(lines(simpleHeader, simpleRows())), refset)
	require.NoError(t, err)
	require.Len(t, members, fixtureMembers)

	for i, m := range members {
		assert.Equal(t, conceptID(i), m.ConceptID)
		assert.Equal(t, memberID("simple", i), m.TerminologyID)
		assert.Nil(t, m.Refset, "caller sets the owning refset")
		assert.True(t, m.Active)
		assert.True(t, m.Publishable)
		assert.False(t, m.Published)
		assert.Nil(t, m.EffectiveTime)
		assert.Equal(t, translationModule, m.ModuleID)
	}
}

func TestImportMembers_Bundle(t *testing.T) {
	data := buildZip(t,
		fixtureEntry{"der2_Refset_SimpleSnapshot_INT_20240131.txt", lines(simpleHeader, simpleRows())},
		fixtureEntry{"der2_sRefset_SimpleMapSnapshot_INT_20240131.txt", lines(simpleMapHeader, nil)},
		fixtureEntry{"der2_sRefset_DefinitionSnapshot_INT_20240131.txt", definitionFile(definitionRow(fixtureDefinition))},
	)

	c := NewRefsetCodec()
	members, err := c.ImportMembers(context.Background(), bytes.NewReader(data), newRefset())
	require.NoError(t, err)
	assert.Len(t, members, fixtureMembers)

	definition, err := c.ImportDefinition(context.Background(), bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, fixtureDefinition, definition)
}

func TestImportMembers_BundleWithoutSimpleEntry(t *testing.T) {
	data := buildZip(t, fixtureEntry{"der2_sRefset_SimpleMapSnapshot_INT_20240131.txt", lines(simpleMapHeader, nil)})

	_, err := NewRefsetCodec().ImportMembers(context.Background(), bytes.NewReader(data), newRefset())
	assert.ErrorIs(t, err, rf2.ErrMissingEntry)
}

func TestImportMembers_HeaderOnly(t *testing.T) {
	members, err := NewRefsetCodec().ImportMembers(context.Background(), strings.NewReader(simpleHeader+"\r\n"), newRefset())
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestImportMembers_MalformedRow(t *testing.T) {
	rows := simpleRows()
	rows[4] += "\textra"

	members, err := NewRefsetCodec().ImportMembers(context.Background(), strings.NewReader(lines(simpleHeader, rows)), newRefset())
	require.Error(t, err)
	assert.Nil(t, members)
	assert.ErrorIs(t, err, rf2.ErrMalformedRow)

	var rowErr *rf2.RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 6, rowErr.Line)
	assert.Empty(t, rowErr.Entry)
}

func TestExportMembers(t *testing.T) {
	c := NewRefsetCodec()
	refset := newRefset()
	members, err := c.ImportMembers(context.Background(), strings.NewReader(lines(simpleHeader, simpleRows())), refset)
	require.NoError(t, err)

	var out bytes.Buffer
	res, err := c.ExportMembers(context.Background(), &out, refset, members)
	require.NoError(t, err)

	assert.Equal(t, "der2_Refset_SimpleSnapshot_INT_20240131.txt", res.FileName)
	assert.Equal(t, "text/plain", res.MimeType)
	require.Len(t, res.Entries, 1)
	assert.Equal(t, fixtureMembers+1, res.Entries[0].Lines())

	got := crlfLines(out.String())
	require.Len(t, got, fixtureMembers+1)
	assert.Equal(t, simpleHeader, got[0])
	for i, line := range got[1:] {
		fields := row.Split(line, row.Delimiter)
		assert.Equal(t, []string{
			memberID("simple", i), "", "1", translationModule, simpleRefset, conceptID(i),
		}, fields)
	}
}

func TestExportMembers_PersistedIDsNotWritten(t *testing.T) {
	c := NewRefsetCodec()
	refset := newRefset()
	members, err := c.ImportMembers(context.Background(), strings.NewReader(lines(simpleHeader, simpleRows())), refset)
	require.NoError(t, err)
	for i, m := range members {
		key := int64(1000 + i)
		m.ID = &key
	}

	var out bytes.Buffer
	_, err = c.ExportMembers(context.Background(), &out, refset, members)
	require.NoError(t, err)

	for i, line := range crlfLines(out.String())[1:] {
		fields := row.Split(line, row.Delimiter)
		assert.Equal(t, memberID("simple", i), fields[0])
	}
}

func TestExportMembers_RoundTrip(t *testing.T) {
	c := NewRefsetCodec()
	refset := newRefset()
	members, err := c.ImportMembers(context.Background(), strings.NewReader(lines(simpleHeader, simpleRows())), refset)
	require.NoError(t, err)

	var out bytes.Buffer
	_, err = c.ExportMembers(context.Background(), &out, refset, members)
	require.NoError(t, err)

	again, err := c.ImportMembers(context.Background(), &out, refset)
	require.NoError(t, err)
	require.Len(t, again, len(members))
	for i := range members {
		assert.Equal(t, members[i].ConceptID, again[i].ConceptID)
	}
}

func TestImportDefinition(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{
			name:  "single row",
			input: definitionFile(definitionRow(fixtureDefinition)),
			want:  fixtureDefinition,
		},
		{
			name:  "blank lines around the row",
			input: definitionHeader + "\r\n\r\n" + definitionRow(fixtureDefinition) + "\r\n\r\n",
			want:  fixtureDefinition,
		},
		{
			name:  "empty definition text",
			input: definitionFile(definitionRow("")),
			want:  "",
		},
		{
			name:    "header only",
			input:   definitionHeader + "\r\n",
			wantErr: rf2.ErrMissingDefinition,
		},
		{
			name:    "empty stream",
			input:   "",
			wantErr: rf2.ErrMissingDefinition,
		},
		{
			name:    "two rows",
			input:   definitionFile(definitionRow("a"), definitionRow("b")),
			wantErr: rf2.ErrAmbiguousDefinition,
		},
		{
			name:    "two rows, first empty",
			input:   definitionFile(definitionRow(""), definitionRow("b")),
			wantErr: rf2.ErrAmbiguousDefinition,
		},
		{
			name:    "wrong width",
			input:   definitionFile("a\tb\tc"),
			wantErr: rf2.ErrMalformedRow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewRefsetCodec().ImportDefinition(context.Background(), strings.NewReader(tt.input))
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExportDefinition(t *testing.T) {
	c := NewRefsetCodec()
	refset := newRefset()

	var out bytes.Buffer
	res, err := c.ExportDefinition(context.Background(), &out, refset)
	require.NoError(t, err)
	assert.Equal(t, "der2_sRefset_DefinitionSnapshot_INT_20240131.txt", res.FileName)
	assert.Equal(t, 2, res.Entries[0].Lines())

	got := crlfLines(out.String())
	require.Len(t, got, 2)
	assert.Equal(t, definitionHeader, got[0])

	fields := row.Split(got[1], row.Delimiter)
	assert.Equal(t, refset.DefinitionMemberID, fields[0])
	assert.Equal(t, simpleRefset, fields[4])
	assert.Equal(t, simpleRefset, fields[5])
	assert.Equal(t, fixtureDefinition, fields[len(fields)-1])

	definition, err := c.ImportDefinition(context.Background(), &out)
	require.NoError(t, err)
	assert.Equal(t, fixtureDefinition, definition)
}

func TestExportDefinition_TabInText(t *testing.T) {
	refset := newRefset()
	refset.Definition = "first\tsecond"

	var out bytes.Buffer
	res, err := NewRefsetCodec().ExportDefinition(context.Background(), &out, refset)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, rf2.ErrMalformedRow)
	assert.Contains(t, err.Error(), row.ColDefinition)
}

func TestRefsetCodec_Metadata(t *testing.T) {
	c := NewRefsetCodec(rf2.WithReleaseType(rf2.Full), rf2.WithNamespace("1000172"))
	assert.Equal(t, ".txt", c.FileTypeFilter())
	assert.Equal(t, "text/plain", c.MimeType())
	assert.Equal(t, "der2_Refset_SimpleFull_1000172_20240131.txt", c.FileName("1000172", "Refset_Simple", "20240131"))
}
