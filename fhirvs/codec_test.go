package fhirvs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gofhir/rf2"
	"github.com/gofhir/rf2/model"
)

func newRefset() *model.Refset {
	return &model.Refset{
		Name:          "EmergencyFindings",
		TerminologyID: "723264001",
		Version:       "20240131",
		Module:        "450829007",
		Definition:    "Clinical findings recorded in the emergency department",
	}
}

func TestCodec_Metadata(t *testing.T) {
	c := NewCodec()
	assert.Equal(t, ".json", c.FileTypeFilter())
	assert.Equal(t, "application/fhir+json", c.MimeType())
	assert.Equal(t, "ValueSet-Refset_Simple-INT-20240131.json", c.FileName("INT", "Refset_Simple", "20240131"))
}

func TestCodec_MembersRoundTrip(t *testing.T) {
	metrics := rf2.NewMetrics()
	c := NewCodec(rf2.WithMetrics(metrics))
	refset := newRefset()

	members := make([]*model.SimpleRefsetMember, 0, 35)
	for i := 0; i < 35; i++ {
		members = append(members, member(fmt.Sprintf("%d", 10000000+i*100), true))
	}

	var out bytes.Buffer
	res, err := c.ExportMembers(context.Background(), &out, refset, members)
	require.NoError(t, err)
	assert.Equal(t, "application/fhir+json", res.MimeType)
	assert.Equal(t, 35, res.TotalRows())

	var doc map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, "ValueSet", doc["resourceType"])
	assert.Equal(t, "EmergencyFindings", doc["name"])
	assert.Equal(t, "20240131", doc["version"])
	assert.Equal(t, ValueSetURL("723264001"), doc["url"])

	got, err := c.ImportMembers(context.Background(), &out, refset)
	require.NoError(t, err)
	require.Len(t, got, 35)
	for i, m := range got {
		assert.Equal(t, members[i].ConceptID, m.ConceptID)
		assert.True(t, m.Active)
		assert.True(t, m.Publishable)
		assert.Equal(t, "450829007", m.ModuleID)
	}

	assert.Equal(t, uint64(1), metrics.ImportsTotal())
	assert.Equal(t, uint64(1), metrics.ExportsTotal())
}

func TestCodec_DefinitionRoundTrip(t *testing.T) {
	c := NewCodec()
	refset := newRefset()

	var out bytes.Buffer
	_, err := c.ExportDefinition(context.Background(), &out, refset)
	require.NoError(t, err)

	definition, err := c.ImportDefinition(context.Background(), &out)
	require.NoError(t, err)
	assert.Equal(t, refset.Definition, definition)
}

func TestCodec_ImportErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"not a ValueSet", `{"resourceType":"CodeSystem"}`, rf2.ErrUnsupported},
		{"missing description", `{"resourceType":"ValueSet","url":"http://example.org"}`, rf2.ErrMissingDefinition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCodec().ImportDefinition(context.Background(), strings.NewReader(tt.input))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("invalid JSON", func(t *testing.T) {
		_, err := NewCodec().ImportMembers(context.Background(), strings.NewReader("{"), newRefset())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid JSON")
	})
}

func TestCodec_ImportExpansion(t *testing.T) {
	input := `{
  "resourceType": "ValueSet",
  "url": "http://snomed.info/sct?fhir_vs=refset/723264001",
  "expansion": {
    "contains": [
      {"system": "http://snomed.info/sct", "code": "22298006", "display": "Myocardial infarction"},
      {"system": "http://snomed.info/sct", "code": "195967001"}
    ]
  }
}`

	members, err := NewCodec().ImportMembers(context.Background(), strings.NewReader(input), newRefset())
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "22298006", members[0].ConceptID)
	assert.Nil(t, members[0].Refset)
}

func TestCodec_ImportConstraints(t *testing.T) {
	tests := []struct {
		name  string
		input string
		key   string
	}{
		{
			name:  "include without system",
			input: `{"resourceType":"ValueSet","compose":{"include":[{"concept":[{"code":"22298006"}]}]}}`,
			key:   "vsd-1",
		},
		{
			name: "concept and filter",
			input: `{"resourceType":"ValueSet","compose":{"include":[{"system":"http://snomed.info/sct",
				"concept":[{"code":"22298006"}],
				"filter":[{"property":"concept","op":"is-a","value":"404684003"}]}]}}`,
			key: "vsd-3",
		},
		{
			name:  "expansion code without system",
			input: `{"resourceType":"ValueSet","expansion":{"timestamp":"2024-01-31","contains":[{"code":"22298006"}]}}`,
			key:   "vsd-10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCodec().ImportMembers(context.Background(), strings.NewReader(tt.input), newRefset())
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidValueSet)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestCheckConstraints_ExportedValueSetPasses(t *testing.T) {
	var buf bytes.Buffer
	_, err := NewCodec().ExportMembers(context.Background(), &buf, newRefset(), []*model.SimpleRefsetMember{
		member("22298006", true),
		member("38341003", true),
		member("73211009", false),
	})
	require.NoError(t, err)
	assert.NoError(t, checkConstraints(buf.Bytes()))
}
