package handler

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gofhir/rf2"
	"github.com/gofhir/rf2/fhirvs"
	"github.com/gofhir/rf2/model"
	"github.com/gofhir/rf2/rf2io"
)

func TestDefault_Keys(t *testing.T) {
	r := Default()
	assert.Equal(t, []string{"DEFAULT", "FHIR", "RF2"}, r.Keys())
}

func TestDefault_AliasSharesHandler(t *testing.T) {
	r := Default()

	rf2Handler, err := r.Lookup("RF2")
	require.NoError(t, err)
	def, err := r.Lookup("DEFAULT")
	require.NoError(t, err)

	assert.Same(t, rf2Handler, def)
	assert.IsType(t, &rf2io.TranslationCodec{}, def.Translation)
	assert.IsType(t, &rf2io.RefsetCodec{}, def.Refset)
}

func TestLookup_CaseInsensitive(t *testing.T) {
	r := Default()
	for _, key := range []string{"rf2", "Rf2", "default", "fhir"} {
		_, err := r.Lookup(key)
		assert.NoError(t, err, key)
	}
}

func TestLookup_Unknown(t *testing.T) {
	_, err := Default().Lookup("CSV")
	require.Error(t, err)
	assert.True(t, errors.Is(err, rf2.ErrUnknownHandler))
	assert.Contains(t, err.Error(), "RF2")
}

func TestHandler_FileTypeFilter(t *testing.T) {
	r := Default()
	tests := []struct {
		key  string
		want string
	}{
		{"RF2", ".zip"},
		{"DEFAULT", ".zip"},
		{"FHIR", ".json"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			h, err := r.Lookup(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, h.FileTypeFilter())
		})
	}

	refset, err := r.Refset("RF2")
	require.NoError(t, err)
	assert.Equal(t, ".txt", refset.FileTypeFilter())
}

func TestHandler_TranslationMetadata(t *testing.T) {
	h, err := Default(rf2.WithNamespace("1000172")).Translation("DEFAULT")
	require.NoError(t, err)

	assert.Equal(t, "application/zip", h.MimeType())
	assert.Equal(t, "sct2_Description_Snapshot_1000172_20240131.txt", h.FileName("1000172", "Description", "20240131"))
}

func TestFHIR_TranslationUnsupported(t *testing.T) {
	h, err := Default().Translation("FHIR")
	require.NoError(t, err)

	_, err = h.ImportConcepts(context.Background(), strings.NewReader(""), &model.Translation{})
	assert.ErrorIs(t, err, rf2.ErrUnsupported)
	assert.Contains(t, err.Error(), "FHIR")

	_, err = h.ExportConcepts(context.Background(), &bytes.Buffer{}, &model.Translation{}, nil)
	assert.ErrorIs(t, err, rf2.ErrUnsupported)
}

func TestFHIR_Refset(t *testing.T) {
	refset, err := Default().Refset("FHIR")
	require.NoError(t, err)
	assert.IsType(t, &fhirvs.Codec{}, refset)
	assert.Equal(t, "application/fhir+json", refset.MimeType())
}

func TestRegister(t *testing.T) {
	r := NewRegistry()
	h := &Handler{Key: "CUSTOM", Refset: rf2io.NewRefsetCodec()}

	require.NoError(t, r.Register("custom", h))

	got, err := r.Lookup("CUSTOM")
	require.NoError(t, err)
	assert.Same(t, h, got)
	assert.Equal(t, ".txt", got.FileTypeFilter())

	assert.Error(t, r.Register("Custom", h), "duplicate key")
	assert.Error(t, r.Register("", h), "empty key")
	assert.Error(t, r.Register("other", &Handler{}), "no codecs")

	tr, err := r.Translation("custom")
	require.NoError(t, err)
	_, err = tr.ImportConcepts(context.Background(), strings.NewReader(""), &model.Translation{})
	assert.ErrorIs(t, err, rf2.ErrUnsupported)
}

func TestRegistry_RefsetMissing(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("T", &Handler{Translation: rf2io.NewTranslationCodec()}))

	_, err := r.Refset("T")
	assert.ErrorIs(t, err, rf2.ErrUnsupported)
}

func TestRegistry_Concurrent(t *testing.T) {
	r := Default()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%4 == 0 {
				_ = r.Register("extra"+string(rune('a'+i)), &Handler{Refset: rf2io.NewRefsetCodec()})
				return
			}
			_, _ = r.Lookup("RF2")
			_ = r.Keys()
		}(i)
	}
	wg.Wait()

	assert.Len(t, r.Keys(), 7)
}
