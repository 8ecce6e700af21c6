// Package handler selects codecs by name.
//
// A Handler pairs a translation codec with a refset codec. Default registers
// the RF2 codecs under "RF2" and "DEFAULT", and the FHIR ValueSet refset
// codec under "FHIR".
package handler

import (
	"context"
	"io"

	"github.com/gofhir/rf2"
	"github.com/gofhir/rf2/model"
)

// --- Capabilities ---

// FileTyped is implemented by every codec.
type FileTyped interface {
	// FileTypeFilter returns the file extension accepted on import (e.g. ".zip").
	FileTypeFilter() string
}

// Named produces export metadata.
type Named interface {
	MimeType() string
	FileName(namespace, componentType, version string) string
}

// ConceptImporter assembles a translation bundle into concepts.
type ConceptImporter interface {
	ImportConcepts(ctx context.Context, r io.Reader, t *model.Translation) ([]*model.Concept, error)
}

// ConceptExporter flattens concepts into a translation bundle.
type ConceptExporter interface {
	ExportConcepts(ctx context.Context, w io.Writer, t *model.Translation, concepts []*model.Concept) (*rf2.ExportResult, error)
}

// TranslationHandler imports and exports translation bundles.
type TranslationHandler interface {
	FileTyped
	Named
	ConceptImporter
	ConceptExporter
}

// RefsetHandler imports and exports refset members and definitions.
type RefsetHandler interface {
	FileTyped
	Named
	ImportMembers(ctx context.Context, r io.Reader, refset *model.Refset) ([]*model.SimpleRefsetMember, error)
	ExportMembers(ctx context.Context, w io.Writer, refset *model.Refset, members []*model.SimpleRefsetMember) (*rf2.ExportResult, error)
	ImportDefinition(ctx context.Context, r io.Reader) (string, error)
	ExportDefinition(ctx context.Context, w io.Writer, refset *model.Refset) (*rf2.ExportResult, error)
}

// Handler is a registered pair of codecs.
type Handler struct {
	// Key is the name the handler was registered under.
	Key string

	Translation TranslationHandler
	Refset      RefsetHandler
}

// FileTypeFilter returns the translation codec's filter, or the refset
// codec's when the handler has no translation support.
func (h *Handler) FileTypeFilter() string {
	if _, ok := h.Translation.(unsupported); !ok && h.Translation != nil {
		return h.Translation.FileTypeFilter()
	}
	if h.Refset != nil {
		return h.Refset.FileTypeFilter()
	}
	return ""
}

// unsupported stands in for a missing translation codec.
type unsupported struct {
	key string
}

// Unsupported returns a TranslationHandler whose operations fail with
// rf2.ErrUnsupported.
func Unsupported(key string) TranslationHandler {
	return unsupported{key: key}
}

func (u unsupported) FileTypeFilter() string { return "" }
func (u unsupported) MimeType() string       { return "" }

func (u unsupported) FileName(string, string, string) string { return "" }

func (u unsupported) ImportConcepts(context.Context, io.Reader, *model.Translation) ([]*model.Concept, error) {
	return nil, u.err("translation import")
}

func (u unsupported) ExportConcepts(context.Context, io.Writer, *model.Translation, []*model.Concept) (*rf2.ExportResult, error) {
	return nil, u.err("translation export")
}

func (u unsupported) err(op string) error {
	return &unsupportedError{key: u.key, op: op}
}

type unsupportedError struct {
	key string
	op  string
}

func (e *unsupportedError) Error() string {
	return e.op + " with handler " + e.key + ": " + rf2.ErrUnsupported.Error()
}

func (e *unsupportedError) Unwrap() error {
	return rf2.ErrUnsupported
}
