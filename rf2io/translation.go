package rf2io

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/gofhir/rf2"
	"github.com/gofhir/rf2/archive"
	"github.com/gofhir/rf2/model"
	"github.com/gofhir/rf2/pool"
	"github.com/gofhir/rf2/row"
)

// Entry name tokens recognised in translation bundles. Matching is a
// case-insensitive substring test on the entry's base name.
const (
	TokenDescription    = "Description"
	TokenTextDefinition = "TextDefinition"
	TokenLanguage       = "Language"
)

// refsetMarker appears in every derivative file name. It keeps refsets such as
// cRefset_DescriptionType from being read as descriptions.
const refsetMarker = "Refset_"

// BundleMimeType is the mime type of an exported translation bundle.
const BundleMimeType = "application/zip"

// Lookup indexes are pooled across calls; each call acquires its own maps.
var (
	conceptIndexPool     = pool.NewMapPool[string, *model.Concept](1024)
	descriptionIndexPool = pool.NewMapPool[string, *model.Description](4096)
)

// TranslationCodec imports and exports translation bundles.
type TranslationCodec struct {
	codec
}

// NewTranslationCodec creates a translation codec.
func NewTranslationCodec(opts ...rf2.Option) *TranslationCodec {
	return &TranslationCodec{codec: newCodec(opts)}
}

// FileTypeFilter returns the file extension accepted on import.
func (c *TranslationCodec) FileTypeFilter() string {
	return ".zip"
}

// MimeType returns the mime type of exported bundles.
func (c *TranslationCodec) MimeType() string {
	return BundleMimeType
}

// ImportConcepts reads a zip or tgz bundle from r and assembles it into
// concepts owned by t.
func (c *TranslationCodec) ImportConcepts(ctx context.Context, r io.Reader, t *model.Translation) ([]*model.Concept, error) {
	a, err := archive.Open(r)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	return c.ImportArchive(ctx, a, t)
}

// ImportArchive assembles the entries of an opened bundle.
//
// Description rows are read first, then Language rows, regardless of the
// order of the entries in the bundle. The returned concepts are in first-seen
// order; a concept referenced by several descriptions is one instance.
//
// Description ids are first-wins as well: a repeated id still adds its row
// to its concept, but Language rows naming that id link to the first
// description read.
func (c *TranslationCodec) ImportArchive(ctx context.Context, a archive.Archive, t *model.Translation) (concepts []*model.Concept, err error) {
	start := time.Now()
	_, log := c.begin("import_translation")
	defer func() {
		descriptions, members := model.Count(concepts)
		c.finishImport(log, start, err,
			zap.Int("concepts", len(concepts)),
			zap.Int("descriptions", descriptions),
			zap.Int("language_members", members))
	}()

	plan, err := c.plan(a, log)
	if err != nil {
		return nil, err
	}

	asm := newAssembler(t, c.opts)
	defer asm.release()

	for _, pe := range plan.descriptions {
		if _, err := c.readEntry(ctx, pe.entry, pe.kind, asm.addDescription); err != nil {
			return nil, err
		}
	}
	for _, e := range plan.languages {
		if _, err := c.readEntry(ctx, e, row.KindLanguage, asm.linkLanguage); err != nil {
			return nil, err
		}
	}
	for _, pe := range plan.members {
		attach := memberKinds[pe.kind].attach
		if _, err := c.readEntry(ctx, pe.entry, pe.kind, func(r row.Row) error {
			return asm.attachMember(r, attach)
		}); err != nil {
			return nil, err
		}
	}

	if asm.dropped > 0 {
		log.Warn("dropped dangling rows", zap.Int("count", asm.dropped))
	}
	return asm.concepts, nil
}

// plannedEntry is an entry paired with the row kind it will be read as.
type plannedEntry struct {
	entry archive.Entry
	kind  row.Kind
}

// importPlan groups the entries of a bundle by pass.
type importPlan struct {
	descriptions []plannedEntry
	languages    []archive.Entry
	members      []plannedEntry
}

// plan classifies every entry of a. Entries matching no token are skipped.
func (c *TranslationCodec) plan(a archive.Archive, log *zap.Logger) (importPlan, error) {
	var p importPlan
	for _, e := range a.Entries() {
		kind, ok := ClassifyEntry(e.Name)
		if !ok {
			c.skip(log, e, "unrecognised entry")
			continue
		}

		switch kind {
		case row.KindDescription:
			p.descriptions = append(p.descriptions, plannedEntry{entry: e, kind: kind})
		case row.KindTextDefinition:
			if !c.opts.TextDefinitions {
				c.skip(log, e, "text definitions disabled")
				continue
			}
			p.descriptions = append(p.descriptions, plannedEntry{entry: e, kind: kind})
		case row.KindLanguage:
			p.languages = append(p.languages, e)
		default:
			if _, member := memberKinds[kind]; !member {
				c.skip(log, e, "not a translation entry")
				continue
			}
			p.members = append(p.members, plannedEntry{entry: e, kind: kind})
		}
	}

	if len(p.descriptions) == 0 {
		return p, fmt.Errorf("%w: no %s entry in %s bundle", rf2.ErrMissingEntry, TokenDescription, a.Format())
	}
	if len(p.languages) == 0 {
		return p, fmt.Errorf("%w: no %s entry in %s bundle", rf2.ErrMissingEntry, TokenLanguage, a.Format())
	}
	return p, nil
}

func (c *TranslationCodec) skip(log *zap.Logger, e archive.Entry, reason string) {
	c.opts.Metrics.RecordEntrySkipped()
	log.Debug("skipping entry", zap.String("entry", e.Name), zap.String("reason", reason))
}

// ClassifyEntry returns the row kind an entry is read as, judged by its name.
func ClassifyEntry(name string) (row.Kind, bool) {
	switch {
	case archive.Classify(name, TokenDescription, refsetMarker):
		return row.KindDescription, true
	case archive.Classify(name, TokenTextDefinition):
		return row.KindTextDefinition, true
	case archive.Classify(name, TokenLanguage):
		return row.KindLanguage, true
	case archive.Classify(name, TokenDefinition):
		return row.KindDefinition, true
	}
	return classifyMember(name)
}

// ExportConcepts writes concepts as a zip bundle holding a Description entry
// followed by a Language entry. Rows follow concept, then description, then
// member order as given.
func (c *TranslationCodec) ExportConcepts(ctx context.Context, w io.Writer, t *model.Translation, concepts []*model.Concept) (res *rf2.ExportResult, err error) {
	batchID, log := c.begin("export_translation")
	res = &rf2.ExportResult{
		BatchID:  batchID,
		FileName: c.naming.BundleName(c.opts.Namespace, t.Language, t.Version),
		MimeType: BundleMimeType,
	}
	defer func() { c.finishExport(log, res, err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	zw := archive.NewZipWriter(w)

	descName := c.naming.FileName(c.opts.Namespace, TypeDescription, t.Version, t.Language)
	stat, err := c.writeEntry(zw, descName, row.KindDescription, func(rw *row.Writer) error {
		fields := pool.AcquireFields()
		defer pool.ReleaseFields(fields)
		for _, concept := range concepts {
			for _, d := range concept.Descriptions {
				*fields = appendDescription((*fields)[:0], d, concept, t)
				if err := rw.Write(*fields...); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.Entries = append(res.Entries, stat)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	langName := c.naming.FileName(c.opts.Namespace, TypeLanguage, t.Version, t.Language)
	stat, err = c.writeEntry(zw, langName, row.KindLanguage, func(rw *row.Writer) error {
		fields := pool.AcquireFields()
		defer pool.ReleaseFields(fields)
		for _, concept := range concepts {
			for _, d := range concept.Descriptions {
				for _, m := range d.LanguageMembers {
					*fields = appendLanguageMember((*fields)[:0], m, d, t)
					if err := rw.Write(*fields...); err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.Entries = append(res.Entries, stat)

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish bundle: %w", err)
	}
	return res, nil
}
