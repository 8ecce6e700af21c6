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

// Entry name tokens used when a refset file arrives inside a bundle.
const (
	TokenSimple     = "Refset_Simple"
	TokenSimpleMap  = "Refset_SimpleMap"
	TokenDefinition = "Refset_Definition"
)

// RefsetMimeType is the mime type of exported refset files.
const RefsetMimeType = "text/plain"

// RefsetCodec imports and exports simple refset members and refset
// definitions.
type RefsetCodec struct {
	codec
}

// NewRefsetCodec creates a refset codec.
func NewRefsetCodec(opts ...rf2.Option) *RefsetCodec {
	return &RefsetCodec{codec: newCodec(opts)}
}

// FileTypeFilter returns the file extension accepted on import.
func (c *RefsetCodec) FileTypeFilter() string {
	return ".txt"
}

// MimeType returns the mime type of exported files.
func (c *RefsetCodec) MimeType() string {
	return RefsetMimeType
}

// ImportMembers reads Simple refset rows from r. The stream is usually flat;
// a bundle is accepted if it holds exactly one Simple refset entry.
//
// Rows are independent of each other. Member.Refset is left for the caller
// to set.
func (c *RefsetCodec) ImportMembers(ctx context.Context, r io.Reader, refset *model.Refset) (members []*model.SimpleRefsetMember, err error) {
	start := time.Now()
	_, log := c.begin("import_members")
	defer func() {
		c.finishImport(log, start, err, zap.Int("members", len(members)))
	}()

	a, e, err := c.openSingle(r, TokenSimple, TokenSimpleMap)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	members = make([]*model.SimpleRefsetMember, 0, 64)
	_, err = c.readEntry(ctx, e, row.KindSimple, func(r row.Row) error {
		m := simpleMemberFromRow(r)
		model.ResetForImport(m, refset)
		members = append(members, m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return members, nil
}

// ExportMembers writes a header and one row per member, in order, to w.
func (c *RefsetCodec) ExportMembers(ctx context.Context, w io.Writer, refset *model.Refset, members []*model.SimpleRefsetMember) (res *rf2.ExportResult, err error) {
	batchID, log := c.begin("export_members")
	name := c.naming.FileName(c.opts.Namespace, TypeSimple, refset.Version, "")
	res = &rf2.ExportResult{BatchID: batchID, FileName: name, MimeType: RefsetMimeType}
	defer func() { c.finishExport(log, res, err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stat, err := c.writeEntry(archive.NewFlatWriter(w), name, row.KindSimple, func(rw *row.Writer) error {
		fields := pool.AcquireFields()
		defer pool.ReleaseFields(fields)
		for _, m := range members {
			*fields = appendSimpleMember((*fields)[:0], m, refset)
			if err := rw.Write(*fields...); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.Entries = append(res.Entries, stat)
	return res, nil
}

// ImportDefinition reads a Definition file and returns the text of its last
// column. The file must hold exactly one data row.
func (c *RefsetCodec) ImportDefinition(ctx context.Context, r io.Reader) (definition string, err error) {
	start := time.Now()
	_, log := c.begin("import_definition")
	defer func() {
		c.finishImport(log, start, err, zap.Int("length", len(definition)))
	}()

	var seen bool
	a, e, err := c.openSingle(r, TokenDefinition)
	if err != nil {
		return "", err
	}
	defer a.Close()

	n, err := c.readEntry(ctx, e, row.KindDefinition, func(r row.Row) error {
		if seen {
			return rf2.ErrAmbiguousDefinition
		}
		seen = true
		definition = r.Last()
		return nil
	})
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", fmt.Errorf("%w: %s", rf2.ErrMissingDefinition, entryLabel(e))
	}
	return definition, nil
}

// ExportDefinition writes a header and the refset's definition row to w.
func (c *RefsetCodec) ExportDefinition(ctx context.Context, w io.Writer, refset *model.Refset) (res *rf2.ExportResult, err error) {
	batchID, log := c.begin("export_definition")
	name := c.naming.FileName(c.opts.Namespace, TypeDefinition, refset.Version, "")
	res = &rf2.ExportResult{BatchID: batchID, FileName: name, MimeType: RefsetMimeType}
	defer func() { c.finishExport(log, res, err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stat, err := c.writeEntry(archive.NewFlatWriter(w), name, row.KindDefinition, func(rw *row.Writer) error {
		fields := pool.AcquireFields()
		defer pool.ReleaseFields(fields)
		*fields = appendDefinition(*fields, refset)
		return rw.Write(*fields...)
	})
	if err != nil {
		return nil, err
	}
	res.Entries = append(res.Entries, stat)
	return res, nil
}

// openSingle opens r and returns it with the one entry to read. A flat
// stream is its own entry; a bundle must hold exactly one entry matching
// token. The caller closes the archive.
func (c *RefsetCodec) openSingle(r io.Reader, token string, exclude ...string) (archive.Archive, archive.Entry, error) {
	a, err := archive.Open(r)
	if err != nil {
		return nil, archive.Entry{}, err
	}

	if a.Format() == archive.FormatFlat {
		return a, a.Entries()[0], nil
	}

	matches := archive.Select(a, token, exclude...)
	if len(matches) == 1 {
		return a, matches[0], nil
	}

	_ = a.Close()
	if len(matches) == 0 {
		return nil, archive.Entry{}, fmt.Errorf("%w: no %s entry in %s bundle", rf2.ErrMissingEntry, token, a.Format())
	}
	return nil, archive.Entry{}, fmt.Errorf("%d entries match %s in %s bundle; import them one at a time", len(matches), token, a.Format())
}

func entryLabel(e archive.Entry) string {
	if e.Name == "" {
		return "<stream>"
	}
	return e.Name
}
