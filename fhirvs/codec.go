package fhirvs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/gofhir/fhir/r4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gofhir/rf2"
	"github.com/gofhir/rf2/model"
)

// MimeType is the mime type of exported ValueSets.
const MimeType = "application/fhir+json"

// resourceType is the only resource accepted on import.
const resourceType = "ValueSet"

// header holds the ValueSet elements read and written alongside r4.ValueSet.
type header struct {
	ResourceType string `json:"resourceType"`
	Name         string `json:"name,omitempty"`
	Version      string `json:"version,omitempty"`
	Status       string `json:"status,omitempty"`
	Description  string `json:"description,omitempty"`
}

// Codec is the refset handler for FHIR ValueSet JSON.
type Codec struct {
	opts *rf2.Options
}

// NewCodec creates a ValueSet codec.
func NewCodec(opts ...rf2.Option) *Codec {
	return &Codec{opts: rf2.Apply(opts...)}
}

// FileTypeFilter returns the file extension accepted on import.
func (c *Codec) FileTypeFilter() string {
	return ".json"
}

// MimeType returns the mime type of exported resources.
func (c *Codec) MimeType() string {
	return MimeType
}

// FileName returns e.g. ValueSet-Refset_Simple-INT-20240131.json.
func (c *Codec) FileName(namespace, componentType, version string) string {
	return fmt.Sprintf("ValueSet-%s-%s-%s.json", componentType, namespace, version)
}

// ImportMembers decodes a ValueSet and returns one member per SNOMED CT code.
// Members carry no row id; the import policy is applied as for RF2 rows.
func (c *Codec) ImportMembers(ctx context.Context, r io.Reader, refset *model.Refset) (members []*model.SimpleRefsetMember, err error) {
	start := time.Now()
	log := c.logger("import_members")
	defer func() {
		c.finish(log, start, err, len(members))
	}()

	vs, _, err := decode(ctx, r)
	if err != nil {
		return nil, err
	}

	codes := Codes(vs)
	members = make([]*model.SimpleRefsetMember, 0, len(codes))
	for _, code := range codes {
		m := &model.SimpleRefsetMember{ConceptID: code}
		model.ResetForImport(m, refset)
		members = append(members, m)
	}
	c.opts.Metrics.RecordRowsRead("valueSetCode", len(members))
	return members, nil
}

// ExportMembers writes refset and its active members as a ValueSet.
func (c *Codec) ExportMembers(ctx context.Context, w io.Writer, refset *model.Refset, members []*model.SimpleRefsetMember) (*rf2.ExportResult, error) {
	vs := ToValueSet(refset, members)
	rows := 0
	if vs.Compose != nil && len(vs.Compose.Include) > 0 {
		rows = len(vs.Compose.Include[0].Concept)
	}
	return c.export(ctx, w, "export_members", "Refset_Simple", refset, vs, rows)
}

// ImportDefinition returns the ValueSet's description.
func (c *Codec) ImportDefinition(ctx context.Context, r io.Reader) (definition string, err error) {
	start := time.Now()
	log := c.logger("import_definition")
	defer func() {
		c.finish(log, start, err, 1)
	}()

	_, h, err := decode(ctx, r)
	if err != nil {
		return "", err
	}
	if h.Description == "" {
		return "", fmt.Errorf("%w: ValueSet has no description", rf2.ErrMissingDefinition)
	}
	return h.Description, nil
}

// ExportDefinition writes a ValueSet carrying only the refset's URL and
// description.
func (c *Codec) ExportDefinition(ctx context.Context, w io.Writer, refset *model.Refset) (*rf2.ExportResult, error) {
	url := ValueSetURL(refset.TerminologyID)
	return c.export(ctx, w, "export_definition", "Refset_Definition", refset, &r4.ValueSet{Url: &url}, 1)
}

func (c *Codec) export(ctx context.Context, w io.Writer, op, componentType string, refset *model.Refset, vs *r4.ValueSet, rows int) (res *rf2.ExportResult, err error) {
	log := c.logger(op)
	defer func() {
		c.opts.Metrics.RecordExport(err == nil)
		if err != nil {
			log.Warn("export failed", zap.Error(err))
			return
		}
		log.Info("export complete", zap.String("file_name", res.FileName), zap.Int("codes", rows))
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := encode(vs, header{
		ResourceType: resourceType,
		Name:         refset.Name,
		Version:      refset.Version,
		Status:       "draft",
		Description:  refset.Definition,
	})
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("failed to write ValueSet: %w", err)
	}

	name := c.FileName(c.opts.Namespace, componentType, refset.Version)
	c.opts.Metrics.RecordRowsWritten(rows)
	return &rf2.ExportResult{
		BatchID:  uuid.NewString(),
		FileName: name,
		MimeType: MimeType,
		Entries:  []rf2.EntryStat{{Name: name, Kind: resourceType, Rows: rows}},
	}, nil
}

func (c *Codec) logger(op string) *zap.Logger {
	return c.opts.Logger.With(zap.String("op", op), zap.String("batch_id", uuid.NewString()), zap.String("format", "fhir"))
}

func (c *Codec) finish(log *zap.Logger, start time.Time, err error, n int) {
	elapsed := time.Since(start)
	c.opts.Metrics.RecordImport(elapsed, err == nil)
	if err != nil {
		log.Warn("import failed", zap.Error(err))
		return
	}
	log.Info("import complete", zap.Int("items", n), zap.Duration("elapsed", elapsed))
}

// decode reads one ValueSet resource from r.
func decode(ctx context.Context, r io.Reader) (*r4.ValueSet, header, error) {
	var h header
	if err := ctx.Err(); err != nil {
		return nil, h, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, h, fmt.Errorf("failed to read ValueSet: %w", err)
	}

	// Detect resource type
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, h, fmt.Errorf("invalid JSON: %w", err)
	}
	if h.ResourceType != resourceType {
		return nil, h, fmt.Errorf("%w: resourceType %q, want %s", rf2.ErrUnsupported, h.ResourceType, resourceType)
	}

	if err := checkConstraints(data); err != nil {
		return nil, h, err
	}

	var vs r4.ValueSet
	if err := json.Unmarshal(data, &vs); err != nil {
		return nil, h, fmt.Errorf("failed to parse ValueSet: %w", err)
	}
	return &vs, h, nil
}

// encode merges the header elements into the JSON form of vs.
func encode(vs *r4.ValueSet, h header) ([]byte, error) {
	body, err := json.Marshal(vs)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ValueSet: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to marshal ValueSet: %w", err)
	}

	extra, err := json.Marshal(h)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ValueSet: %w", err)
	}
	if err := json.Unmarshal(extra, &doc); err != nil {
		return nil, fmt.Errorf("failed to marshal ValueSet: %w", err)
	}

	return json.MarshalIndent(doc, "", "  ")
}
