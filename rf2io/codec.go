// Package rf2io implements the RF2 handler.
//
// TranslationCodec turns a bundle holding a Description file and a Language
// refset file into a concept graph, and writes such a graph back out as a
// two-entry zip. RefsetCodec reads and writes flat Simple refset member files
// and single-row Definition files.
//
// Codecs hold configuration only. Lookup indexes are created per call, so one
// codec may serve concurrent calls on distinct streams.
package rf2io

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gofhir/rf2"
	"github.com/gofhir/rf2/archive"
	"github.com/gofhir/rf2/row"
)

// codec carries the configuration shared by the translation and refset codecs.
type codec struct {
	opts   *rf2.Options
	naming Naming
}

func newCodec(opts []rf2.Option) codec {
	o := rf2.Apply(opts...)
	return codec{
		opts: o,
		naming: Naming{
			CorePrefix:   o.CorePrefix,
			RefsetPrefix: o.RefsetPrefix,
			Release:      o.ReleaseType,
		},
	}
}

// Options returns the codec's resolved options.
func (c codec) Options() rf2.Options {
	return *c.opts
}

// Naming returns the file naming scheme used on export.
func (c codec) Naming() Naming {
	return c.naming
}

// FileName implements the (namespace, component type, version) file name
// generator, e.g. FileName("INT", "Refset_Simple", "20240131").
func (c codec) FileName(namespace, componentType, version string) string {
	return c.naming.FileName(namespace, ComponentType(componentType), version, "")
}

// begin starts a call: it assigns a batch id and returns a logger tagged with it.
func (c codec) begin(op string) (string, *zap.Logger) {
	batchID := uuid.NewString()
	return batchID, c.opts.Logger.With(zap.String("op", op), zap.String("batch_id", batchID))
}

// readEntry streams the data rows of e to fn and returns how many were read.
// An error from fn is located at the row's line.
func (c codec) readEntry(ctx context.Context, e archive.Entry, kind row.Kind, fn func(row.Row) error) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	rc, err := e.Open()
	if err != nil {
		return 0, fmt.Errorf("failed to open entry %s: %w", e.Name, err)
	}
	defer rc.Close()

	n := 0
	rr := row.NewReader(rc, kind, e.Name)
	for rr.Next() {
		if err := fn(rr.Row()); err != nil {
			return n, rf2.NewRowError(e.Name, rr.Line(), kind.String(), err)
		}
		n++
	}
	if err := rr.Err(); err != nil {
		return n, err
	}

	c.opts.Metrics.RecordRowsRead(kind.String(), n)
	return n, nil
}

// writeEntry creates name in aw and writes a header followed by the rows
// produced by fill.
func (c codec) writeEntry(aw archive.Writer, name string, kind row.Kind, fill func(*row.Writer) error) (rf2.EntryStat, error) {
	stat := rf2.EntryStat{Name: name, Kind: kind.String()}

	w, err := aw.Create(name)
	if err != nil {
		return stat, err
	}

	rw := row.NewWriter(w, kind)
	if err := rw.WriteHeader(); err != nil {
		return stat, fmt.Errorf("failed to write header of %s: %w", name, err)
	}
	if err := fill(rw); err != nil {
		return stat, fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := rw.Flush(); err != nil {
		return stat, fmt.Errorf("failed to flush %s: %w", name, err)
	}

	stat.Rows = rw.Rows()
	c.opts.Metrics.RecordRowsWritten(stat.Rows)
	return stat, nil
}

// finishImport records metrics and the summary log line of an import call.
func (c codec) finishImport(log *zap.Logger, start time.Time, err error, fields ...zap.Field) {
	elapsed := time.Since(start)
	c.opts.Metrics.RecordImport(elapsed, err == nil)
	if err != nil {
		log.Warn("import failed", zap.Error(err), zap.Duration("elapsed", elapsed))
		return
	}
	log.Info("import complete", append(fields, zap.Duration("elapsed", elapsed))...)
}

// finishExport records metrics and the summary log line of an export call.
func (c codec) finishExport(log *zap.Logger, res *rf2.ExportResult, err error) {
	c.opts.Metrics.RecordExport(err == nil)
	if err != nil {
		log.Warn("export failed", zap.Error(err))
		return
	}
	log.Info("export complete",
		zap.String("file_name", res.FileName),
		zap.Int("entries", len(res.Entries)),
		zap.Int("rows", res.TotalRows()))
}
