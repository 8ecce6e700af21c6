// Package rf2 reads and writes RF2 release files for reference-set and
// translation content.
//
// RF2 is a tab-delimited columnar format: every file starts with one header
// line followed by rows whose layout is fixed by the file's component type.
// A translation release bundles a Description file and a Language refset file
// in one archive; refset releases ship Simple refset members and a free-text
// Definition file.
//
// # Quick Start
//
//	import (
//	    "github.com/gofhir/rf2"
//	    "github.com/gofhir/rf2/handler"
//	    "github.com/gofhir/rf2/model"
//	)
//
//	reg := handler.Default(rf2.WithNamespace("1000172"))
//	h, err := reg.Translation("RF2")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	translation := &model.Translation{Language: "es", Version: "20240131", Module: "450829007"}
//	concepts, err := h.ImportConcepts(ctx, f, translation)
//
//	var buf bytes.Buffer
//	result, err := h.ExportConcepts(ctx, &buf, translation, concepts)
//
// # Import Policy
//
// Every component created by an importer starts life as an unpublished,
// publishable, active draft owned by the importing translation or refset
// (see model.ResetForImport). The row's own effectiveTime, active and
// moduleId columns are read for validation only.
//
// # Packages
//
//   - row: tab tokenizer and per-kind row schemas
//   - archive: zip, gzip-tar and flat streams as sequences of named entries
//   - model: concept, description and refset member graphs
//   - rf2io: the RF2 handler (graph assembler and flattener)
//   - fhirvs: refset members as FHIR R4 ValueSets
//   - handler: handler registry keyed by name ("RF2", "DEFAULT", "FHIR")
//   - worker: worker pool for importing many bundles at once
//   - pkg/config, pkg/logger: configuration and zap loggers for cmd/rf2tool
package rf2
