package rf2

// EntryStat describes one entry written by an export.
type EntryStat struct {
	// Name is the entry name inside the archive.
	Name string `json:"name" yaml:"name"`

	// Kind is the row kind of the entry (e.g. "description").
	Kind string `json:"kind" yaml:"kind"`

	// Rows is the number of data rows, header excluded.
	Rows int `json:"rows" yaml:"rows"`
}

// Lines returns the number of physical lines: data rows plus the header.
func (s EntryStat) Lines() int {
	return s.Rows + 1
}

// ExportResult describes the output of an export call.
type ExportResult struct {
	// BatchID correlates the export with its log lines.
	BatchID string `json:"batchId" yaml:"batch_id"`

	// FileName is the suggested name for the produced file or bundle.
	FileName string `json:"fileName" yaml:"file_name"`

	// MimeType is the content type of the produced file or bundle.
	MimeType string `json:"mimeType" yaml:"mime_type"`

	// Entries lists the entries in the order they were written.
	Entries []EntryStat `json:"entries" yaml:"entries"`
}

// Entry returns the stat for the entry of the given kind.
func (r *ExportResult) Entry(kind string) (EntryStat, bool) {
	for _, e := range r.Entries {
		if e.Kind == kind {
			return e, true
		}
	}
	return EntryStat{}, false
}

// TotalRows returns the number of data rows across all entries.
func (r *ExportResult) TotalRows() int {
	total := 0
	for _, e := range r.Entries {
		total += e.Rows
	}
	return total
}
