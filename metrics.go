package rf2

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics tracks codec throughput using lock-free atomic operations.
// All methods are safe for concurrent use. Recording on a nil *Metrics is a no-op.
type Metrics struct {
	// Call counts
	importsTotal  atomic.Uint64
	importsFailed atomic.Uint64
	exportsTotal  atomic.Uint64
	exportsFailed atomic.Uint64

	// Timing (stored as nanoseconds)
	importTimeTotal atomic.Uint64
	importTimeMin   atomic.Uint64
	importTimeMax   atomic.Uint64

	// Row counts
	rowsRead    atomic.Uint64
	rowsWritten atomic.Uint64

	// Entry handling
	entriesSkipped  atomic.Uint64
	danglingDropped atomic.Uint64

	// Per-kind row counts (kind name -> *atomic.Uint64)
	kindRows sync.Map
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	m := &Metrics{}
	// Initialize min to max uint64 so first value becomes the minimum
	m.importTimeMin.Store(^uint64(0))
	return m
}

// --- Recording Methods ---

// RecordImport records a completed import call.
func (m *Metrics) RecordImport(duration time.Duration, ok bool) {
	if m == nil {
		return
	}
	m.importsTotal.Add(1)
	if !ok {
		m.importsFailed.Add(1)
	}

	ns := uint64(duration.Nanoseconds()) //nolint:gosec // Safe: nanoseconds are always positive for valid durations
	m.importTimeTotal.Add(ns)

	for {
		old := m.importTimeMin.Load()
		if ns >= old {
			break
		}
		if m.importTimeMin.CompareAndSwap(old, ns) {
			break
		}
	}

	for {
		old := m.importTimeMax.Load()
		if ns <= old {
			break
		}
		if m.importTimeMax.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordExport records a completed export call.
func (m *Metrics) RecordExport(ok bool) {
	if m == nil {
		return
	}
	m.exportsTotal.Add(1)
	if !ok {
		m.exportsFailed.Add(1)
	}
}

// RecordRowsRead records n data rows parsed for the given row kind.
func (m *Metrics) RecordRowsRead(kind string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.rowsRead.Add(uint64(n))
	m.kindCounter(kind).Add(uint64(n))
}

// RecordRowsWritten records n data rows written.
func (m *Metrics) RecordRowsWritten(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.rowsWritten.Add(uint64(n))
}

// RecordEntrySkipped records an archive entry that matched no row kind.
func (m *Metrics) RecordEntrySkipped() {
	if m == nil {
		return
	}
	m.entriesSkipped.Add(1)
}

// RecordDanglingDropped records a language row dropped for lack of a description.
func (m *Metrics) RecordDanglingDropped() {
	if m == nil {
		return
	}
	m.danglingDropped.Add(1)
}

func (m *Metrics) kindCounter(kind string) *atomic.Uint64 {
	if v, ok := m.kindRows.Load(kind); ok {
		return v.(*atomic.Uint64)
	}
	actual, _ := m.kindRows.LoadOrStore(kind, &atomic.Uint64{})
	return actual.(*atomic.Uint64)
}

// --- Query Methods ---

// ImportsTotal returns the number of import calls.
func (m *Metrics) ImportsTotal() uint64 {
	return m.importsTotal.Load()
}

// ImportsFailed returns the number of import calls that returned an error.
func (m *Metrics) ImportsFailed() uint64 {
	return m.importsFailed.Load()
}

// ExportsTotal returns the number of export calls.
func (m *Metrics) ExportsTotal() uint64 {
	return m.exportsTotal.Load()
}

// ExportsFailed returns the number of export calls that returned an error.
func (m *Metrics) ExportsFailed() uint64 {
	return m.exportsFailed.Load()
}

// AverageImportTime returns the average import duration.
func (m *Metrics) AverageImportTime() time.Duration {
	total := m.importsTotal.Load()
	if total == 0 {
		return 0
	}
	return time.Duration(m.importTimeTotal.Load() / total) //nolint:gosec // Safe: nanoseconds within int64 range
}

// MinImportTime returns the minimum import duration.
func (m *Metrics) MinImportTime() time.Duration {
	minVal := m.importTimeMin.Load()
	if minVal == ^uint64(0) {
		return 0
	}
	return time.Duration(minVal) //nolint:gosec // Safe: nanoseconds within int64 range
}

// MaxImportTime returns the maximum import duration.
func (m *Metrics) MaxImportTime() time.Duration {
	return time.Duration(m.importTimeMax.Load()) //nolint:gosec // Safe: nanoseconds within int64 range
}

// RowsRead returns the total data rows parsed.
func (m *Metrics) RowsRead() uint64 {
	return m.rowsRead.Load()
}

// RowsReadByKind returns the data rows parsed for one row kind.
func (m *Metrics) RowsReadByKind(kind string) uint64 {
	v, ok := m.kindRows.Load(kind)
	if !ok {
		return 0
	}
	return v.(*atomic.Uint64).Load()
}

// RowsWritten returns the total data rows written.
func (m *Metrics) RowsWritten() uint64 {
	return m.rowsWritten.Load()
}

// EntriesSkipped returns the number of unrecognised archive entries.
func (m *Metrics) EntriesSkipped() uint64 {
	return m.entriesSkipped.Load()
}

// DanglingDropped returns the number of dropped dangling language rows.
func (m *Metrics) DanglingDropped() uint64 {
	return m.danglingDropped.Load()
}

// --- Export Methods ---

// Snapshot represents a point-in-time snapshot of all metrics.
type Snapshot struct {
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`

	ImportsTotal  uint64 `json:"imports_total" yaml:"imports_total"`
	ImportsFailed uint64 `json:"imports_failed" yaml:"imports_failed"`
	ExportsTotal  uint64 `json:"exports_total" yaml:"exports_total"`
	ExportsFailed uint64 `json:"exports_failed" yaml:"exports_failed"`

	// Timing metrics (in nanoseconds for precision)
	AvgImportTimeNs uint64 `json:"avg_import_time_ns" yaml:"avg_import_time_ns"`
	MinImportTimeNs uint64 `json:"min_import_time_ns" yaml:"min_import_time_ns"`
	MaxImportTimeNs uint64 `json:"max_import_time_ns" yaml:"max_import_time_ns"`

	RowsRead        uint64            `json:"rows_read" yaml:"rows_read"`
	RowsWritten     uint64            `json:"rows_written" yaml:"rows_written"`
	RowsByKind      map[string]uint64 `json:"rows_by_kind,omitempty" yaml:"rows_by_kind,omitempty"`
	EntriesSkipped  uint64            `json:"entries_skipped" yaml:"entries_skipped"`
	DanglingDropped uint64            `json:"dangling_dropped" yaml:"dangling_dropped"`
}

// Snapshot returns a point-in-time snapshot of all metrics.
func (m *Metrics) Snapshot() Snapshot {
	total := m.importsTotal.Load()

	var avgTime uint64
	if total > 0 {
		avgTime = m.importTimeTotal.Load() / total
	}

	minTime := m.importTimeMin.Load()
	if minTime == ^uint64(0) {
		minTime = 0
	}

	byKind := make(map[string]uint64)
	m.kindRows.Range(func(key, value any) bool {
		byKind[key.(string)] = value.(*atomic.Uint64).Load()
		return true
	})

	return Snapshot{
		Timestamp:       time.Now(),
		ImportsTotal:    total,
		ImportsFailed:   m.importsFailed.Load(),
		ExportsTotal:    m.exportsTotal.Load(),
		ExportsFailed:   m.exportsFailed.Load(),
		AvgImportTimeNs: avgTime,
		MinImportTimeNs: minTime,
		MaxImportTimeNs: m.importTimeMax.Load(),
		RowsRead:        m.rowsRead.Load(),
		RowsWritten:     m.rowsWritten.Load(),
		RowsByKind:      byKind,
		EntriesSkipped:  m.entriesSkipped.Load(),
		DanglingDropped: m.danglingDropped.Load(),
	}
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.importsTotal.Store(0)
	m.importsFailed.Store(0)
	m.exportsTotal.Store(0)
	m.exportsFailed.Store(0)
	m.importTimeTotal.Store(0)
	m.importTimeMin.Store(^uint64(0))
	m.importTimeMax.Store(0)
	m.rowsRead.Store(0)
	m.rowsWritten.Store(0)
	m.entriesSkipped.Store(0)
	m.danglingDropped.Store(0)

	m.kindRows.Range(func(key, _ any) bool {
		m.kindRows.Delete(key)
		return true
	})
}
