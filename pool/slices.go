// Package pool recycles the buffers an RF2 export touches once per row and
// the id indexes an import builds once per call.
package pool

import "sync"

const (
	// rowWidth is the column count of the widest row kind (complex map).
	rowWidth = 12

	// lineSize fits a typical description row: four SCTIDs, a UUID and a
	// short term.
	lineSize = 256

	// maxLineSize bounds the line buffers kept for reuse. Text definitions
	// run to 4096 characters, several bytes each in UTF-8.
	maxLineSize = 16 * 1024
)

var fieldsPool = sync.Pool{
	New: func() any {
		s := make([]string, 0, rowWidth)
		return &s
	},
}

// AcquireFields returns an empty slice with room for one row of any kind.
func AcquireFields() *[]string {
	s := fieldsPool.Get().(*[]string)
	*s = (*s)[:0]
	return s
}

// ReleaseFields clears s so it holds no term strings and returns it to the
// pool. Slices grown past twice the widest row are dropped.
func ReleaseFields(s *[]string) {
	if s == nil || cap(*s) > 2*rowWidth {
		return
	}
	clear((*s)[:cap(*s)])
	fieldsPool.Put(s)
}

var linePool = sync.Pool{
	New: func() any {
		b := make([]byte, 0, lineSize)
		return &b
	},
}

// AcquireLine returns an empty buffer for one joined row.
func AcquireLine() *[]byte {
	b := linePool.Get().(*[]byte)
	*b = (*b)[:0]
	return b
}

// ReleaseLine returns b to the pool unless it grew past maxLineSize.
func ReleaseLine(b *[]byte) {
	if b == nil || cap(*b) > maxLineSize {
		return
	}
	linePool.Put(b)
}

// MapPool recycles the id → component indexes of an import call.
type MapPool[K comparable, V any] struct {
	pool sync.Pool
	cap  int
}

// NewMapPool returns a pool of maps presized for initialCap ids.
func NewMapPool[K comparable, V any](initialCap int) *MapPool[K, V] {
	return &MapPool[K, V]{
		pool: sync.Pool{
			New: func() any {
				return make(map[K]V, initialCap)
			},
		},
		cap: initialCap,
	}
}

// Acquire returns an empty index.
func (p *MapPool[K, V]) Acquire() map[K]V {
	return p.pool.Get().(map[K]V)
}

// Release empties m and returns it to the pool. An index that held more
// than four times the presized count (a full release rather than a
// translation) is dropped.
func (p *MapPool[K, V]) Release(m map[K]V) {
	if m == nil {
		return
	}
	size := len(m)
	clear(m)
	if size <= p.cap*4 {
		p.pool.Put(m)
	}
}
