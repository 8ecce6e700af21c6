package rf2io

import (
	"fmt"

	"github.com/gofhir/rf2"
	"github.com/gofhir/rf2/model"
	"github.com/gofhir/rf2/row"
)

// assembler builds a concept graph from rows. Its indexes are scoped to one
// import call and returned to their pools by release.
type assembler struct {
	owner   *model.Translation
	metrics *rf2.Metrics

	concepts     []*model.Concept
	conceptByID  map[string]*model.Concept
	descByID     map[string]*model.Description
	dropDangling bool
	dropped      int
}

func newAssembler(owner *model.Translation, opts *rf2.Options) *assembler {
	return &assembler{
		owner:        owner,
		metrics:      opts.Metrics,
		conceptByID:  conceptIndexPool.Acquire(),
		descByID:     descriptionIndexPool.Acquire(),
		dropDangling: opts.DropDanglingLinks,
	}
}

func (a *assembler) release() {
	conceptIndexPool.Release(a.conceptByID)
	descriptionIndexPool.Release(a.descByID)
	a.conceptByID = nil
	a.descByID = nil
}

// concept returns the concept for id, creating it on first sight.
func (a *assembler) concept(id string) *model.Concept {
	if c, ok := a.conceptByID[id]; ok {
		return c
	}
	c := &model.Concept{}
	c.TerminologyID = id
	model.ResetForImport(c, a.owner)
	a.conceptByID[id] = c
	a.concepts = append(a.concepts, c)
	return c
}

// addDescription is the first pass: one call per Description row.
func (a *assembler) addDescription(r row.Row) error {
	conceptID := r.Get(row.ColConceptID)
	if conceptID == "" {
		return fmt.Errorf("%w: empty %s", rf2.ErrMalformedRow, row.ColConceptID)
	}

	d := descriptionFromRow(r)
	model.ResetForImport(d, a.owner)
	a.concept(conceptID).AddDescription(d)

	// First description with a given id owns the index slot.
	if _, seen := a.descByID[d.TerminologyID]; !seen {
		a.descByID[d.TerminologyID] = d
	}
	return nil
}

// linkLanguage is the second pass: one call per Language row.
func (a *assembler) linkLanguage(r row.Row) error {
	descID := r.Get(row.ColReferencedComponentID)
	d, ok := a.descByID[descID]
	if !ok {
		return a.dangling("description", descID)
	}

	m := languageMemberFromRow(r)
	model.ResetForImport(m, a.owner)
	d.AddLanguageMember(m)
	return nil
}

// attachMember links a concept refset member row to a concept already
// assembled from the description pass.
func (a *assembler) attachMember(r row.Row, attach attachFunc) error {
	conceptID := r.Get(row.ColReferencedComponentID)
	c, ok := a.conceptByID[conceptID]
	if !ok {
		return a.dangling("concept", conceptID)
	}
	return attach(c, r, a.owner)
}

func (a *assembler) dangling(target, id string) error {
	if a.dropDangling {
		a.dropped++
		a.metrics.RecordDanglingDropped()
		return nil
	}
	return fmt.Errorf("%w: %s %q is not in the bundle", rf2.ErrDanglingLink, target, id)
}
