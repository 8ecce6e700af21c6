package rf2io

import (
	"fmt"
	"strconv"

	"github.com/gofhir/rf2"
	"github.com/gofhir/rf2/model"
	"github.com/gofhir/rf2/row"
)

// Row to model mapping, one function per row kind. Only the row's own id is
// carried over from the common columns; ResetForImport sets the rest.

func descriptionFromRow(r row.Row) *model.Description {
	d := &model.Description{
		Term:               r.Get(row.ColTerm),
		LanguageCode:       r.Get(row.ColLanguageCode),
		TypeID:             r.Get(row.ColTypeID),
		CaseSignificanceID: r.Get(row.ColCaseSignificanceID),
	}
	d.TerminologyID = r.ID()
	return d
}

func languageMemberFromRow(r row.Row) *model.LanguageRefsetMember {
	m := &model.LanguageRefsetMember{
		RefsetID:        r.Get(row.ColRefsetID),
		AcceptabilityID: r.Get(row.ColAcceptabilityID),
	}
	m.TerminologyID = r.ID()
	return m
}

func simpleMemberFromRow(r row.Row) *model.SimpleRefsetMember {
	m := &model.SimpleRefsetMember{ConceptID: r.Get(row.ColReferencedComponentID)}
	m.TerminologyID = r.ID()
	return m
}

func simpleMapFromRow(r row.Row) *model.SimpleMapRefsetMember {
	m := &model.SimpleMapRefsetMember{
		RefsetID:  r.Get(row.ColRefsetID),
		MapTarget: r.Get(row.ColMapTarget),
	}
	m.TerminologyID = r.ID()
	return m
}

func complexMapFromRow(r row.Row) (*model.ComplexMapRefsetMember, error) {
	group, err := atoi(r.Get(row.ColMapGroup))
	if err != nil {
		return nil, fmt.Errorf("%w: mapGroup: %v", rf2.ErrMalformedRow, err)
	}
	priority, err := atoi(r.Get(row.ColMapPriority))
	if err != nil {
		return nil, fmt.Errorf("%w: mapPriority: %v", rf2.ErrMalformedRow, err)
	}
	m := &model.ComplexMapRefsetMember{
		RefsetID:      r.Get(row.ColRefsetID),
		MapGroup:      group,
		MapPriority:   priority,
		MapRule:       r.Get(row.ColMapRule),
		MapAdvice:     r.Get(row.ColMapAdvice),
		MapTarget:     r.Get(row.ColMapTarget),
		CorrelationID: r.Get(row.ColCorrelationID),
	}
	m.TerminologyID = r.ID()
	return m, nil
}

func attributeValueFromRow(r row.Row) *model.AttributeValueRefsetMember {
	m := &model.AttributeValueRefsetMember{
		RefsetID: r.Get(row.ColRefsetID),
		ValueID:  r.Get(row.ColValueID),
	}
	m.TerminologyID = r.ID()
	return m
}

func associationFromRow(r row.Row) *model.AssociationReferenceRefsetMember {
	m := &model.AssociationReferenceRefsetMember{
		RefsetID:          r.Get(row.ColRefsetID),
		TargetComponentID: r.Get(row.ColTargetComponentID),
	}
	m.TerminologyID = r.ID()
	return m
}

func atoi(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

// Model to row mapping.

// appendCommon appends id, effectiveTime, active and moduleId. An empty
// module falls back to the owner's.
func appendCommon(dst []string, c *model.Component, owner model.Owner) []string {
	module := c.ModuleID
	if module == "" && owner != nil {
		module = owner.ModuleID()
	}
	return append(dst, c.TerminologyID, rf2.FormatEffectiveTime(c.EffectiveTime), activeFlag(c.Active), module)
}

func activeFlag(active bool) string {
	if active {
		return "1"
	}
	return "0"
}

func appendDescription(dst []string, d *model.Description, concept *model.Concept, t *model.Translation) []string {
	lang := d.LanguageCode
	if lang == "" {
		lang = t.Language
	}
	dst = appendCommon(dst, &d.Component, t)
	return append(dst, concept.TerminologyID, lang, d.TypeID, d.Term, d.CaseSignificanceID)
}

func appendLanguageMember(dst []string, m *model.LanguageRefsetMember, d *model.Description, t *model.Translation) []string {
	refset := m.RefsetID
	if refset == "" {
		refset = t.LanguageRefsetID
	}
	dst = appendCommon(dst, &m.Component, t)
	return append(dst, refset, d.TerminologyID, m.AcceptabilityID)
}

func appendSimpleMember(dst []string, m *model.SimpleRefsetMember, refset *model.Refset) []string {
	dst = appendCommon(dst, &m.Component, refset)
	return append(dst, refset.TerminologyID, m.ConceptID)
}

func appendDefinition(dst []string, refset *model.Refset) []string {
	return append(dst,
		refset.DefinitionMemberID, "", activeFlag(true), refset.Module,
		refset.TerminologyID, refset.TerminologyID, refset.Definition)
}
