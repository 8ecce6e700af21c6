package rf2io

import (
	"github.com/gofhir/rf2/archive"
	"github.com/gofhir/rf2/model"
	"github.com/gofhir/rf2/row"
)

// attachFunc builds a member from r, applies the import policy and appends it
// to c.
type attachFunc func(c *model.Concept, r row.Row, owner model.Owner) error

// memberKind describes a concept refset entry that may ride along in a
// translation bundle.
type memberKind struct {
	token   string
	exclude []string
	attach  attachFunc
}

// memberKinds maps each concept refset kind to its entry token.
var memberKinds = map[row.Kind]memberKind{
	row.KindSimpleMap: {
		token: "Refset_SimpleMap",
		attach: func(c *model.Concept, r row.Row, owner model.Owner) error {
			m := simpleMapFromRow(r)
			model.ResetForImport(m, owner)
			m.Concept = c
			c.SimpleMapMembers = append(c.SimpleMapMembers, m)
			return nil
		},
	},
	row.KindSimple: {
		token:   "Refset_Simple",
		exclude: []string{"Refset_SimpleMap"},
		attach: func(c *model.Concept, r row.Row, owner model.Owner) error {
			m := simpleMemberFromRow(r)
			model.ResetForImport(m, owner)
			c.SimpleMembers = append(c.SimpleMembers, m)
			return nil
		},
	},
	row.KindComplexMap: {
		token: "Refset_ComplexMap",
		attach: func(c *model.Concept, r row.Row, owner model.Owner) error {
			m, err := complexMapFromRow(r)
			if err != nil {
				return err
			}
			model.ResetForImport(m, owner)
			m.Concept = c
			c.ComplexMapMembers = append(c.ComplexMapMembers, m)
			return nil
		},
	},
	row.KindAttributeValue: {
		token: "Refset_AttributeValue",
		attach: func(c *model.Concept, r row.Row, owner model.Owner) error {
			m := attributeValueFromRow(r)
			model.ResetForImport(m, owner)
			m.Concept = c
			c.AttributeValueMembers = append(c.AttributeValueMembers, m)
			return nil
		},
	},
	row.KindAssociation: {
		token: "Refset_Association",
		attach: func(c *model.Concept, r row.Row, owner model.Owner) error {
			m := associationFromRow(r)
			model.ResetForImport(m, owner)
			m.Concept = c
			c.AssociationMembers = append(c.AssociationMembers, m)
			return nil
		},
	},
}

// memberOrder is the order classifyMember tries tokens in. SimpleMap comes
// before Simple so the longer token wins.
var memberOrder = []row.Kind{
	row.KindSimpleMap,
	row.KindSimple,
	row.KindComplexMap,
	row.KindAttributeValue,
	row.KindAssociation,
}

// classifyMember returns the concept member kind an entry name denotes.
func classifyMember(name string) (row.Kind, bool) {
	for _, k := range memberOrder {
		mk := memberKinds[k]
		if archive.Classify(name, mk.token, mk.exclude...) {
			return k, true
		}
	}
	return 0, false
}
