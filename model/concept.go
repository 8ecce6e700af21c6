package model

// Concept is a terminology unit owning descriptions and refset memberships.
type Concept struct {
	Component

	DefinitionStatusID string

	Descriptions []*Description

	SimpleMembers         []*SimpleRefsetMember
	SimpleMapMembers      []*SimpleMapRefsetMember
	ComplexMapMembers     []*ComplexMapRefsetMember
	AttributeValueMembers []*AttributeValueRefsetMember
	AssociationMembers    []*AssociationReferenceRefsetMember
}

// AddDescription appends d and sets its back-reference.
func (c *Concept) AddDescription(d *Description) {
	d.Concept = c
	c.Descriptions = append(c.Descriptions, d)
}

// Description is a term for a concept in one language.
type Description struct {
	Component

	// Concept is the owning concept.
	Concept *Concept

	Term               string
	LanguageCode       string
	TypeID             string
	CaseSignificanceID string

	LanguageMembers []*LanguageRefsetMember
}

// AddLanguageMember appends m and sets its back-reference.
func (d *Description) AddLanguageMember(m *LanguageRefsetMember) {
	m.Description = d
	d.LanguageMembers = append(d.LanguageMembers, m)
}

// LanguageRefsetMember places a description in a dialect refset.
type LanguageRefsetMember struct {
	Component

	// Description is the owning description.
	Description *Description

	RefsetID        string
	AcceptabilityID string
}

// Count returns the number of descriptions and language members in concepts.
func Count(concepts []*Concept) (descriptions, members int) {
	for _, c := range concepts {
		descriptions += len(c.Descriptions)
		for _, d := range c.Descriptions {
			members += len(d.LanguageMembers)
		}
	}
	return descriptions, members
}
