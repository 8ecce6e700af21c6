package model

// SimpleRefsetMember places a concept in a refset with no extra payload.
type SimpleRefsetMember struct {
	Component

	// Refset is set by the caller after import; it cannot be derived from the row.
	Refset *Refset

	ConceptID string
}

// SimpleMapRefsetMember maps a concept to a code in another scheme.
type SimpleMapRefsetMember struct {
	Component

	Concept *Concept

	RefsetID  string
	MapTarget string
}

// ComplexMapRefsetMember maps a concept to a target with rule and advice.
type ComplexMapRefsetMember struct {
	Component

	Concept *Concept

	RefsetID      string
	MapGroup      int
	MapPriority   int
	MapRule       string
	MapAdvice     string
	MapTarget     string
	CorrelationID string
}

// AttributeValueRefsetMember attaches a value concept to a concept.
type AttributeValueRefsetMember struct {
	Component

	Concept *Concept

	RefsetID string
	ValueID  string
}

// AssociationReferenceRefsetMember links a concept to a target component.
type AssociationReferenceRefsetMember struct {
	Component

	Concept *Concept

	RefsetID          string
	TargetComponentID string
}
