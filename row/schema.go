package row

import "fmt"

// Column names shared by RF2 files.
const (
	ColID                    = "id"
	ColEffectiveTime         = "effectiveTime"
	ColActive                = "active"
	ColModuleID              = "moduleId"
	ColDefinitionStatusID    = "definitionStatusId"
	ColConceptID             = "conceptId"
	ColLanguageCode          = "languageCode"
	ColTypeID                = "typeId"
	ColTerm                  = "term"
	ColCaseSignificanceID    = "caseSignificanceId"
	ColRefsetID              = "refsetId"
	ColReferencedComponentID = "referencedComponentId"
	ColAcceptabilityID       = "acceptabilityId"
	ColMapTarget             = "mapTarget"
	ColMapGroup              = "mapGroup"
	ColMapPriority           = "mapPriority"
	ColMapRule               = "mapRule"
	ColMapAdvice             = "mapAdvice"
	ColCorrelationID         = "correlationId"
	ColValueID               = "valueId"
	ColTargetComponentID     = "targetComponentId"
	ColSourceEffectiveTime   = "sourceEffectiveTime"
	ColTargetEffectiveTime   = "targetEffectiveTime"
	ColAttributeDescription  = "attributeDescription"
	ColAttributeType         = "attributeType"
	ColAttributeOrder        = "attributeOrder"
	ColDefinition            = "definition"
)

// Kind identifies a row layout.
type Kind int

// Row kinds.
const (
	KindConcept Kind = iota
	KindDescription
	KindTextDefinition
	KindLanguage
	KindSimple
	KindSimpleMap
	KindComplexMap
	KindAttributeValue
	KindAssociation
	KindModuleDependency
	KindRefsetDescriptor
	KindDefinition
)

var (
	// common is the prefix every row kind starts with.
	common = []string{ColID, ColEffectiveTime, ColActive, ColModuleID}

	// member is the prefix of every refset member row.
	member = concat(common, ColRefsetID, ColReferencedComponentID)

	description = concat(common, ColConceptID, ColLanguageCode, ColTypeID, ColTerm, ColCaseSignificanceID)
)

type schema struct {
	name    string
	columns []string
	index   map[string]int
}

var schemas = map[Kind]*schema{
	KindConcept:          newSchema("concept", concat(common, ColDefinitionStatusID)),
	KindDescription:      newSchema("description", description),
	KindTextDefinition:   newSchema("textDefinition", description),
	KindLanguage:         newSchema("language", concat(member, ColAcceptabilityID)),
	KindSimple:           newSchema("simple", member),
	KindSimpleMap:        newSchema("simpleMap", concat(member, ColMapTarget)),
	KindComplexMap:       newSchema("complexMap", concat(member, ColMapGroup, ColMapPriority, ColMapRule, ColMapAdvice, ColMapTarget, ColCorrelationID)),
	KindAttributeValue:   newSchema("attributeValue", concat(member, ColValueID)),
	KindAssociation:      newSchema("association", concat(member, ColTargetComponentID)),
	KindModuleDependency: newSchema("moduleDependency", concat(member, ColSourceEffectiveTime, ColTargetEffectiveTime)),
	KindRefsetDescriptor: newSchema("refsetDescriptor", concat(member, ColAttributeDescription, ColAttributeType, ColAttributeOrder)),
	KindDefinition:       newSchema("definition", concat(member, ColDefinition)),
}

func newSchema(name string, columns []string) *schema {
	s := &schema{name: name, columns: columns, index: make(map[string]int, len(columns))}
	for i, c := range columns {
		s.index[c] = i
	}
	return s
}

func concat(prefix []string, cols ...string) []string {
	out := make([]string, 0, len(prefix)+len(cols))
	out = append(out, prefix...)
	return append(out, cols...)
}

func (k Kind) schema() *schema {
	s, ok := schemas[k]
	if !ok {
		panic(fmt.Sprintf("row: unknown kind %d", int(k)))
	}
	return s
}

// String returns the kind name used in errors and metrics.
func (k Kind) String() string {
	if s, ok := schemas[k]; ok {
		return s.name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsValid reports whether k is a declared kind.
func (k Kind) IsValid() bool {
	_, ok := schemas[k]
	return ok
}

// Columns returns a copy of the ordered column names.
func (k Kind) Columns() []string {
	cols := k.schema().columns
	out := make([]string, len(cols))
	copy(out, cols)
	return out
}

// Width returns the number of columns.
func (k Kind) Width() int {
	return len(k.schema().columns)
}

// Index returns the position of column, or -1 if the kind has no such column.
func (k Kind) Index(column string) int {
	if i, ok := k.schema().index[column]; ok {
		return i
	}
	return -1
}

// Header returns the header line for this kind.
func (k Kind) Header() string {
	return Join(k.schema().columns, Delimiter)
}

// IsMember reports whether rows of this kind are refset members.
func (k Kind) IsMember() bool {
	return k.Index(ColRefsetID) == len(common)
}
