package model

// Translation is the destination of a translation import and the source of
// naming metadata for its export.
type Translation struct {
	ID   *int64
	Name string

	// Language is the language code written to description rows (e.g. "es").
	Language string

	// Version is the release version written into file names (e.g. "20240131").
	Version string

	// Module is the SCTID of the translation's module.
	Module string

	// LanguageRefsetID is the refset language members belong to.
	LanguageRefsetID string
}

// ModuleID returns the translation's module.
func (t *Translation) ModuleID() string {
	return t.Module
}

// Refset is a reference set: the owner of simple members and of a free-text
// definition.
type Refset struct {
	ID   *int64
	Name string

	// TerminologyID is the refset concept's SCTID.
	TerminologyID string

	Version string
	Module  string

	// Definition is the free-text definition of the refset's membership.
	Definition string

	// DefinitionMemberID is the id written on the definition row, if known.
	DefinitionMemberID string
}

// ModuleID returns the refset's module.
func (r *Refset) ModuleID() string {
	return r.Module
}
