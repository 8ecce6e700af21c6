// Package model defines the in-memory graphs produced and consumed by the
// codec: concepts owning descriptions, descriptions owning language refset
// members, and refsets owning simple members.
//
// Graphs are plain values handed to the caller. The codec never persists or
// reuses them across calls.
package model

import "time"

// Component holds the fields every RF2 component carries.
type Component struct {
	// ID is the persisted identifier; nil until the persistence layer assigns
	// one. It is never written to RF2 columns.
	ID *int64

	// EffectiveTime is nil for unreleased content.
	EffectiveTime *time.Time

	Active      bool
	Published   bool
	Publishable bool

	// ModuleID is the SCTID of the module the component belongs to.
	ModuleID string

	// TerminologyID is the source system's row id. Every RF2 id and reference
	// column carries it.
	TerminologyID string
}

// Common returns the component itself. Types embedding Component satisfy
// Resettable through this method.
func (c *Component) Common() *Component {
	return c
}

// Resettable is implemented by every type embedding Component.
type Resettable interface {
	Common() *Component
}

// Owner is the translation or refset that imported content belongs to.
type Owner interface {
	ModuleID() string
}

// ResetForImport applies the import policy to a freshly created component:
// it becomes an active, unpublished, publishable draft with no id and no
// effective time, in the owner's module. Applying it twice is a no-op.
func ResetForImport(r Resettable, owner Owner) {
	c := r.Common()
	c.Active = true
	c.EffectiveTime = nil
	c.ID = nil
	c.Publishable = true
	c.Published = false
	if owner != nil {
		c.ModuleID = owner.ModuleID()
	}
}
