// Package fhirvs exchanges simple refsets as FHIR R4 ValueSet resources.
//
// A refset becomes an extensional ValueSet whose compose lists every
// active member's concept under the SNOMED CT system. Importing accepts
// either a compose or an expansion; the expansion wins when both are present.
package fhirvs

import (
	"github.com/gofhir/fhir/r4"

	"github.com/gofhir/rf2/model"
)

// SNOMEDSystem is the code system URI of member concepts.
const SNOMEDSystem = "http://snomed.info/sct"

// ValueSetURL returns the implicit ValueSet URL of a refset.
func ValueSetURL(refsetID string) string {
	return SNOMEDSystem + "?fhir_vs=refset/" + refsetID
}

// ToValueSet builds a ValueSet listing the active members of refset, in
// order. Duplicate concepts are listed once.
func ToValueSet(refset *model.Refset, members []*model.SimpleRefsetMember) *r4.ValueSet {
	url := ValueSetURL(refset.TerminologyID)
	system := SNOMEDSystem

	seen := make(map[string]struct{}, len(members))
	include := r4.ValueSetComposeInclude{System: &system}
	for _, m := range members {
		if !m.Active || m.ConceptID == "" {
			continue
		}
		if _, dup := seen[m.ConceptID]; dup {
			continue
		}
		seen[m.ConceptID] = struct{}{}

		code := m.ConceptID
		include.Concept = append(include.Concept, r4.ValueSetComposeIncludeConcept{Code: &code})
	}

	return &r4.ValueSet{
		Url:     &url,
		Compose: &r4.ValueSetCompose{Include: []r4.ValueSetComposeInclude{include}},
	}
}

// Codes returns the SNOMED CT codes of vs in document order, without
// duplicates. Codes from other systems are ignored.
func Codes(vs *r4.ValueSet) []string {
	c := collector{seen: make(map[string]struct{})}
	if vs.Expansion != nil {
		for i := range vs.Expansion.Contains {
			c.expansion(&vs.Expansion.Contains[i])
		}
		return c.codes
	}
	if vs.Compose != nil {
		for i := range vs.Compose.Include {
			c.include(&vs.Compose.Include[i])
		}
	}
	return c.codes
}

type collector struct {
	seen  map[string]struct{}
	codes []string
}

func (c *collector) add(system, code *string) {
	if code == nil || *code == "" {
		return
	}
	if system != nil && *system != SNOMEDSystem {
		return
	}
	if _, dup := c.seen[*code]; dup {
		return
	}
	c.seen[*code] = struct{}{}
	c.codes = append(c.codes, *code)
}

func (c *collector) expansion(contains *r4.ValueSetExpansionContains) {
	c.add(contains.System, contains.Code)

	// Recurse into nested contains
	for i := range contains.Contains {
		c.expansion(&contains.Contains[i])
	}
}

func (c *collector) include(include *r4.ValueSetComposeInclude) {
	if include.System == nil || *include.System != SNOMEDSystem {
		return
	}
	for j := range include.Concept {
		c.add(include.System, include.Concept[j].Code)
	}
}
