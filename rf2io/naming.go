package rf2io

import (
	"fmt"
	"strings"

	"github.com/gofhir/rf2"
)

// ComponentType is the component tag embedded in RF2 file names.
type ComponentType string

// Component types written or recognised by the codecs.
const (
	TypeConcept        ComponentType = "Concept"
	TypeDescription    ComponentType = "Description"
	TypeTextDefinition ComponentType = "TextDefinition"
	TypeLanguage       ComponentType = "cRefset_Language"
	TypeSimple         ComponentType = "Refset_Simple"
	TypeDefinition     ComponentType = "sRefset_Definition"
)

// IsRefset reports whether the type names a derivative (refset) file.
func (t ComponentType) IsRefset() bool {
	return strings.Contains(string(t), "Refset_")
}

// Naming builds RF2 file names of the form
// <prefix>_<ComponentType>_<Release>[-<lang>]_<namespace>_<version>.txt.
// Refset tags are fused with the release type as in the published releases:
// der2_cRefset_LanguageSnapshot-es_INT_20240131.txt.
type Naming struct {
	CorePrefix   string
	RefsetPrefix string
	Release      rf2.ReleaseType
}

// FileName returns the entry name for a component type. language may be empty.
func (n Naming) FileName(namespace string, t ComponentType, version, language string) string {
	prefix, sep := n.CorePrefix, "_"
	if t.IsRefset() {
		prefix, sep = n.RefsetPrefix, ""
	}

	tag := string(t) + sep + n.Release.String()
	if language != "" {
		tag += "-" + language
	}
	return fmt.Sprintf("%s_%s_%s_%s.txt", prefix, tag, namespace, version)
}

// BundleName returns the name of a translation bundle.
func (n Naming) BundleName(namespace, language, version string) string {
	if language == "" {
		return fmt.Sprintf("Translation_%s_%s_%s.zip", n.Release, namespace, version)
	}
	return fmt.Sprintf("Translation-%s_%s_%s_%s.zip", language, n.Release, namespace, version)
}
