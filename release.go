package rf2

import (
	"fmt"
	"time"
)

// ReleaseType is the RF2 release flavour encoded in every file name.
type ReleaseType string

// Supported release types.
const (
	// Snapshot holds the latest version of every component.
	Snapshot ReleaseType = "Snapshot"
	// Delta holds only the components changed since the previous release.
	Delta ReleaseType = "Delta"
	// Full holds every version of every component ever released.
	Full ReleaseType = "Full"
)

// EffectiveTimeLayout is the RF2 effectiveTime column layout (YYYYMMDD).
const EffectiveTimeLayout = "20060102"

// String returns the release type string.
func (r ReleaseType) String() string {
	return string(r)
}

// IsValid returns true if this is a supported release type.
func (r ReleaseType) IsValid() bool {
	switch r {
	case Snapshot, Delta, Full:
		return true
	default:
		return false
	}
}

// ParseReleaseType parses a release type name. The empty string means Snapshot.
func ParseReleaseType(s string) (ReleaseType, error) {
	if s == "" {
		return Snapshot, nil
	}
	r := ReleaseType(s)
	if !r.IsValid() {
		return "", fmt.Errorf("unknown release type: %s (supported: Snapshot, Delta, Full)", s)
	}
	return r, nil
}

// FormatEffectiveTime renders t in the effectiveTime column layout.
// A nil time renders as the empty string.
func FormatEffectiveTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(EffectiveTimeLayout)
}

// ParseEffectiveTime parses an effectiveTime column. The empty string yields nil.
func ParseEffectiveTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(EffectiveTimeLayout, s)
	if err != nil {
		return nil, fmt.Errorf("invalid effectiveTime %q: %w", s, err)
	}
	return &t, nil
}
