package types

import (
	"strings"

	"github.com/arthur-debert/templar/pkg/errors"
)

// SubstitutionRule replaces every occurrence of Old with New.
//
// Matching is exact, case-sensitive substring matching with no notion of
// token boundaries, so Old may match inside unrelated larger identifiers.
// Extensions optionally restricts content rewriting to files whose name
// ends with one of the listed suffixes; an empty list selects every file.
type SubstitutionRule struct {
	Old        string
	New        string
	Extensions []string
}

// Validate checks that the rule can be applied
func (r SubstitutionRule) Validate() error {
	if r.Old == "" {
		return errors.New(errors.ErrInvalidInput, "substitution rule requires a non-empty placeholder")
	}
	return nil
}

// Contains reports whether s holds at least one occurrence of Old
func (r SubstitutionRule) Contains(s string) bool {
	return r.Old != "" && strings.Contains(s, r.Old)
}

// Apply replaces all occurrences of Old in s
func (r SubstitutionRule) Apply(s string) string {
	if r.Old == "" {
		return s
	}
	return strings.ReplaceAll(s, r.Old, r.New)
}

// Selects reports whether a file named name passes the extension filter
func (r SubstitutionRule) Selects(name string) bool {
	if len(r.Extensions) == 0 {
		return true
	}
	for _, ext := range r.Extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
