package identifiers

import (
	"fmt"
	"regexp"
	"strings"
)

// hpoPattern matches a Human Phenotype Ontology term: the HP prefix followed
// by exactly seven digits.
var hpoPattern = regexp.MustCompile(`^HP:[0-9]{7}$`)

// NormalizeHPO uppercases the prefix and validates the term shape, returning
// the canonical "HP:0000000" form.
func NormalizeHPO(term string) (string, error) {
	s := strings.TrimSpace(term)
	if s == "" {
		return "", fmt.Errorf("HPO term cannot be empty")
	}
	if idx := strings.Index(s, ":"); idx > 0 {
		s = strings.ToUpper(s[:idx]) + s[idx:]
	}
	if !hpoPattern.MatchString(s) {
		return "", fmt.Errorf("invalid HPO term %q: expected HP: followed by 7 digits", term)
	}
	return s, nil
}

// ValidHPO reports whether the term normalizes to a canonical HPO identifier.
func ValidHPO(term string) bool {
	_, err := NormalizeHPO(term)
	return err == nil
}

// mondoPattern matches a MONDO disease ontology identifier.
var mondoPattern = regexp.MustCompile(`^MONDO:[0-9]{7}$`)

// ValidMONDO reports whether the identifier is a canonical MONDO disease ID.
func ValidMONDO(id string) bool {
	return mondoPattern.MatchString(strings.TrimSpace(id))
}
