package identifiers

import (
	"fmt"
	"regexp"
	"strings"
)

// pmidPattern matches a bare PubMed identifier: one to eight digits with no
// leading zero.
var pmidPattern = regexp.MustCompile(`^[1-9][0-9]{0,7}$`)

// NormalizePMID strips an optional "PMID:" prefix and surrounding whitespace
// and returns the bare digit string, or an error when the identifier is not a
// plausible PubMed ID.
func NormalizePMID(pmid string) (string, error) {
	s := strings.TrimSpace(pmid)
	if upper := strings.ToUpper(s); strings.HasPrefix(upper, "PMID:") {
		s = strings.TrimSpace(s[len("PMID:"):])
	}
	if s == "" {
		return "", fmt.Errorf("PMID cannot be empty")
	}
	if !pmidPattern.MatchString(s) {
		return "", fmt.Errorf("invalid PMID %q: expected 1-8 digits without leading zero", pmid)
	}
	return s, nil
}

// ValidPMID reports whether the identifier normalizes to a plausible PubMed ID.
func ValidPMID(pmid string) bool {
	_, err := NormalizePMID(pmid)
	return err == nil
}
