// Package geo canonicalizes free-text Georgia place names into join-safe
// county keys. The housing extract spells counties like "Fulton County,
// Georgia" while district names look like "Fulton County Schools"; both sides
// are normalized with the same two suffix strips so logically identical
// places compare equal.
package geo

import (
	"regexp"
	"strings"
)

var (
	trailingStateRe  = regexp.MustCompile(`(?i),\s*georgia\s*$`)
	trailingCountyRe = regexp.MustCompile(`(?i)\s+county\s*$`)
)

// NormalizeCounty rewrites a raw place name into the canonical county join
// key: trim, drop a trailing ", Georgia", drop a trailing " County", trim
// again, lowercase. It returns "" for input that is empty, whitespace-only,
// or reduces to nothing; callers treat "" as a null key.
//
// The function is pure and idempotent. It applies exactly these two strips;
// district-specific wording ("City Schools", "Board of Education") is left
// alone, so matching across datasets is best effort.
func NormalizeCounty(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	s = trailingStateRe.ReplaceAllString(s, "")
	s = trailingCountyRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	return strings.ToLower(s)
}
