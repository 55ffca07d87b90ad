package utils

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// GeneratePlanID creates a readable, unique plan id.
// Format: plan-{scenarioSlug}-{8charHexUUID}
//
// Example:
//   - Input: scenario="North Pit / Phase 2"
//   - Output: "plan-north-pit-phase-2-a3f8e2b1"
//
// An empty scenario name yields "plan-{8charHexUUID}".
func GeneratePlanID(scenario string) string {
	slug := Slugify(scenario)
	if slug == "" {
		return "plan-" + generateShortUUID()
	}
	return "plan-" + slug + "-" + generateShortUUID()
}

// Slugify lowercases a name and collapses every run of non-alphanumeric
// characters into a single hyphen
func Slugify(name string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}

// generateShortUUID creates an 8-character hex string from a UUID.
func generateShortUUID() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")[:8]
}
