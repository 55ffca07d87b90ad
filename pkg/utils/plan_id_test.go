package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"North Pit / Phase 2", "north-pit-phase-2"},
		{"  leading and trailing  ", "leading-and-trailing"},
		{"already-slugged", "already-slugged"},
		{"!!!", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slugify(tt.input))
		})
	}
}

func TestGeneratePlanID(t *testing.T) {
	id := GeneratePlanID("Quarry A")
	assert.Regexp(t, regexp.MustCompile(`^plan-quarry-a-[0-9a-f]{8}$`), id)

	anonymous := GeneratePlanID("")
	assert.Regexp(t, regexp.MustCompile(`^plan-[0-9a-f]{8}$`), anonymous)

	assert.NotEqual(t, GeneratePlanID("x"), GeneratePlanID("x"))
}
