package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"  Luxury 3-Bedroom Apartment!! ": "luxury-3-bedroom-apartment",
		"DHA Phase 5":                     "dha-phase-5",
		"Lahore":                          "lahore",
		"---":                             "",
		"":                                "",
		"Flat   for RENT @ Gulberg":       "flat-for-rent-gulberg",
	}
	for input, expected := range cases {
		assert.Equal(t, expected, Slugify(input), "input: %q", input)
	}
}

func TestSlugify_Idempotent(t *testing.T) {
	inputs := []string{
		"  Luxury 3-Bedroom Apartment!! ",
		"Commercial Plaza (Main Blvd)",
		"already-a-slug",
	}
	for _, input := range inputs {
		once := Slugify(input)
		assert.Equal(t, once, Slugify(once))
	}
}
