package util

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Summer Deals", "summer-deals"},
		{"  Crème Brûlée  ", "creme-brulee"},
		{"Black_Friday 2026!", "black-friday-2026"},
		{"a -- b", "a-b"},
		{"---", ""},
	}

	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsValidSlug(t *testing.T) {
	valid := []string{"a", "deals", "top-10-deals"}
	invalid := []string{"", "-a", "a-", "a--b", "Deals", "a b", "ü"}

	for _, s := range valid {
		if !IsValidSlug(s) {
			t.Errorf("IsValidSlug(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsValidSlug(s) {
			t.Errorf("IsValidSlug(%q) = true, want false", s)
		}
	}
}

func TestProperty_SlugifyProducesValidSlugs(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("non-empty slugify output is always a valid slug", prop.ForAll(
		func(name string) bool {
			slug := Slugify(name)
			return slug == "" || IsValidSlug(slug)
		},
		gen.AnyString(),
	))

	properties.Property("slugify is idempotent", prop.ForAll(
		func(name string) bool {
			once := Slugify(name)
			return Slugify(once) == once
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
