// species_test.go - Tests for species resolution
package generator

import (
	"math/rand"
	"testing"
)

func TestResolveSpecies(t *testing.T) {
	set := []string{"indigo", "green", "violet", "amber"}
	rng := rand.New(rand.NewSource(42))

	inSet := func(s string) bool {
		for _, m := range set {
			if m == s {
				return true
			}
		}
		return false
	}

	t.Run("exact request", func(t *testing.T) {
		got, err := ResolveSpecies(rng, set, "indigo", "green", false)
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if got != "green" {
			t.Errorf("Expected green, got %s", got)
		}
	})

	t.Run("request is case-insensitive", func(t *testing.T) {
		got, err := ResolveSpecies(rng, set, "indigo", "VIOLET", false)
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if got != "violet" {
			t.Errorf("Expected canonical violet, got %s", got)
		}
	})

	t.Run("empty request uses default", func(t *testing.T) {
		got, err := ResolveSpecies(rng, set, "amber", "", false)
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if got != "amber" {
			t.Errorf("Expected default amber, got %s", got)
		}
	})

	t.Run("empty request without default uses first", func(t *testing.T) {
		got, err := ResolveSpecies(rng, set, "", "", false)
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if got != "indigo" {
			t.Errorf("Expected first species indigo, got %s", got)
		}
	})

	t.Run("empty request with randomize picks from set", func(t *testing.T) {
		for i := 0; i < 20; i++ {
			got, err := ResolveSpecies(rng, set, "indigo", "", true)
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			if !inSet(got) {
				t.Fatalf("Expected a configured species, got %s", got)
			}
		}
	})

	t.Run("random keyword picks from set", func(t *testing.T) {
		for _, req := range []string{"random", "RANDOM", "Random"} {
			got, err := ResolveSpecies(rng, set, "indigo", req, false)
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			if !inSet(got) {
				t.Fatalf("Expected a configured species for %q, got %s", req, got)
			}
		}
	})

	t.Run("unknown species errors", func(t *testing.T) {
		if _, err := ResolveSpecies(rng, set, "indigo", "crimson", false); err == nil {
			t.Error("Expected error for unknown species")
		}
	})

	t.Run("empty set errors", func(t *testing.T) {
		if _, err := ResolveSpecies(rng, nil, "", "indigo", false); err == nil {
			t.Error("Expected error for empty species set")
		}
	})
}
