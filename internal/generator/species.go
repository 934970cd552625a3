package generator

import (
	"fmt"
	"math/rand"
	"strings"
)

// SpeciesRandom is the request value that picks a species uniformly at random
// from the configured set.
const SpeciesRandom = "random"

// ResolveSpecies turns a species request into a concrete species name.
// An empty request uses the default (or a random pick when randomize is set),
// the literal "random" always picks randomly, and anything else must name a
// member of the configured set.
func ResolveSpecies(rng *rand.Rand, set []string, defaultSpecies, request string, randomize bool) (string, error) {
	if len(set) == 0 {
		return "", fmt.Errorf("no species configured")
	}

	switch {
	case request == "":
		if randomize {
			return set[rng.Intn(len(set))], nil
		}
		if defaultSpecies != "" {
			return defaultSpecies, nil
		}
		return set[0], nil
	case strings.EqualFold(request, SpeciesRandom):
		return set[rng.Intn(len(set))], nil
	default:
		for _, s := range set {
			if strings.EqualFold(s, request) {
				return s, nil
			}
		}
		return "", fmt.Errorf("unknown species %q", request)
	}
}
