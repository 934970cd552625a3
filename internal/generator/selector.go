package generator

import (
	"context"
	"math/rand"

	"github.com/jordaneaster/sb-generator/internal/components"
	"github.com/jordaneaster/sb-generator/internal/models"
)

// Selector chooses one component per layer from the repository's candidates.
// Selection is pure over the candidate list; the injected rand source is the
// only non-determinism.
type Selector struct {
	repo components.Repository
	rng  *rand.Rand
}

// NewSelector creates a Selector drawing randomness from rng.
func NewSelector(repo components.Repository, rng *rand.Rand) *Selector {
	return &Selector{repo: repo, rng: rng}
}

// Select picks a component for the layer, or nil when an optional layer has
// no usable candidates. Required layers with no candidates fail with
// EmptyLayerError; required layers whose candidates are all of unrecognized
// kind fail with NoRenderableComponentError. A repository error counts as
// "no candidates".
//
// For base and feature roles, vector candidates are preferred: if any exist,
// the pick is uniform over vectors only. Head and eye art is expected as
// scalable vector files for sharper results, but raster-only sets still work.
func (s *Selector) Select(ctx context.Context, spec models.LayerSpec, species string) (*models.SelectedComponent, error) {
	candidates, err := s.repo.List(ctx, species, spec.Category)
	if err != nil || len(candidates) == 0 {
		if spec.Optional {
			return nil, nil
		}
		return nil, &EmptyLayerError{Category: spec.Category, Species: species, Err: err}
	}

	var renderable, vectors []models.ComponentDescriptor
	for _, c := range candidates {
		switch c.Kind {
		case models.KindVector:
			renderable = append(renderable, c)
			vectors = append(vectors, c)
		case models.KindRaster:
			renderable = append(renderable, c)
		}
	}
	if len(renderable) == 0 {
		if spec.Optional {
			return nil, nil
		}
		return nil, &NoRenderableComponentError{Category: spec.Category, Species: species}
	}

	pool := renderable
	if (spec.Role == models.RoleBase || spec.Role == models.RoleFeature) && len(vectors) > 0 {
		pool = vectors
	}

	chosen := pool[s.rng.Intn(len(pool))]
	return &models.SelectedComponent{
		ComponentDescriptor: chosen,
		Category:            spec.Category,
		Role:                spec.Role,
	}, nil
}
