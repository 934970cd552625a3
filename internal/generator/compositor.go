package generator

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/jordaneaster/sb-generator/internal/components"
	"github.com/jordaneaster/sb-generator/internal/imaging"
	"github.com/jordaneaster/sb-generator/internal/logging"
	"github.com/jordaneaster/sb-generator/internal/models"
)

// LayerStatus is the terminal state of one layer in a composite walk.
type LayerStatus string

const (
	LayerDrawn   LayerStatus = "drawn"
	LayerSkipped LayerStatus = "skipped"
)

// Skip reasons recorded in layer outcomes.
const (
	SkipDuplicate    = "duplicate category"
	SkipNoCandidates = "no candidates"
	SkipFetchFailed  = "fetch failed"
	SkipDecodeFailed = "decode failed"
	SkipDrawFailed   = "draw failed"
)

// LayerOutcome records what happened to one layer. Traits are derived only
// from drawn outcomes.
type LayerOutcome struct {
	Category  string      `json:"category"`
	Status    LayerStatus `json:"status"`
	Reason    string      `json:"reason,omitempty"`
	Component string      `json:"component,omitempty"`
}

// CompositeResult is the outcome of one composite call: the ordered trait
// list (species first) and the per-layer outcomes behind it.
type CompositeResult struct {
	Traits   []models.Trait
	Outcomes []LayerOutcome
}

// Composited canvases more transparent than this are logged; it usually means
// the background component failed or does not cover the canvas.
const transparencyWarnPercent = 50.0

// Compositor walks a layer scheme in declared order and draws the selected
// component of each layer onto a canvas. Later layers occlude earlier ones;
// transparent regions show earlier layers through.
type Compositor struct {
	selector *Selector
	repo     components.Repository
	registry *imaging.Registry
}

// NewCompositor creates a Compositor decoding components through registry.
func NewCompositor(selector *Selector, repo components.Repository, registry *imaging.Registry) *Compositor {
	return &Compositor{selector: selector, repo: repo, registry: registry}
}

// Composite clears the canvas to opaque white and draws the scheme's layers
// bottom to top for the given species. Per-layer faults (repository, decode,
// draw) skip that layer and never abort the walk; only a required layer with
// no usable candidates fails the call. If the background layer fails, the
// canvas is re-filled white so downstream steps never see a transparent
// backdrop.
func (c *Compositor) Composite(ctx context.Context, canvas *Canvas, scheme models.LayerScheme, species string) (*CompositeResult, error) {
	canvas.Clear()
	cw, ch := canvas.Size()

	result := &CompositeResult{
		Traits: []models.Trait{{TraitType: models.TraitSpecies, Value: species}},
	}
	drawn := make(map[string]bool)

	for _, spec := range scheme.Layers {
		entry := logging.Log.WithFields(logrus.Fields{
			"species":  species,
			"category": spec.Category,
			"role":     spec.Role,
		})

		if drawn[spec.Category] {
			entry.Warn("layer skipped: category already drawn")
			result.Outcomes = append(result.Outcomes, skipped(spec.Category, SkipDuplicate, ""))
			continue
		}

		sel, err := c.selector.Select(ctx, spec, species)
		if err != nil {
			return nil, err
		}
		if sel == nil {
			entry.Debug("layer skipped: no candidates for optional layer")
			result.Outcomes = append(result.Outcomes, skipped(spec.Category, SkipNoCandidates, ""))
			continue
		}

		entry = entry.WithField("component", sel.DisplayName)

		data, err := c.repo.Fetch(ctx, sel.Locator)
		if err != nil {
			entry.WithError(err).Warn("layer skipped: component fetch failed")
			result.Outcomes = append(result.Outcomes, skipped(spec.Category, SkipFetchFailed, sel.DisplayName))
			c.restoreBackground(canvas, spec.Role)
			continue
		}

		art, err := c.registry.Decode(sel.DisplayName, data)
		if err != nil {
			entry.WithError(err).Warn("layer skipped: component decode failed")
			result.Outcomes = append(result.Outcomes, skipped(spec.Category, SkipDecodeFailed, sel.DisplayName))
			c.restoreBackground(canvas, spec.Role)
			continue
		}

		nat := art.NaturalSize()
		rect := PlaceLayer(spec.Role, spec.Category, nat.X, nat.Y, cw, ch)
		if err := art.Render(canvas.Image(), rect); err != nil {
			entry.WithError(err).Warn("layer skipped: draw failed")
			result.Outcomes = append(result.Outcomes, skipped(spec.Category, SkipDrawFailed, sel.DisplayName))
			c.restoreBackground(canvas, spec.Role)
			continue
		}

		drawn[spec.Category] = true
		result.Traits = append(result.Traits, models.Trait{
			TraitType: spec.Category,
			Value:     sel.TraitValue(),
		})
		result.Outcomes = append(result.Outcomes, LayerOutcome{
			Category:  spec.Category,
			Status:    LayerDrawn,
			Component: sel.DisplayName,
		})
	}

	if pct := imaging.TransparencyPercent(canvas.Image()); pct > transparencyWarnPercent {
		logging.Log.WithFields(logrus.Fields{
			"species":      species,
			"transparency": pct,
		}).Warn("composited canvas is mostly transparent")
	}

	return result, nil
}

// restoreBackground re-fills the canvas white after a failed background draw,
// which may have left partial pixels behind.
func (c *Compositor) restoreBackground(canvas *Canvas, role models.LayerRole) {
	if role == models.RoleBackground {
		canvas.Clear()
	}
}

func skipped(category, reason, component string) LayerOutcome {
	return LayerOutcome{
		Category:  category,
		Status:    LayerSkipped,
		Reason:    reason,
		Component: component,
	}
}
