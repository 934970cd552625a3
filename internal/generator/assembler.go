package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"math/rand"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/jordaneaster/sb-generator/internal/components"
	"github.com/jordaneaster/sb-generator/internal/config"
	"github.com/jordaneaster/sb-generator/internal/imaging"
	"github.com/jordaneaster/sb-generator/internal/logging"
	"github.com/jordaneaster/sb-generator/internal/models"
	"github.com/jordaneaster/sb-generator/internal/pixelate"
	"github.com/jordaneaster/sb-generator/internal/storage"
)

// Recorder persists completed generations for collection statistics. Record
// failures never fail a generation.
type Recorder interface {
	Record(ctx context.Context, result *models.GenerationResult) error
}

// Assembler runs the full generation pipeline for one identifier: species
// resolution, composite, rasterize, pixelate, upload, metadata. It owns one
// canvas and serializes generations against it; independent Assemblers may
// run concurrently.
type Assembler struct {
	mu     sync.Mutex
	canvas *Canvas
	comp   *Compositor
	scheme models.LayerScheme
	cfg    config.GeneratorConfig
	local  *storage.LocalStore
	remote storage.Store
	rec    Recorder
	rng    *rand.Rand
}

// NewAssembler wires a generation pipeline. remote and rec may be nil: with
// no remote sink artifact references stay local, with no recorder nothing is
// recorded. A nil rng is seeded from the clock.
func NewAssembler(repo components.Repository, local *storage.LocalStore, remote storage.Store, rec Recorder, scheme models.LayerScheme, cfg config.GeneratorConfig, rng *rand.Rand) *Assembler {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	selector := NewSelector(repo, rng)
	return &Assembler{
		canvas: NewCanvas(cfg.CanvasWidth, cfg.CanvasHeight),
		comp:   NewCompositor(selector, repo, imaging.GetGlobalRegistry()),
		scheme: scheme,
		cfg:    cfg,
		local:  local,
		remote: remote,
		rec:    rec,
		rng:    rng,
	}
}

func artifactKey(id int) string         { return fmt.Sprintf("images/%d.png", id) }
func fallbackArtifactKey(id int) string { return fmt.Sprintf("images/fallback/%d.png", id) }
func pixelatedKey(id int) string        { return fmt.Sprintf("pixelated/%d.png", id) }

// MetadataKey is the artifact key of a generation's metadata document.
func MetadataKey(id int) string { return fmt.Sprintf("metadata/%d.json", id) }

// Generate runs one full generation. Faults inside the pipeline degrade
// rather than propagate: only an invalid species request or a cancelled
// context return an error. Anything catastrophic yields a marked error
// result so batch runs never halt on one bad identifier.
func (a *Assembler) Generate(ctx context.Context, id int, speciesRequest string) (result *models.GenerationResult, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	species, err := ResolveSpecies(a.rng, a.cfg.Species, a.cfg.DefaultSpecies, speciesRequest, a.cfg.RandomizeSpecies)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			logging.Log.WithFields(logrus.Fields{"id": id, "panic": r}).Error("generation panicked")
			result = a.errorResult(ctx, id, species, fmt.Sprintf("panic: %v", r))
			err = nil
		}
	}()

	cres, err := a.comp.Composite(ctx, a.canvas, a.scheme, species)
	if err != nil {
		logging.Log.WithFields(logrus.Fields{"id": id, "species": species}).WithError(err).Error("composite failed")
		return a.errorResult(ctx, id, species, err.Error()), nil
	}

	data, err := encodePNG(a.canvas.Image())
	if err != nil {
		return a.errorResult(ctx, id, species, err.Error()), nil
	}

	key := artifactKey(id)
	imageURL, putErr := a.local.Put(ctx, key, data, "image/png")
	if putErr != nil {
		logging.Log.WithFields(logrus.Fields{"id": id}).WithError(putErr).Warn("artifact save failed, retrying fallback path")
		key = fallbackArtifactKey(id)
		imageURL, putErr = a.local.Put(ctx, key, data, "image/png")
		if putErr != nil {
			return a.errorResult(ctx, id, species, fmt.Sprintf("artifact save failed: %v", putErr)), nil
		}
	}

	pixData := a.pixelatedData(id, data)
	pixURL, pixPutErr := a.local.Put(ctx, pixelatedKey(id), pixData, "image/png")
	if pixPutErr != nil {
		logging.Log.WithFields(logrus.Fields{"id": id}).WithError(pixPutErr).Warn("pixelated artifact save failed, referencing primary")
		pixURL = imageURL
	}

	if a.remote != nil {
		if u, rerr := a.remote.Put(ctx, key, data, "image/png"); rerr != nil {
			logging.Log.WithFields(logrus.Fields{"id": id, "key": key}).WithError(rerr).Warn("artifact upload failed, keeping local reference")
		} else {
			imageURL = u
		}
		if u, rerr := a.remote.Put(ctx, pixelatedKey(id), pixData, "image/png"); rerr != nil {
			logging.Log.WithFields(logrus.Fields{"id": id, "key": pixelatedKey(id)}).WithError(rerr).Warn("pixelated upload failed, keeping local reference")
		} else {
			pixURL = u
		}
	}

	result = &models.GenerationResult{
		ID:            id,
		Species:       species,
		ImagePath:     imageURL,
		PixelatedPath: pixURL,
		Traits:        cres.Traits,
		GeneratedAt:   time.Now().UTC(),
	}
	a.persistMetadata(ctx, result)
	a.record(ctx, result)

	logging.Log.WithFields(logrus.Fields{
		"id":      id,
		"species": species,
		"traits":  len(result.Traits),
	}).Info("generation complete")
	return result, nil
}

// pixelatedData transforms the composed canvas; any transform failure falls
// back to an unmodified copy of the original artifact bytes.
func (a *Assembler) pixelatedData(id int, original []byte) []byte {
	var (
		pix *image.RGBA
		err error
	)
	if a.cfg.PixelPaletteSize > 0 {
		pix, err = pixelate.ApplyWithPalette(a.canvas.Image(), a.cfg.PixelBlockSize, a.cfg.PixelPaletteSize)
	} else {
		pix, err = pixelate.Apply(a.canvas.Image(), a.cfg.PixelBlockSize)
	}
	if err != nil {
		logging.Log.WithFields(logrus.Fields{"id": id}).WithError(err).Warn("pixelation failed, using unmodified copy")
		return original
	}

	data, err := encodePNG(pix)
	if err != nil {
		logging.Log.WithFields(logrus.Fields{"id": id}).WithError(err).Warn("pixelated encode failed, using unmodified copy")
		return original
	}
	return data
}

// errorResult is the catastrophic fallback: a marked error image plus a
// result whose trait list carries the error, instead of raising past the
// Assembler boundary.
func (a *Assembler) errorResult(ctx context.Context, id int, species, reason string) *models.GenerationResult {
	res := &models.GenerationResult{
		ID:          id,
		Species:     species,
		Failed:      true,
		Traits:      []models.Trait{{TraitType: models.TraitError, Value: reason}},
		GeneratedAt: time.Now().UTC(),
	}

	img := RenderErrorMarker(a.cfg.CanvasWidth, a.cfg.CanvasHeight, "GENERATION FAILED", fmt.Sprintf("#%d", id))
	data, err := encodePNG(img)
	if err == nil {
		url, putErr := a.local.Put(ctx, artifactKey(id), data, "image/png")
		if putErr != nil {
			url, putErr = a.local.Put(ctx, fallbackArtifactKey(id), data, "image/png")
		}
		if putErr != nil {
			logging.Log.WithFields(logrus.Fields{"id": id}).WithError(putErr).Error("error marker save failed")
		} else {
			res.ImagePath = url
			res.PixelatedPath = url
			if a.remote != nil {
				if u, rerr := a.remote.Put(ctx, artifactKey(id), data, "image/png"); rerr != nil {
					logging.Log.WithFields(logrus.Fields{"id": id}).WithError(rerr).Warn("error marker upload failed")
				} else {
					res.ImagePath = u
					res.PixelatedPath = u
				}
			}
		}
	}

	a.persistMetadata(ctx, res)
	a.record(ctx, res)
	return res
}

func (a *Assembler) persistMetadata(ctx context.Context, res *models.GenerationResult) {
	meta := a.Metadata(res)
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		logging.Log.WithFields(logrus.Fields{"id": res.ID}).WithError(err).Error("metadata marshal failed")
		return
	}
	if _, err := a.local.Put(ctx, MetadataKey(res.ID), data, "application/json"); err != nil {
		logging.Log.WithFields(logrus.Fields{"id": res.ID}).WithError(err).Warn("metadata save failed")
	}
	if a.remote != nil {
		if _, err := a.remote.Put(ctx, MetadataKey(res.ID), data, "application/json"); err != nil {
			logging.Log.WithFields(logrus.Fields{"id": res.ID}).WithError(err).Warn("metadata upload failed")
		}
	}
}

// Metadata builds the persisted document for a result.
func (a *Assembler) Metadata(res *models.GenerationResult) models.Metadata {
	return models.Metadata{
		ID:          res.ID,
		Name:        DisplayName(res.Species, res.ID),
		Description: a.cfg.Description,
		Images: models.MetadataImages{
			TwoD:      res.ImagePath,
			Pixelated: res.PixelatedPath,
		},
		Attributes: res.Traits,
	}
}

func (a *Assembler) record(ctx context.Context, res *models.GenerationResult) {
	if a.rec == nil {
		return
	}
	if err := a.rec.Record(ctx, res); err != nil {
		logging.Log.WithFields(logrus.Fields{"id": res.ID}).WithError(err).Warn("ledger record failed")
	}
}

// DisplayName renders the templated collection name for one generation.
func DisplayName(species string, id int) string {
	return fmt.Sprintf("%s Space Buddy #%d", titleCase(species), id)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return strings.ToUpper(string(r)) + s[size:]
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}
