// compositor_test.go - Tests for the layer compositing walk
package generator

import (
	"context"
	"errors"
	"image/color"
	"math/rand"
	"testing"

	"github.com/jordaneaster/sb-generator/internal/imaging"
	"github.com/jordaneaster/sb-generator/internal/models"
	"github.com/jordaneaster/sb-generator/internal/testutil"
)

// newTestCompositor wires a compositor over the given repository
func newTestCompositor(repo *testutil.MockRepository, seed int64) *Compositor {
	sel := NewSelector(repo, rand.New(rand.NewSource(seed)))
	return NewCompositor(sel, repo, imaging.NewRegistry())
}

// seedBuddyLibrary fills repo with a minimal renderable indigo set
func seedBuddyLibrary(repo *testutil.MockRepository) {
	repo.AddComponent("indigo", "background", "starfield.png",
		testutil.SolidPNG(8, 8, color.NRGBA{B: 0xff, A: 0xff}))
	repo.AddComponent("indigo", "head", "round.svg", testutil.SimpleSVG(10, 20, "#888888"))
	repo.AddComponent("indigo", "eyes", "wide.svg", testutil.SimpleSVG(10, 10, "#000000"))
}

func TestCompositeFullWalk(t *testing.T) {
	repo := testutil.NewMockRepository()
	seedBuddyLibrary(repo)
	comp := newTestCompositor(repo, 11)
	canvas := NewCanvas(64, 64)

	scheme := models.LayerScheme{Layers: []models.LayerSpec{
		{Category: "background", Role: models.RoleBackground},
		{Category: "head", Role: models.RoleBase},
		{Category: "eyes", Role: models.RoleFeature},
		{Category: "hats", Role: models.RoleAccessory, Optional: true},
	}}

	res, err := comp.Composite(context.Background(), canvas, scheme, "indigo")
	if err != nil {
		t.Fatalf("Composite failed: %v", err)
	}

	wantTraits := []models.Trait{
		{TraitType: models.TraitSpecies, Value: "indigo"},
		{TraitType: "background", Value: "starfield"},
		{TraitType: "head", Value: "round"},
		{TraitType: "eyes", Value: "wide"},
	}
	if len(res.Traits) != len(wantTraits) {
		t.Fatalf("Expected %d traits, got %d: %+v", len(wantTraits), len(res.Traits), res.Traits)
	}
	for i, want := range wantTraits {
		if res.Traits[i] != want {
			t.Errorf("Trait %d: expected %+v, got %+v", i, want, res.Traits[i])
		}
	}

	if len(res.Outcomes) != 4 {
		t.Fatalf("Expected 4 outcomes, got %d", len(res.Outcomes))
	}
	for i := 0; i < 3; i++ {
		if res.Outcomes[i].Status != LayerDrawn {
			t.Errorf("Expected layer %d drawn, got %+v", i, res.Outcomes[i])
		}
	}
	if last := res.Outcomes[3]; last.Status != LayerSkipped || last.Reason != SkipNoCandidates {
		t.Errorf("Expected empty optional layer skipped, got %+v", last)
	}

	if pct := imaging.TransparencyPercent(canvas.Image()); pct != 0 {
		t.Errorf("Expected opaque composite, got %.1f%% transparency", pct)
	}
	if px := canvas.Image().RGBAAt(1, 1); px.B < 0xc0 {
		t.Errorf("Expected blue background at corner, got %+v", px)
	}
}

func TestCompositeDuplicateCategory(t *testing.T) {
	repo := testutil.NewMockRepository()
	repo.AddComponent("indigo", "hats", "cap.svg", testutil.SimpleSVG(10, 10, "#ff00ff"))
	comp := newTestCompositor(repo, 12)
	canvas := NewCanvas(64, 64)

	scheme := models.LayerScheme{Layers: []models.LayerSpec{
		{Category: "hats", Role: models.RoleAccessory},
		{Category: "hats", Role: models.RoleAccessory},
	}}

	res, err := comp.Composite(context.Background(), canvas, scheme, "indigo")
	if err != nil {
		t.Fatalf("Composite failed: %v", err)
	}
	if len(res.Traits) != 2 {
		t.Fatalf("Expected species plus one hats trait, got %+v", res.Traits)
	}
	if res.Outcomes[1].Status != LayerSkipped || res.Outcomes[1].Reason != SkipDuplicate {
		t.Errorf("Expected duplicate skip, got %+v", res.Outcomes[1])
	}
}

func TestCompositeDecodeFailure(t *testing.T) {
	repo := testutil.NewMockRepository()
	seedBuddyLibrary(repo)
	repo.AddComponent("indigo", "hats", "broken.png", []byte("not a png"))
	comp := newTestCompositor(repo, 13)
	canvas := NewCanvas(64, 64)

	scheme := models.LayerScheme{Layers: []models.LayerSpec{
		{Category: "background", Role: models.RoleBackground},
		{Category: "hats", Role: models.RoleAccessory, Optional: true},
	}}

	res, err := comp.Composite(context.Background(), canvas, scheme, "indigo")
	if err != nil {
		t.Fatalf("Expected decode failure to be absorbed, got %v", err)
	}
	if len(res.Traits) != 2 {
		t.Fatalf("Expected species plus background traits, got %+v", res.Traits)
	}
	if res.Outcomes[1].Status != LayerSkipped || res.Outcomes[1].Reason != SkipDecodeFailed {
		t.Errorf("Expected decode skip, got %+v", res.Outcomes[1])
	}
}

func TestCompositeFetchFailure(t *testing.T) {
	repo := testutil.NewMockRepository()
	seedBuddyLibrary(repo)
	repo.FetchErr = errors.New("library offline")
	comp := newTestCompositor(repo, 14)
	canvas := NewCanvas(64, 64)

	scheme := models.LayerScheme{Layers: []models.LayerSpec{
		{Category: "eyes", Role: models.RoleFeature, Optional: true},
	}}

	res, err := comp.Composite(context.Background(), canvas, scheme, "indigo")
	if err != nil {
		t.Fatalf("Expected fetch failure to be absorbed, got %v", err)
	}
	if res.Outcomes[0].Status != LayerSkipped || res.Outcomes[0].Reason != SkipFetchFailed {
		t.Errorf("Expected fetch skip, got %+v", res.Outcomes[0])
	}
}

func TestCompositeBackgroundFailureKeepsCanvasOpaque(t *testing.T) {
	repo := testutil.NewMockRepository()
	repo.AddComponent("indigo", "background", "corrupt.png", []byte("junk"))
	comp := newTestCompositor(repo, 15)
	canvas := NewCanvas(64, 64)

	scheme := models.LayerScheme{Layers: []models.LayerSpec{
		{Category: "background", Role: models.RoleBackground},
	}}

	res, err := comp.Composite(context.Background(), canvas, scheme, "indigo")
	if err != nil {
		t.Fatalf("Expected background failure to be absorbed, got %v", err)
	}
	if len(res.Traits) != 1 || res.Traits[0].TraitType != models.TraitSpecies {
		t.Fatalf("Expected only the species trait, got %+v", res.Traits)
	}
	if pct := imaging.TransparencyPercent(canvas.Image()); pct != 0 {
		t.Errorf("Expected re-filled opaque canvas, got %.1f%% transparency", pct)
	}
	if px := canvas.Image().RGBAAt(0, 0); px.R != 0xff || px.G != 0xff || px.B != 0xff {
		t.Errorf("Expected white canvas after background failure, got %+v", px)
	}
}

func TestCompositeRequiredLayerEmpty(t *testing.T) {
	repo := testutil.NewMockRepository()
	comp := newTestCompositor(repo, 16)
	canvas := NewCanvas(64, 64)

	scheme := models.LayerScheme{Layers: []models.LayerSpec{
		{Category: "head", Role: models.RoleBase},
	}}

	_, err := comp.Composite(context.Background(), canvas, scheme, "indigo")
	var empty *EmptyLayerError
	if !errors.As(err, &empty) {
		t.Fatalf("Expected EmptyLayerError, got %v", err)
	}
}
