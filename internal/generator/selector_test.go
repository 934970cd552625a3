// selector_test.go - Tests for component selection
package generator

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/jordaneaster/sb-generator/internal/models"
	"github.com/jordaneaster/sb-generator/internal/testutil"
)

func TestSelectorPrefersVectors(t *testing.T) {
	repo := testutil.NewMockRepository()
	repo.AddComponent("indigo", "head", "crown.svg", nil)
	for _, name := range []string{"a.png", "b.png", "c.png", "d.png", "e.png"} {
		repo.AddComponent("indigo", "head", name, nil)
	}
	sel := NewSelector(repo, rand.New(rand.NewSource(1)))
	spec := models.LayerSpec{Category: "head", Role: models.RoleBase}

	for i := 0; i < 30; i++ {
		got, err := sel.Select(context.Background(), spec, "indigo")
		if err != nil {
			t.Fatalf("Select failed: %v", err)
		}
		if got.DisplayName != "crown.svg" {
			t.Fatalf("Expected vector pick for base role, got %s", got.DisplayName)
		}
		if got.Category != "head" || got.Role != models.RoleBase {
			t.Fatalf("Expected layer tagging on selection, got %+v", got)
		}
	}
}

func TestSelectorMixedPoolForAccessories(t *testing.T) {
	repo := testutil.NewMockRepository()
	repo.AddComponent("indigo", "hats", "cap.svg", nil)
	for _, name := range []string{"beanie.png", "visor.png", "crown.png", "halo.png", "fez.png"} {
		repo.AddComponent("indigo", "hats", name, nil)
	}
	sel := NewSelector(repo, rand.New(rand.NewSource(2)))
	spec := models.LayerSpec{Category: "hats", Role: models.RoleAccessory, Optional: true}

	seen := make(map[string]bool)
	for i := 0; i < 40; i++ {
		got, err := sel.Select(context.Background(), spec, "indigo")
		if err != nil {
			t.Fatalf("Select failed: %v", err)
		}
		seen[got.DisplayName] = true
	}
	if len(seen) < 2 {
		t.Errorf("Expected accessory picks across the whole pool, got %v", seen)
	}
}

func TestSelectorNoCandidates(t *testing.T) {
	repo := testutil.NewMockRepository()
	sel := NewSelector(repo, rand.New(rand.NewSource(3)))
	ctx := context.Background()

	t.Run("optional layer returns nil", func(t *testing.T) {
		spec := models.LayerSpec{Category: "binky", Role: models.RoleAccessory, Optional: true}
		got, err := sel.Select(ctx, spec, "indigo")
		if err != nil {
			t.Fatalf("Expected nil error for empty optional layer, got %v", err)
		}
		if got != nil {
			t.Errorf("Expected nil selection, got %+v", got)
		}
	})

	t.Run("required layer fails", func(t *testing.T) {
		spec := models.LayerSpec{Category: "head", Role: models.RoleBase}
		_, err := sel.Select(ctx, spec, "indigo")
		var empty *EmptyLayerError
		if !errors.As(err, &empty) {
			t.Fatalf("Expected EmptyLayerError, got %v", err)
		}
		if empty.Category != "head" || empty.Species != "indigo" {
			t.Errorf("Expected error to carry layer identity, got %+v", empty)
		}
	})
}

func TestSelectorRepositoryError(t *testing.T) {
	repo := testutil.NewMockRepository()
	repo.AddComponent("indigo", "head", "round.svg", nil)
	listErr := errors.New("library offline")
	repo.ListErr = listErr
	sel := NewSelector(repo, rand.New(rand.NewSource(4)))
	ctx := context.Background()

	t.Run("required layer wraps repository error", func(t *testing.T) {
		spec := models.LayerSpec{Category: "head", Role: models.RoleBase}
		_, err := sel.Select(ctx, spec, "indigo")
		var empty *EmptyLayerError
		if !errors.As(err, &empty) {
			t.Fatalf("Expected EmptyLayerError, got %v", err)
		}
		if !errors.Is(err, listErr) {
			t.Error("Expected wrapped repository error")
		}
	})

	t.Run("optional layer treats error as no candidates", func(t *testing.T) {
		spec := models.LayerSpec{Category: "hats", Role: models.RoleAccessory, Optional: true}
		got, err := sel.Select(ctx, spec, "indigo")
		if err != nil || got != nil {
			t.Errorf("Expected nil,nil for optional layer, got %+v, %v", got, err)
		}
	})
}

func TestSelectorNoRenderableCandidates(t *testing.T) {
	repo := testutil.NewMockRepository()
	repo.AddComponent("indigo", "head", "notes.txt", nil)
	repo.AddComponent("indigo", "head", "backup.zip", nil)
	sel := NewSelector(repo, rand.New(rand.NewSource(5)))
	ctx := context.Background()

	t.Run("required layer fails", func(t *testing.T) {
		spec := models.LayerSpec{Category: "head", Role: models.RoleBase}
		_, err := sel.Select(ctx, spec, "indigo")
		var noRender *NoRenderableComponentError
		if !errors.As(err, &noRender) {
			t.Fatalf("Expected NoRenderableComponentError, got %v", err)
		}
	})

	t.Run("optional layer returns nil", func(t *testing.T) {
		repo.AddComponent("indigo", "hats", "readme.md", nil)
		spec := models.LayerSpec{Category: "hats", Role: models.RoleAccessory, Optional: true}
		got, err := sel.Select(ctx, spec, "indigo")
		if err != nil || got != nil {
			t.Errorf("Expected nil,nil for optional layer, got %+v, %v", got, err)
		}
	})
}
