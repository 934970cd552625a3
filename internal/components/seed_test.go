// seed_test.go - Tests for the bundled starter art and library seeding
package components

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestHasStarterArt(t *testing.T) {
	if !HasStarterArt() {
		t.Error("Expected starter art to be bundled")
	}
}

func TestStarterFS(t *testing.T) {
	starterFS, err := StarterFS()
	if err != nil {
		t.Fatalf("Failed to open starter filesystem: %v", err)
	}

	data, err := fs.ReadFile(starterFS, "indigo/head/round.svg")
	if err != nil {
		t.Fatalf("Failed to read bundled component: %v", err)
	}
	if !bytes.Contains(data, []byte("<svg")) {
		t.Error("Expected bundled component to be an SVG document")
	}
}

func TestSeedStarterArt(t *testing.T) {
	t.Run("seeds an empty library", func(t *testing.T) {
		root := t.TempDir()

		written, err := SeedStarterArt(root)
		if err != nil {
			t.Fatalf("Failed to seed starter art: %v", err)
		}
		if written == 0 {
			t.Fatal("Expected at least one seeded file, got 0")
		}

		repo, err := NewDirRepository(root)
		if err != nil {
			t.Fatalf("Failed to open seeded library: %v", err)
		}
		ctx := context.Background()

		heads, err := repo.List(ctx, "indigo", "head")
		if err != nil {
			t.Fatalf("Failed to list seeded heads: %v", err)
		}
		if len(heads) != 2 {
			t.Errorf("Expected 2 indigo heads, got %d", len(heads))
		}

		backgrounds, err := repo.List(ctx, "amber", "background")
		if err != nil {
			t.Fatalf("Failed to list seeded backgrounds: %v", err)
		}
		if len(backgrounds) != 1 {
			t.Errorf("Expected 1 amber background, got %d", len(backgrounds))
		}

		data, err := repo.Fetch(ctx, heads[0].Locator)
		if err != nil {
			t.Fatalf("Failed to fetch seeded component: %v", err)
		}
		if !bytes.Contains(data, []byte("<svg")) {
			t.Error("Expected seeded component to be an SVG document")
		}
	})

	t.Run("second call is a no-op", func(t *testing.T) {
		root := t.TempDir()

		if _, err := SeedStarterArt(root); err != nil {
			t.Fatalf("Failed to seed starter art: %v", err)
		}
		written, err := SeedStarterArt(root)
		if err != nil {
			t.Fatalf("Failed on repeated seed: %v", err)
		}
		if written != 0 {
			t.Errorf("Expected 0 files on repeated seed, got %d", written)
		}
	})

	t.Run("populated library is left untouched", func(t *testing.T) {
		root := t.TempDir()
		custom := filepath.Join(root, "custom", "head")
		if err := os.MkdirAll(custom, 0755); err != nil {
			t.Fatalf("Failed to create custom library: %v", err)
		}
		if err := os.WriteFile(filepath.Join(custom, "mine.svg"), []byte("<svg/>"), 0644); err != nil {
			t.Fatalf("Failed to write custom component: %v", err)
		}

		written, err := SeedStarterArt(root)
		if err != nil {
			t.Fatalf("Failed on seed attempt: %v", err)
		}
		if written != 0 {
			t.Errorf("Expected 0 files for populated library, got %d", written)
		}
		if _, err := os.Stat(filepath.Join(root, "indigo")); !os.IsNotExist(err) {
			t.Error("Expected no starter species directories in populated library")
		}
	})

	t.Run("missing root is created", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "assets")

		written, err := SeedStarterArt(root)
		if err != nil {
			t.Fatalf("Failed to seed into missing root: %v", err)
		}
		if written == 0 {
			t.Error("Expected seeded files in freshly created root")
		}
	})
}
