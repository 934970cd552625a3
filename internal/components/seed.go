package components

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed starter/*
var starterFiles embed.FS

// StarterFS returns the bundled starter art with the starter folder as root.
// The layout mirrors a component library: species/category/component.svg.
func StarterFS() (fs.FS, error) {
	return fs.Sub(starterFiles, "starter")
}

// HasStarterArt returns true if starter art was bundled into the binary.
func HasStarterArt() bool {
	entries, err := starterFiles.ReadDir("starter")
	if err != nil {
		return false
	}
	// At least one species directory must be present
	for _, entry := range entries {
		if entry.IsDir() {
			return true
		}
	}
	return false
}

// SeedStarterArt materializes the bundled starter art into root so a fresh
// deployment can generate images before any real art is installed. Seeding
// only happens when the library holds no species directories yet; a populated
// library is never touched. Returns the number of files written.
func SeedStarterArt(root string) (int, error) {
	entries, err := os.ReadDir(root)
	if err != nil && !os.IsNotExist(err) {
		return 0, fmt.Errorf("failed to inspect library root: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			// Library already has content
			return 0, nil
		}
	}

	starterFS, err := StarterFS()
	if err != nil {
		return 0, err
	}

	written := 0
	err = fs.WalkDir(starterFS, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		data, err := fs.ReadFile(starterFS, p)
		if err != nil {
			return fmt.Errorf("failed to read bundled art %s: %w", p, err)
		}

		target := filepath.Join(root, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return fmt.Errorf("failed to create library directory: %w", err)
		}
		if err := os.WriteFile(target, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", target, err)
		}
		written++
		return nil
	})
	if err != nil {
		return written, err
	}
	return written, nil
}
