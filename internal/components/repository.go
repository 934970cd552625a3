// Package components provides access to the component library: the tree of
// artwork files, organized by species and category, that generations draw from.
package components

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jordaneaster/sb-generator/internal/models"
)

// Repository lists and fetches component artwork for a species/category pair.
// A List that returns an error or an empty slice both mean the same thing to
// callers: no candidates.
type Repository interface {
	List(ctx context.Context, species, category string) ([]models.ComponentDescriptor, error)
	Fetch(ctx context.Context, locator string) ([]byte, error)
}

// DirRepository implements Repository over a local directory tree laid out as
// <root>/<species>/<category>/<file>.
type DirRepository struct {
	root string
}

// NewDirRepository creates a DirRepository rooted at root, creating the
// directory if needed.
func NewDirRepository(root string) (*DirRepository, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("creating component root: %w", err)
	}
	return &DirRepository{root: root}, nil
}

// List returns descriptors for every recognized image file under the
// species/category directory. A missing directory is an empty listing, not an
// error.
func (r *DirRepository) List(ctx context.Context, species, category string) ([]models.ComponentDescriptor, error) {
	dir := filepath.Join(r.root, species, category)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing %s/%s: %w", species, category, err)
	}

	var out []models.ComponentDescriptor
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		kind := models.KindForName(e.Name())
		if kind == models.KindUnknown {
			continue
		}
		out = append(out, models.ComponentDescriptor{
			Locator:     filepath.ToSlash(filepath.Join(species, category, e.Name())),
			DisplayName: e.Name(),
			Kind:        kind,
		})
	}
	return out, nil
}

// Fetch reads the bytes of a component previously listed by this repository.
func (r *DirRepository) Fetch(ctx context.Context, locator string) ([]byte, error) {
	clean := filepath.Clean(filepath.FromSlash(locator))
	if filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return nil, fmt.Errorf("invalid component locator: %s", locator)
	}
	data, err := os.ReadFile(filepath.Join(r.root, clean))
	if err != nil {
		return nil, fmt.Errorf("reading component %s: %w", locator, err)
	}
	return data, nil
}
