// handlers_library.go - Component library handlers
package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/jordaneaster/sb-generator/internal/components"
	"github.com/jordaneaster/sb-generator/internal/config"
	"github.com/jordaneaster/sb-generator/internal/models"
)

type speciesSummary struct {
	Species    string         `json:"species"`
	Categories map[string]int `json:"categories"`
	Total      int            `json:"total"`
}

type componentListResponse struct {
	Species    string                       `json:"species"`
	Category   string                       `json:"category"`
	Components []models.ComponentDescriptor `json:"components"`
	Count      int                          `json:"count"`
}

// LibraryHandlerImpl implements the LibraryHandler interface
type LibraryHandlerImpl struct {
	repo components.Repository
	cfg  *config.AppConfig
}

// NewLibraryHandler creates a new library handler
func NewLibraryHandler(repo components.Repository, cfg *config.AppConfig) LibraryHandler {
	return &LibraryHandlerImpl{
		repo: repo,
		cfg:  cfg,
	}
}

// HandleListSpecies returns the configured species with their per-category
// component counts. Listing errors count as zero, matching the selector's
// "no candidates" reading.
func (h *LibraryHandlerImpl) HandleListSpecies(c echo.Context) error {
	ctx := c.Request().Context()
	scheme := h.cfg.Scheme()

	summaries := make([]speciesSummary, 0, len(h.cfg.Generator.Species))
	for _, species := range h.cfg.Generator.Species {
		summary := speciesSummary{
			Species:    species,
			Categories: make(map[string]int),
		}
		for _, layer := range scheme.Layers {
			if _, seen := summary.Categories[layer.Category]; seen {
				continue
			}
			list, err := h.repo.List(ctx, species, layer.Category)
			if err != nil {
				list = nil
			}
			summary.Categories[layer.Category] = len(list)
			summary.Total += len(list)
		}
		summaries = append(summaries, summary)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"species": summaries,
		"default": h.cfg.Generator.DefaultSpecies,
	})
}

// HandleListComponents returns the component descriptors of one
// species/category folder
func (h *LibraryHandlerImpl) HandleListComponents(c echo.Context) error {
	species := c.Param("species")
	category := c.Param("category")
	if species == "" {
		return NewValidationError("species")
	}
	if category == "" {
		return NewValidationError("category")
	}
	if !h.knownSpecies(species) {
		return NewNotFoundError("species", species)
	}

	list, err := h.repo.List(c.Request().Context(), species, category)
	if err != nil {
		return NewInternalError("failed to list components", err)
	}
	if list == nil {
		list = []models.ComponentDescriptor{}
	}

	return c.JSON(http.StatusOK, componentListResponse{
		Species:    species,
		Category:   category,
		Components: list,
		Count:      len(list),
	})
}

func (h *LibraryHandlerImpl) knownSpecies(species string) bool {
	for _, s := range h.cfg.Generator.Species {
		if strings.EqualFold(s, species) {
			return true
		}
	}
	return false
}
