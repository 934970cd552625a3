// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/jordaneaster/sb-generator/internal/ledger"
	"github.com/jordaneaster/sb-generator/internal/models"
)

// GenerateHandler handles generation operations
type GenerateHandler interface {
	HandleGenerate(c echo.Context) error
	HandleStartBatch(c echo.Context) error
	HandleBatchStatus(c echo.Context) error
	HandleBatchProgressStream(c echo.Context) error
}

// CollectionHandler handles queries over generated buddies
type CollectionHandler interface {
	HandleListCollection(c echo.Context) error
	HandleGetGeneration(c echo.Context) error
	HandleCollectionStats(c echo.Context) error
	HandleManifestMsgpack(c echo.Context) error
}

// LibraryHandler handles component library listings
type LibraryHandler interface {
	HandleListSpecies(c echo.Context) error
	HandleListComponents(c echo.Context) error
}

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

// Generator runs one synchronous generation
// This allows mocking in tests
type Generator interface {
	Generate(ctx context.Context, id int, speciesRequest string) (*models.GenerationResult, error)
}

// Ledger answers collection statistics queries
// This allows mocking in tests
type Ledger interface {
	Stats(ctx context.Context) (*ledger.Stats, error)
	Manifest(ctx context.Context) ([]models.GenerationResult, error)
}

// ArtifactReader reads back persisted artifacts and metadata documents
type ArtifactReader interface {
	Get(ctx context.Context, key string) ([]byte, error)
	ListKeys(ctx context.Context, prefix string) ([]string, error)
}
