// routes.go - Route registration helpers
package api

import (
	"github.com/labstack/echo/v4"

	"github.com/jordaneaster/sb-generator/internal/batch"
	"github.com/jordaneaster/sb-generator/internal/components"
	"github.com/jordaneaster/sb-generator/internal/config"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Generator Generator
	BatchMgr  *batch.Manager
	Ledger    Ledger
	Repo      components.Repository
	Artifacts ArtifactReader
	Config    *config.AppConfig
	Version   string
}

// Handlers holds all handler instances
type Handlers struct {
	Health     HealthHandler
	Generate   GenerateHandler
	Collection CollectionHandler
	Library    LibraryHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		Health:     NewHealthHandler(deps.Version),
		Generate:   NewGenerateHandler(deps.Generator, deps.BatchMgr, deps.Config),
		Collection: NewCollectionHandler(deps.Artifacts, deps.Ledger),
		Library:    NewLibraryHandler(deps.Repo, deps.Config),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	// Health check
	e.GET("/health", handlers.Health.HandleHealth)

	// Generation routes
	genGroup := e.Group("/api/generate")
	genGroup.POST("", handlers.Generate.HandleGenerate)
	genGroup.POST("/batch", handlers.Generate.HandleStartBatch)
	genGroup.GET("/jobs/:jobId", handlers.Generate.HandleBatchStatus)
	genGroup.GET("/jobs/:jobId/progress", handlers.Generate.HandleBatchProgressStream)

	// Collection routes
	colGroup := e.Group("/api/collection")
	colGroup.GET("", handlers.Collection.HandleListCollection)
	colGroup.GET("/stats", handlers.Collection.HandleCollectionStats)
	colGroup.GET("/manifest/msgpack", handlers.Collection.HandleManifestMsgpack)
	colGroup.GET("/:id", handlers.Collection.HandleGetGeneration)

	// Component library routes
	libGroup := e.Group("/api/library")
	libGroup.GET("/species", handlers.Library.HandleListSpecies)
	libGroup.GET("/:species/:category", handlers.Library.HandleListComponents)
}
