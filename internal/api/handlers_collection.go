// handlers_collection.go - Collection query handlers
package api

import (
	"encoding/json"
	"net/http"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/jordaneaster/sb-generator/internal/generator"
)

type collectionResponse struct {
	Items    []json.RawMessage `json:"items"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
	Total    int               `json:"total"`
}

// CollectionHandlerImpl implements the CollectionHandler interface
type CollectionHandlerImpl struct {
	artifacts ArtifactReader
	ledger    Ledger
}

// NewCollectionHandler creates a new collection handler
func NewCollectionHandler(artifacts ArtifactReader, ledger Ledger) CollectionHandler {
	return &CollectionHandlerImpl{
		artifacts: artifacts,
		ledger:    ledger,
	}
}

// HandleListCollection returns paginated metadata documents, lowest
// identifier first
func (h *CollectionHandlerImpl) HandleListCollection(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.QueryParam("pageSize"))
	if pageSize < 1 || pageSize > 500 {
		pageSize = 50
	}

	ctx := c.Request().Context()
	keys, err := h.artifacts.ListKeys(ctx, "metadata")
	if err != nil {
		return NewInternalError("failed to list collection", err)
	}

	ids := make([]int, 0, len(keys))
	for _, key := range keys {
		name := strings.TrimSuffix(path.Base(key), ".json")
		id, err := strconv.Atoi(name)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)

	total := len(ids)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	items := make([]json.RawMessage, 0, end-start)
	for _, id := range ids[start:end] {
		data, err := h.artifacts.Get(ctx, generator.MetadataKey(id))
		if err != nil {
			continue
		}
		items = append(items, json.RawMessage(data))
	}

	return c.JSON(http.StatusOK, collectionResponse{
		Items:    items,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	})
}

// HandleGetGeneration returns the metadata document of one generation
func (h *CollectionHandlerImpl) HandleGetGeneration(c echo.Context) error {
	idParam := c.Param("id")
	id, err := strconv.Atoi(idParam)
	if err != nil || id < 0 {
		return NewValidationError("id")
	}

	data, err := h.artifacts.Get(c.Request().Context(), generator.MetadataKey(id))
	if err != nil {
		return NewNotFoundError("generation", idParam)
	}
	return c.JSONBlob(http.StatusOK, data)
}

// HandleCollectionStats returns ledger totals, species counts and trait
// frequencies
func (h *CollectionHandlerImpl) HandleCollectionStats(c echo.Context) error {
	if h.ledger == nil {
		return NewServiceUnavailableError("generation ledger is disabled")
	}
	stats, err := h.ledger.Stats(c.Request().Context())
	if err != nil {
		return NewInternalError("failed to compute collection stats", err)
	}
	return c.JSON(http.StatusOK, stats)
}

// HandleManifestMsgpack returns the full collection manifest in MessagePack
// format
func (h *CollectionHandlerImpl) HandleManifestMsgpack(c echo.Context) error {
	if h.ledger == nil {
		return NewServiceUnavailableError("generation ledger is disabled")
	}
	results, err := h.ledger.Manifest(c.Request().Context())
	if err != nil {
		return NewInternalError("failed to build manifest", err)
	}

	data, err := msgpack.Marshal(map[string]interface{}{
		"count":       len(results),
		"generations": results,
	})
	if err != nil {
		return NewInternalError("failed to encode msgpack", err)
	}
	return c.Blob(http.StatusOK, "application/msgpack", data)
}
