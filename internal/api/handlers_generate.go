// handlers_generate.go - Generation and batch job handlers
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jordaneaster/sb-generator/internal/batch"
	"github.com/jordaneaster/sb-generator/internal/config"
	"github.com/jordaneaster/sb-generator/internal/generator"
)

const maxBatchCount = 10000

type generateRequest struct {
	ID      int    `json:"id"`
	Species string `json:"species"`
}

type batchRequest struct {
	StartID int    `json:"startId"`
	Count   int    `json:"count"`
	Species string `json:"species"`
}

// GenerateHandlerImpl implements the GenerateHandler interface
type GenerateHandlerImpl struct {
	gen      Generator
	batchMgr *batch.Manager
	cfg      *config.AppConfig
}

// NewGenerateHandler creates a new generation handler
func NewGenerateHandler(gen Generator, batchMgr *batch.Manager, cfg *config.AppConfig) GenerateHandler {
	return &GenerateHandlerImpl{
		gen:      gen,
		batchMgr: batchMgr,
		cfg:      cfg,
	}
}

// HandleGenerate runs one generation synchronously and returns its result
func (h *GenerateHandlerImpl) HandleGenerate(c echo.Context) error {
	var req generateRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	if req.ID < 0 {
		return NewValidationError("id")
	}
	if err := h.checkSpecies(req.Species); err != nil {
		return err
	}

	result, err := h.gen.Generate(c.Request().Context(), req.ID, req.Species)
	if err != nil {
		return NewInternalError("generation failed", err)
	}
	return c.JSON(http.StatusOK, result)
}

// HandleStartBatch starts an async batch generation job
func (h *GenerateHandlerImpl) HandleStartBatch(c echo.Context) error {
	var req batchRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	if req.StartID < 0 {
		return NewValidationError("startId")
	}
	if req.Count < 1 || req.Count > maxBatchCount {
		return NewBadRequestError(fmt.Sprintf("count must be between 1 and %d", maxBatchCount), nil)
	}
	if err := h.checkSpecies(req.Species); err != nil {
		return err
	}

	job := h.batchMgr.StartJob(req.StartID, req.Count, req.Species)
	return c.JSON(http.StatusAccepted, job)
}

// HandleBatchStatus returns a snapshot of a batch job
func (h *GenerateHandlerImpl) HandleBatchStatus(c echo.Context) error {
	id := c.Param("jobId")
	if id == "" {
		return NewValidationError("jobId")
	}

	job, ok := h.batchMgr.GetJob(id)
	if !ok {
		return NewNotFoundError("job", id)
	}
	return c.JSON(http.StatusOK, job)
}

// HandleBatchProgressStream streams batch job progress via SSE
func (h *GenerateHandlerImpl) HandleBatchProgressStream(c echo.Context) error {
	id := c.Param("jobId")
	if id == "" {
		return NewValidationError("jobId")
	}

	// Set SSE headers
	c.Response().Header().Set("Content-Type", "text/event-stream")
	c.Response().Header().Set("Cache-Control", "no-cache")
	c.Response().Header().Set("Connection", "keep-alive")
	c.Response().Header().Set("X-Accel-Buffering", "no")
	c.Response().WriteHeader(http.StatusOK)

	job, ok := h.batchMgr.GetJob(id)
	if !ok {
		h.sendSSEError(c, "job not found")
		return nil
	}

	// Send initial status
	h.sendSSEData(c, job)
	if job.Status != batch.StatusRunning {
		return nil
	}

	// Stream updates until complete or error
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	timeout := time.NewTimer(30 * time.Minute)
	defer timeout.Stop()

	for {
		select {
		case <-ticker.C:
			job, ok := h.batchMgr.GetJob(id)
			if !ok {
				h.sendSSEError(c, "job not found")
				return nil
			}

			h.sendSSEData(c, job)

			if job.Status != batch.StatusRunning {
				return nil
			}

		case <-timeout.C:
			h.sendSSEError(c, "stream timeout")
			return nil

		case <-c.Request().Context().Done():
			return nil
		}
	}
}

// checkSpecies rejects explicit species requests outside the configured set.
// Empty and "random" are always accepted.
func (h *GenerateHandlerImpl) checkSpecies(species string) error {
	if species == "" || strings.EqualFold(species, generator.SpeciesRandom) {
		return nil
	}
	for _, s := range h.cfg.Generator.Species {
		if strings.EqualFold(s, species) {
			return nil
		}
	}
	return NewBadRequestError(fmt.Sprintf("unknown species %q", species), nil)
}

func (h *GenerateHandlerImpl) sendSSEData(c echo.Context, data interface{}) {
	jsonData, _ := json.Marshal(data)
	fmt.Fprintf(c.Response(), "data: %s\n\n", jsonData)
	c.Response().Flush()
}

func (h *GenerateHandlerImpl) sendSSEError(c echo.Context, message string) {
	h.sendSSEData(c, map[string]string{"error": message})
}
