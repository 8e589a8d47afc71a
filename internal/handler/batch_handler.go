package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"medrep/internal/analysis"
	"medrep/internal/csvexport"
	"medrep/internal/service"
)

// BatchHandler handles batch analysis endpoints.
type BatchHandler struct {
	batchService service.BatchService
}

// NewBatchHandler creates a new BatchHandler.
func NewBatchHandler(batchService service.BatchService) *BatchHandler {
	return &BatchHandler{batchService: batchService}
}

// Create handles POST /api/v1/batches
// @Summary Queue a batch analysis run
// @Description Queue a batch over previously uploaded files; order of file_ids is preserved in the outcomes
// @Tags batches
// @Accept json
// @Produce json
// @Param request body service.CreateBatchInput true "Files to analyze"
// @Success 202 {object} APIResponse "Queued batch run"
// @Failure 400 {object} APIResponse "Empty batch or file not ready"
// @Failure 404 {object} APIResponse "File not found"
// @Security BearerAuth
// @Router /batches [post]
func (h *BatchHandler) Create(c *gin.Context) {
	var input service.CreateBatchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	run, err := h.batchService.CreateBatch(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondAccepted(c, run)
}

// List handles GET /api/v1/batches
// @Summary List batch runs
// @Tags batches
// @Produce json
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} APIResponse "List of batch runs"
// @Security BearerAuth
// @Router /batches [get]
func (h *BatchHandler) List(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	runs, total, err := h.batchService.ListBatches(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, runs, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/batches/:id
// @Summary Get a batch run with its per-document outcomes
// @Tags batches
// @Produce json
// @Param id path string true "Batch ID (UUID)"
// @Success 200 {object} APIResponse "Batch run and outcome rows in input order"
// @Failure 404 {object} APIResponse "Batch not found"
// @Security BearerAuth
// @Router /batches/{id} [get]
func (h *BatchHandler) GetByID(c *gin.Context) {
	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid batch ID")
		return
	}

	run, items, err := h.batchService.GetBatch(c.Request.Context(), batchID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{
		"batch": run,
		"items": items,
	})
}

// Export handles GET /api/v1/batches/:id/export
// @Summary Export a batch run as CSV
// @Description Download per-document outcomes plus a trailing group summary row
// @Tags batches
// @Produce text/csv
// @Param id path string true "Batch ID (UUID)"
// @Success 200 {string} string "CSV file"
// @Failure 404 {object} APIResponse "Batch not found"
// @Security BearerAuth
// @Router /batches/{id}/export [get]
func (h *BatchHandler) Export(c *gin.Context) {
	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid batch ID")
		return
	}

	run, items, err := h.batchService.GetBatch(c.Request.Context(), batchID)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", csvexport.FileName(run.ID.String())))

	_, _ = c.Writer.Write(csvexport.BOM)
	w := csvexport.NewWriter(c.Writer)
	if err := w.WriteHeader(); err != nil {
		return
	}
	if err := w.WriteItems(items); err != nil {
		return
	}
	if len(run.Aggregate) > 0 {
		agg := analysis.NewGroupAggregate()
		if err := json.Unmarshal(run.Aggregate, agg); err == nil {
			_ = w.WriteSummary(agg)
		}
	}
	w.Flush()
}
