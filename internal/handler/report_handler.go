package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"medrep/internal/service"
)

// AnalyzeReportInput is the DTO for single-report analysis requests.
type AnalyzeReportInput struct {
	FileID uuid.UUID `json:"file_id" binding:"required"`
}

// ReportHandler handles single-report analysis endpoints.
type ReportHandler struct {
	reportService service.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Analyze handles POST /api/v1/reports/analyze
// @Summary Analyze a single uploaded report
// @Description Run the full query battery against one uploaded file
// @Tags reports
// @Accept json
// @Produce json
// @Param request body AnalyzeReportInput true "File to analyze"
// @Success 201 {object} APIResponse "Stored analysis"
// @Failure 400 {object} APIResponse "Invalid request or file not ready"
// @Failure 404 {object} APIResponse "File not found"
// @Security BearerAuth
// @Router /reports/analyze [post]
func (h *ReportHandler) Analyze(c *gin.Context) {
	var input AnalyzeReportInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	report, err := h.reportService.Analyze(c.Request.Context(), input.FileID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, report)
}

// GetByID handles GET /api/v1/reports/:id
// @Summary Get a stored report analysis
// @Tags reports
// @Produce json
// @Param id path string true "Report ID (UUID)"
// @Success 200 {object} APIResponse "Stored analysis"
// @Failure 404 {object} APIResponse "Report not found"
// @Security BearerAuth
// @Router /reports/{id} [get]
func (h *ReportHandler) GetByID(c *gin.Context) {
	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid report ID")
		return
	}

	report, err := h.reportService.GetByID(c.Request.Context(), reportID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, report)
}
