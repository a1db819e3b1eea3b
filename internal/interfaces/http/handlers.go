package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/CORAZONPERFECTO/hecho-docs/internal/application/port"
	"github.com/CORAZONPERFECTO/hecho-docs/internal/application/service"
	"github.com/CORAZONPERFECTO/hecho-docs/internal/domain/entity"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	documents service.DocumentService
	reports   service.ReportService
	bundles   service.BundleService
	exports   port.ExportRepository
	logger    *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	documents service.DocumentService,
	reports service.ReportService,
	bundles service.BundleService,
	exports port.ExportRepository,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		documents: documents,
		reports:   reports,
		bundles:   bundles,
		exports:   exports,
		logger:    logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// EvidenceReportRequest is the body of POST /api/v1/reports/evidence
type EvidenceReportRequest struct {
	EvidenceIDs []int64               `json:"evidence_ids"`
	Meta        entity.ReportMetadata `json:"meta"`
	GeneratedBy string                `json:"generated_by"`
}

// EvidenceBundleRequest is the body of POST /api/v1/bundles/evidence
type EvidenceBundleRequest struct {
	EvidenceIDs  []int64 `json:"evidence_ids"`
	TicketNumber string  `json:"ticket_number"`
}

// ListExportsRequest represents query parameters for listing exports
type ListExportsRequest struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   "1.0.0",
		},
	})
}

// RenderDocument handles POST /api/v1/documents/render. The body is the
// canonical document JSON; the format query parameter selects pdf
// (default), flow or xlsx. The artifact is streamed as a download.
func (h *Handlers) RenderDocument(c *gin.Context) {
	var doc entity.CanonicalDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		h.logger.Error("Invalid document payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid document payload",
		})
		return
	}

	format := service.DocumentFormat(c.DefaultQuery("format", "pdf"))

	artifact, err := h.documents.Render(c.Request.Context(), &doc, format)
	if err != nil {
		h.logger.Error("Document render failed",
			zap.String("number", doc.Number),
			zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	h.streamArtifact(c, artifact)
}

// RenderEvidenceReport handles POST /api/v1/reports/evidence. The format
// query parameter selects pdf (default) or docx; store=true persists the
// artifact through the export store and returns its metadata instead of
// the binary.
func (h *Handlers) RenderEvidenceReport(c *gin.Context) {
	var req EvidenceReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid report payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid report payload",
		})
		return
	}

	storeFlag := c.Query("store") == "true"

	artifact, export, err := h.reports.Render(c.Request.Context(), service.ReportRequest{
		EvidenceIDs: req.EvidenceIDs,
		Meta:        req.Meta,
		Format:      service.ReportFormat(c.DefaultQuery("format", "pdf")),
		Store:       storeFlag,
		GeneratedBy: req.GeneratedBy,
	})
	if err != nil {
		h.logger.Error("Evidence report render failed",
			zap.String("ticket_number", req.Meta.TicketNumber),
			zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	if storeFlag {
		c.JSON(http.StatusOK, Response{
			Success: true,
			Data:    export,
		})
		return
	}

	h.streamArtifact(c, artifact)
}

// BundleEvidence handles POST /api/v1/bundles/evidence and streams the
// resulting zip archive
func (h *Handlers) BundleEvidence(c *gin.Context) {
	var req EvidenceBundleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid bundle payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid bundle payload",
		})
		return
	}

	result, err := h.bundles.Bundle(c.Request.Context(), service.BundleRequest{
		EvidenceIDs:  req.EvidenceIDs,
		TicketNumber: req.TicketNumber,
	})
	if err != nil {
		h.logger.Error("Evidence bundle failed",
			zap.String("ticket_number", req.TicketNumber),
			zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	c.Header("X-Bundle-Included", strconv.Itoa(result.Included))
	c.Header("X-Bundle-Skipped", strconv.Itoa(result.Skipped))
	h.streamArtifact(c, result.Artifact)
}

// ListExports handles GET /api/v1/exports
func (h *Handlers) ListExports(c *gin.Context) {
	var req ListExportsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid query parameters",
		})
		return
	}

	if req.Limit <= 0 || req.Limit > 100 {
		req.Limit = 20
	}
	if req.Offset < 0 {
		req.Offset = 0
	}

	records, err := h.exports.List(c.Request.Context(), req.Limit, req.Offset)
	if err != nil {
		h.logger.Error("Export listing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "failed to list exports",
		})
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    records,
	})
}

// streamArtifact writes the rendered binary with download headers
func (h *Handlers) streamArtifact(c *gin.Context, artifact *entity.RenderedArtifact) {
	c.Header("Content-Disposition", `attachment; filename="`+artifact.FileName+`"`)
	c.Data(http.StatusOK, artifact.MimeType, artifact.Data)
}
