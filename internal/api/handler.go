// Package api exposes the cost variance service over HTTP.
package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/alexanderramin/costvar/internal/domain"
	"github.com/alexanderramin/costvar/internal/intelligence"
	"github.com/alexanderramin/costvar/internal/repository"
	"github.com/alexanderramin/costvar/internal/service"
	"github.com/gin-gonic/gin"
)

// DefaultMaxUploadMB caps upload bodies when no limit is configured.
const DefaultMaxUploadMB = 32

// Handler serves the /api/cost-variance routes.
type Handler struct {
	svc         service.CostVarianceService
	reports     intelligence.ReportService
	maxUploadMB int
}

// NewHandler creates a Handler. reports may be nil, in which case reports
// are always rendered deterministically.
func NewHandler(svc service.CostVarianceService, reports intelligence.ReportService, maxUploadMB int) *Handler {
	if reports == nil {
		reports = intelligence.NewReportService(nil)
	}
	if maxUploadMB <= 0 {
		maxUploadMB = DefaultMaxUploadMB
	}
	return &Handler{svc: svc, reports: reports, maxUploadMB: maxUploadMB}
}

// RegisterRoutes mounts the handlers on router.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/upload", h.Upload)
	router.GET("/tree/:id", h.GetTree)
	router.GET("/sessions", h.ListSessions)
	router.GET("/session/:id", h.GetSession)
	router.DELETE("/session/:id", h.DeleteSession)
	router.GET("/session/:id/breakdown", h.GetBreakdown)
	router.GET("/export/excel/:id", h.ExportExcel)
	router.GET("/export/pdf/:id", h.ExportPDF)
	router.POST("/report/:id", h.StreamReport)
	router.GET("/report/:id/highlights", h.Highlights)
}

// errorStatus maps service errors onto HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrUnsupportedFile),
		errors.Is(err, service.ErrMalformedInput),
		errors.Is(err, domain.ErrInvalidView):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(errorStatus(err), gin.H{"error": err.Error()})
}

// viewParam reads ?view=, defaulting to by_process.
func viewParam(c *gin.Context) (domain.View, error) {
	return domain.ParseView(c.DefaultQuery("view", string(domain.ViewByProcess)))
}

// Upload stores one cost sheet.
// POST /api/cost-variance/upload (multipart field "file")
func (h *Handler) Upload(c *gin.Context) {
	limit := int64(h.maxUploadMB) << 20
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("upload exceeds %d MB", h.maxUploadMB)})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing upload field \"file\""})
		return
	}

	f, err := fh.Open()
	if err != nil {
		respondError(c, fmt.Errorf("opening upload: %w", err))
		return
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		respondError(c, fmt.Errorf("reading upload: %w", err))
		return
	}

	summary, err := h.svc.ProcessUpload(c.Request.Context(), content, fh.Filename)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetTree returns one view of a stored tree.
// GET /api/cost-variance/tree/:id?view=by_process|by_type
func (h *Handler) GetTree(c *gin.Context) {
	view, err := viewParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	result, err := h.svc.GetCostTree(c.Request.Context(), c.Param("id"), view)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListSessions returns recent sessions, newest first.
// GET /api/cost-variance/sessions?limit=N
func (h *Handler) ListSessions(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}

	sessions, err := h.svc.ListSessions(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	if sessions == nil {
		sessions = []*domain.Session{}
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions, "total": len(sessions)})
}

// GET /api/cost-variance/session/:id
func (h *Handler) GetSession(c *gin.Context) {
	session, err := h.svc.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// DELETE /api/cost-variance/session/:id
func (h *Handler) DeleteSession(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.DeleteSession(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// GET /api/cost-variance/session/:id/breakdown
func (h *Handler) GetBreakdown(c *gin.Context) {
	rows, err := h.svc.GetProcessBreakdown(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if rows == nil {
		rows = []domain.ProcessBreakdown{}
	}
	c.JSON(http.StatusOK, gin.H{"processes": rows})
}
