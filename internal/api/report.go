package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/alexanderramin/costvar/internal/domain"
	"github.com/alexanderramin/costvar/internal/intelligence"
	"github.com/gin-gonic/gin"
)

// ReportRequest is the optional body of a report request.
type ReportRequest struct {
	View   string `json:"view"`
	Prompt string `json:"prompt"`
}

type reportEvent struct {
	Type   string `json:"type"`
	Text   string `json:"text,omitempty"`
	Source string `json:"source,omitempty"`
	Error  string `json:"error,omitempty"`
}

// StreamReport streams a narrative report as server-sent events. Each event
// is a JSON reportEvent of type "chunk", then one "done" or "error".
// POST /api/cost-variance/report/:id
func (h *Handler) StreamReport(c *gin.Context) {
	var req ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	view := domain.ViewByProcess
	if req.View != "" {
		v, err := domain.ParseView(req.View)
		if err != nil {
			respondError(c, err)
			return
		}
		view = v
	}

	ctx := c.Request.Context()
	rc, err := intelligence.LoadReportContext(ctx, h.svc, c.Param("id"), view)
	if err != nil {
		respondError(c, err)
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	send := func(ev reportEvent) {
		b, err := json.Marshal(ev)
		if err != nil {
			return
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", b)
		flusher.Flush()
	}

	for chunk := range h.reports.StreamReport(ctx, rc, req.Prompt) {
		if chunk.Err != nil {
			send(reportEvent{Type: "error", Error: chunk.Err.Error()})
			return
		}
		send(reportEvent{Type: "chunk", Text: chunk.Text, Source: string(chunk.Source)})
	}
	if ctx.Err() == nil {
		send(reportEvent{Type: "done"})
	}
}

// Highlights returns a headline and the main variance drivers.
// GET /api/cost-variance/report/:id/highlights?view=
func (h *Handler) Highlights(c *gin.Context) {
	view, err := viewParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	ctx := c.Request.Context()
	rc, err := intelligence.LoadReportContext(ctx, h.svc, c.Param("id"), view)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.reports.Highlights(ctx, rc))
}
