package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/alexanderramin/costvar/internal/domain"
	"github.com/alexanderramin/costvar/internal/exporter"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportExcel downloads both views and a summary as one workbook.
// GET /api/cost-variance/export/excel/:id
func (h *Handler) ExportExcel(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	session, err := h.svc.GetSession(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}

	trees, err := exporter.LoadAllTrees(ctx, h.svc, id)
	if err != nil {
		respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := exporter.WriteWorkbook(&buf, session, trees); err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", attachment(session, "xlsx"))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ExportPDF downloads a variance report for one view.
// GET /api/cost-variance/export/pdf/:id?view=
func (h *Handler) ExportPDF(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	view, err := viewParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	session, err := h.svc.GetSession(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	result, err := h.svc.GetCostTree(ctx, id, view)
	if err != nil {
		respondError(c, err)
		return
	}

	doc, err := exporter.RenderPDF(session, view, result.Tree)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", attachment(session, "pdf"))
	c.Data(http.StatusOK, "application/pdf", doc)
}

func attachment(s *domain.Session, ext string) string {
	return fmt.Sprintf("attachment; filename=%q", exporter.FileName(s, ext))
}
