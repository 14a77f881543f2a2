// Package exporter renders stored cost trees as xlsx workbooks and PDF
// variance reports.
package exporter

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alexanderramin/costvar/internal/domain"
	"github.com/xuri/excelize/v2"
)

// SummarySheet is the name of the header sheet in exported workbooks.
const SummarySheet = "Summary"

// ErrNoTrees is returned when there is nothing to export.
var ErrNoTrees = errors.New("no cost trees to export")

var treeHeaders = []string{"Level", "Item ID", "Name", "Category", "Target", "Actual", "Variance", "Variance %"}

var treeWidths = []float64{7, 22, 40, 18, 14, 14, 14, 12}

type workbookStyles struct {
	title, header, section, item, number, sectionNumber int
}

// WriteWorkbook writes a Summary sheet for session followed by one sheet per
// view in trees, in domain.AllViews order.
func WriteWorkbook(w io.Writer, session *domain.Session, trees map[domain.View]*domain.CostTreeNode) error {
	if len(trees) == 0 {
		return ErrNoTrees
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SummarySheet); err != nil {
		return fmt.Errorf("rename summary sheet: %w", err)
	}

	styles, err := newWorkbookStyles(f)
	if err != nil {
		return err
	}

	if err := writeSummary(f, styles, session); err != nil {
		return err
	}

	for _, view := range domain.AllViews() {
		tree, ok := trees[view]
		if !ok || tree == nil {
			continue
		}
		if _, err := f.NewSheet(string(view)); err != nil {
			return fmt.Errorf("create sheet %s: %w", view, err)
		}
		if err := writeTree(f, styles, string(view), tree); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func newWorkbookStyles(f *excelize.File) (workbookStyles, error) {
	var s workbookStyles
	defs := []struct {
		dst   *int
		style *excelize.Style
	}{
		{&s.title, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}}},
		{&s.header, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
			Border:    thinBorders(),
		}},
		{&s.section, &excelize.Style{Font: &excelize.Font{Bold: true}, Border: thinBorders()}},
		{&s.item, &excelize.Style{Border: thinBorders()}},
		{&s.number, &excelize.Style{NumFmt: 4, Border: thinBorders()}},
		{&s.sectionNumber, &excelize.Style{NumFmt: 4, Font: &excelize.Font{Bold: true}, Border: thinBorders()}},
	}
	for _, d := range defs {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return s, fmt.Errorf("create style: %w", err)
		}
		*d.dst = id
	}
	return s, nil
}

func writeSummary(f *excelize.File, styles workbookStyles, session *domain.Session) error {
	if err := f.SetColWidth(SummarySheet, "A", "A", 20); err != nil {
		return fmt.Errorf("set summary width: %w", err)
	}
	if err := f.SetColWidth(SummarySheet, "B", "B", 40); err != nil {
		return fmt.Errorf("set summary width: %w", err)
	}

	f.SetCellValue(SummarySheet, "A1", "Cost Variance Summary")
	f.SetCellStyle(SummarySheet, "A1", "A1", styles.title)

	if session == nil {
		return nil
	}

	rows := [][2]any{
		{"Session", session.ID},
		{"Part Number", sanitizeCell(session.PartNumber)},
		{"Part Description", sanitizeCell(session.PartDescription)},
		{"Supplier", sanitizeCell(session.SupplierName)},
		{"Currency", session.Currency},
		{"Target Price", session.TargetPrice},
		{"Supplier Price", session.SupplierPrice},
		{"Total Variance", session.TotalVariance},
		{"Variance %", session.VariancePct},
		{"File", sanitizeCell(session.FileName)},
		{"Uploaded", session.UploadTime.UTC().Format("2006-01-02 15:04:05")},
	}
	for i, r := range rows {
		row := i + 3
		f.SetCellValue(SummarySheet, fmt.Sprintf("A%d", row), r[0])
		f.SetCellValue(SummarySheet, fmt.Sprintf("B%d", row), r[1])
		f.SetCellStyle(SummarySheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), styles.section)
		if _, ok := r[1].(float64); ok {
			f.SetCellStyle(SummarySheet, fmt.Sprintf("B%d", row), fmt.Sprintf("B%d", row), styles.number)
		}
	}
	return nil
}

func writeTree(f *excelize.File, styles workbookStyles, sheet string, tree *domain.CostTreeNode) error {
	for i, h := range treeHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, col, col, treeWidths[i]); err != nil {
			return fmt.Errorf("set width %s: %w", col, err)
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(treeHeaders))
	f.SetCellStyle(sheet, "A1", lastCol+"1", styles.header)
	if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	row := 2
	tree.Walk(func(n, _ *domain.CostTreeNode) bool {
		values := []any{
			n.Level,
			n.ItemID,
			sanitizeCell(strings.Repeat("  ", n.Level-1) + n.ItemName),
			string(n.Category),
			n.TargetCost,
			n.ActualCost,
			n.Variance,
			n.VariancePct,
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			f.SetCellValue(sheet, cell, v)
		}

		text, number := styles.item, styles.number
		if n.Level <= 2 {
			text, number = styles.section, styles.sectionNumber
		}
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("D%d", row), text)
		f.SetCellStyle(sheet, fmt.Sprintf("E%d", row), fmt.Sprintf("H%d", row), number)
		row++
		return true
	})
	return nil
}

// sanitizeCell prefixes values Excel would evaluate as formulas.
func sanitizeCell(s string) string {
	trimmed := strings.TrimLeft(s, " ")
	if trimmed == "" {
		return s
	}
	switch trimmed[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	out := make([]excelize.Border, len(sides))
	for i, side := range sides {
		out[i] = excelize.Border{Type: side, Color: "#000000", Style: 1}
	}
	return out
}
