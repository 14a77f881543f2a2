package testutil

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/alexanderramin/costvar/internal/costsheet"
	"github.com/alexanderramin/costvar/internal/domain"
)

// WorkbookBuilder writes cells into the first sheet of a new workbook using
// 0-based row and column indices.
type WorkbookBuilder struct {
	t     testing.TB
	f     *excelize.File
	sheet string
}

func NewWorkbookBuilder(t testing.TB) *WorkbookBuilder {
	t.Helper()
	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })
	return &WorkbookBuilder{t: t, f: f, sheet: f.GetSheetName(0)}
}

// Set writes v at (row, col). Empty strings are skipped so blank cells stay
// absent.
func (b *WorkbookBuilder) Set(row, col int, v any) *WorkbookBuilder {
	b.t.Helper()
	if s, ok := v.(string); ok && s == "" {
		return b
	}
	cell, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		b.t.Fatalf("cell name for (%d,%d): %v", row, col, err)
	}
	if err := b.f.SetCellValue(b.sheet, cell, v); err != nil {
		b.t.Fatalf("setting %s: %v", cell, err)
	}
	return b
}

func (b *WorkbookBuilder) Bytes() []byte {
	b.t.Helper()
	var buf bytes.Buffer
	if err := b.f.Write(&buf); err != nil {
		b.t.Fatalf("writing workbook: %v", err)
	}
	return buf.Bytes()
}

// NewCostSheetWorkbook lays data out at the positions of the default cost
// sheet layout and returns the xlsx bytes.
func NewCostSheetWorkbook(t testing.TB, data *domain.CostSheetData) []byte {
	t.Helper()
	l := costsheet.DefaultLayout()
	b := NewWorkbookBuilder(t)

	b.Set(l.PriceRow, l.TargetCol, data.TargetPrice).
		Set(l.PriceRow, l.ActualCol, data.SupplierPrice).
		Set(l.SupplierNameRow, l.ActualCol, data.SupplierName).
		Set(l.PartDescriptionRow, l.ActualCol, data.PartDescription).
		Set(l.PartNumberRow, l.ActualCol, data.PartNumber)

	for i, m := range data.Materials {
		row := l.Materials.Start + i*l.Materials.Stride
		b.Set(row, l.LabelCol, m.Description)
		costRow := row + l.Materials.Costs[costsheet.OffsetCost]
		b.Set(costRow, l.TargetCol, m.TargetCost).Set(costRow, l.ActualCol, m.ActualCost)
	}

	for i, c := range data.Components {
		row := l.Components.Start + i*l.Components.Stride
		b.Set(row, l.LabelCol, c.Description)
		costRow := row + l.Components.Costs[costsheet.OffsetCost]
		b.Set(costRow, l.TargetCol, c.TargetCost).Set(costRow, l.ActualCol, c.ActualCost)
	}

	s := l.Processes
	for i, p := range data.Processes {
		row := s.Start + i*s.Stride
		b.Set(row+s.DescOffset, l.LabelCol, p.OperationDesc)
		b.Set(row+s.Labels[costsheet.OffsetEquipment], l.LabelCol, p.EquipmentDesc)
		pairs := map[string][2]float64{
			costsheet.OffsetSetup:  {p.SetupCostTarget, p.SetupCostActual},
			costsheet.OffsetLabor:  {p.LaborCostTarget, p.LaborCostActual},
			costsheet.OffsetBurden: {p.BurdenCostTarget, p.BurdenCostActual},
		}
		for name, v := range pairs {
			costRow := row + s.Costs[name]
			b.Set(costRow, l.TargetCol, v[0]).Set(costRow, l.ActualCol, v[1])
		}
	}

	writeAllocation(b, l, l.SGA.Start, data.SGA)
	writeAllocation(b, l, l.Profit.Start, data.Profit)

	for i, c := range data.OtherCosts {
		row := l.OtherCosts.Start + i
		b.Set(row, l.LabelCol, c.CostName)
		b.Set(row, l.TargetCol, c.TargetCost).Set(row, l.ActualCol, c.ActualCost)
	}

	return b.Bytes()
}

func writeAllocation(b *WorkbookBuilder, l costsheet.Layout, start int, a domain.AllocationItem) {
	b.Set(start, l.TargetCol, a.MaterialRate).
		Set(start+1, l.TargetCol, a.ComponentRate).
		Set(start+2, l.TargetCol, a.ManufacturingRate).
		Set(start+3, l.TargetCol, a.TotalTarget).
		Set(start+3, l.ActualCol, a.TotalActual)
}
