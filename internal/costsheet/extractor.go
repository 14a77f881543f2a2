package costsheet

import (
	"fmt"
	"io"

	"github.com/alexanderramin/costvar/internal/domain"
)

// Amount is a target/actual pair read from one row.
type Amount struct {
	Target float64
	Actual float64
}

// Record is one non-blank slot of a repeating section.
type Record struct {
	Row         int // first row of the record
	Description string
	Costs       map[string]Amount
	Labels      map[string]string
}

// Extractor maps a Grid onto CostSheetData using a fixed Layout.
type Extractor struct {
	layout Layout
}

// NewExtractor creates an Extractor for the given layout.
func NewExtractor(layout Layout) *Extractor {
	return &Extractor{layout: layout}
}

// ExtractReader loads the first worksheet from r and extracts it with the
// default layout. The only error is an unreadable workbook.
func ExtractReader(r io.Reader) (*domain.CostSheetData, error) {
	grid, err := LoadGrid(r)
	if err != nil {
		return nil, err
	}
	return NewExtractor(DefaultLayout()).Extract(grid), nil
}

// Extract reads every field of the layout. It never fails: absent cells
// yield zeros and empty strings.
func (e *Extractor) Extract(g *Grid) *domain.CostSheetData {
	l := e.layout
	data := &domain.CostSheetData{
		PartNumber:      g.GetString(l.PartNumberRow, l.ActualCol),
		PartDescription: g.GetString(l.PartDescriptionRow, l.ActualCol),
		SupplierName:    g.GetString(l.SupplierNameRow, l.ActualCol),
		Currency:        domain.DefaultCurrency,
		TargetPrice:     g.GetNumber(l.PriceRow, l.TargetCol),
		SupplierPrice:   g.GetNumber(l.PriceRow, l.ActualCol),
		Materials:       []domain.MaterialItem{},
		Components:      []domain.ComponentItem{},
		Processes:       []domain.ProcessItem{},
	}

	for _, rec := range e.ReadRecords(g, l.Materials) {
		c := rec.Costs[OffsetCost]
		data.Materials = append(data.Materials, domain.MaterialItem{
			Description: rec.Description,
			TargetCost:  c.Target,
			ActualCost:  c.Actual,
		})
	}

	for _, rec := range e.ReadRecords(g, l.Components) {
		c := rec.Costs[OffsetCost]
		data.Components = append(data.Components, domain.ComponentItem{
			Description: rec.Description,
			TargetCost:  c.Target,
			ActualCost:  c.Actual,
		})
	}

	for _, rec := range e.ReadRecords(g, l.Processes) {
		setup, labor, burden := rec.Costs[OffsetSetup], rec.Costs[OffsetLabor], rec.Costs[OffsetBurden]
		data.Processes = append(data.Processes, domain.ProcessItem{
			OperationDesc:    rec.Description,
			EquipmentDesc:    rec.Labels[OffsetEquipment],
			SetupCostTarget:  setup.Target,
			SetupCostActual:  setup.Actual,
			LaborCostTarget:  labor.Target,
			LaborCostActual:  labor.Actual,
			BurdenCostTarget: burden.Target,
			BurdenCostActual: burden.Actual,
		})
	}

	data.SGA = e.readAllocation(g, l.SGA)
	data.Profit = e.readAllocation(g, l.Profit)

	data.OtherCosts = make([]domain.OtherCostItem, 0, len(l.OtherNames))
	for i, name := range l.OtherNames {
		a := e.amount(g, l.OtherCosts.Start+i)
		data.OtherCosts = append(data.OtherCosts, domain.OtherCostItem{
			CostName:   name,
			TargetCost: a.Target,
			ActualCost: a.Actual,
		})
	}

	return data
}

// ReadRecords walks one repeating section and returns the slots whose
// label-column description is non-blank, in sheet order.
func (e *Extractor) ReadRecords(g *Grid, s Section) []Record {
	if s.Stride <= 0 {
		return nil
	}
	var out []Record
	for i := s.Start; i <= s.End; i += s.Stride {
		if i+s.Guard > g.Rows() {
			break
		}
		descRow := i + s.DescOffset
		base := g.GetString(descRow, e.layout.LabelCol)
		if base == "" {
			continue
		}

		rec := Record{
			Row:         i,
			Description: e.describe(g, descRow, base),
			Costs:       make(map[string]Amount, len(s.Costs)),
			Labels:      make(map[string]string, len(s.Labels)),
		}
		for name, off := range s.Costs {
			rec.Costs[name] = e.amount(g, i+off)
		}
		for name, off := range s.Labels {
			rec.Labels[name] = g.GetString(i+off, e.layout.LabelCol)
		}
		out = append(out, rec)
	}
	return out
}

// describe contrasts the regional and supplier values when either is filled
// in on the description row; otherwise the label text is used as is.
func (e *Extractor) describe(g *Grid, row int, base string) string {
	regional := g.GetString(row, e.layout.TargetCol)
	supplier := g.GetString(row, e.layout.ActualCol)
	if regional == "" && supplier == "" {
		return base
	}
	return fmt.Sprintf(`Regional: "%s" vs Supplier: "%s"`, regional, supplier)
}

func (e *Extractor) amount(g *Grid, row int) Amount {
	return Amount{
		Target: g.GetNumber(row, e.layout.TargetCol),
		Actual: g.GetNumber(row, e.layout.ActualCol),
	}
}

// readAllocation reads three rate rows followed by a totals row.
func (e *Extractor) readAllocation(g *Grid, b Block) domain.AllocationItem {
	total := e.amount(g, b.Start+3)
	return domain.AllocationItem{
		MaterialRate:      g.GetNumber(b.Start, e.layout.TargetCol),
		ComponentRate:     g.GetNumber(b.Start+1, e.layout.TargetCol),
		ManufacturingRate: g.GetNumber(b.Start+2, e.layout.TargetCol),
		TotalTarget:       total.Target,
		TotalActual:       total.Actual,
	}
}
