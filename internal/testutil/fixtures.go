package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/costvar/internal/domain"
)

// CostSheet options
type CostSheetOption func(*domain.CostSheetData)

func WithPrices(target, supplier float64) CostSheetOption {
	return func(d *domain.CostSheetData) {
		d.TargetPrice = target
		d.SupplierPrice = supplier
	}
}

func WithMaterial(desc string, target, actual float64) CostSheetOption {
	return func(d *domain.CostSheetData) {
		d.Materials = append(d.Materials, domain.MaterialItem{Description: desc, TargetCost: target, ActualCost: actual})
	}
}

func WithComponent(desc string, target, actual float64) CostSheetOption {
	return func(d *domain.CostSheetData) {
		d.Components = append(d.Components, domain.ComponentItem{Description: desc, TargetCost: target, ActualCost: actual})
	}
}

func WithProcess(p domain.ProcessItem) CostSheetOption {
	return func(d *domain.CostSheetData) {
		d.Processes = append(d.Processes, p)
	}
}

func WithOtherCost(i int, target, actual float64) CostSheetOption {
	return func(d *domain.CostSheetData) {
		d.OtherCosts[i].TargetCost = target
		d.OtherCosts[i].ActualCost = actual
	}
}

func WithSGA(a domain.AllocationItem) CostSheetOption {
	return func(d *domain.CostSheetData) {
		d.SGA = a
	}
}

func WithProfit(a domain.AllocationItem) CostSheetOption {
	return func(d *domain.CostSheetData) {
		d.Profit = a
	}
}

// NewTestCostSheet returns an empty sheet for part "P-100" with the four
// other-cost rows present and zeroed. Options run in order.
func NewTestCostSheet(opts ...CostSheetOption) *domain.CostSheetData {
	d := &domain.CostSheetData{
		PartNumber:      "P-100",
		PartDescription: "Bracket",
		SupplierName:    "Acme Stamping",
		Currency:        domain.DefaultCurrency,
		Materials:       []domain.MaterialItem{},
		Components:      []domain.ComponentItem{},
		Processes:       []domain.ProcessItem{},
		OtherCosts:      make([]domain.OtherCostItem, len(domain.OtherCostNames)),
	}
	for i, name := range domain.OtherCostNames {
		d.OtherCosts[i].CostName = name
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NewExampleCostSheet is the reference sheet: target 100, supplier 120, one
// material "Steel" 10 -> 15, SG&A 5/5, profit 3/3, other costs zero.
func NewExampleCostSheet() *domain.CostSheetData {
	return NewTestCostSheet(
		WithPrices(100, 120),
		WithMaterial("Steel", 10, 15),
		WithSGA(domain.AllocationItem{MaterialRate: 0.05, ComponentRate: 0.04, ManufacturingRate: 0.1, TotalTarget: 5, TotalActual: 5}),
		WithProfit(domain.AllocationItem{MaterialRate: 0.03, ComponentRate: 0.03, ManufacturingRate: 0.05, TotalTarget: 3, TotalActual: 3}),
	)
}

// NewRichCostSheet has every section populated, including two processes.
func NewRichCostSheet() *domain.CostSheetData {
	return NewTestCostSheet(
		WithPrices(250, 262.5),
		WithMaterial("Steel", 40, 44),
		WithMaterial("Zinc plating", 6, 5.5),
		WithComponent("M6 nut", 2, 2.2),
		WithProcess(domain.ProcessItem{
			OperationDesc: "Blanking", EquipmentDesc: "200T press",
			SetupCostTarget: 1, SetupCostActual: 1.5,
			LaborCostTarget: 4, LaborCostActual: 5,
			BurdenCostTarget: 8, BurdenCostActual: 7,
		}),
		WithProcess(domain.ProcessItem{
			OperationDesc: "Welding", EquipmentDesc: "Robot cell",
			SetupCostTarget: 2, SetupCostActual: 2,
			LaborCostTarget: 6, LaborCostActual: 7.5,
			BurdenCostTarget: 10, BurdenCostActual: 12,
		}),
		WithSGA(domain.AllocationItem{MaterialRate: 0.05, ComponentRate: 0.05, ManufacturingRate: 0.08, TotalTarget: 12, TotalActual: 13}),
		WithProfit(domain.AllocationItem{MaterialRate: 0.04, ComponentRate: 0.04, ManufacturingRate: 0.06, TotalTarget: 9, TotalActual: 10}),
		WithOtherCost(1, 3, 4),
		WithOtherCost(2, 5, 5),
	)
}

// Session options
type SessionOption func(*domain.Session)

func WithUploadTime(t time.Time) SessionOption {
	return func(s *domain.Session) {
		s.UploadTime = t
	}
}

func WithFileHash(h string) SessionOption {
	return func(s *domain.Session) {
		s.FileHash = h
	}
}

func NewTestSession(partNumber string, opts ...SessionOption) *domain.Session {
	s := &domain.Session{
		ID:            uuid.New().String(),
		PartNumber:    partNumber,
		SupplierName:  "Acme Stamping",
		Currency:      domain.DefaultCurrency,
		TargetPrice:   100,
		SupplierPrice: 120,
		TotalVariance: 20,
		VariancePct:   20,
		UploadTime:    time.Now().UTC(),
		FileName:      partNumber + ".xlsx",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
