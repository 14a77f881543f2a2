package costsheet

import "github.com/alexanderramin/costvar/internal/domain"

// Column indices of the cost sheet (0-based: E, H, I).
const (
	ColLabel  = 4
	ColTarget = 7
	ColActual = 8
)

// Offset names used by the repeating sections.
const (
	OffsetCost      = "cost"
	OffsetSetup     = "setup"
	OffsetLabor     = "labor"
	OffsetBurden    = "burden"
	OffsetEquipment = "equipment"
)

// Section describes one repeating block of fixed-height records.
//
// Records start at Start, Start+Stride, ... up to and including End. A
// record is only read while record+Guard fits within the grid.
type Section struct {
	Name       string
	Start      int
	End        int
	Stride     int
	DescOffset int            // row of the primary description, relative to the record
	Guard      int            // rows the record needs below its first row
	Costs      map[string]int // cost name -> relative row (target/actual columns)
	Labels     map[string]int // secondary description name -> relative row (label column)
}

// Block describes a fixed group of consecutive rows.
type Block struct {
	Start int
}

// Layout is the fixed contract of the supplier cost sheet. Row numbers are
// 0-based grid indices.
type Layout struct {
	LabelCol  int
	TargetCol int
	ActualCol int

	PriceRow           int
	SupplierNameRow    int
	PartDescriptionRow int
	PartNumberRow      int

	Materials  Section
	Components Section
	Processes  Section

	SGA        Block
	Profit     Block
	OtherCosts Block
	OtherNames [4]string
}

// DefaultLayout returns the layout of the standard supplier cost breakdown
// template (Excel rows 42-1897).
func DefaultLayout() Layout {
	return Layout{
		LabelCol:  ColLabel,
		TargetCol: ColTarget,
		ActualCol: ColActual,

		PriceRow:           41,
		SupplierNameRow:    43,
		PartDescriptionRow: 47,
		PartNumberRow:      48,

		Materials: Section{
			Name:   "materials",
			Start:  57,
			End:    186,
			Stride: 13,
			Guard:  12,
			Costs:  map[string]int{OffsetCost: 11},
		},
		Components: Section{
			Name:   "components",
			Start:  193,
			End:    692,
			Stride: 10,
			Guard:  9,
			Costs:  map[string]int{OffsetCost: 8},
		},
		Processes: Section{
			Name:       "processes",
			Start:      698,
			End:        1849,
			Stride:     23,
			DescOffset: 5,
			Guard:      23,
			Costs: map[string]int{
				OffsetSetup:  4,
				OffsetLabor:  15,
				OffsetBurden: 19,
			},
			Labels: map[string]int{OffsetEquipment: 6},
		},

		SGA:        Block{Start: 1880},
		Profit:     Block{Start: 1886},
		OtherCosts: Block{Start: 1893},
		OtherNames: domain.OtherCostNames,
	}
}
