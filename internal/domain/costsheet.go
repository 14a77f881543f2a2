package domain

// DefaultCurrency is reported for every sheet; the layout has no currency cell.
const DefaultCurrency = "USD"

// OtherCostNames are the canonical names of the four fixed "other cost"
// rows, in sheet order.
var OtherCostNames = [4]string{
	"Process Scrap Cost",
	"Packaging Cost",
	"Freight + Warehouse Cost",
	"Amortization Cost + Customs, Duties, Taxes & Fees",
}

// CostSheetData is the flat result of extracting one supplier cost sheet.
type CostSheetData struct {
	PartNumber      string          `json:"part_number"`
	PartDescription string          `json:"part_description"`
	SupplierName    string          `json:"supplier_name"`
	Currency        string          `json:"currency"`
	TargetPrice     float64         `json:"target_price"`
	SupplierPrice   float64         `json:"supplier_price"`
	Materials       []MaterialItem  `json:"materials"`
	Components      []ComponentItem `json:"components"`
	Processes       []ProcessItem   `json:"processes"`
	SGA             AllocationItem  `json:"sga"`
	Profit          AllocationItem  `json:"profit"`
	OtherCosts      []OtherCostItem `json:"other_costs"`
}

// TotalVariance is supplier price minus target price.
func (d *CostSheetData) TotalVariance() float64 {
	return d.SupplierPrice - d.TargetPrice
}

// TotalVariancePct is TotalVariance against the target price.
func (d *CostSheetData) TotalVariancePct() float64 {
	return VariancePct(d.TotalVariance(), d.TargetPrice)
}

type MaterialItem struct {
	Description string  `json:"description"`
	TargetCost  float64 `json:"target_cost"`
	ActualCost  float64 `json:"actual_cost"`
}

type ComponentItem struct {
	Description string  `json:"description"`
	TargetCost  float64 `json:"target_cost"`
	ActualCost  float64 `json:"actual_cost"`
}

// ProcessItem is one manufacturing operation with its three sub-costs.
type ProcessItem struct {
	OperationDesc    string  `json:"operation_desc"`
	EquipmentDesc    string  `json:"equipment_desc"`
	SetupCostTarget  float64 `json:"setup_cost_target"`
	SetupCostActual  float64 `json:"setup_cost_actual"`
	LaborCostTarget  float64 `json:"labor_cost_target"`
	LaborCostActual  float64 `json:"labor_cost_actual"`
	BurdenCostTarget float64 `json:"burden_cost_target"`
	BurdenCostActual float64 `json:"burden_cost_actual"`
}

func (p ProcessItem) TargetTotal() float64 {
	return p.SetupCostTarget + p.LaborCostTarget + p.BurdenCostTarget
}

func (p ProcessItem) ActualTotal() float64 {
	return p.SetupCostActual + p.LaborCostActual + p.BurdenCostActual
}

// AllocationItem holds the SG&A or profit block: three allocation rates and
// the resulting totals.
type AllocationItem struct {
	MaterialRate      float64 `json:"material_rate"`
	ComponentRate     float64 `json:"component_rate"`
	ManufacturingRate float64 `json:"manufacturing_rate"`
	TotalTarget       float64 `json:"total_target"`
	TotalActual       float64 `json:"total_actual"`
}

type OtherCostItem struct {
	CostName   string  `json:"cost_name"`
	TargetCost float64 `json:"target_cost"`
	ActualCost float64 `json:"actual_cost"`
}
