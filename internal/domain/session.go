package domain

import "time"

// Session is the persisted header of one successful upload.
type Session struct {
	ID              string    `json:"session_id"`
	PartNumber      string    `json:"part_number"`
	PartDescription string    `json:"part_description"`
	SupplierName    string    `json:"supplier_name"`
	Currency        string    `json:"currency"`
	TargetPrice     float64   `json:"target_price"`
	SupplierPrice   float64   `json:"supplier_price"`
	TotalVariance   float64   `json:"total_variance"`
	VariancePct     float64   `json:"variance_pct"`
	UploadTime      time.Time `json:"upload_time"`
	FileName        string    `json:"file_name"`
	FileHash        string    `json:"file_hash"`
}

// CostItemRow is one flattened tree node as stored. ItemID and ParentID
// carry the view prefix; ParentID is nil only for the root.
type CostItemRow struct {
	RowID       string
	SessionID   string
	ItemID      string
	ParentID    *string
	Level       int
	Category    Category
	ItemName    string
	TargetCost  float64
	ActualCost  float64
	Variance    float64
	VariancePct float64
	SortOrder   int
	Metadata    []byte // JSON, nil when the node has none
}

// ProcessBreakdown is the per-operation cost split kept alongside the trees.
type ProcessBreakdown struct {
	ID               string  `json:"id"`
	SessionID        string  `json:"session_id"`
	ProcessID        string  `json:"process_id"`
	ProcessDesc      string  `json:"process_desc"`
	EquipmentDesc    string  `json:"equipment_desc"`
	SetupCostTarget  float64 `json:"setup_cost_target"`
	SetupCostActual  float64 `json:"setup_cost_actual"`
	LaborCostTarget  float64 `json:"labor_cost_target"`
	LaborCostActual  float64 `json:"labor_cost_actual"`
	BurdenCostTarget float64 `json:"burden_cost_target"`
	BurdenCostActual float64 `json:"burden_cost_actual"`
}

func (p ProcessBreakdown) TargetTotal() float64 {
	return p.SetupCostTarget + p.LaborCostTarget + p.BurdenCostTarget
}

func (p ProcessBreakdown) ActualTotal() float64 {
	return p.SetupCostActual + p.LaborCostActual + p.BurdenCostActual
}
