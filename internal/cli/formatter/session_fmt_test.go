package formatter

import (
	"testing"
	"time"

	"github.com/alexanderramin/costvar/internal/domain"
	"github.com/alexanderramin/costvar/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestFormatUploadResult(t *testing.T) {
	out := FormatUploadResult(UploadResult{
		SessionID:     "3f2a9c1e-8b7d-4e5f-9a0b-1c2d3e4f5a6b",
		FileName:      "P-100.xlsx",
		PartNumber:    "P-100",
		SupplierName:  "Acme Stamping",
		Currency:      "USD",
		TargetPrice:   250,
		SupplierPrice: 262.5,
		TotalVariance: 12.5,
		VariancePct:   5,
	})

	assert.Contains(t, out, "P-100.xlsx")
	assert.Contains(t, out, "3f2a9c1e-8b7d-4e5f-9a0b-1c2d3e4f5a6b")
	assert.Contains(t, out, "250.00 USD")
	assert.Contains(t, out, "262.50 USD")
	assert.Contains(t, out, "+12.50 (+5.0%)")
	assert.NotContains(t, out, "Same file")
}

func TestFormatUploadResult_Duplicate(t *testing.T) {
	out := FormatUploadResult(UploadResult{SessionID: "b", DuplicateOf: "a-first"})
	assert.Contains(t, out, "Same file as session a-first")
}

func TestFormatSessionList(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	s := testutil.NewTestSession("P-100", testutil.WithUploadTime(now.Add(-2*time.Hour)))

	out := FormatSessionList([]*domain.Session{s}, now)
	assert.Contains(t, out, "PART")
	assert.Contains(t, out, s.ID[:8])
	assert.Contains(t, out, "P-100")
	assert.Contains(t, out, "Acme Stamping")
	assert.Contains(t, out, "+20.00 (+20.0%)")
	assert.Contains(t, out, "2h ago")
}

func TestFormatSessionList_Empty(t *testing.T) {
	assert.Contains(t, FormatSessionList(nil, time.Now()), "No sessions found.")
}

func TestFormatSessionDetail(t *testing.T) {
	s := testutil.NewTestSession("P-100", testutil.WithFileHash("deadbeef"))

	out := FormatSessionDetail(s)
	assert.Contains(t, out, s.ID)
	assert.Contains(t, out, "100.00 USD")
	assert.Contains(t, out, "120.00 USD")
	assert.Contains(t, out, "P-100.xlsx")
	assert.Contains(t, out, "deadbeef")
}

func TestFormatBreakdown(t *testing.T) {
	rows := []domain.ProcessBreakdown{
		{ProcessID: "PROC_001", ProcessDesc: "Blanking", EquipmentDesc: "200T press",
			SetupCostTarget: 1, SetupCostActual: 1.5, LaborCostTarget: 4, LaborCostActual: 5,
			BurdenCostTarget: 8, BurdenCostActual: 7},
		{ProcessID: "PROC_002", ProcessDesc: "Welding", EquipmentDesc: "Robot cell",
			SetupCostTarget: 2, SetupCostActual: 2, LaborCostTarget: 6, LaborCostActual: 7.5,
			BurdenCostTarget: 10, BurdenCostActual: 12},
	}

	out := FormatBreakdown(rows)
	assert.Contains(t, out, "PROC_001")
	assert.Contains(t, out, "Welding")
	assert.Contains(t, out, "1.00 → 1.50")
	assert.Contains(t, out, "+0.50")
	assert.Contains(t, out, "+3.50")
	assert.Contains(t, out, "31.00 → 35.00")
}

func TestFormatBreakdown_Empty(t *testing.T) {
	assert.Contains(t, FormatBreakdown(nil), "No processes on this sheet.")
}
