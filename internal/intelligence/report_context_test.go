package intelligence

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alexanderramin/costvar/internal/costtree"
	"github.com/alexanderramin/costvar/internal/domain"
	"github.com/alexanderramin/costvar/internal/repository"
	"github.com/alexanderramin/costvar/internal/service"
	"github.com/alexanderramin/costvar/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(nodes []NodeSummary) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ItemID
	}
	return out
}

func TestBuildReportContext_Sections(t *testing.T) {
	rc := richContext(t)

	assert.Equal(t, domain.ViewByProcess, rc.View)
	assert.Equal(t, "sess-1", rc.Session.SessionID)
	assert.InDelta(t, 12.5, rc.Session.TotalVariance, 1e-9)
	assert.Equal(t, []string{"MFG", "SGA", "PROFIT", "OTHER"}, ids(rc.Sections))
}

func TestBuildReportContext_RanksLeaves(t *testing.T) {
	rc := richContext(t)

	// Ties at +1.00 are ordered by item id.
	assert.Equal(t,
		[]string{"MAT_001", "PROC_002_BURDEN", "PROC_002_LABOR", "OTHER_002", "PROC_001_LABOR"},
		ids(rc.TopOverruns))
	assert.Equal(t, []string{"PROC_001_BURDEN", "MAT_002"}, ids(rc.TopSavings))
}

func TestBuildReportContext_TopN(t *testing.T) {
	data := testutil.NewRichCostSheet()
	rc := BuildReportContext(domain.Session{ID: "s"}, domain.ViewByType, costtree.Build(data, domain.ViewByType), 2)

	assert.Equal(t, []string{"MAT_001", "BURDEN_002"}, ids(rc.TopOverruns))
	assert.Len(t, rc.TopSavings, 2)
}

func TestBuildReportContext_NoVariance(t *testing.T) {
	data := testutil.NewTestCostSheet(testutil.WithPrices(10, 10), testutil.WithMaterial("Steel", 4, 4))
	rc := BuildReportContext(domain.Session{ID: "s"}, domain.ViewByProcess, costtree.Build(data, domain.ViewByProcess), 0)

	assert.Empty(t, rc.TopOverruns)
	assert.Empty(t, rc.TopSavings)
	assert.Contains(t, DeterministicReport(rc), "No line item is above target.")
}

func TestBuildReportContext_NilTree(t *testing.T) {
	rc := BuildReportContext(domain.Session{ID: "s", PartNumber: "P"}, domain.ViewByProcess, nil, 0)

	assert.Equal(t, "P", rc.Session.PartNumber)
	assert.Empty(t, rc.Sections)
}

func TestReportContext_JSONShape(t *testing.T) {
	raw, err := json.Marshal(richContext(t))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	for _, key := range []string{"view", "session", "sections", "top_overruns", "top_savings"} {
		assert.Contains(t, decoded, key)
	}
}

func TestDeterministicReport(t *testing.T) {
	out := DeterministicReport(richContext(t))

	assert.Contains(t, out, "## Cost Variance Summary")
	assert.Contains(t, out, "Part **P-100** from Acme Stamping.")
	assert.Contains(t, out, "Target price **250.00 USD**, supplier price **262.50 USD**: 12.50 USD (5.0%) above target.")
	assert.Contains(t, out, "- **Steel** `MAT_001`: +4.00 (+1.6%)")
	assert.Contains(t, out, "### 4. Savings")
	assert.Contains(t, out, "`PROC_001_BURDEN`: -1.00 (-0.4%)")
}

func TestDeterministicReport_BelowTarget(t *testing.T) {
	rc := BuildReportContext(domain.Session{PartNumber: "P-9", TargetPrice: 100, SupplierPrice: 90, TotalVariance: -10, VariancePct: -10},
		domain.ViewByProcess, nil, 0)

	out := DeterministicReport(rc)
	assert.Contains(t, out, "10.00 (10.0%) below target")
	assert.NotContains(t, out, "### 4. Savings")
}

func TestLoadReportContext(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := service.NewCostVarianceService(
		repository.NewSQLiteSessionRepo(database),
		repository.NewSQLiteCostItemRepo(database),
		repository.NewSQLiteProcessBreakdownRepo(database),
		testutil.NewTestUoW(database),
	)
	ctx := context.Background()

	summary, err := svc.ProcessUpload(ctx, testutil.NewCostSheetWorkbook(t, testutil.NewRichCostSheet()), "rich.xlsx")
	require.NoError(t, err)

	rc, err := LoadReportContext(ctx, svc, summary.SessionID, domain.ViewByType)
	require.NoError(t, err)
	assert.Equal(t, summary.SessionID, rc.Session.SessionID)
	assert.Equal(t, domain.ViewByType, rc.View)
	assert.Equal(t, "MAT_001", rc.TopOverruns[0].ItemID)

	_, err = LoadReportContext(ctx, svc, "missing", domain.ViewByType)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
