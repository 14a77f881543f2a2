package service

import (
	"bytes"
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/costvar/internal/db"
	"github.com/alexanderramin/costvar/internal/domain"
	"github.com/alexanderramin/costvar/internal/repository"
	"github.com/alexanderramin/costvar/internal/testutil"
)

func newTestService(t *testing.T) (CostVarianceService, *sql.DB) {
	t.Helper()
	database := testutil.NewTestDB(t)
	return newTestServiceOn(t, database, testutil.NewTestUoW(database))
}

func newTestServiceOn(t *testing.T, database *sql.DB, uow db.UnitOfWork, observers ...UseCaseObserver) (CostVarianceService, *sql.DB) {
	t.Helper()
	svc := NewCostVarianceService(
		repository.NewSQLiteSessionRepo(database),
		repository.NewSQLiteCostItemRepo(database),
		repository.NewSQLiteProcessBreakdownRepo(database),
		uow,
		observers...,
	)
	return svc, database
}

func TestProcessUpload_ExampleSheet(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	content := testutil.NewCostSheetWorkbook(t, testutil.NewExampleCostSheet())
	summary, err := svc.ProcessUpload(ctx, content, "example.xlsx")
	require.NoError(t, err)

	assert.NotEmpty(t, summary.SessionID)
	assert.Equal(t, "P-100", summary.PartNumber)
	assert.Equal(t, "Acme Stamping", summary.SupplierName)
	assert.Equal(t, "USD", summary.Currency)
	assert.Equal(t, 100.0, summary.TargetPrice)
	assert.Equal(t, 120.0, summary.SupplierPrice)
	assert.InDelta(t, 20.0, summary.TotalVariance, 1e-9)
	assert.InDelta(t, 20.0, summary.VariancePct, 1e-9)
	assert.Len(t, summary.FileHash, 64)
	assert.Empty(t, summary.DuplicateOf)

	res, err := svc.GetCostTree(ctx, summary.SessionID, domain.ViewByProcess)
	require.NoError(t, err)
	root := res.Tree
	assert.InDelta(t, 20.0, root.Variance, 1e-9)
	assert.InDelta(t, 20.0, root.VariancePct, 1e-9)

	steel := root.Find("MAT_001")
	require.NotNil(t, steel)
	assert.Equal(t, "Steel", steel.ItemName)
	assert.InDelta(t, 5.0, steel.Variance, 1e-9)
	assert.InDelta(t, 5.0, steel.VariancePct, 1e-9)

	mfg := root.Find("MFG")
	assert.Equal(t, 10.0, mfg.TargetCost)
	assert.Equal(t, 15.0, mfg.ActualCost)

	sess, err := svc.GetSession(ctx, summary.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "example.xlsx", sess.FileName)
	assert.Equal(t, summary.FileHash, sess.FileHash)
}

func TestProcessUpload_BothViewsStored(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	summary, err := svc.ProcessUpload(ctx, testutil.NewCostSheetWorkbook(t, testutil.NewRichCostSheet()), "rich.xlsm")
	require.NoError(t, err)

	byProcess, err := svc.GetCostTree(ctx, summary.SessionID, domain.ViewByProcess)
	require.NoError(t, err)
	byType, err := svc.GetCostTree(ctx, summary.SessionID, domain.ViewByType)
	require.NoError(t, err)

	assert.Equal(t, domain.ViewByType, byType.View)
	assert.Equal(t, byProcess.Tree.Find("PROC").ActualCost, byType.Tree.Find("PROC").ActualCost)
	assert.NotNil(t, byProcess.Tree.Find("PROC_002_BURDEN"))
	assert.NotNil(t, byType.Tree.Find("BURDEN_002"))
	assert.Nil(t, byType.Tree.Find("PROC_001"))

	breakdown, err := svc.GetProcessBreakdown(ctx, summary.SessionID)
	require.NoError(t, err)
	require.Len(t, breakdown, 2)
	assert.Equal(t, "PROC_001", breakdown[0].ProcessID)
	assert.Equal(t, "200T press", breakdown[0].EquipmentDesc)
	assert.Equal(t, "Welding", breakdown[1].ProcessDesc)
}

func TestProcessUpload_RejectsExtension(t *testing.T) {
	svc, database := newTestService(t)

	for _, name := range []string{"sheet.csv", "sheet", "sheet.xlsx.txt"} {
		_, err := svc.ProcessUpload(context.Background(), []byte("irrelevant"), name)
		assert.ErrorIs(t, err, ErrUnsupportedFile, name)
	}

	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&n))
	assert.Zero(t, n)
}

func TestProcessUpload_ExtensionIsCaseInsensitive(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ProcessUpload(context.Background(), testutil.NewCostSheetWorkbook(t, testutil.NewExampleCostSheet()), "SHEET.XLSX")
	assert.NoError(t, err)
}

func TestProcessUpload_MalformedPersistsNothing(t *testing.T) {
	svc, database := newTestService(t)

	_, err := svc.ProcessUpload(context.Background(), []byte("not a workbook"), "broken.xls")
	require.ErrorIs(t, err, ErrMalformedInput)

	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&n))
	assert.Zero(t, n)
}

func TestProcessUpload_XLSNameReadsByContent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	// an OOXML package saved with a legacy extension still parses
	summary, err := svc.ProcessUpload(ctx, testutil.NewCostSheetWorkbook(t, testutil.NewExampleCostSheet()), "legacy.xls")
	require.NoError(t, err)
	assert.Equal(t, "P-100", summary.PartNumber)

	// BIFF content goes to the legacy reader; a corrupt one is malformed
	corrupt := append([]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, make([]byte, 64)...)
	_, err = svc.ProcessUpload(ctx, corrupt, "old.xls")
	assert.ErrorIs(t, err, ErrMalformedInput)
}

func TestProcessUpload_DuplicateCreatesNewSession(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	content := testutil.NewCostSheetWorkbook(t, testutil.NewExampleCostSheet())

	first, err := svc.ProcessUpload(ctx, content, "a.xlsx")
	require.NoError(t, err)
	second, err := svc.ProcessUpload(ctx, bytes.Clone(content), "b.xlsx")
	require.NoError(t, err)

	assert.NotEqual(t, first.SessionID, second.SessionID)
	assert.Equal(t, first.FileHash, second.FileHash)
	assert.Equal(t, first.SessionID, second.DuplicateOf)

	list, err := svc.ListSessions(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestGetCostTree_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetCostTree(context.Background(), "missing", domain.ViewByType)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGetCostTree_InvalidView(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetCostTree(context.Background(), "any", domain.View("by_supplier"))
	assert.ErrorIs(t, err, domain.ErrInvalidView)
}

func TestDeleteSession_RemovesEverything(t *testing.T) {
	svc, database := newTestService(t)
	ctx := context.Background()

	keep, err := svc.ProcessUpload(ctx, testutil.NewCostSheetWorkbook(t, testutil.NewExampleCostSheet()), "keep.xlsx")
	require.NoError(t, err)
	drop, err := svc.ProcessUpload(ctx, testutil.NewCostSheetWorkbook(t, testutil.NewRichCostSheet()), "drop.xlsx")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSession(ctx, drop.SessionID))

	for _, view := range domain.AllViews() {
		_, err := svc.GetCostTree(ctx, drop.SessionID, view)
		assert.ErrorIs(t, err, repository.ErrNotFound, string(view))
	}
	_, err = svc.GetSession(ctx, drop.SessionID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = svc.GetProcessBreakdown(ctx, drop.SessionID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Zero(t, testutil.CountRows(t, database, "process_breakdown", drop.SessionID))

	list, err := svc.ListSessions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, keep.SessionID, list[0].ID)

	_, err = svc.GetCostTree(ctx, keep.SessionID, domain.ViewByType)
	assert.NoError(t, err)
}

func TestDeleteSession_Missing(t *testing.T) {
	svc, _ := newTestService(t)

	assert.ErrorIs(t, svc.DeleteSession(context.Background(), "missing"), repository.ErrNotFound)
}

func TestListSessions_ClampsLimit(t *testing.T) {
	assert.Equal(t, DefaultSessionLimit, ClampLimit(0))
	assert.Equal(t, DefaultSessionLimit, ClampLimit(-3))
	assert.Equal(t, 1, ClampLimit(1))
	assert.Equal(t, MaxSessionLimit, ClampLimit(5000))
}
