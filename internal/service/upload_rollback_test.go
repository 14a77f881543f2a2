package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/costvar/internal/costtree"
	"github.com/alexanderramin/costvar/internal/domain"
	"github.com/alexanderramin/costvar/internal/testutil"
)

func TestProcessUpload_RollbackAtEveryWrite(t *testing.T) {
	data := testutil.NewRichCostSheet()
	// one header, every node of both trees, one row per process
	totalExecs := 1 + len(data.Processes)
	for _, view := range domain.AllViews() {
		totalExecs += costtree.Build(data, view).Count()
	}

	failPoints := []int32{1, 2, int32(totalExecs) / 2, int32(totalExecs)}
	for _, failOn := range failPoints {
		database := testutil.NewTestDB(t)
		injected := errors.New("injected write failure")
		uow := &testutil.FailOnNthExecUoW{DB: database, FailOn: failOn, Err: injected}
		svc, _ := newTestServiceOn(t, database, uow)

		_, err := svc.ProcessUpload(context.Background(), testutil.NewCostSheetWorkbook(t, data), "rich.xlsx")
		require.ErrorIs(t, err, injected, "fail on exec %d", failOn)

		for _, table := range []string{"sessions", "cost_items", "process_breakdown"} {
			var n int
			require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
			assert.Zero(t, n, "%s after failing exec %d", table, failOn)
		}
	}
}

func TestProcessUpload_ExecCountMatchesTree(t *testing.T) {
	data := testutil.NewRichCostSheet()
	database := testutil.NewTestDB(t)
	uow := &testutil.FailOnNthExecUoW{DB: database}
	svc, _ := newTestServiceOn(t, database, uow)

	_, err := svc.ProcessUpload(context.Background(), testutil.NewCostSheetWorkbook(t, data), "rich.xlsx")
	require.NoError(t, err)

	want := 1 + len(data.Processes)
	for _, view := range domain.AllViews() {
		want += costtree.Build(data, view).Count()
	}
	assert.Equal(t, int32(want), uow.Execs())
}

func TestDeleteSession_RollbackKeepsSession(t *testing.T) {
	database := testutil.NewTestDB(t)
	ok, _ := newTestServiceOn(t, database, testutil.NewTestUoW(database))
	summary, err := ok.ProcessUpload(context.Background(), testutil.NewCostSheetWorkbook(t, testutil.NewExampleCostSheet()), "a.xlsx")
	require.NoError(t, err)

	injected := errors.New("injected delete failure")
	failing, _ := newTestServiceOn(t, database, &testutil.FailOnNthExecUoW{DB: database, FailOn: 3, Err: injected})
	require.ErrorIs(t, failing.DeleteSession(context.Background(), summary.SessionID), injected)

	for _, view := range domain.AllViews() {
		_, err := ok.GetCostTree(context.Background(), summary.SessionID, view)
		assert.NoError(t, err, "tree rows survive a failed delete")
	}
	_, err = ok.GetSession(context.Background(), summary.SessionID)
	assert.NoError(t, err)
}

func TestProcessUpload_BreakdownFailureLeavesNoTrees(t *testing.T) {
	database := testutil.NewTestDB(t)
	injected := errors.New("breakdown write failed")
	svc, _ := newTestServiceOn(t, database, &testutil.FailOnTableUoW{DB: database, Table: "process_breakdown", Err: injected})

	_, err := svc.ProcessUpload(context.Background(), testutil.NewCostSheetWorkbook(t, testutil.NewRichCostSheet()), "rich.xlsx")
	require.ErrorIs(t, err, injected)

	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM cost_items`).Scan(&n))
	assert.Zero(t, n)
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&n))
	assert.Zero(t, n)
}
