package cli

import (
	"testing"

	"github.com/alexanderramin/costvar/internal/costtree"
	"github.com/alexanderramin/costvar/internal/domain"
	"github.com/alexanderramin/costvar/internal/teatest"
	"github.com/alexanderramin/costvar/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBrowseDriver(t *testing.T) *teatest.Driver {
	t.Helper()
	data := testutil.NewRichCostSheet()
	trees := map[domain.View]*domain.CostTreeNode{}
	for _, v := range domain.AllViews() {
		trees[v] = costtree.Build(data, v)
	}
	m := newBrowseModel(testutil.NewTestSession("P-100"), trees, domain.ViewByProcess)
	return teatest.New(t, m, 120, 30)
}

func browseState(d *teatest.Driver) *browseModel {
	return d.Model().(*browseModel)
}

func rowIDs(m *browseModel) []string {
	ids := make([]string, len(m.rows))
	for i, r := range m.rows {
		ids[i] = r.node.ItemID
	}
	return ids
}

func TestBrowse_InitialFold(t *testing.T) {
	d := newBrowseDriver(t)
	m := browseState(d)

	assert.Equal(t, []string{
		"ROOT", "MFG", "MAT", "COMP", "PROC", "SGA", "PROFIT",
		"OTHER", "OTHER_001", "OTHER_002", "OTHER_003", "OTHER_004",
	}, rowIDs(m))

	view := d.View()
	assert.Contains(t, view, "P-100")
	assert.Contains(t, view, "[by_process]")
	assert.Contains(t, view, "▸ Material Cost")
	assert.Contains(t, view, "▾ Total Cost")
	assert.Contains(t, view, "quit")
}

func TestBrowse_ExpandAndCollapse(t *testing.T) {
	d := newBrowseDriver(t)

	d.Press("down", "down")
	assert.Equal(t, "MAT", browseState(d).selected().ItemID)

	d.Press("enter")
	assert.Contains(t, rowIDs(browseState(d)), "MAT_002")

	d.Press("down", "left")
	assert.Equal(t, "MAT", browseState(d).selected().ItemID, "left on a leaf jumps to the parent")

	d.Press("left")
	assert.NotContains(t, rowIDs(browseState(d)), "MAT_001")

	d.Press("right")
	assert.Contains(t, rowIDs(browseState(d)), "MAT_001")
}

func TestBrowse_DetailShowsEquipment(t *testing.T) {
	d := newBrowseDriver(t)

	d.Press("e")
	m := browseState(d)
	for m.selected().ItemID != "PROC_001" {
		d.Press("j")
	}
	view := d.View()
	assert.Contains(t, view, "equipment: 200T press")
	assert.Contains(t, view, "target 13.00 USD")
	assert.Contains(t, view, "actual 13.50 USD")
}

func TestBrowse_SwitchViewKeepsSelection(t *testing.T) {
	d := newBrowseDriver(t)

	d.Press("down", "down", "down", "down")
	require.Equal(t, "PROC", browseState(d).selected().ItemID)

	d.Press("v")
	m := browseState(d)
	assert.Equal(t, domain.ViewByType, m.view)
	assert.Equal(t, "PROC", m.selected().ItemID)
	assert.Contains(t, d.View(), "[by_type]")

	d.Press("enter")
	assert.Contains(t, rowIDs(browseState(d)), "PROC_SETUP_TOTAL")

	d.Press("tab")
	assert.Equal(t, domain.ViewByProcess, browseState(d).view)
}

func TestBrowse_FoldStateIsPerView(t *testing.T) {
	d := newBrowseDriver(t)

	d.Press("e")
	assert.Contains(t, rowIDs(browseState(d)), "PROC_002_BURDEN")

	d.Press("v")
	assert.NotContains(t, rowIDs(browseState(d)), "BURDEN_001")
}

func TestBrowse_CursorStaysInBounds(t *testing.T) {
	d := newBrowseDriver(t)

	d.Press("up", "up")
	assert.Equal(t, 0, browseState(d).cursor)

	for range 50 {
		d.Press("down")
	}
	m := browseState(d)
	assert.Equal(t, len(m.rows)-1, m.cursor)
	assert.Equal(t, "OTHER_004", m.selected().ItemID)
}

func TestBrowse_ScrollsWithCursor(t *testing.T) {
	data := testutil.NewRichCostSheet()
	trees := map[domain.View]*domain.CostTreeNode{
		domain.ViewByProcess: costtree.Build(data, domain.ViewByProcess),
	}
	m := newBrowseModel(testutil.NewTestSession("P-100"), trees, domain.ViewByProcess)
	d := teatest.New(t, m, 100, 12)

	d.Press("e")
	for range 20 {
		d.Press("down")
	}
	m = browseState(d)
	assert.GreaterOrEqual(t, m.cursor, m.vp.YOffset)
	assert.Less(t, m.cursor, m.vp.YOffset+m.vp.Height)
	assert.Positive(t, m.vp.YOffset)
}

func TestBrowse_Quit(t *testing.T) {
	d := newBrowseDriver(t)
	d.Press("q")
	assert.True(t, d.Quitting())
}
