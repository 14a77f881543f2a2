package costtree

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/alexanderramin/costvar/internal/domain"
)

var (
	ErrNoRows        = errors.New("no cost item rows")
	ErrNoRoot        = errors.New("cost tree has no root")
	ErrMultipleRoots = errors.New("cost tree has more than one root")
	ErrOrphanNode    = errors.New("cost item references a missing parent")
	ErrDuplicateItem = errors.New("duplicate cost item id")
	ErrForeignRow    = errors.New("cost item belongs to another view")
)

// rowNamespace seeds the name-based row ids.
var rowNamespace = uuid.MustParse("6f1c3a52-9a0e-4c55-8d2b-3e7a0c9b4f11")

// ItemPrefix is prepended to item and parent ids so both views can share
// one table.
func ItemPrefix(view domain.View) string {
	return string(view) + "_"
}

// RowID derives the stable storage id of the index-th flattened row.
func RowID(sessionID string, view domain.View, itemID string, index int) string {
	name := sessionID + "_" + string(view) + "_" + itemID + "_" + strconv.Itoa(index)
	return uuid.NewSHA1(rowNamespace, []byte(name)).String()
}

// Flatten returns one row per node in depth-first pre-order, parents before
// their children.
func Flatten(sessionID string, view domain.View, root *domain.CostTreeNode) []domain.CostItemRow {
	prefix := ItemPrefix(view)
	rows := make([]domain.CostItemRow, 0, root.Count())

	root.Walk(func(n, parent *domain.CostTreeNode) bool {
		row := domain.CostItemRow{
			RowID:       RowID(sessionID, view, n.ItemID, len(rows)),
			SessionID:   sessionID,
			ItemID:      prefix + n.ItemID,
			Level:       n.Level,
			Category:    n.Category,
			ItemName:    n.ItemName,
			TargetCost:  n.TargetCost,
			ActualCost:  n.ActualCost,
			Variance:    n.Variance,
			VariancePct: n.VariancePct,
			SortOrder:   n.SortOrder,
		}
		if parent != nil {
			pid := prefix + parent.ItemID
			row.ParentID = &pid
		}
		if len(n.Metadata) > 0 {
			// map[string]any of plain values always encodes
			row.Metadata, _ = json.Marshal(n.Metadata)
		}
		rows = append(rows, row)
		return true
	})
	return rows
}

// Reconstruct rebuilds the tree of one view from its stored rows. Children
// are ordered by (level, sort_order) whatever order the rows arrive in.
func Reconstruct(view domain.View, rows []domain.CostItemRow) (*domain.CostTreeNode, error) {
	if len(rows) == 0 {
		return nil, ErrNoRows
	}

	sorted := make([]domain.CostItemRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Level != sorted[j].Level {
			return sorted[i].Level < sorted[j].Level
		}
		return sorted[i].SortOrder < sorted[j].SortOrder
	})

	prefix := ItemPrefix(view)
	nodes := make(map[string]*domain.CostTreeNode, len(sorted))
	parents := make(map[string]string, len(sorted))
	var root *domain.CostTreeNode

	for _, r := range sorted {
		id, ok := strings.CutPrefix(r.ItemID, prefix)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrForeignRow, r.ItemID)
		}
		if _, dup := nodes[id]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateItem, id)
		}

		n, err := nodeFromRow(id, r)
		if err != nil {
			return nil, err
		}
		nodes[id] = n

		if r.ParentID == nil {
			if root != nil {
				return nil, fmt.Errorf("%w: %s and %s", ErrMultipleRoots, root.ItemID, id)
			}
			root = n
			continue
		}
		pid, ok := strings.CutPrefix(*r.ParentID, prefix)
		if !ok {
			return nil, fmt.Errorf("%w: parent %s", ErrForeignRow, *r.ParentID)
		}
		parents[id] = pid
	}
	if root == nil {
		return nil, ErrNoRoot
	}

	for _, r := range sorted {
		id := strings.TrimPrefix(r.ItemID, prefix)
		pid, ok := parents[id]
		if !ok {
			continue
		}
		p, ok := nodes[pid]
		if !ok {
			return nil, fmt.Errorf("%w: %s -> %s", ErrOrphanNode, id, pid)
		}
		p.Children = append(p.Children, nodes[id])
	}
	return root, nil
}

func nodeFromRow(id string, r domain.CostItemRow) (*domain.CostTreeNode, error) {
	n := &domain.CostTreeNode{
		ItemID:      id,
		ItemName:    r.ItemName,
		Level:       r.Level,
		Category:    r.Category,
		TargetCost:  r.TargetCost,
		ActualCost:  r.ActualCost,
		Variance:    r.Variance,
		VariancePct: r.VariancePct,
		SortOrder:   r.SortOrder,
		Children:    []*domain.CostTreeNode{},
	}
	if len(r.Metadata) > 0 {
		if err := json.Unmarshal(r.Metadata, &n.Metadata); err != nil {
			return nil, fmt.Errorf("decoding metadata of %s: %w", id, err)
		}
	}
	return n, nil
}
