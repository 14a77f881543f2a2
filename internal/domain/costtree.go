package domain

// RootItemID is the item id of every tree's single root node.
const RootItemID = "ROOT"

// VariancePct expresses variance as a percentage of denominator, or 0 when
// the denominator is 0. Every node in a cost tree passes the root target
// price here, never its parent's target.
func VariancePct(variance, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return variance / denominator * 100
}

// CostTreeNode is one node of the cost hierarchy. Level 1 is the root and
// leaves sit at most at level 5.
type CostTreeNode struct {
	ItemID      string          `json:"item_id"`
	ItemName    string          `json:"item_name"`
	Level       int             `json:"level"`
	Category    Category        `json:"category"`
	TargetCost  float64         `json:"target_cost"`
	ActualCost  float64         `json:"actual_cost"`
	Variance    float64         `json:"variance"`
	VariancePct float64         `json:"variance_pct"`
	SortOrder   int             `json:"sort_order"`
	Metadata    map[string]any  `json:"metadata,omitempty"`
	Children    []*CostTreeNode `json:"children"`
}

// IsLeaf reports whether the node has no children.
func (n *CostTreeNode) IsLeaf() bool {
	return len(n.Children) == 0
}

// Walk visits n and its descendants depth-first, parents before children.
// Returning false from fn skips the node's subtree.
func (n *CostTreeNode) Walk(fn func(node *CostTreeNode, parent *CostTreeNode) bool) {
	n.walk(nil, fn)
}

func (n *CostTreeNode) walk(parent *CostTreeNode, fn func(*CostTreeNode, *CostTreeNode) bool) {
	if !fn(n, parent) {
		return
	}
	for _, c := range n.Children {
		c.walk(n, fn)
	}
}

// Find returns the node with the given item id, or nil.
func (n *CostTreeNode) Find(itemID string) *CostTreeNode {
	var found *CostTreeNode
	n.Walk(func(node, _ *CostTreeNode) bool {
		if found != nil {
			return false
		}
		if node.ItemID == itemID {
			found = node
			return false
		}
		return true
	})
	return found
}

// Leaves returns every leaf under n in depth-first order.
func (n *CostTreeNode) Leaves() []*CostTreeNode {
	var out []*CostTreeNode
	n.Walk(func(node, _ *CostTreeNode) bool {
		if node.IsLeaf() {
			out = append(out, node)
		}
		return true
	})
	return out
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *CostTreeNode) Count() int {
	total := 0
	n.Walk(func(*CostTreeNode, *CostTreeNode) bool {
		total++
		return true
	})
	return total
}
