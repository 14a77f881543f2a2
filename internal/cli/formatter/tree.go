package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/costvar/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
	treeSpace  = "   "
)

// TreeOptions control RenderCostTree. MaxDepth 0 renders every level.
type TreeOptions struct {
	MaxDepth int
	ShowIDs  bool
}

type treeLine struct {
	label  string
	target string
	actual string
	delta  string
}

// RenderCostTree draws the tree with box-drawing connectors and aligned
// target, actual and variance columns.
func RenderCostTree(root *domain.CostTreeNode, opts TreeOptions) string {
	if root == nil {
		return ""
	}

	var lines []treeLine
	var walk func(n *domain.CostTreeNode, prefix string, last, top bool)
	walk = func(n *domain.CostTreeNode, prefix string, last, top bool) {
		connector, childPrefix := "", ""
		if !top {
			connector, childPrefix = treeBranch, prefix+treePipe
			if last {
				connector, childPrefix = treeCorner, prefix+treeSpace
			}
		}

		name := n.ItemName
		if n.Level <= 2 {
			name = Bold(name)
		}
		if opts.ShowIDs {
			name += " " + Dim(n.ItemID)
		}

		lines = append(lines, treeLine{
			label:  Dim(prefix+connector) + name,
			target: Amount(n.TargetCost),
			actual: Amount(n.ActualCost),
			delta:  Variance(n.Variance, n.VariancePct),
		})

		if opts.MaxDepth > 0 && n.Level >= opts.MaxDepth {
			return
		}
		for i, c := range n.Children {
			walk(c, childPrefix, i == len(n.Children)-1, false)
		}
	}
	walk(root, "", true, true)

	var wLabel, wTarget, wActual int
	for _, l := range lines {
		wLabel = max(wLabel, lipgloss.Width(l.label))
		wTarget = max(wTarget, len(l.target))
		wActual = max(wActual, len(l.actual))
	}

	var b strings.Builder
	for _, l := range lines {
		fmt.Fprintf(&b, "%s%s  %*s  %*s  %s\n",
			l.label, strings.Repeat(" ", wLabel-lipgloss.Width(l.label)),
			wTarget, l.target, wActual, l.actual, l.delta)
	}
	return b.String()
}
