package intelligence

import (
	"context"
	"sort"

	"github.com/alexanderramin/costvar/internal/domain"
	"github.com/alexanderramin/costvar/internal/service"
)

// DefaultTopN bounds the overrun and saving lists of a ReportContext.
const DefaultTopN = 5

// ReportContext is the snapshot of a session that narrative generation
// works from. It is plain data so streaming never holds on to the tree.
type ReportContext struct {
	View        domain.View   `json:"view"`
	Session     SessionKPIs   `json:"session"`
	Sections    []NodeSummary `json:"sections"`
	TopOverruns []NodeSummary `json:"top_overruns"`
	TopSavings  []NodeSummary `json:"top_savings"`
}

// SessionKPIs are the header figures of an uploaded sheet.
type SessionKPIs struct {
	SessionID       string  `json:"session_id"`
	PartNumber      string  `json:"part_number"`
	PartDescription string  `json:"part_description"`
	SupplierName    string  `json:"supplier_name"`
	Currency        string  `json:"currency"`
	TargetPrice     float64 `json:"target_price"`
	SupplierPrice   float64 `json:"supplier_price"`
	TotalVariance   float64 `json:"total_variance"`
	VariancePct     float64 `json:"variance_pct"`
}

// NodeSummary is one tree node without its children.
type NodeSummary struct {
	ItemID      string          `json:"item_id"`
	ItemName    string          `json:"item_name"`
	Category    domain.Category `json:"category"`
	Level       int             `json:"level"`
	TargetCost  float64         `json:"target_cost"`
	ActualCost  float64         `json:"actual_cost"`
	Variance    float64         `json:"variance"`
	VariancePct float64         `json:"variance_pct"`
}

func summarize(n *domain.CostTreeNode) NodeSummary {
	return NodeSummary{
		ItemID:      n.ItemID,
		ItemName:    n.ItemName,
		Category:    n.Category,
		Level:       n.Level,
		TargetCost:  n.TargetCost,
		ActualCost:  n.ActualCost,
		Variance:    n.Variance,
		VariancePct: n.VariancePct,
	}
}

// BuildReportContext summarizes session and its tree for view. Overruns
// and savings are taken from the leaves, largest magnitude first, ties
// broken by item id. topN <= 0 means DefaultTopN.
func BuildReportContext(session domain.Session, view domain.View, tree *domain.CostTreeNode, topN int) ReportContext {
	if topN <= 0 {
		topN = DefaultTopN
	}

	rc := ReportContext{
		View: view,
		Session: SessionKPIs{
			SessionID:       session.ID,
			PartNumber:      session.PartNumber,
			PartDescription: session.PartDescription,
			SupplierName:    session.SupplierName,
			Currency:        session.Currency,
			TargetPrice:     session.TargetPrice,
			SupplierPrice:   session.SupplierPrice,
			TotalVariance:   session.TotalVariance,
			VariancePct:     session.VariancePct,
		},
	}
	if tree == nil {
		return rc
	}

	for _, c := range tree.Children {
		rc.Sections = append(rc.Sections, summarize(c))
	}

	var over, under []NodeSummary
	for _, leaf := range tree.Leaves() {
		if leaf == tree {
			continue
		}
		switch s := summarize(leaf); {
		case s.Variance > 0:
			over = append(over, s)
		case s.Variance < 0:
			under = append(under, s)
		}
	}

	sort.SliceStable(over, func(i, j int) bool {
		if over[i].Variance != over[j].Variance {
			return over[i].Variance > over[j].Variance
		}
		return over[i].ItemID < over[j].ItemID
	})
	sort.SliceStable(under, func(i, j int) bool {
		if under[i].Variance != under[j].Variance {
			return under[i].Variance < under[j].Variance
		}
		return under[i].ItemID < under[j].ItemID
	})

	rc.TopOverruns = truncate(over, topN)
	rc.TopSavings = truncate(under, topN)
	return rc
}

// LoadReportContext reads a stored session and its tree for view.
func LoadReportContext(ctx context.Context, svc service.CostVarianceService, sessionID string, view domain.View) (ReportContext, error) {
	session, err := svc.GetSession(ctx, sessionID)
	if err != nil {
		return ReportContext{}, err
	}
	tree, err := svc.GetCostTree(ctx, sessionID, view)
	if err != nil {
		return ReportContext{}, err
	}
	return BuildReportContext(*session, view, tree.Tree, 0), nil
}

func truncate(s []NodeSummary, n int) []NodeSummary {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// itemIDs returns every item id the context mentions.
func (rc ReportContext) itemIDs() map[string]bool {
	ids := make(map[string]bool)
	for _, group := range [][]NodeSummary{rc.Sections, rc.TopOverruns, rc.TopSavings} {
		for _, n := range group {
			ids[n.ItemID] = true
		}
	}
	return ids
}
