// Package costtree turns extracted cost sheets into variance trees and
// converts those trees to and from their flat storage form.
package costtree

import (
	"fmt"

	"github.com/alexanderramin/costvar/internal/domain"
)

// Fixed node ids. Item ids of repeated nodes are built with seqID.
const (
	IDManufacturing = "MFG"
	IDMaterial      = "MAT"
	IDComponent     = "COMP"
	IDProcess       = "PROC"
	IDSGA           = "SGA"
	IDProfit        = "PROFIT"
	IDOther         = "OTHER"

	IDSetupTotal  = "PROC_SETUP_TOTAL"
	IDLaborTotal  = "PROC_LABOR_TOTAL"
	IDBurdenTotal = "PROC_BURDEN_TOTAL"
)

// builder carries the one denominator every node's variance_pct uses.
type builder struct {
	denominator float64
}

// Build creates the five-level cost tree for data grouped by view. It is a
// pure function; an unknown view is treated as by_process.
func Build(data *domain.CostSheetData, view domain.View) *domain.CostTreeNode {
	b := builder{denominator: data.TargetPrice}

	root := b.node(domain.RootItemID, "Total Cost", 1, domain.CategoryRoot, 0,
		data.TargetPrice, data.SupplierPrice)
	root.Children = []*domain.CostTreeNode{
		b.manufacturing(data, view),
		b.allocation(IDSGA, "SG&A Allocation", domain.CategorySGA, 2, data.SGA),
		b.allocation(IDProfit, "Supplier Profit", domain.CategoryProfit, 3, data.Profit),
		b.other(data.OtherCosts),
	}
	return root
}

func (b builder) node(id, name string, level int, cat domain.Category, order int, target, actual float64) *domain.CostTreeNode {
	variance := actual - target
	return &domain.CostTreeNode{
		ItemID:      id,
		ItemName:    name,
		Level:       level,
		Category:    cat,
		TargetCost:  target,
		ActualCost:  actual,
		Variance:    variance,
		VariancePct: domain.VariancePct(variance, b.denominator),
		SortOrder:   order,
		Children:    []*domain.CostTreeNode{},
	}
}

// aggregate builds a node whose costs are the sums of its children.
func (b builder) aggregate(id, name string, level int, cat domain.Category, order int, children []*domain.CostTreeNode) *domain.CostTreeNode {
	var target, actual float64
	for _, c := range children {
		target += c.TargetCost
		actual += c.ActualCost
	}
	n := b.node(id, name, level, cat, order, target, actual)
	n.Children = children
	return n
}

func (b builder) manufacturing(data *domain.CostSheetData, view domain.View) *domain.CostTreeNode {
	materials := make([]*domain.CostTreeNode, 0, len(data.Materials))
	for i, m := range data.Materials {
		materials = append(materials, b.node(seqID(IDMaterial, i), m.Description, 4,
			domain.CategoryMaterial, i+1, m.TargetCost, m.ActualCost))
	}

	components := make([]*domain.CostTreeNode, 0, len(data.Components))
	for i, c := range data.Components {
		components = append(components, b.node(seqID(IDComponent, i), c.Description, 4,
			domain.CategoryComponent, i+1, c.TargetCost, c.ActualCost))
	}

	return b.aggregate(IDManufacturing, "Manufacturing Cost", 2, domain.CategoryManufacturing, 1,
		[]*domain.CostTreeNode{
			b.aggregate(IDMaterial, "Material Cost", 3, domain.CategoryMaterial, 1, materials),
			b.aggregate(IDComponent, "Purchased Components Cost", 3, domain.CategoryComponent, 2, components),
			b.processing(data.Processes, view),
		})
}

func (b builder) processing(processes []domain.ProcessItem, view domain.View) *domain.CostTreeNode {
	var children []*domain.CostTreeNode
	if view == domain.ViewByType {
		children = b.byType(processes)
	} else {
		children = b.byProcess(processes)
	}
	// PROC totals must not depend on the view's child grouping.
	var target, actual float64
	for _, p := range processes {
		target += p.TargetTotal()
		actual += p.ActualTotal()
	}
	n := b.node(IDProcess, "Processing Cost", 3, domain.CategoryProcess, 3, target, actual)
	n.Children = children
	return n
}

func (b builder) byProcess(processes []domain.ProcessItem) []*domain.CostTreeNode {
	out := make([]*domain.CostTreeNode, 0, len(processes))
	for i, p := range processes {
		id := seqID(IDProcess, i)
		n := b.aggregate(id, p.OperationDesc, 4, domain.CategoryProcess, i+1, []*domain.CostTreeNode{
			b.node(id+"_SETUP", "Setup Cost", 5, domain.CategoryProcessSetup, 1, p.SetupCostTarget, p.SetupCostActual),
			b.node(id+"_LABOR", "Direct Labor Cost", 5, domain.CategoryProcessLabor, 2, p.LaborCostTarget, p.LaborCostActual),
			b.node(id+"_BURDEN", "Burden Cost", 5, domain.CategoryProcessBurden, 3, p.BurdenCostTarget, p.BurdenCostActual),
		})
		n.Metadata = map[string]any{"equipment": p.EquipmentDesc}
		out = append(out, n)
	}
	return out
}

// costType selects one of the three process sub-costs.
type costType struct {
	totalID  string
	leafID   string
	name     string
	category domain.Category
	amounts  func(domain.ProcessItem) (target, actual float64)
}

var costTypes = []costType{
	{IDSetupTotal, "SETUP", "Setup Cost Total", domain.CategoryProcessSetup,
		func(p domain.ProcessItem) (float64, float64) { return p.SetupCostTarget, p.SetupCostActual }},
	{IDLaborTotal, "LABOR", "Direct Labor Cost Total", domain.CategoryProcessLabor,
		func(p domain.ProcessItem) (float64, float64) { return p.LaborCostTarget, p.LaborCostActual }},
	{IDBurdenTotal, "BURDEN", "Burden Cost Total", domain.CategoryProcessBurden,
		func(p domain.ProcessItem) (float64, float64) { return p.BurdenCostTarget, p.BurdenCostActual }},
}

func (b builder) byType(processes []domain.ProcessItem) []*domain.CostTreeNode {
	out := make([]*domain.CostTreeNode, 0, len(costTypes))
	for order, ct := range costTypes {
		leaves := make([]*domain.CostTreeNode, 0, len(processes))
		for i, p := range processes {
			target, actual := ct.amounts(p)
			leaves = append(leaves, b.node(seqID(ct.leafID, i), p.OperationDesc, 5, ct.category, i+1, target, actual))
		}
		out = append(out, b.aggregate(ct.totalID, ct.name, 4, ct.category, order+1, leaves))
	}
	return out
}

func (b builder) allocation(id, name string, cat domain.Category, order int, a domain.AllocationItem) *domain.CostTreeNode {
	n := b.node(id, name, 2, cat, order, a.TotalTarget, a.TotalActual)
	n.Metadata = map[string]any{
		"material_rate":      a.MaterialRate,
		"component_rate":     a.ComponentRate,
		"manufacturing_rate": a.ManufacturingRate,
	}
	return n
}

func (b builder) other(costs []domain.OtherCostItem) *domain.CostTreeNode {
	leaves := make([]*domain.CostTreeNode, 0, len(costs))
	for i, c := range costs {
		leaves = append(leaves, b.node(seqID(IDOther, i), c.CostName, 3, domain.CategoryOther, i+1, c.TargetCost, c.ActualCost))
	}
	return b.aggregate(IDOther, "Other Costs", 2, domain.CategoryOther, 4, leaves)
}

// seqID formats the 1-based sequence id of the i-th repeated item.
func seqID(prefix string, i int) string {
	return fmt.Sprintf("%s_%03d", prefix, i+1)
}

// ProcessID is the by_process item id of the i-th (0-based) process.
func ProcessID(i int) string {
	return seqID(IDProcess, i)
}
