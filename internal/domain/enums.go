package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidView is returned by ParseView for anything other than the two
// supported groupings.
var ErrInvalidView = errors.New("invalid view")

// View selects how the processing subtree is grouped.
type View string

const (
	ViewByProcess View = "by_process"
	ViewByType    View = "by_type"
)

// AllViews returns every view in the order they are built and persisted.
func AllViews() []View {
	return []View{ViewByProcess, ViewByType}
}

// ParseView validates a view name. An empty string selects by_process.
func ParseView(s string) (View, error) {
	switch View(s) {
	case "":
		return ViewByProcess, nil
	case ViewByProcess, ViewByType:
		return View(s), nil
	default:
		return "", fmt.Errorf("%w: %q (want by_process or by_type)", ErrInvalidView, s)
	}
}

// Category tags a cost tree node with the cost family it belongs to.
type Category string

const (
	CategoryRoot          Category = "Root"
	CategoryManufacturing Category = "Manufacturing"
	CategoryMaterial      Category = "Material"
	CategoryComponent     Category = "Component"
	CategoryProcess       Category = "Process"
	CategoryProcessSetup  Category = "ProcessSetup"
	CategoryProcessLabor  Category = "ProcessLabor"
	CategoryProcessBurden Category = "ProcessBurden"
	CategorySGA           Category = "SGA"
	CategoryProfit        Category = "Profit"
	CategoryOther         Category = "Other"
)
