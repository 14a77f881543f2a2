package exporter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/costvar/internal/domain"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// ErrNoSession is returned when a PDF is requested without a session.
var ErrNoSession = errors.New("no session to render")

var (
	greyText    = &props.Color{Red: 100, Green: 100, Blue: 100}
	overrunText = &props.Color{Red: 176, Green: 42, Blue: 55}
	savingText  = &props.Color{Red: 25, Green: 135, Blue: 84}
	headerBg    = &props.Color{Red: 33, Green: 37, Blue: 41}
	sectionBg   = &props.Color{Red: 245, Green: 243, Blue: 239}
)

// RenderPDF renders session and its tree for view as an A4 report.
func RenderPDF(session *domain.Session, view domain.View, tree *domain.CostTreeNode) ([]byte, error) {
	if session == nil {
		return nil, ErrNoSession
	}

	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   greyText,
		}).
		Build()

	m := maroto.New(cfg)

	addHeader(m, session, view)
	addKPIs(m, session)
	if tree != nil {
		addTreeTable(m, tree)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate variance pdf: %w", err)
	}
	return doc.GetBytes(), nil
}

func addHeader(m core.Maroto, s *domain.Session, view domain.View) {
	m.AddRows(
		row.New(10).Add(
			col.New(8).Add(text.New("Cost Variance Report", props.Text{
				Size:  14,
				Style: fontstyle.Bold,
				Align: align.Left,
			})),
			col.New(4).Add(text.New(string(view), props.Text{
				Size:  9,
				Align: align.Right,
				Color: greyText,
			})),
		),
	)

	part := s.PartNumber
	if s.PartDescription != "" {
		part += " - " + s.PartDescription
	}
	m.AddRows(
		row.New(7).Add(
			col.New(8).Add(text.New(part, props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Left})),
			col.New(4).Add(text.New(s.UploadTime.UTC().Format("2006-01-02 15:04"), props.Text{
				Size:  8,
				Align: align.Right,
				Color: greyText,
			})),
		),
		row.New(6).Add(
			col.New(12).Add(text.New("Supplier: "+s.SupplierName, props.Text{Size: 8, Align: align.Left})),
		),
		row.New(3),
	)
}

func addKPIs(m core.Maroto, s *domain.Session) {
	label := props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Center, Color: greyText}
	value := props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Center}
	gap := value
	gap.Color = varianceColor(s.TotalVariance)
	cell := &props.Cell{BackgroundColor: sectionBg}

	m.AddRows(
		row.New(6).Add(
			col.New(3).Add(text.New("TARGET PRICE", label)).WithStyle(cell),
			col.New(3).Add(text.New("SUPPLIER PRICE", label)).WithStyle(cell),
			col.New(3).Add(text.New("VARIANCE", label)).WithStyle(cell),
			col.New(3).Add(text.New("VARIANCE %", label)).WithStyle(cell),
		),
		row.New(8).Add(
			col.New(3).Add(text.New(amount(s.TargetPrice, s.Currency), value)),
			col.New(3).Add(text.New(amount(s.SupplierPrice, s.Currency), value)),
			col.New(3).Add(text.New(fmt.Sprintf("%+.2f", s.TotalVariance), gap)),
			col.New(3).Add(text.New(fmt.Sprintf("%+.1f%%", s.VariancePct), gap)),
		),
		row.New(4),
	)
}

func addTreeTable(m core.Maroto, tree *domain.CostTreeNode) {
	head := props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Right, Color: &props.Color{Red: 255, Green: 255, Blue: 255}}
	headLeft := head
	headLeft.Align = align.Left
	headCell := &props.Cell{BackgroundColor: headerBg}

	m.AddRows(row.New(7).Add(
		col.New(2).Add(text.New("Item", headLeft)).WithStyle(headCell),
		col.New(4).Add(text.New("Name", headLeft)).WithStyle(headCell),
		col.New(2).Add(text.New("Target", head)).WithStyle(headCell),
		col.New(2).Add(text.New("Actual", head)).WithStyle(headCell),
		col.New(1).Add(text.New("Var", head)).WithStyle(headCell),
		col.New(1).Add(text.New("Var %", head)).WithStyle(headCell),
	))

	var rows []core.Row
	tree.Walk(func(n, _ *domain.CostTreeNode) bool {
		rows = append(rows, treeRow(n))
		return true
	})
	m.AddRows(rows...)
}

func treeRow(n *domain.CostTreeNode) core.Row {
	left := props.Text{Size: 7, Align: align.Left}
	right := props.Text{Size: 7, Align: align.Right}
	if n.Level <= 2 {
		left.Style = fontstyle.Bold
		right.Style = fontstyle.Bold
	}
	delta := right
	delta.Color = varianceColor(n.Variance)

	cols := []core.Col{
		col.New(2).Add(text.New(n.ItemID, left)),
		col.New(4).Add(text.New(strings.Repeat("   ", n.Level-1)+n.ItemName, left)),
		col.New(2).Add(text.New(fmt.Sprintf("%.2f", n.TargetCost), right)),
		col.New(2).Add(text.New(fmt.Sprintf("%.2f", n.ActualCost), right)),
		col.New(1).Add(text.New(fmt.Sprintf("%+.2f", n.Variance), delta)),
		col.New(1).Add(text.New(fmt.Sprintf("%+.1f", n.VariancePct), delta)),
	}
	if n.Level <= 2 {
		cell := &props.Cell{BackgroundColor: sectionBg}
		for i := range cols {
			cols[i] = cols[i].WithStyle(cell)
		}
	}
	return row.New(5).Add(cols...)
}

func varianceColor(v float64) *props.Color {
	switch {
	case v > 0:
		return overrunText
	case v < 0:
		return savingText
	default:
		return nil
	}
}

func amount(v float64, currency string) string {
	if currency == "" {
		return fmt.Sprintf("%.2f", v)
	}
	return fmt.Sprintf("%.2f %s", v, currency)
}
