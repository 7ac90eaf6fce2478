// Package pdf renders the stock valuation report with Maroto v2.
//
// A4 layout:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Report title  │  Generated date                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLE: Variant | Lot | Received | Qty | Avail | Cost | Val  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALS: Units on hand / Stock value                         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/avelar-dev/lotstock-api/internal/application/reporting"
)

var (
	colorPrimary = &props.Color{Red: 15, Green: 76, Blue: 58}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// MarotoReportGenerator implements reporting.Generator using Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator builds the generator.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GenerateStockReport renders the report and returns its bytes.
func (g *MarotoReportGenerator) GenerateStockReport(
	_ context.Context,
	report *reporting.StockReport,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Stock Valuation Report", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableRows(report) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(report))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate document: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(report *reporting.StockReport) core.Row {
	return row.New(14).Add(
		col.New(8).Add(
			text.New("STOCK VALUATION", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("All lots with remaining availability and cost", props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generated: "+report.GeneratedAt.Format("02 Jan 2006"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New("Currency: "+report.Currency, props.Text{
				Size: 8, Align: align.Right, Top: 7, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Variant", 3, align.Left),
		h("Lot", 2, align.Left),
		h("Received", 2, align.Center),
		h("Qty", 1, align.Right),
		h("Avail.", 1, align.Right),
		h("Unit Cost", 1, align.Right),
		h("Value", 2, align.Right),
	)
}

func tableRows(report *reporting.StockReport) []core.Row {
	result := make([]core.Row, 0, len(report.Rows))
	for _, r := range report.Rows {
		received := "—"
		if r.ReceivedDate != nil {
			received = r.ReceivedDate.Format("02/01/2006")
		}
		unitCost, value := "—", "—"
		if r.CostDefined {
			unitCost = r.UnitCost.StringFixed(2)
			value = r.Value.StringFixed(2)
		}
		result = append(result, row.New(7).Add(
			col.New(3).Add(text.New(r.VariantID, props.Text{
				Size: 8, Align: align.Left, Top: 1, Left: 1,
			})),
			col.New(2).Add(text.New(r.LotNumber, props.Text{
				Size: 8, Align: align.Left, Top: 1, Left: 1,
			})),
			col.New(2).Add(text.New(received, props.Text{
				Size: 8, Align: align.Center, Top: 1,
			})),
			col.New(1).Add(text.New(fmt.Sprintf("%d", r.Quantity), props.Text{
				Size: 8, Align: align.Right, Top: 1, Right: 1,
			})),
			col.New(1).Add(text.New(fmt.Sprintf("%d", r.Available), props.Text{
				Size: 8, Align: align.Right, Top: 1, Right: 1,
			})),
			col.New(1).Add(text.New(unitCost, props.Text{
				Size: 8, Align: align.Right, Top: 1, Right: 1,
			})),
			col.New(2).Add(text.New(value, props.Text{
				Size: 8, Align: align.Right, Top: 1, Right: 1,
			})),
		))
	}
	return result
}

func totalsRow(report *reporting.StockReport) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})
	}
	return row.New(18).Add(
		col.New(6),
		col.New(3).Add(
			label("Units on hand:"),
			grandLabel("STOCK VALUE:"),
		),
		col.New(3).Add(
			text.New(fmt.Sprintf("%d", report.TotalUnits), props.Text{
				Size: 9, Align: align.Right, Right: 1,
			}),
			text.New(report.TotalValue.StringFixed(2), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Right: 1,
			}),
		),
	)
}
