package export

import (
	"context"
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	dec "github.com/rezonia/ubl-exchange/internal/decimal"
	"github.com/rezonia/ubl-exchange/internal/model"
)

// PDFRenderer produces the printable document representation of a single
// invoice: header, party blocks, line table and totals. Exact visual layout
// is an opaque rendering contract; the data on the page is what matters.
type PDFRenderer struct{}

// NewPDFRenderer creates the document renderer
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

func (r *PDFRenderer) Format() Format { return FormatPDF }
func (r *PDFRenderer) Single() bool   { return true }

func (r *PDFRenderer) Render(ctx context.Context, invoices []*model.Invoice) ([]byte, error) {
	inv := invoices[0]

	m := maroto.New(config.NewBuilder().WithLeftMargin(15).WithRightMargin(15).Build())
	m.AddRows(r.headerRows(inv)...)
	m.AddRows(r.partyRows(inv)...)
	m.AddRows(r.lineRows(inv)...)
	m.AddRows(r.totalRows(inv)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate document: %w", err)
	}
	return doc.GetBytes(), nil
}

func (r *PDFRenderer) headerRows(inv *model.Invoice) []core.Row {
	return []core.Row{
		row.New(12).Add(
			text.NewCol(12, "INVOICE", props.Text{Size: 18, Style: fontstyle.Bold, Align: align.Center}),
		),
		row.New(8).Add(
			text.NewCol(12, inv.InvoiceNumber, props.Text{Size: 12, Align: align.Center}),
		),
		row.New(5).Add(
			text.NewCol(4, "Date: "+inv.IssueDate.Format("2006-01-02"), props.Text{Size: 9}),
			text.NewCol(4, "Time: "+inv.IssueTime, props.Text{Size: 9}),
			text.NewCol(4, "Currency: "+inv.CurrencyCode, props.Text{Size: 9}),
		),
		row.New(5).Add(
			text.NewCol(12, "UUID: "+inv.UUID, props.Text{Size: 9}),
		),
		row.New(4).Add(line.NewCol(12)),
	}
}

func (r *PDFRenderer) partyRows(inv *model.Invoice) []core.Row {
	return []core.Row{
		row.New(6).Add(
			text.NewCol(6, "Supplier", props.Text{Size: 11, Style: fontstyle.Bold}),
			text.NewCol(6, "Customer", props.Text{Size: 11, Style: fontstyle.Bold}),
		),
		row.New(5).Add(
			text.NewCol(6, inv.Supplier.CompanyName, props.Text{Size: 9}),
			text.NewCol(6, inv.Customer.CompanyName, props.Text{Size: 9}),
		),
		row.New(5).Add(
			text.NewCol(6, "Tax ID: "+inv.Supplier.TaxID, props.Text{Size: 9}),
			text.NewCol(6, "Tax ID: "+inv.Customer.TaxID, props.Text{Size: 9}),
		),
		row.New(4).Add(line.NewCol(12)),
	}
}

func (r *PDFRenderer) lineRows(inv *model.Invoice) []core.Row {
	rows := []core.Row{
		row.New(6).Add(
			text.NewCol(5, "Item", props.Text{Size: 9, Style: fontstyle.Bold}),
			text.NewCol(2, "Quantity", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
			text.NewCol(2, "Unit Price", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
			text.NewCol(3, "Total", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
		),
	}
	for _, l := range inv.Lines {
		rows = append(rows, row.New(5).Add(
			text.NewCol(5, l.ItemName, props.Text{Size: 9}),
			text.NewCol(2, dec.FormatQuantity(l.Quantity)+" "+l.UnitCode, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, dec.FormatQuantity(l.UnitPrice), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(3, dec.FormatMoney(l.LineTotal), props.Text{Size: 9, Align: align.Right}),
		))
	}
	rows = append(rows, row.New(4).Add(line.NewCol(12)))
	return rows
}

func (r *PDFRenderer) totalRows(inv *model.Invoice) []core.Row {
	cur := " " + inv.CurrencyCode
	return []core.Row{
		row.New(5).Add(
			text.NewCol(12, "Net Amount: "+dec.FormatMoney(inv.NetAmount)+cur, props.Text{Size: 10, Align: align.Right}),
		),
		row.New(5).Add(
			text.NewCol(12, "Tax Amount: "+dec.FormatMoney(inv.TaxAmount)+cur, props.Text{Size: 10, Align: align.Right}),
		),
		row.New(6).Add(
			text.NewCol(12, "Total Amount: "+dec.FormatMoney(inv.TotalAmount)+cur, props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Right}),
		),
	}
}
