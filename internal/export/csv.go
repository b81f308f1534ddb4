package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	dec "github.com/rezonia/ubl-exchange/internal/decimal"
	"github.com/rezonia/ubl-exchange/internal/model"
)

// csvHeader is the fixed column order of the delimited-text export
var csvHeader = []string{
	"Invoice Number", "UUID", "Issue Date", "Issue Time",
	"Supplier Name", "Supplier Tax ID", "Customer Name", "Customer Tax ID",
	"Currency", "Total Amount", "Tax Amount", "Net Amount", "Status",
}

// CSVRenderer writes one header row plus one summary row per invoice.
// Fields are quoted and escaped per RFC 4180, so company names containing
// commas or newlines cannot corrupt a row.
type CSVRenderer struct{}

// NewCSVRenderer creates the delimited-text renderer
func NewCSVRenderer() *CSVRenderer {
	return &CSVRenderer{}
}

func (r *CSVRenderer) Format() Format { return FormatCSV }
func (r *CSVRenderer) Single() bool   { return false }

func (r *CSVRenderer) Render(ctx context.Context, invoices []*model.Invoice) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	for _, inv := range invoices {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row := []string{
			inv.InvoiceNumber,
			inv.UUID,
			inv.IssueDate.Format("2006-01-02"),
			inv.IssueTime,
			inv.Supplier.CompanyName,
			inv.Supplier.TaxID,
			inv.Customer.CompanyName,
			inv.Customer.TaxID,
			inv.CurrencyCode,
			dec.FormatMoney(inv.TotalAmount),
			dec.FormatMoney(inv.TaxAmount),
			dec.FormatMoney(inv.NetAmount),
			string(inv.Status),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("csv: write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv: flush: %w", err)
	}
	return buf.Bytes(), nil
}
