package export

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/rezonia/ubl-exchange/internal/model"
)

// Sheet names of the spreadsheet export
const (
	sheetSummary = "Invoice Summary"
	sheetLines   = "Invoice Lines"
	sheetTaxes   = "Tax Details"
)

var (
	summaryHeader = []interface{}{"Invoice Number", "UUID", "Issue Date", "Supplier", "Customer", "Total Amount", "Tax Amount", "Status"}
	linesHeader   = []interface{}{"Invoice Number", "Line Number", "Item Name", "Quantity", "Unit Price", "Line Total", "Tax Amount"}
	taxesHeader   = []interface{}{"Invoice Number", "Tax Category", "Taxable Amount", "Tax Amount", "Tax Rate"}
)

// ExcelOptions configures the spreadsheet renderer at construction time.
// There is no process-global state: two renderers with different options can
// coexist.
type ExcelOptions struct {
	// HeaderFill is the header row background color as an RGB hex string
	HeaderFill string
	// ColumnWidth is the fixed width applied to data columns
	ColumnWidth float64
}

// DefaultExcelOptions returns the default spreadsheet options
func DefaultExcelOptions() ExcelOptions {
	return ExcelOptions{HeaderFill: "D9D9D9", ColumnWidth: 18}
}

// ExcelRenderer writes a three-sheet workbook: one summary row per invoice,
// one row per line item across all invoices, one row per tax entry across
// all invoices. Zero records still produce the three sheets with headers.
type ExcelRenderer struct {
	opts ExcelOptions
}

// NewExcelRenderer creates the spreadsheet renderer
func NewExcelRenderer(opts ExcelOptions) *ExcelRenderer {
	return &ExcelRenderer{opts: opts}
}

func (r *ExcelRenderer) Format() Format { return FormatExcel }
func (r *ExcelRenderer) Single() bool   { return false }

func (r *ExcelRenderer) Render(ctx context.Context, invoices []*model.Invoice) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{r.opts.HeaderFill}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("excel: header style: %w", err)
	}

	if err := r.writeSummarySheet(ctx, f, headerStyle, invoices); err != nil {
		return nil, err
	}
	if err := r.writeLinesSheet(ctx, f, headerStyle, invoices); err != nil {
		return nil, err
	}
	if err := r.writeTaxesSheet(ctx, f, headerStyle, invoices); err != nil {
		return nil, err
	}

	// Drop the implicit default sheet
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("excel: delete default sheet: %w", err)
	}
	idx, err := f.GetSheetIndex(sheetSummary)
	if err != nil {
		return nil, fmt.Errorf("excel: sheet index: %w", err)
	}
	f.SetActiveSheet(idx)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel: write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *ExcelRenderer) newSheet(f *excelize.File, name string, style int, header []interface{}) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("excel: create sheet %s: %w", name, err)
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("excel: write header of %s: %w", name, err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return fmt.Errorf("excel: header range of %s: %w", name, err)
	}
	if err := f.SetCellStyle(name, "A1", last, style); err != nil {
		return fmt.Errorf("excel: style header of %s: %w", name, err)
	}
	endCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return fmt.Errorf("excel: column name of %s: %w", name, err)
	}
	if err := f.SetColWidth(name, "A", endCol, r.opts.ColumnWidth); err != nil {
		return fmt.Errorf("excel: column width of %s: %w", name, err)
	}
	return nil
}

func (r *ExcelRenderer) writeSummarySheet(ctx context.Context, f *excelize.File, style int, invoices []*model.Invoice) error {
	if err := r.newSheet(f, sheetSummary, style, summaryHeader); err != nil {
		return err
	}
	for i, inv := range invoices {
		if err := ctx.Err(); err != nil {
			return err
		}
		row := []interface{}{
			inv.InvoiceNumber,
			inv.UUID,
			inv.IssueDate.Format("2006-01-02"),
			inv.Supplier.CompanyName,
			inv.Customer.CompanyName,
			inv.TotalAmount.InexactFloat64(),
			inv.TaxAmount.InexactFloat64(),
			string(inv.Status),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("excel: summary cell: %w", err)
		}
		if err := f.SetSheetRow(sheetSummary, cell, &row); err != nil {
			return fmt.Errorf("excel: summary row: %w", err)
		}
	}
	return nil
}

func (r *ExcelRenderer) writeLinesSheet(ctx context.Context, f *excelize.File, style int, invoices []*model.Invoice) error {
	if err := r.newSheet(f, sheetLines, style, linesHeader); err != nil {
		return err
	}
	rowNum := 2
	for _, inv := range invoices {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, line := range inv.Lines {
			row := []interface{}{
				inv.InvoiceNumber,
				line.LineNumber,
				line.ItemName,
				line.Quantity.InexactFloat64(),
				line.UnitPrice.InexactFloat64(),
				line.LineTotal.InexactFloat64(),
				line.TaxAmount.InexactFloat64(),
			}
			cell, err := excelize.CoordinatesToCellName(1, rowNum)
			if err != nil {
				return fmt.Errorf("excel: lines cell: %w", err)
			}
			if err := f.SetSheetRow(sheetLines, cell, &row); err != nil {
				return fmt.Errorf("excel: lines row: %w", err)
			}
			rowNum++
		}
	}
	return nil
}

func (r *ExcelRenderer) writeTaxesSheet(ctx context.Context, f *excelize.File, style int, invoices []*model.Invoice) error {
	if err := r.newSheet(f, sheetTaxes, style, taxesHeader); err != nil {
		return err
	}
	rowNum := 2
	for _, inv := range invoices {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, tax := range inv.Taxes {
			row := []interface{}{
				inv.InvoiceNumber,
				tax.TaxCategoryID,
				tax.TaxableAmount.InexactFloat64(),
				tax.TaxAmount.InexactFloat64(),
				tax.TaxRate.InexactFloat64(),
			}
			cell, err := excelize.CoordinatesToCellName(1, rowNum)
			if err != nil {
				return fmt.Errorf("excel: taxes cell: %w", err)
			}
			if err := f.SetSheetRow(sheetTaxes, cell, &row); err != nil {
				return fmt.Errorf("excel: taxes row: %w", err)
			}
			rowNum++
		}
	}
	return nil
}
