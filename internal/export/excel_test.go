package export_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/rezonia/ubl-exchange/internal/export"
	"github.com/rezonia/ubl-exchange/internal/model"
)

func openWorkbook(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestExcelRenderer_Sheets(t *testing.T) {
	renderer := export.NewExcelRenderer(export.DefaultExcelOptions())

	invoices := []*model.Invoice{
		exportInvoice("INV-1", time.Now().UTC()),
		exportInvoice("INV-2", time.Now().UTC()),
	}

	data, err := renderer.Render(context.Background(), invoices)
	require.NoError(t, err)

	f := openWorkbook(t, data)
	assert.ElementsMatch(t, []string{"Invoice Summary", "Invoice Lines", "Tax Details"}, f.GetSheetList())

	summary, err := f.GetRows("Invoice Summary")
	require.NoError(t, err)
	require.Len(t, summary, 3, "header plus one row per invoice")
	assert.Equal(t, "Invoice Number", summary[0][0])
	assert.Equal(t, "INV-1", summary[1][0])
	assert.Equal(t, "Acme Trading", summary[1][3])
	assert.Equal(t, "Submitted", summary[1][7])
	assert.Equal(t, "INV-2", summary[2][0])

	lines, err := f.GetRows("Invoice Lines")
	require.NoError(t, err)
	require.Len(t, lines, 3, "header plus one row per line item")
	assert.Equal(t, "Widget", lines[1][2])

	taxes, err := f.GetRows("Tax Details")
	require.NoError(t, err)
	require.Len(t, taxes, 3, "header plus one row per tax entry")
	assert.Equal(t, "S", taxes[1][1])
}

func TestExcelRenderer_MultiLineInvoice(t *testing.T) {
	renderer := export.NewExcelRenderer(export.DefaultExcelOptions())

	inv := exportInvoice("INV-ML", time.Now().UTC())
	inv.Lines = append(inv.Lines, model.InvoiceLine{
		LineNumber: 2, ItemName: "Gadget",
		Quantity: inv.Lines[0].Quantity, UnitCode: "PCE",
		UnitPrice: inv.Lines[0].UnitPrice, LineTotal: inv.Lines[0].LineTotal,
	})

	data, err := renderer.Render(context.Background(), []*model.Invoice{inv})
	require.NoError(t, err)

	f := openWorkbook(t, data)
	lines, err := f.GetRows("Invoice Lines")
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, "Widget", lines[1][2])
	assert.Equal(t, "Gadget", lines[2][2])
}

func TestExcelRenderer_EmptySet(t *testing.T) {
	renderer := export.NewExcelRenderer(export.DefaultExcelOptions())

	data, err := renderer.Render(context.Background(), nil)
	require.NoError(t, err)

	f := openWorkbook(t, data)
	for _, sheet := range []string{"Invoice Summary", "Invoice Lines", "Tax Details"} {
		rows, err := f.GetRows(sheet)
		require.NoError(t, err)
		assert.Len(t, rows, 1, "%s keeps its header", sheet)
	}
}

func TestExcelRenderer_CustomOptions(t *testing.T) {
	renderer := export.NewExcelRenderer(export.ExcelOptions{HeaderFill: "FFCC00", ColumnWidth: 25})

	data, err := renderer.Render(context.Background(), []*model.Invoice{exportInvoice("INV-C", time.Now().UTC())})
	require.NoError(t, err)

	f := openWorkbook(t, data)
	width, err := f.GetColWidth("Invoice Summary", "A")
	require.NoError(t, err)
	assert.InDelta(t, 25, width, 0.01)
}
