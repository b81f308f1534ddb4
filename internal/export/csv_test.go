package export_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/ubl-exchange/internal/export"
	"github.com/rezonia/ubl-exchange/internal/model"
)

func TestCSVRenderer_Rows(t *testing.T) {
	renderer := export.NewCSVRenderer()

	a := exportInvoice("INV-A", time.Now().UTC())
	b := exportInvoice("INV-B", time.Now().UTC())

	data, err := renderer.Render(context.Background(), []*model.Invoice{a, b})
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	header := records[0]
	assert.Equal(t, []string{
		"Invoice Number", "UUID", "Issue Date", "Issue Time",
		"Supplier Name", "Supplier Tax ID", "Customer Name", "Customer Tax ID",
		"Currency", "Total Amount", "Tax Amount", "Net Amount", "Status",
	}, header)

	row := records[1]
	assert.Equal(t, "INV-A", row[0])
	assert.Equal(t, a.UUID, row[1])
	assert.Equal(t, "2024-03-15", row[2])
	assert.Equal(t, "10:30:00", row[3])
	assert.Equal(t, "Acme Trading", row[4])
	assert.Equal(t, "SAR", row[8])
	assert.Equal(t, "126.50", row[9])
	assert.Equal(t, "16.50", row[10])
	assert.Equal(t, "110.00", row[11])
	assert.Equal(t, "Submitted", row[12])
}

func TestCSVRenderer_QuotesEmbeddedDelimiters(t *testing.T) {
	renderer := export.NewCSVRenderer()

	inv := exportInvoice("INV-Q", time.Now().UTC())
	inv.Supplier.CompanyName = `Smith, Jones & "Partners"`

	data, err := renderer.Render(context.Background(), []*model.Invoice{inv})
	require.NoError(t, err)

	// The embedded comma and quotes survive a standards-conforming reader
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, `Smith, Jones & "Partners"`, records[1][4])

	// And the raw bytes show the field was quoted, not split
	assert.Contains(t, string(data), `"Smith, Jones & ""Partners"""`)
}

func TestCSVRenderer_EmptySet(t *testing.T) {
	data, err := export.NewCSVRenderer().Render(context.Background(), nil)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1, "header only")
}
