package export_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/ubl-exchange/internal/export"
	"github.com/rezonia/ubl-exchange/internal/model"
)

func TestPDFRenderer_ProducesDocument(t *testing.T) {
	renderer := export.NewPDFRenderer()

	data, err := renderer.Render(context.Background(), []*model.Invoice{
		exportInvoice("INV-PDF", time.Now().UTC()),
	})
	require.NoError(t, err)

	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestPDFRenderer_IsSingleRecord(t *testing.T) {
	renderer := export.NewPDFRenderer()
	assert.True(t, renderer.Single())
	assert.Equal(t, export.FormatPDF, renderer.Format())
}

func TestPDFRenderer_ManyLines(t *testing.T) {
	renderer := export.NewPDFRenderer()

	inv := exportInvoice("INV-LONG", time.Now().UTC())
	for i := 2; i <= 60; i++ {
		line := inv.Lines[0]
		line.LineNumber = i
		inv.Lines = append(inv.Lines, line)
	}

	// Spilling over one page must not fail
	data, err := renderer.Render(context.Background(), []*model.Invoice{inv})
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
