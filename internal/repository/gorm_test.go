package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dec "github.com/rezonia/ubl-exchange/internal/decimal"
	"github.com/rezonia/ubl-exchange/internal/model"
	"github.com/rezonia/ubl-exchange/internal/repository"
)

func openTestStore(t *testing.T) *repository.GormStore {
	t.Helper()
	// A named shared-cache in-memory database keeps the schema alive across
	// the pool's connections while isolating tests from each other.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	store, err := repository.OpenSQLite(dsn)
	require.NoError(t, err)
	return store
}

func persistedInvoice(number string, createdAt time.Time) *model.Invoice {
	inv := storedInvoice(number, createdAt)
	inv.SupplierID = uuid.New()
	inv.CustomerID = uuid.New()
	inv.Supplier = model.Party{CompanyName: "Acme Trading", TaxID: "310000000000003", Email: "billing@acme.example"}
	inv.Customer = model.Party{CompanyName: "Globex", TaxID: "310000000000004"}
	inv.LineCount = 1
	inv.ICV = 9
	inv.DiscountAmount = dec.MustFromString("5.00")
	inv.Lines = []model.InvoiceLine{
		{
			LineNumber: 1, ItemName: "Widget", ItemCode: "SKU-100", BuyerItemID: "BUY-77",
			Quantity: dec.MustFromString("2.000"), UnitCode: "PCE",
			UnitPrice: dec.MustFromString("50.000"), LineTotal: dec.MustFromString("100.00"),
			TaxAmount: dec.MustFromString("15.00"), TaxRate: dec.MustFromString("15.00"),
			TaxCategoryID: "S",
		},
	}
	inv.Taxes = []model.InvoiceTax{
		{
			TaxCategoryID: "S",
			TaxableAmount: dec.MustFromString("100.00"),
			TaxAmount:     dec.MustFromString("15.00"),
			TaxRate:       dec.MustFromString("15.00"),
			TaxSchemeID:   "VAT",
		},
	}
	return inv
}

func TestGormStore_SaveAndFindRoundTrip(t *testing.T) {
	store := openTestStore(t)

	inv := persistedInvoice("INV-G1", time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, store.Save(context.Background(), inv))

	found, err := store.Find(context.Background(), inv.ID)
	require.NoError(t, err)
	require.NotNil(t, found)

	assert.Equal(t, inv.ID, found.ID)
	assert.Equal(t, "INV-G1", found.InvoiceNumber)
	assert.Equal(t, inv.UUID, found.UUID)
	assert.Equal(t, "10:30:00", found.IssueTime)
	assert.Equal(t, "SAR", found.CurrencyCode)
	assert.Equal(t, model.StatusSubmitted, found.Status)
	assert.Equal(t, 9, found.ICV)

	// Decimal columns survive the numeric mapping exactly
	assert.True(t, inv.NetAmount.Equal(found.NetAmount))
	assert.True(t, inv.TaxAmount.Equal(found.TaxAmount))
	assert.True(t, inv.TotalAmount.Equal(found.TotalAmount))
	assert.True(t, inv.DiscountAmount.Equal(found.DiscountAmount))

	assert.Equal(t, inv.SupplierID, found.SupplierID)
	assert.Equal(t, inv.CustomerID, found.CustomerID)
	assert.Equal(t, inv.Supplier, found.Supplier)
	assert.Equal(t, inv.Customer, found.Customer)

	require.Len(t, found.Lines, 1)
	line := found.Lines[0]
	assert.Equal(t, 1, line.LineNumber)
	assert.Equal(t, "Widget", line.ItemName)
	assert.Equal(t, "SKU-100", line.ItemCode)
	assert.Equal(t, "BUY-77", line.BuyerItemID)
	assert.Equal(t, "PCE", line.UnitCode)
	assert.True(t, inv.Lines[0].Quantity.Equal(line.Quantity))
	assert.True(t, inv.Lines[0].UnitPrice.Equal(line.UnitPrice))
	assert.True(t, inv.Lines[0].LineTotal.Equal(line.LineTotal))
	assert.True(t, inv.Lines[0].TaxRate.Equal(line.TaxRate))

	require.Len(t, found.Taxes, 1)
	tax := found.Taxes[0]
	assert.Equal(t, "S", tax.TaxCategoryID)
	assert.Equal(t, "VAT", tax.TaxSchemeID)
	assert.True(t, inv.Taxes[0].TaxableAmount.Equal(tax.TaxableAmount))
	assert.True(t, inv.Taxes[0].TaxAmount.Equal(tax.TaxAmount))
}

func TestGormStore_FindMissing(t *testing.T) {
	store := openTestStore(t)

	found, err := store.Find(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestGormStore_SaveReplacesChildren(t *testing.T) {
	store := openTestStore(t)

	inv := persistedInvoice("INV-G2", time.Now().UTC())
	require.NoError(t, store.Save(context.Background(), inv))

	// Re-save with different children: old rows must not linger
	inv.Status = model.StatusProcessed
	inv.Lines = []model.InvoiceLine{
		{LineNumber: 1, ItemName: "Replacement", Quantity: dec.MustFromString("1.000"),
			UnitCode: "PCE", UnitPrice: dec.MustFromString("100.000"),
			LineTotal: dec.MustFromString("100.00")},
	}
	inv.Taxes = nil
	require.NoError(t, store.Save(context.Background(), inv))

	found, err := store.Find(context.Background(), inv.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, model.StatusProcessed, found.Status)
	require.Len(t, found.Lines, 1)
	assert.Equal(t, "Replacement", found.Lines[0].ItemName)
	assert.Empty(t, found.Taxes)
}

func TestGormStore_QueryOwnerScope(t *testing.T) {
	store := openTestStore(t)
	now := time.Now().UTC()
	owner := uuid.New()

	asSupplier := persistedInvoice("INV-SUP", now)
	asSupplier.SupplierID = owner
	asCustomer := persistedInvoice("INV-CUS", now)
	asCustomer.CustomerID = owner
	unrelated := persistedInvoice("INV-OTHER", now)

	for _, inv := range []*model.Invoice{asSupplier, asCustomer, unrelated} {
		require.NoError(t, store.Save(context.Background(), inv))
	}

	// Owner matches either side of the invoice
	matched, err := store.Query(context.Background(), model.InvoiceFilter{OwnerID: &owner})
	require.NoError(t, err)
	require.Len(t, matched, 2)

	numbers := []string{matched[0].InvoiceNumber, matched[1].InvoiceNumber}
	assert.ElementsMatch(t, []string{"INV-SUP", "INV-CUS"}, numbers)
}

func TestGormStore_QueryFilters(t *testing.T) {
	store := openTestStore(t)
	now := time.Now().UTC()

	approved := persistedInvoice("INV-APPROVED", now)
	approved.Status = model.StatusApproved
	submitted := persistedInvoice("INV-SUBMITTED", now)
	early := persistedInvoice("INV-EARLY", now)
	early.IssueDate = time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC)

	for _, inv := range []*model.Invoice{approved, submitted, early} {
		require.NoError(t, store.Save(context.Background(), inv))
	}

	status := model.StatusApproved
	matched, err := store.Query(context.Background(), model.InvoiceFilter{Status: &status})
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "INV-APPROVED", matched[0].InvoiceNumber)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	matched, err = store.Query(context.Background(), model.InvoiceFilter{StartDate: &start})
	require.NoError(t, err)
	require.Len(t, matched, 2)

	matched, err = store.Query(context.Background(), model.InvoiceFilter{
		InvoiceIDs: []uuid.UUID{early.ID},
	})
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "INV-EARLY", matched[0].InvoiceNumber)
}

func TestGormStore_ListPagination(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		inv := persistedInvoice("INV-"+string(rune('A'+i)), base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, store.Save(context.Background(), inv))
	}

	page1, err := store.List(context.Background(), model.InvoiceFilter{}, 1, 2)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	assert.Equal(t, "INV-E", page1[0].InvoiceNumber)
	assert.Equal(t, "INV-D", page1[1].InvoiceNumber)

	page3, err := store.List(context.Background(), model.InvoiceFilter{}, 3, 2)
	require.NoError(t, err)
	require.Len(t, page3, 1)
	assert.Equal(t, "INV-A", page3[0].InvoiceNumber)
}
