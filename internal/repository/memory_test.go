package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dec "github.com/rezonia/ubl-exchange/internal/decimal"
	"github.com/rezonia/ubl-exchange/internal/model"
	"github.com/rezonia/ubl-exchange/internal/repository"
)

func storedInvoice(number string, createdAt time.Time) *model.Invoice {
	return &model.Invoice{
		ID:              uuid.New(),
		InvoiceNumber:   number,
		UUID:            uuid.NewString(),
		IssueDate:       time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		IssueTime:       "10:30:00",
		InvoiceTypeCode: "388",
		CurrencyCode:    "SAR",
		LineCount:       0,
		Status:          model.StatusSubmitted,
		NetAmount:       dec.MustFromString("100.00"),
		TaxAmount:       dec.MustFromString("15.00"),
		TotalAmount:     dec.MustFromString("115.00"),
		CreatedAt:       createdAt,
	}
}

func TestMemoryStore_SaveAndFind(t *testing.T) {
	store := repository.NewMemoryStore()
	inv := storedInvoice("INV-1", time.Now().UTC())

	require.NoError(t, store.Save(context.Background(), inv))

	found, err := store.Find(context.Background(), inv.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "INV-1", found.InvoiceNumber)
}

func TestMemoryStore_FindMissing(t *testing.T) {
	store := repository.NewMemoryStore()

	found, err := store.Find(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestMemoryStore_SaveReplaces(t *testing.T) {
	store := repository.NewMemoryStore()
	inv := storedInvoice("INV-1", time.Now().UTC())
	require.NoError(t, store.Save(context.Background(), inv))

	inv.Status = model.StatusApproved
	require.NoError(t, store.Save(context.Background(), inv))

	all, err := store.Query(context.Background(), model.InvoiceFilter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, model.StatusApproved, all[0].Status)
}

func TestMemoryStore_QueryFilter(t *testing.T) {
	store := repository.NewMemoryStore()
	now := time.Now().UTC()

	approved := storedInvoice("INV-A", now)
	approved.Status = model.StatusApproved
	require.NoError(t, store.Save(context.Background(), approved))
	require.NoError(t, store.Save(context.Background(), storedInvoice("INV-B", now)))

	status := model.StatusApproved
	matched, err := store.Query(context.Background(), model.InvoiceFilter{Status: &status})
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "INV-A", matched[0].InvoiceNumber)
}

func TestMemoryStore_ListPagination(t *testing.T) {
	store := repository.NewMemoryStore()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		inv := storedInvoice("INV-"+string(rune('A'+i)), base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, store.Save(context.Background(), inv))
	}

	// Newest first, scoped to the page
	page1, err := store.List(context.Background(), model.InvoiceFilter{}, 1, 2)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	assert.Equal(t, "INV-E", page1[0].InvoiceNumber)
	assert.Equal(t, "INV-D", page1[1].InvoiceNumber)

	page3, err := store.List(context.Background(), model.InvoiceFilter{}, 3, 2)
	require.NoError(t, err)
	require.Len(t, page3, 1)
	assert.Equal(t, "INV-A", page3[0].InvoiceNumber)

	empty, err := store.List(context.Background(), model.InvoiceFilter{}, 4, 2)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	store := repository.NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			inv := storedInvoice("INV-X", time.Now().UTC())
			_ = store.Save(context.Background(), inv)
			_, _ = store.Query(context.Background(), model.InvoiceFilter{})
		}()
	}
	wg.Wait()

	all, err := store.Query(context.Background(), model.InvoiceFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 20)
}
