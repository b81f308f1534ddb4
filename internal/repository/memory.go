// Package repository provides the persistence collaborators behind the
// export dispatcher: an in-memory store used by the CLI and tests, and a
// GORM-backed store for the server.
package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/rezonia/ubl-exchange/internal/model"
)

// MemoryStore is a concurrency-safe in-memory invoice store
type MemoryStore struct {
	mu       sync.RWMutex
	invoices map[uuid.UUID]*model.Invoice
	order    []uuid.UUID // insertion order, the sort tie-breaker
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{invoices: make(map[uuid.UUID]*model.Invoice)}
}

// Save inserts or replaces an invoice
func (s *MemoryStore) Save(ctx context.Context, inv *model.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.invoices[inv.ID]; !exists {
		s.order = append(s.order, inv.ID)
	}
	s.invoices[inv.ID] = inv
	return nil
}

// Find returns the invoice with the given id, or nil if absent
func (s *MemoryStore) Find(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.invoices[id], nil
}

// Query returns all invoices matching the filter, in insertion order
func (s *MemoryStore) Query(ctx context.Context, filter model.InvoiceFilter) ([]*model.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*model.Invoice
	for _, id := range s.order {
		if inv := s.invoices[id]; filter.Matches(inv) {
			out = append(out, inv)
		}
	}
	return out, nil
}

// List returns a page of invoices sorted by creation time descending
func (s *MemoryStore) List(ctx context.Context, filter model.InvoiceFilter, page, pageSize int) ([]*model.Invoice, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	matched, err := s.Query(ctx, filter)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	start := (page - 1) * pageSize
	if start >= len(matched) {
		return nil, nil
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], nil
}
