package model

import (
	"time"

	"github.com/google/uuid"
)

// InvoiceFilter selects invoices for querying and export. All set fields
// compose conjunctively; nil fields are unrestricted.
type InvoiceFilter struct {
	// OwnerID restricts to invoices where the owner is supplier or customer
	OwnerID *uuid.UUID

	// Inclusive issue-date range
	StartDate *time.Time
	EndDate   *time.Time

	Status     *InvoiceStatus
	SupplierID *uuid.UUID
	CustomerID *uuid.UUID

	// Explicit allow-list of invoice record ids
	InvoiceIDs []uuid.UUID
}

// Matches reports whether inv satisfies every set criterion
func (f InvoiceFilter) Matches(inv *Invoice) bool {
	if f.OwnerID != nil && inv.SupplierID != *f.OwnerID && inv.CustomerID != *f.OwnerID {
		return false
	}
	if f.StartDate != nil && inv.IssueDate.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && inv.IssueDate.After(*f.EndDate) {
		return false
	}
	if f.Status != nil && inv.Status != *f.Status {
		return false
	}
	if f.SupplierID != nil && inv.SupplierID != *f.SupplierID {
		return false
	}
	if f.CustomerID != nil && inv.CustomerID != *f.CustomerID {
		return false
	}
	if len(f.InvoiceIDs) > 0 {
		found := false
		for _, id := range f.InvoiceIDs {
			if id == inv.ID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
