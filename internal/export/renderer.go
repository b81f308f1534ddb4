package export

import (
	"context"

	"github.com/google/uuid"

	"github.com/rezonia/ubl-exchange/internal/model"
)

// Renderer is a stateless transform from invoice snapshots to bytes.
// Renderers must not mutate the invoices they are given, and multi-record
// renderers poll ctx between records so large exports can be aborted;
// partial output is discarded on cancellation, never returned.
type Renderer interface {
	// Format returns the format the renderer produces
	Format() Format

	// Single reports whether the renderer operates on exactly one invoice
	Single() bool

	// Render projects the invoices into the target format
	Render(ctx context.Context, invoices []*model.Invoice) ([]byte, error)
}

// Repository is the persistence collaborator consumed by the dispatcher.
// Implementations may block on I/O; fetched snapshots are treated as
// immutable for the remainder of the export operation.
type Repository interface {
	// Find returns the invoice with the given record id, or nil if absent
	Find(ctx context.Context, id uuid.UUID) (*model.Invoice, error)

	// Query returns candidate invoices matching the filter
	Query(ctx context.Context, filter model.InvoiceFilter) ([]*model.Invoice, error)
}
