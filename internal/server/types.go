package server

import (
	"time"

	"github.com/google/uuid"

	"github.com/rezonia/ubl-exchange/internal/model"
)

// ExportRequest is the body of the batch export endpoint
type ExportRequest struct {
	Format     string      `json:"format" binding:"required"`
	StartDate  *time.Time  `json:"startDate"`
	EndDate    *time.Time  `json:"endDate"`
	Status     *string     `json:"status"`
	SupplierID *uuid.UUID  `json:"supplierId"`
	CustomerID *uuid.UUID  `json:"customerId"`
	InvoiceIDs []uuid.UUID `json:"invoiceIds"`
}

// StatusUpdateRequest is the body of the status transition endpoint
type StatusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

// InvoiceResponse wraps a stored invoice
type InvoiceResponse struct {
	Invoice *model.Invoice `json:"invoice"`
}

// InvoiceListResponse is the paginated listing response
type InvoiceListResponse struct {
	Invoices []*model.Invoice `json:"invoices"`
	Page     int              `json:"page"`
	PageSize int              `json:"pageSize"`
}

// ErrorResponse is the standard error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
