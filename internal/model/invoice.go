// Package model defines the canonical invoice representation shared by the
// UBL codec, the export engine, and the persistence collaborators.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	dec "github.com/rezonia/ubl-exchange/internal/decimal"
)

// InvoiceStatus represents the lifecycle state of an invoice
type InvoiceStatus string

const (
	StatusDraft     InvoiceStatus = "Draft"
	StatusSubmitted InvoiceStatus = "Submitted"
	StatusProcessed InvoiceStatus = "Processed"
	StatusApproved  InvoiceStatus = "Approved"
	StatusRejected  InvoiceStatus = "Rejected"
	StatusArchived  InvoiceStatus = "Archived"
)

// statusTransitions lists the allowed lifecycle moves. An invoice is only
// ever mutated through these transitions, never by re-decoding.
var statusTransitions = map[InvoiceStatus][]InvoiceStatus{
	StatusDraft:     {StatusSubmitted},
	StatusSubmitted: {StatusProcessed, StatusRejected},
	StatusProcessed: {StatusApproved, StatusRejected},
	StatusApproved:  {StatusArchived},
	StatusRejected:  {StatusArchived},
	StatusArchived:  {},
}

// Valid reports whether s is a known lifecycle state
func (s InvoiceStatus) Valid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// CanTransition reports whether the move from s to next is allowed
func (s InvoiceStatus) CanTransition(next InvoiceStatus) bool {
	for _, t := range statusTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Invoice is the canonical in-memory invoice. The export path treats it as a
// read-only snapshot; ownership of lines and taxes is by value, parties are
// referenced by id with a value snapshot for rendering.
type Invoice struct {
	ID uuid.UUID `json:"id"`

	// Header
	InvoiceNumber   string        `json:"invoiceNumber"`
	UUID            string        `json:"uuid"`
	IssueDate       time.Time     `json:"issueDate"`
	IssueTime       string        `json:"issueTime"` // HH:MM:SS
	InvoiceTypeCode string        `json:"invoiceTypeCode"`
	CurrencyCode    string        `json:"currencyCode"` // ISO 4217
	LineCount       int           `json:"lineCount"`
	Status          InvoiceStatus `json:"status"`

	// Monetary totals (money precision, 2 fractional digits)
	NetAmount      decimal.Decimal `json:"netAmount"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`

	// Optional compliance payloads
	DigitalSignature string `json:"digitalSignature,omitempty"`
	QRCode           string `json:"qrCode,omitempty"`
	ICV              int    `json:"icv"`

	// Uploaded source file reference, if any
	SourceFileKey    string `json:"sourceFileKey,omitempty"`
	OriginalFileName string `json:"originalFileName,omitempty"`
	FileSizeBytes    int64  `json:"fileSizeBytes,omitempty"`

	// Parties
	SupplierID uuid.UUID `json:"supplierId"`
	CustomerID uuid.UUID `json:"customerId"`
	Supplier   Party     `json:"supplier"`
	Customer   Party     `json:"customer"`

	Lines []InvoiceLine `json:"invoiceLines"`
	Taxes []InvoiceTax  `json:"invoiceTaxes"`

	CreatedAt time.Time `json:"createdAt"`
}

// InvoiceLine is a single line item. Quantities and unit prices carry
// 3 fractional digits, amounts 2, rates 2 (percentage).
type InvoiceLine struct {
	LineNumber    int             `json:"lineNumber"`
	ItemName      string          `json:"itemName"`
	ItemCode      string          `json:"itemCode,omitempty"`
	BuyerItemID   string          `json:"buyerItemId,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitCode      string          `json:"unitCode"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	LineTotal     decimal.Decimal `json:"lineTotal"`
	TaxAmount     decimal.Decimal `json:"taxAmount"`
	TaxRate       decimal.Decimal `json:"taxRate"`
	TaxCategoryID string          `json:"taxCategoryId"`
}

// InvoiceTax is one row of the tax breakdown, one per distinct category
type InvoiceTax struct {
	TaxCategoryID string          `json:"taxCategoryId"`
	TaxableAmount decimal.Decimal `json:"taxableAmount"`
	TaxAmount     decimal.Decimal `json:"taxAmount"`
	TaxRate       decimal.Decimal `json:"taxRate"`
	TaxSchemeID   string          `json:"taxSchemeId"`
}

// Party is the minimal identity used by the encoder and the renderers
type Party struct {
	CompanyName string `json:"companyName"`
	TaxID       string `json:"taxId"`
	Email       string `json:"email,omitempty"`
}

// TransitionTo moves the invoice to the next lifecycle state
func (inv *Invoice) TransitionTo(next InvoiceStatus) error {
	if !next.Valid() {
		return NewValidationError("Status", string(next), "status", "unknown status")
	}
	if !inv.Status.CanTransition(next) {
		return NewValidationError("Status", string(next), "transition",
			"transition from "+string(inv.Status)+" not allowed")
	}
	inv.Status = next
	return nil
}

// Validate checks the hard invariants an invoice must satisfy before it is
// accepted into or emitted from the core.
func (inv *Invoice) Validate() error {
	if inv.InvoiceNumber == "" {
		return NewValidationError("InvoiceNumber", nil, "required", "invoice number is required")
	}
	if inv.UUID == "" {
		return NewValidationError("UUID", nil, "required", "UUID is required")
	}
	if len(inv.CurrencyCode) != 3 {
		return NewValidationError("CurrencyCode", inv.CurrencyCode, "iso4217", "currency code must be 3 letters")
	}
	if !inv.Status.Valid() {
		return NewValidationError("Status", string(inv.Status), "status", "unknown status")
	}

	// Total = Net + Tax within money precision
	sum := dec.Money(inv.NetAmount.Add(inv.TaxAmount))
	if !dec.Money(inv.TotalAmount).Equal(sum) {
		return NewValidationError("TotalAmount", inv.TotalAmount.String(), "total",
			"total must equal net plus tax")
	}

	// Line numbers unique and increasing
	prev := 0
	for _, line := range inv.Lines {
		if line.ItemName == "" {
			return NewValidationError("ItemName", nil, "required", "line item name is required")
		}
		if line.LineNumber <= prev {
			return NewValidationError("LineNumber", line.LineNumber, "order",
				"line numbers must be unique and increasing")
		}
		prev = line.LineNumber
	}
	return nil
}

// TaxBreakdownConsistent reports whether the breakdown rows sum to the header
// tax amount. Advisory only: issuers may keep per-category rounding that
// differs from the header by sub-cent noise.
func (inv *Invoice) TaxBreakdownConsistent() bool {
	amounts := make([]decimal.Decimal, 0, len(inv.Taxes))
	for _, t := range inv.Taxes {
		amounts = append(amounts, t.TaxAmount)
	}
	return dec.Money(dec.Sum(amounts)).Equal(dec.Money(inv.TaxAmount))
}

// Normalize rounds every monetary, quantity and rate field to its canonical
// precision. The codec calls this after decoding.
func (inv *Invoice) Normalize() {
	inv.NetAmount = dec.Money(inv.NetAmount)
	inv.TaxAmount = dec.Money(inv.TaxAmount)
	inv.TotalAmount = dec.Money(inv.TotalAmount)
	inv.DiscountAmount = dec.Money(inv.DiscountAmount)
	for i := range inv.Lines {
		l := &inv.Lines[i]
		l.Quantity = dec.Quantity(l.Quantity)
		l.UnitPrice = dec.Quantity(l.UnitPrice)
		l.LineTotal = dec.Money(l.LineTotal)
		l.TaxAmount = dec.Money(l.TaxAmount)
		l.TaxRate = dec.Rate(l.TaxRate)
	}
	for i := range inv.Taxes {
		t := &inv.Taxes[i]
		t.TaxableAmount = dec.Money(t.TaxableAmount)
		t.TaxAmount = dec.Money(t.TaxAmount)
		t.TaxRate = dec.Rate(t.TaxRate)
	}
}
