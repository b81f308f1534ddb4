// Package ublkit provides a public API for decoding, encoding and exporting
// UBL 2.1 invoices.
//
// This package exposes the canonical invoice model, the XML codec and the
// multi-format export engine behind a single Service type.
//
// Example usage:
//
//	svc := ublkit.NewService(store)
//	invoice, err := svc.Decode(xmlBytes)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(invoice.TotalAmount)
package ublkit

import (
	"github.com/rezonia/ubl-exchange/internal/export"
	"github.com/rezonia/ubl-exchange/internal/model"
)

// Re-export core types for public API
type (
	Invoice       = model.Invoice
	InvoiceLine   = model.InvoiceLine
	InvoiceTax    = model.InvoiceTax
	Party         = model.Party
	InvoiceStatus = model.InvoiceStatus
	InvoiceFilter = model.InvoiceFilter
)

// Re-export lifecycle states
const (
	StatusDraft     = model.StatusDraft
	StatusSubmitted = model.StatusSubmitted
	StatusProcessed = model.StatusProcessed
	StatusApproved  = model.StatusApproved
	StatusRejected  = model.StatusRejected
	StatusArchived  = model.StatusArchived
)

// Re-export export formats
type (
	Format     = export.Format
	FormatInfo = export.FormatInfo
	Result     = export.Result
	Renderer   = export.Renderer
	Repository = export.Repository
)

const (
	FormatXML   = export.FormatXML
	FormatExcel = export.FormatExcel
	FormatCSV   = export.FormatCSV
	FormatPDF   = export.FormatPDF
	FormatJSON  = export.FormatJSON
)

// Re-export error types
type (
	InvalidDocumentTypeError = model.InvalidDocumentTypeError
	MissingFieldError        = model.MissingFieldError
	NumericFormatError       = model.NumericFormatError
	UnsupportedFormatError   = model.UnsupportedFormatError
	NotFoundError            = model.NotFoundError
	EmptyResultError         = model.EmptyResultError
	ValidationError          = model.ValidationError
)

// ParseFormat resolves a case-insensitive format name or its numeric value
func ParseFormat(s string) (Format, bool) {
	return export.ParseFormat(s)
}

// SupportedFormats returns the static enumeration of export formats
func SupportedFormats() []FormatInfo {
	return export.FormatInfos()
}
