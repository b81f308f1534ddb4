package model

import "fmt"

// InvalidDocumentTypeError is returned when the root element of an uploaded
// document is not a UBL Invoice
type InvalidDocumentTypeError struct {
	Namespace string
	LocalName string
}

func (e *InvalidDocumentTypeError) Error() string {
	return fmt.Sprintf("invalid document type: expected UBL Invoice, got {%s}%s", e.Namespace, e.LocalName)
}

// NewInvalidDocumentTypeError creates a new invalid document type error
func NewInvalidDocumentTypeError(namespace, localName string) *InvalidDocumentTypeError {
	return &InvalidDocumentTypeError{Namespace: namespace, LocalName: localName}
}

// MissingFieldError is returned when a required element is absent from a
// document. Required fields are never silently defaulted.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// NewMissingFieldError creates a new missing field error
func NewMissingFieldError(field string) *MissingFieldError {
	return &MissingFieldError{Field: field}
}

// NumericFormatError is returned when a monetary or quantity field holds
// non-numeric content. Parse failures are never swallowed into zero.
type NumericFormatError struct {
	Field string
	Value string
	Cause error
}

func (e *NumericFormatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid numeric format in %s: %q (%v)", e.Field, e.Value, e.Cause)
	}
	return fmt.Sprintf("invalid numeric format in %s: %q", e.Field, e.Value)
}

func (e *NumericFormatError) Unwrap() error {
	return e.Cause
}

// NewNumericFormatError creates a new numeric format error
func NewNumericFormatError(field, value string, cause error) *NumericFormatError {
	return &NumericFormatError{Field: field, Value: value, Cause: cause}
}

// UnsupportedFormatError is returned for an unknown export format
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported export format: %q", e.Format)
}

// NewUnsupportedFormatError creates a new unsupported format error
func NewUnsupportedFormatError(format string) *UnsupportedFormatError {
	return &UnsupportedFormatError{Format: format}
}

// NotFoundError is returned when a lookup by id finds no invoice
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("invoice not found: %s", e.ID)
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(id string) *NotFoundError {
	return &NotFoundError{ID: id}
}

// EmptyResultError is returned when a single-record export format is
// requested against an empty filter result
type EmptyResultError struct {
	Format string
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("export format %s requires at least one invoice, filter matched none", e.Format)
}

// NewEmptyResultError creates a new empty result error
func NewEmptyResultError(format string) *EmptyResultError {
	return &EmptyResultError{Format: format}
}

// ValidationError represents a violated invoice invariant
type ValidationError struct {
	Field   string
	Value   interface{}
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("validation failed on %s: %s (value=%v, rule=%s)", e.Field, e.Message, e.Value, e.Rule)
	}
	return fmt.Sprintf("validation failed on %s: %s (rule=%s)", e.Field, e.Message, e.Rule)
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value interface{}, rule, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Rule: rule, Message: message}
}
