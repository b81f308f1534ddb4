package export

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	dec "github.com/rezonia/ubl-exchange/internal/decimal"
	"github.com/rezonia/ubl-exchange/internal/model"
)

// invoiceJSON is the canonical invoice projection: camelCase keys, fixed-point
// amounts carried as raw JSON numbers, lossless relative to the domain model.
type invoiceJSON struct {
	ID               string       `json:"id"`
	InvoiceNumber    string       `json:"invoiceNumber"`
	UUID             string       `json:"uuid"`
	IssueDate        string       `json:"issueDate"`
	IssueTime        string       `json:"issueTime"`
	InvoiceTypeCode  string       `json:"invoiceTypeCode"`
	CurrencyCode     string       `json:"currencyCode"`
	LineCount        int          `json:"lineCount"`
	TotalAmount      json.Number  `json:"totalAmount"`
	TaxAmount        json.Number  `json:"taxAmount"`
	NetAmount        json.Number  `json:"netAmount"`
	DiscountAmount   json.Number  `json:"discountAmount"`
	Status           string       `json:"status"`
	DigitalSignature string       `json:"digitalSignature,omitempty"`
	QRCode           string       `json:"qrCode,omitempty"`
	ICV              int          `json:"icv"`
	OriginalFileName string       `json:"originalFileName,omitempty"`
	CreatedAt        time.Time    `json:"createdAt"`
	Supplier         partyJSON    `json:"supplier"`
	Customer         partyJSON    `json:"customer"`
	InvoiceLines     []lineJSON   `json:"invoiceLines"`
	InvoiceTaxes     []taxJSON    `json:"invoiceTaxes"`
}

type partyJSON struct {
	CompanyName string `json:"companyName"`
	TaxID       string `json:"taxId"`
	Email       string `json:"email,omitempty"`
}

type lineJSON struct {
	LineNumber    int         `json:"lineNumber"`
	ItemName      string      `json:"itemName"`
	ItemCode      string      `json:"itemCode,omitempty"`
	BuyerItemID   string      `json:"buyerItemId,omitempty"`
	Quantity      json.Number `json:"quantity"`
	UnitCode      string      `json:"unitCode"`
	UnitPrice     json.Number `json:"unitPrice"`
	LineTotal     json.Number `json:"lineTotal"`
	TaxAmount     json.Number `json:"taxAmount"`
	TaxRate       json.Number `json:"taxRate"`
	TaxCategoryID string      `json:"taxCategoryId"`
}

type taxJSON struct {
	TaxCategoryID string      `json:"taxCategoryId"`
	TaxableAmount json.Number `json:"taxableAmount"`
	TaxAmount     json.Number `json:"taxAmount"`
	TaxRate       json.Number `json:"taxRate"`
	TaxSchemeID   string      `json:"taxSchemeId"`
}

// JSONRenderer projects any number of invoices as an indented JSON array
type JSONRenderer struct{}

// NewJSONRenderer creates the JSON renderer
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

func (r *JSONRenderer) Format() Format { return FormatJSON }
func (r *JSONRenderer) Single() bool   { return false }

func (r *JSONRenderer) Render(ctx context.Context, invoices []*model.Invoice) ([]byte, error) {
	out := make([]invoiceJSON, 0, len(invoices))
	for _, inv := range invoices {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out = append(out, projectInvoice(inv))
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("json: marshal invoices: %w", err)
	}
	return data, nil
}

func projectInvoice(inv *model.Invoice) invoiceJSON {
	p := invoiceJSON{
		ID:               inv.ID.String(),
		InvoiceNumber:    inv.InvoiceNumber,
		UUID:             inv.UUID,
		IssueDate:        inv.IssueDate.Format("2006-01-02"),
		IssueTime:        inv.IssueTime,
		InvoiceTypeCode:  inv.InvoiceTypeCode,
		CurrencyCode:     inv.CurrencyCode,
		LineCount:        inv.LineCount,
		TotalAmount:      moneyNumber(inv.TotalAmount),
		TaxAmount:        moneyNumber(inv.TaxAmount),
		NetAmount:        moneyNumber(inv.NetAmount),
		DiscountAmount:   moneyNumber(inv.DiscountAmount),
		Status:           string(inv.Status),
		DigitalSignature: inv.DigitalSignature,
		QRCode:           inv.QRCode,
		ICV:              inv.ICV,
		OriginalFileName: inv.OriginalFileName,
		CreatedAt:        inv.CreatedAt,
		Supplier:         partyJSON{CompanyName: inv.Supplier.CompanyName, TaxID: inv.Supplier.TaxID, Email: inv.Supplier.Email},
		Customer:         partyJSON{CompanyName: inv.Customer.CompanyName, TaxID: inv.Customer.TaxID, Email: inv.Customer.Email},
		InvoiceLines:     make([]lineJSON, 0, len(inv.Lines)),
		InvoiceTaxes:     make([]taxJSON, 0, len(inv.Taxes)),
	}
	for _, line := range inv.Lines {
		p.InvoiceLines = append(p.InvoiceLines, lineJSON{
			LineNumber:    line.LineNumber,
			ItemName:      line.ItemName,
			ItemCode:      line.ItemCode,
			BuyerItemID:   line.BuyerItemID,
			Quantity:      json.Number(dec.FormatQuantity(line.Quantity)),
			UnitCode:      line.UnitCode,
			UnitPrice:     json.Number(dec.FormatQuantity(line.UnitPrice)),
			LineTotal:     moneyNumber(line.LineTotal),
			TaxAmount:     moneyNumber(line.TaxAmount),
			TaxRate:       json.Number(dec.FormatRate(line.TaxRate)),
			TaxCategoryID: line.TaxCategoryID,
		})
	}
	for _, tax := range inv.Taxes {
		p.InvoiceTaxes = append(p.InvoiceTaxes, taxJSON{
			TaxCategoryID: tax.TaxCategoryID,
			TaxableAmount: moneyNumber(tax.TaxableAmount),
			TaxAmount:     moneyNumber(tax.TaxAmount),
			TaxRate:       json.Number(dec.FormatRate(tax.TaxRate)),
			TaxSchemeID:   tax.TaxSchemeID,
		})
	}
	return p
}

func moneyNumber(d decimal.Decimal) json.Number {
	return json.Number(dec.FormatMoney(d))
}
