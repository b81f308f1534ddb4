// Package ubl implements the UBL 2.1 Invoice codec: decoding untrusted XML
// into the canonical model and re-encoding the model into byte-deterministic
// namespaced XML.
package ubl

import (
	"fmt"
	"strconv"
	"time"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	dec "github.com/rezonia/ubl-exchange/internal/decimal"
	"github.com/rezonia/ubl-exchange/internal/model"
)

// Decoder parses UBL Invoice documents into the canonical model
type Decoder struct {
	now func() time.Time
}

// DecoderOption configures a Decoder
type DecoderOption func(*Decoder)

// WithClock overrides the clock used to stamp CreatedAt
func WithClock(now func() time.Time) DecoderOption {
	return func(d *Decoder) { d.now = now }
}

// NewDecoder creates a new UBL decoder
func NewDecoder(opts ...DecoderOption) *Decoder {
	d := &Decoder{now: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode parses a UBL Invoice byte stream into a validated Invoice.
// Required fields are never defaulted: absence yields a MissingFieldError
// and non-numeric content in a numeric field yields a NumericFormatError.
// Only ICV and the allowance total legitimately default to zero.
func (d *Decoder) Decode(data []byte) (*model.Invoice, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("ubl: malformed XML: %w", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, model.NewInvalidDocumentTypeError("", "")
	}
	if root.NamespaceURI() != NamespaceInvoice || root.Tag != "Invoice" {
		return nil, model.NewInvalidDocumentTypeError(root.NamespaceURI(), root.Tag)
	}

	inv := &model.Invoice{
		ID:        uuid.New(),
		Status:    model.StatusSubmitted,
		CreatedAt: d.now(),
	}

	// Header scalars, all required
	var err error
	if inv.InvoiceNumber, err = requiredText(root, "ID"); err != nil {
		return nil, err
	}
	if inv.UUID, err = requiredText(root, "UUID"); err != nil {
		return nil, err
	}
	issueDate, err := requiredText(root, "IssueDate")
	if err != nil {
		return nil, err
	}
	if inv.IssueDate, err = time.Parse("2006-01-02", issueDate); err != nil {
		return nil, model.NewValidationError("IssueDate", issueDate, "date", "expected YYYY-MM-DD")
	}
	issueTime, err := requiredText(root, "IssueTime")
	if err != nil {
		return nil, err
	}
	if _, err = time.Parse("15:04:05", issueTime); err != nil {
		return nil, model.NewValidationError("IssueTime", issueTime, "time", "expected HH:MM:SS")
	}
	inv.IssueTime = issueTime
	if inv.InvoiceTypeCode, err = requiredText(root, "InvoiceTypeCode"); err != nil {
		return nil, err
	}
	if inv.CurrencyCode, err = requiredText(root, "DocumentCurrencyCode"); err != nil {
		return nil, err
	}
	lineCount, err := requiredText(root, "LineCountNumeric")
	if err != nil {
		return nil, err
	}
	if inv.LineCount, err = strconv.Atoi(lineCount); err != nil {
		return nil, model.NewNumericFormatError("LineCountNumeric", lineCount, err)
	}

	if err := d.decodeMonetaryTotal(root, inv); err != nil {
		return nil, err
	}
	if err := d.decodeDocumentReferences(root, inv); err != nil {
		return nil, err
	}
	if err := d.decodeLines(root, inv); err != nil {
		return nil, err
	}
	if err := d.decodeTaxBreakdown(root, inv); err != nil {
		return nil, err
	}

	// Independent scans: xmldsig signature value and party snapshots
	if sig := findDescendant(root, NamespaceXMLDSig, "SignatureValue"); sig != nil {
		inv.DigitalSignature = sig.Text()
	}
	inv.Supplier = decodeParty(root, "AccountingSupplierParty")
	inv.Customer = decodeParty(root, "AccountingCustomerParty")

	inv.Normalize()
	if err := inv.Validate(); err != nil {
		return nil, err
	}
	return inv, nil
}

func (d *Decoder) decodeMonetaryTotal(root *etree.Element, inv *model.Invoice) error {
	total := child(root, NamespaceCAC, "LegalMonetaryTotal")
	if total == nil {
		return model.NewMissingFieldError("LegalMonetaryTotal")
	}

	net, err := requiredAmount(total, "LineExtensionAmount", inv.CurrencyCode)
	if err != nil {
		return err
	}
	taxExclusive, err := requiredAmount(total, "TaxExclusiveAmount", inv.CurrencyCode)
	if err != nil {
		return err
	}
	taxInclusive, err := requiredAmount(total, "TaxInclusiveAmount", inv.CurrencyCode)
	if err != nil {
		return err
	}
	discount, err := optionalAmount(total, "AllowanceTotalAmount", inv.CurrencyCode)
	if err != nil {
		return err
	}

	inv.NetAmount = net
	inv.TotalAmount = taxInclusive
	inv.TaxAmount = taxInclusive.Sub(taxExclusive)
	inv.DiscountAmount = discount
	return nil
}

func (d *Decoder) decodeDocumentReferences(root *etree.Element, inv *model.Invoice) error {
	for _, ref := range children(root, NamespaceCAC, "AdditionalDocumentReference") {
		switch childText(ref, NamespaceCBC, "ID") {
		case "ICV":
			// Optional internal counter, absent means zero
			raw := childText(ref, NamespaceCBC, "UUID")
			if raw == "" {
				continue
			}
			icv, err := strconv.Atoi(raw)
			if err != nil {
				return model.NewNumericFormatError("AdditionalDocumentReference[ICV]/UUID", raw, err)
			}
			inv.ICV = icv
		case "QR":
			if att := child(ref, NamespaceCAC, "Attachment"); att != nil {
				inv.QRCode = childText(att, NamespaceCBC, "EmbeddedDocumentBinaryObject")
			}
		}
	}
	return nil
}

func (d *Decoder) decodeLines(root *etree.Element, inv *model.Invoice) error {
	// Document order is the canonical line-number sequence
	for i, el := range children(root, NamespaceCAC, "InvoiceLine") {
		line := model.InvoiceLine{LineNumber: i + 1}
		field := func(name string) string {
			return fmt.Sprintf("InvoiceLine[%d]/%s", i+1, name)
		}

		if raw := childText(el, NamespaceCBC, "ID"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return model.NewNumericFormatError(field("ID"), raw, err)
			}
			line.LineNumber = n
		}

		qty := child(el, NamespaceCBC, "InvoicedQuantity")
		if qty == nil {
			return model.NewMissingFieldError(field("InvoicedQuantity"))
		}
		q, err := parseDecimal(field("InvoicedQuantity"), qty.Text())
		if err != nil {
			return err
		}
		line.Quantity = q
		line.UnitCode = qty.SelectAttrValue("unitCode", "")

		if line.LineTotal, err = requiredAmount(el, "LineExtensionAmount", inv.CurrencyCode); err != nil {
			return err
		}

		item := child(el, NamespaceCAC, "Item")
		if item == nil {
			return model.NewMissingFieldError(field("Item"))
		}
		line.ItemName = childText(item, NamespaceCBC, "Name")
		if line.ItemName == "" {
			return model.NewMissingFieldError(field("Item/Name"))
		}
		if id := child(item, NamespaceCAC, "AdditionalItemIdentification"); id != nil {
			line.ItemCode = childText(id, NamespaceCBC, "ID")
		}
		if id := child(item, NamespaceCAC, "BuyersItemIdentification"); id != nil {
			line.BuyerItemID = childText(id, NamespaceCBC, "ID")
		}
		if cat := child(item, NamespaceCAC, "ClassifiedTaxCategory"); cat != nil {
			line.TaxCategoryID = childText(cat, NamespaceCBC, "ID")
			if raw := childText(cat, NamespaceCBC, "Percent"); raw != "" {
				if line.TaxRate, err = parseDecimal(field("ClassifiedTaxCategory/Percent"), raw); err != nil {
					return err
				}
			}
		}

		if lt := child(el, NamespaceCAC, "TaxTotal"); lt != nil {
			if raw := childText(lt, NamespaceCBC, "TaxAmount"); raw != "" {
				if line.TaxAmount, err = parseDecimal(field("TaxTotal/TaxAmount"), raw); err != nil {
					return err
				}
			}
		}

		price := child(el, NamespaceCAC, "Price")
		if price == nil {
			return model.NewMissingFieldError(field("Price"))
		}
		if line.UnitPrice, err = requiredAmount(price, "PriceAmount", inv.CurrencyCode); err != nil {
			return err
		}

		inv.Lines = append(inv.Lines, line)
	}
	return nil
}

// decodeTaxBreakdown reads the subtotal entries of the first TaxTotal block
// only; later blocks carry other purposes per the UBL convention.
func (d *Decoder) decodeTaxBreakdown(root *etree.Element, inv *model.Invoice) error {
	totals := children(root, NamespaceCAC, "TaxTotal")
	if len(totals) == 0 {
		return nil
	}
	for _, sub := range children(totals[0], NamespaceCAC, "TaxSubtotal") {
		tax := model.InvoiceTax{TaxSchemeID: "VAT"}

		taxable, err := requiredAmount(sub, "TaxableAmount", inv.CurrencyCode)
		if err != nil {
			return err
		}
		tax.TaxableAmount = taxable
		amount, err := requiredAmount(sub, "TaxAmount", inv.CurrencyCode)
		if err != nil {
			return err
		}
		tax.TaxAmount = amount

		if cat := child(sub, NamespaceCAC, "TaxCategory"); cat != nil {
			tax.TaxCategoryID = childText(cat, NamespaceCBC, "ID")
			if raw := childText(cat, NamespaceCBC, "Percent"); raw != "" {
				if tax.TaxRate, err = parseDecimal("TaxSubtotal/TaxCategory/Percent", raw); err != nil {
					return err
				}
			}
			if scheme := child(cat, NamespaceCAC, "TaxScheme"); scheme != nil {
				if id := childText(scheme, NamespaceCBC, "ID"); id != "" {
					tax.TaxSchemeID = id
				}
			}
		}

		inv.Taxes = append(inv.Taxes, tax)
	}
	return nil
}

func decodeParty(root *etree.Element, container string) model.Party {
	var p model.Party
	c := child(root, NamespaceCAC, container)
	if c == nil {
		return p
	}
	party := child(c, NamespaceCAC, "Party")
	if party == nil {
		return p
	}
	if scheme := child(party, NamespaceCAC, "PartyTaxScheme"); scheme != nil {
		p.TaxID = childText(scheme, NamespaceCBC, "CompanyID")
	}
	if legal := child(party, NamespaceCAC, "PartyLegalEntity"); legal != nil {
		p.CompanyName = childText(legal, NamespaceCBC, "RegistrationName")
	}
	if contact := child(party, NamespaceCAC, "Contact"); contact != nil {
		p.Email = childText(contact, NamespaceCBC, "ElectronicMail")
	}
	return p
}

// requiredText fetches a required cbc element's text from the root
func requiredText(root *etree.Element, local string) (string, error) {
	el := child(root, NamespaceCBC, local)
	if el == nil || el.Text() == "" {
		return "", model.NewMissingFieldError(local)
	}
	return el.Text(), nil
}

// requiredAmount fetches and parses a required cbc amount, checking that any
// currencyID attribute matches the document currency.
func requiredAmount(parent *etree.Element, local, currency string) (decimal.Decimal, error) {
	el := child(parent, NamespaceCBC, local)
	if el == nil || el.Text() == "" {
		return dec.Zero, model.NewMissingFieldError(local)
	}
	if cur := el.SelectAttrValue("currencyID", ""); cur != "" && cur != currency {
		return dec.Zero, model.NewValidationError(local, cur, "currency",
			"currency must match the document currency "+currency)
	}
	return parseDecimal(local, el.Text())
}

// optionalAmount is like requiredAmount but absence yields zero
func optionalAmount(parent *etree.Element, local, currency string) (decimal.Decimal, error) {
	el := child(parent, NamespaceCBC, local)
	if el == nil || el.Text() == "" {
		return dec.Zero, nil
	}
	if cur := el.SelectAttrValue("currencyID", ""); cur != "" && cur != currency {
		return dec.Zero, model.NewValidationError(local, cur, "currency",
			"currency must match the document currency "+currency)
	}
	return parseDecimal(local, el.Text())
}

func parseDecimal(field, raw string) (decimal.Decimal, error) {
	d, err := dec.FromString(raw)
	if err != nil {
		return dec.Zero, model.NewNumericFormatError(field, raw, err)
	}
	return d, nil
}
