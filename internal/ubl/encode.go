package ubl

import (
	"strconv"

	"github.com/beevik/etree"

	dec "github.com/rezonia/ubl-exchange/internal/decimal"
	"github.com/rezonia/ubl-exchange/internal/model"
)

// Encoder renders the canonical model back into UBL 2.1 Invoice XML.
// Encoding is total for a well-formed model and deterministic: identical
// input always yields byte-identical output, so the result can be used for
// round-trip testing and downstream signing.
type Encoder struct{}

// NewEncoder creates a new UBL encoder
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Encode renders inv as a three-namespace UBL Invoice document
func (e *Encoder) Encode(inv *model.Invoice) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("Invoice")
	root.CreateAttr("xmlns", NamespaceInvoice)
	root.CreateAttr("xmlns:cbc", NamespaceCBC)
	root.CreateAttr("xmlns:cac", NamespaceCAC)

	text(root, "cbc:ID", inv.InvoiceNumber)
	text(root, "cbc:UUID", inv.UUID)
	text(root, "cbc:IssueDate", inv.IssueDate.Format("2006-01-02"))
	text(root, "cbc:IssueTime", inv.IssueTime)
	text(root, "cbc:InvoiceTypeCode", inv.InvoiceTypeCode)
	text(root, "cbc:DocumentCurrencyCode", inv.CurrencyCode)
	text(root, "cbc:LineCountNumeric", strconv.Itoa(inv.LineCount))

	if inv.ICV > 0 {
		ref := root.CreateElement("cac:AdditionalDocumentReference")
		text(ref, "cbc:ID", "ICV")
		text(ref, "cbc:UUID", strconv.Itoa(inv.ICV))
	}
	if inv.QRCode != "" {
		ref := root.CreateElement("cac:AdditionalDocumentReference")
		text(ref, "cbc:ID", "QR")
		att := ref.CreateElement("cac:Attachment")
		obj := text(att, "cbc:EmbeddedDocumentBinaryObject", inv.QRCode)
		obj.CreateAttr("mimeCode", "text/plain")
	}

	encodeParty(root, "cac:AccountingSupplierParty", inv.Supplier)
	encodeParty(root, "cac:AccountingCustomerParty", inv.Customer)

	taxTotal := root.CreateElement("cac:TaxTotal")
	amount(taxTotal, "cbc:TaxAmount", dec.FormatMoney(inv.TaxAmount), inv.CurrencyCode)
	for _, tax := range inv.Taxes {
		sub := taxTotal.CreateElement("cac:TaxSubtotal")
		amount(sub, "cbc:TaxableAmount", dec.FormatMoney(tax.TaxableAmount), inv.CurrencyCode)
		amount(sub, "cbc:TaxAmount", dec.FormatMoney(tax.TaxAmount), inv.CurrencyCode)
		cat := sub.CreateElement("cac:TaxCategory")
		text(cat, "cbc:ID", tax.TaxCategoryID)
		text(cat, "cbc:Percent", dec.FormatRate(tax.TaxRate))
		scheme := cat.CreateElement("cac:TaxScheme")
		text(scheme, "cbc:ID", tax.TaxSchemeID)
	}

	monetary := root.CreateElement("cac:LegalMonetaryTotal")
	amount(monetary, "cbc:LineExtensionAmount", dec.FormatMoney(inv.NetAmount), inv.CurrencyCode)
	amount(monetary, "cbc:TaxExclusiveAmount", dec.FormatMoney(inv.NetAmount), inv.CurrencyCode)
	amount(monetary, "cbc:TaxInclusiveAmount", dec.FormatMoney(inv.TotalAmount), inv.CurrencyCode)
	amount(monetary, "cbc:AllowanceTotalAmount", dec.FormatMoney(inv.DiscountAmount), inv.CurrencyCode)
	amount(monetary, "cbc:PayableAmount", dec.FormatMoney(inv.TotalAmount), inv.CurrencyCode)

	for _, line := range inv.Lines {
		el := root.CreateElement("cac:InvoiceLine")
		text(el, "cbc:ID", strconv.Itoa(line.LineNumber))
		qty := text(el, "cbc:InvoicedQuantity", dec.FormatQuantity(line.Quantity))
		qty.CreateAttr("unitCode", line.UnitCode)
		amount(el, "cbc:LineExtensionAmount", dec.FormatMoney(line.LineTotal), inv.CurrencyCode)

		lineTax := el.CreateElement("cac:TaxTotal")
		amount(lineTax, "cbc:TaxAmount", dec.FormatMoney(line.TaxAmount), inv.CurrencyCode)

		item := el.CreateElement("cac:Item")
		text(item, "cbc:Name", line.ItemName)
		if line.BuyerItemID != "" {
			id := item.CreateElement("cac:BuyersItemIdentification")
			text(id, "cbc:ID", line.BuyerItemID)
		}
		if line.ItemCode != "" {
			id := item.CreateElement("cac:AdditionalItemIdentification")
			text(id, "cbc:ID", line.ItemCode)
		}
		cat := item.CreateElement("cac:ClassifiedTaxCategory")
		text(cat, "cbc:ID", line.TaxCategoryID)
		text(cat, "cbc:Percent", dec.FormatRate(line.TaxRate))
		scheme := cat.CreateElement("cac:TaxScheme")
		text(scheme, "cbc:ID", "VAT")

		price := el.CreateElement("cac:Price")
		amount(price, "cbc:PriceAmount", dec.FormatQuantity(line.UnitPrice), inv.CurrencyCode)
	}

	doc.Indent(2)
	return doc.WriteToBytes()
}

func encodeParty(root *etree.Element, container string, p model.Party) {
	c := root.CreateElement(container)
	party := c.CreateElement("cac:Party")
	scheme := party.CreateElement("cac:PartyTaxScheme")
	text(scheme, "cbc:CompanyID", p.TaxID)
	taxScheme := scheme.CreateElement("cac:TaxScheme")
	text(taxScheme, "cbc:ID", "VAT")
	legal := party.CreateElement("cac:PartyLegalEntity")
	text(legal, "cbc:RegistrationName", p.CompanyName)
	if p.Email != "" {
		contact := party.CreateElement("cac:Contact")
		text(contact, "cbc:ElectronicMail", p.Email)
	}
}

func text(parent *etree.Element, tag, value string) *etree.Element {
	el := parent.CreateElement(tag)
	el.SetText(value)
	return el
}

func amount(parent *etree.Element, tag, value, currency string) *etree.Element {
	el := text(parent, tag, value)
	el.CreateAttr("currencyID", currency)
	return el
}
