package ubl_test

import (
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dec "github.com/rezonia/ubl-exchange/internal/decimal"
	"github.com/rezonia/ubl-exchange/internal/model"
	"github.com/rezonia/ubl-exchange/internal/ubl"
)

func encodableInvoice() *model.Invoice {
	return &model.Invoice{
		ID:              uuid.New(),
		InvoiceNumber:   "INV-2024-001",
		UUID:            "3cf5ee18-ee25-44ea-a444-2c37ba7f28be",
		IssueDate:       time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		IssueTime:       "10:30:00",
		InvoiceTypeCode: "388",
		CurrencyCode:    "SAR",
		LineCount:       2,
		Status:          model.StatusSubmitted,
		NetAmount:       dec.MustFromString("110.00"),
		TaxAmount:       dec.MustFromString("16.50"),
		TotalAmount:     dec.MustFromString("126.50"),
		DiscountAmount:  dec.MustFromString("5.00"),
		ICV:             42,
		QRCode:          "QVFJREJBVT0=",
		Supplier: model.Party{
			CompanyName: "Acme Trading",
			TaxID:       "310000000000003",
			Email:       "billing@acme.example",
		},
		Customer: model.Party{
			CompanyName: "Globex",
			TaxID:       "310000000000004",
		},
		Lines: []model.InvoiceLine{
			{
				LineNumber: 1, ItemName: "Widget", ItemCode: "SKU-100", BuyerItemID: "BUY-77",
				Quantity: dec.MustFromString("2.000"), UnitCode: "PCE",
				UnitPrice: dec.MustFromString("5.000"), LineTotal: dec.MustFromString("10.00"),
				TaxAmount: dec.MustFromString("1.50"), TaxRate: dec.MustFromString("15.00"),
				TaxCategoryID: "S",
			},
			{
				LineNumber: 2, ItemName: "Gadget",
				Quantity: dec.MustFromString("20.000"), UnitCode: "PCE",
				UnitPrice: dec.MustFromString("5.000"), LineTotal: dec.MustFromString("100.00"),
				TaxAmount: dec.MustFromString("15.00"), TaxRate: dec.MustFromString("15.00"),
				TaxCategoryID: "S",
			},
		},
		Taxes: []model.InvoiceTax{
			{
				TaxCategoryID: "S",
				TaxableAmount: dec.MustFromString("110.00"),
				TaxAmount:     dec.MustFromString("16.50"),
				TaxRate:       dec.MustFromString("15.00"),
				TaxSchemeID:   "VAT",
			},
		},
		CreatedAt: time.Now().UTC(),
	}
}

func TestEncode_Deterministic(t *testing.T) {
	encoder := ubl.NewEncoder()
	inv := encodableInvoice()

	first, err := encoder.Encode(inv)
	require.NoError(t, err)
	second, err := encoder.Encode(inv)
	require.NoError(t, err)

	assert.Equal(t, first, second, "identical input must yield byte-identical output")
}

func TestEncode_Structure(t *testing.T) {
	data, err := ubl.NewEncoder().Encode(encodableInvoice())
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(data))

	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "Invoice", root.Tag)
	assert.Equal(t, ubl.NamespaceInvoice, root.SelectAttrValue("xmlns", ""))
	assert.Equal(t, ubl.NamespaceCBC, root.SelectAttrValue("xmlns:cbc", ""))
	assert.Equal(t, ubl.NamespaceCAC, root.SelectAttrValue("xmlns:cac", ""))

	assert.Equal(t, "INV-2024-001", root.FindElement("cbc:ID").Text())
	assert.Equal(t, "2024-03-15", root.FindElement("cbc:IssueDate").Text())
	assert.Equal(t, "10:30:00", root.FindElement("cbc:IssueTime").Text())
	assert.Equal(t, "SAR", root.FindElement("cbc:DocumentCurrencyCode").Text())
	assert.Equal(t, "2", root.FindElement("cbc:LineCountNumeric").Text())

	// Monetary total carries the currency on every amount
	total := root.FindElement("cac:LegalMonetaryTotal")
	require.NotNil(t, total)
	for _, el := range total.ChildElements() {
		assert.Equal(t, "SAR", el.SelectAttrValue("currencyID", ""), el.Tag)
	}
	assert.Equal(t, "110.00", total.FindElement("cbc:LineExtensionAmount").Text())
	assert.Equal(t, "126.50", total.FindElement("cbc:TaxInclusiveAmount").Text())
	assert.Equal(t, "5.00", total.FindElement("cbc:AllowanceTotalAmount").Text())

	lines := root.FindElements("cac:InvoiceLine")
	require.Len(t, lines, 2)
	assert.Equal(t, "1", lines[0].FindElement("cbc:ID").Text())
	qty := lines[0].FindElement("cbc:InvoicedQuantity")
	require.NotNil(t, qty)
	assert.Equal(t, "2.000", qty.Text())
	assert.Equal(t, "PCE", qty.SelectAttrValue("unitCode", ""))
	assert.Equal(t, "5.000", lines[0].FindElement("cac:Price/cbc:PriceAmount").Text())
}

func TestEncode_OmitsEmptyOptionals(t *testing.T) {
	inv := encodableInvoice()
	inv.ICV = 0
	inv.QRCode = ""
	inv.Customer.Email = ""

	data, err := ubl.NewEncoder().Encode(inv)
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(data))

	assert.Empty(t, doc.Root().FindElements("cac:AdditionalDocumentReference"))
	customer := doc.Root().FindElement("cac:AccountingCustomerParty/cac:Party")
	require.NotNil(t, customer)
	assert.Nil(t, customer.FindElement("cac:Contact"))
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	original := encodableInvoice()

	data, err := ubl.NewEncoder().Encode(original)
	require.NoError(t, err)

	decoded, err := ubl.NewDecoder().Decode(data)
	require.NoError(t, err)

	assert.Equal(t, original.InvoiceNumber, decoded.InvoiceNumber)
	assert.Equal(t, original.UUID, decoded.UUID)
	assert.Equal(t, original.IssueDate, decoded.IssueDate)
	assert.Equal(t, original.IssueTime, decoded.IssueTime)
	assert.Equal(t, original.InvoiceTypeCode, decoded.InvoiceTypeCode)
	assert.Equal(t, original.CurrencyCode, decoded.CurrencyCode)
	assert.Equal(t, original.LineCount, decoded.LineCount)
	assert.Equal(t, original.ICV, decoded.ICV)
	assert.Equal(t, original.QRCode, decoded.QRCode)

	assert.True(t, original.NetAmount.Equal(decoded.NetAmount))
	assert.True(t, original.TaxAmount.Equal(decoded.TaxAmount))
	assert.True(t, original.TotalAmount.Equal(decoded.TotalAmount))
	assert.True(t, original.DiscountAmount.Equal(decoded.DiscountAmount))

	assert.Equal(t, original.Supplier, decoded.Supplier)
	assert.Equal(t, original.Customer, decoded.Customer)

	require.Len(t, decoded.Lines, len(original.Lines))
	for i, line := range original.Lines {
		got := decoded.Lines[i]
		assert.Equal(t, line.LineNumber, got.LineNumber)
		assert.Equal(t, line.ItemName, got.ItemName)
		assert.Equal(t, line.ItemCode, got.ItemCode)
		assert.Equal(t, line.BuyerItemID, got.BuyerItemID)
		assert.Equal(t, line.UnitCode, got.UnitCode)
		assert.Equal(t, line.TaxCategoryID, got.TaxCategoryID)
		assert.True(t, line.Quantity.Equal(got.Quantity), "line %d quantity", i+1)
		assert.True(t, line.UnitPrice.Equal(got.UnitPrice), "line %d unit price", i+1)
		assert.True(t, line.LineTotal.Equal(got.LineTotal), "line %d total", i+1)
		assert.True(t, line.TaxAmount.Equal(got.TaxAmount), "line %d tax", i+1)
		assert.True(t, line.TaxRate.Equal(got.TaxRate), "line %d rate", i+1)
	}

	require.Len(t, decoded.Taxes, len(original.Taxes))
	assert.Equal(t, original.Taxes[0].TaxCategoryID, decoded.Taxes[0].TaxCategoryID)
	assert.Equal(t, original.Taxes[0].TaxSchemeID, decoded.Taxes[0].TaxSchemeID)
	assert.True(t, original.Taxes[0].TaxableAmount.Equal(decoded.Taxes[0].TaxableAmount))
	assert.True(t, original.Taxes[0].TaxAmount.Equal(decoded.Taxes[0].TaxAmount))
	assert.True(t, original.Taxes[0].TaxRate.Equal(decoded.Taxes[0].TaxRate))
}

func TestEncodeDecode_RoundTripTwice(t *testing.T) {
	// Encoding a decoded invoice reproduces the document byte for byte
	encoder := ubl.NewEncoder()

	first, err := encoder.Encode(encodableInvoice())
	require.NoError(t, err)

	decoded, err := ubl.NewDecoder().Decode(first)
	require.NoError(t, err)

	second, err := encoder.Encode(decoded)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}
