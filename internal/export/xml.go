package export

import (
	"context"

	"github.com/rezonia/ubl-exchange/internal/model"
	"github.com/rezonia/ubl-exchange/internal/ubl"
)

// XMLRenderer projects a single invoice as its UBL document, identical to
// the encoder output
type XMLRenderer struct {
	encoder *ubl.Encoder
}

// NewXMLRenderer creates the structured-XML renderer
func NewXMLRenderer(encoder *ubl.Encoder) *XMLRenderer {
	return &XMLRenderer{encoder: encoder}
}

func (r *XMLRenderer) Format() Format { return FormatXML }
func (r *XMLRenderer) Single() bool   { return true }

func (r *XMLRenderer) Render(ctx context.Context, invoices []*model.Invoice) ([]byte, error) {
	return r.encoder.Encode(invoices[0])
}
