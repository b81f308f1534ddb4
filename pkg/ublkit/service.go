package ublkit

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/rezonia/ubl-exchange/internal/export"
	"github.com/rezonia/ubl-exchange/internal/ubl"
)

// Service bundles the UBL codec and the export engine behind one API
type Service struct {
	decoder  *ubl.Decoder
	encoder  *ubl.Encoder
	exporter *export.Exporter
}

// ServiceOption configures a Service
type ServiceOption func(*serviceConfig)

type serviceConfig struct {
	excelOptions  export.ExcelOptions
	exporterOpts  []export.ExporterOption
	extraRenderer []export.Renderer
}

// WithExcelOptions overrides the spreadsheet styling used by the Excel renderer
func WithExcelOptions(opts export.ExcelOptions) ServiceOption {
	return func(c *serviceConfig) { c.excelOptions = opts }
}

// WithSelectionPolicy overrides how single-record formats pick from a batch
func WithSelectionPolicy(p export.SelectionPolicy) ServiceOption {
	return func(c *serviceConfig) {
		c.exporterOpts = append(c.exporterOpts, export.WithSelectionPolicy(p))
	}
}

// WithRenderer registers an additional renderer, replacing any built-in one
// for the same format
func WithRenderer(r export.Renderer) ServiceOption {
	return func(c *serviceConfig) { c.extraRenderer = append(c.extraRenderer, r) }
}

// NewService creates a Service with all five built-in renderers wired to the
// given repository
func NewService(repo Repository, opts ...ServiceOption) *Service {
	cfg := &serviceConfig{excelOptions: export.DefaultExcelOptions()}
	for _, opt := range opts {
		opt(cfg)
	}

	encoder := ubl.NewEncoder()
	renderers := []export.Renderer{
		export.NewXMLRenderer(encoder),
		export.NewExcelRenderer(cfg.excelOptions),
		export.NewCSVRenderer(),
		export.NewPDFRenderer(),
		export.NewJSONRenderer(),
	}
	renderers = append(renderers, cfg.extraRenderer...)

	return &Service{
		decoder:  ubl.NewDecoder(),
		encoder:  encoder,
		exporter: export.NewExporter(repo, renderers, cfg.exporterOpts...),
	}
}

// Decode parses a UBL 2.1 invoice document into the canonical model
func (s *Service) Decode(data []byte) (*Invoice, error) {
	return s.decoder.Decode(data)
}

// DecodeReader parses a UBL 2.1 invoice document from a reader
func (s *Service) DecodeReader(r io.Reader) (*Invoice, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return s.decoder.Decode(data)
}

// Encode serializes an invoice back to UBL 2.1 XML
func (s *Service) Encode(inv *Invoice) ([]byte, error) {
	return s.encoder.Encode(inv)
}

// ExportBatch renders the invoices matching filter into the requested format
func (s *Service) ExportBatch(ctx context.Context, filter InvoiceFilter, format Format) (*Result, error) {
	return s.exporter.ExportBatch(ctx, filter, format)
}

// ExportSingle renders one invoice, looked up by record id, in any format
func (s *Service) ExportSingle(ctx context.Context, id uuid.UUID, format Format) (*Result, error) {
	return s.exporter.ExportSingle(ctx, id, format)
}
