package export

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/rezonia/ubl-exchange/internal/model"
)

// SelectionPolicy decides which invoice a single-record format receives when
// the filtered, sorted set has more than one member.
type SelectionPolicy func(sorted []*model.Invoice) *model.Invoice

// SelectFirst picks the first invoice after the descending-CreatedAt sort.
// This mirrors the documented export policy rather than an accident of list
// ordering.
func SelectFirst(sorted []*model.Invoice) *model.Invoice {
	return sorted[0]
}

// Result carries a rendered export and its metadata
type Result struct {
	FileName    string
	ContentType string
	Data        []byte
	RecordCount int
}

// Exporter is the export dispatcher. Every export runs the same sequential
// protocol: filter, sort, select by cardinality, render, wrap with metadata.
type Exporter struct {
	repo      Repository
	renderers map[Format]Renderer
	selection SelectionPolicy
	now       func() time.Time
}

// ExporterOption configures an Exporter
type ExporterOption func(*Exporter)

// WithSelectionPolicy overrides the single-record selection policy
func WithSelectionPolicy(p SelectionPolicy) ExporterOption {
	return func(e *Exporter) { e.selection = p }
}

// WithExportClock overrides the clock used for generated file names
func WithExportClock(now func() time.Time) ExporterOption {
	return func(e *Exporter) { e.now = now }
}

// NewExporter creates a dispatcher over the given repository and renderers
func NewExporter(repo Repository, renderers []Renderer, opts ...ExporterOption) *Exporter {
	e := &Exporter{
		repo:      repo,
		renderers: make(map[Format]Renderer, len(renderers)),
		selection: SelectFirst,
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, r := range renderers {
		e.renderers[r.Format()] = r
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExportBatch renders the invoices matching filter into the requested format.
// Single-record formats receive the first invoice after the stable
// descending-CreatedAt sort; an empty result set is an error for them and a
// valid empty body for multi-record formats.
func (e *Exporter) ExportBatch(ctx context.Context, filter model.InvoiceFilter, format Format) (*Result, error) {
	renderer, ok := e.renderers[format]
	if !ok {
		return nil, model.NewUnsupportedFormatError(string(format))
	}

	candidates, err := e.repo.Query(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("export: query invoices: %w", err)
	}

	matched := candidates[:0:0]
	for _, inv := range candidates {
		if filter.Matches(inv) {
			matched = append(matched, inv)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	var (
		selected   []*model.Invoice
		identifier string
	)
	if renderer.Single() {
		if len(matched) == 0 {
			return nil, model.NewEmptyResultError(string(format))
		}
		one := e.selection(matched)
		selected = []*model.Invoice{one}
		identifier = one.ID.String()
	} else {
		selected = matched
	}

	return e.render(ctx, renderer, selected, identifier)
}

// ExportSingle renders one invoice, looked up by record id, in any format
func (e *Exporter) ExportSingle(ctx context.Context, id uuid.UUID, format Format) (*Result, error) {
	renderer, ok := e.renderers[format]
	if !ok {
		return nil, model.NewUnsupportedFormatError(string(format))
	}

	inv, err := e.repo.Find(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("export: find invoice: %w", err)
	}
	if inv == nil {
		return nil, model.NewNotFoundError(id.String())
	}

	return e.render(ctx, renderer, []*model.Invoice{inv}, id.String())
}

// render validates the snapshots, runs the renderer and wraps the metadata.
// A snapshot violating the model invariants fails the whole export with the
// offending id: silently excluding records would change row counts that
// compliance consumers reconcile against.
func (e *Exporter) render(ctx context.Context, renderer Renderer, invoices []*model.Invoice, identifier string) (*Result, error) {
	for _, inv := range invoices {
		if err := inv.Validate(); err != nil {
			return nil, fmt.Errorf("export: invoice %s: %w", inv.ID, err)
		}
	}

	data, err := renderer.Render(ctx, invoices)
	if err != nil {
		return nil, err
	}

	count := len(invoices)
	if count != 1 {
		identifier = ""
	}
	return &Result{
		FileName:    e.fileName(renderer.Format(), count, identifier),
		ContentType: renderer.Format().ContentType(),
		Data:        data,
		RecordCount: count,
	}, nil
}

// fileName builds {Invoice|Invoices}_Export[_id]_<timestamp>.<ext>, stamped
// with the export's generation time, not the invoice's issue time.
func (e *Exporter) fileName(format Format, recordCount int, identifier string) string {
	prefix := "Invoices"
	if recordCount == 1 {
		prefix = "Invoice"
	}
	suffix := ""
	if identifier != "" {
		suffix = "_" + identifier
	}
	timestamp := e.now().Format("20060102_150405")
	return fmt.Sprintf("%s_Export%s_%s.%s", prefix, suffix, timestamp, format.Extension())
}
