package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rezonia/ubl-exchange/internal/model"
)

// invoiceRecord is the persisted invoice row. Lines and taxes are owned
// unidirectionally: the invoice holds them, they do not point back.
type invoiceRecord struct {
	ID               string `gorm:"primaryKey;size:36"`
	InvoiceNumber    string `gorm:"uniqueIndex;not null"`
	UUID             string `gorm:"uniqueIndex;not null;column:uuid"`
	IssueDate        time.Time
	IssueTime        string
	InvoiceTypeCode  string
	CurrencyCode     string `gorm:"size:3"`
	LineCount        int
	NetAmount        decimal.Decimal `gorm:"type:numeric"`
	TaxAmount        decimal.Decimal `gorm:"type:numeric"`
	TotalAmount      decimal.Decimal `gorm:"type:numeric"`
	DiscountAmount   decimal.Decimal `gorm:"type:numeric"`
	Status           string          `gorm:"index"`
	DigitalSignature string
	QRCode           string
	ICV              int `gorm:"column:icv"`
	SourceFileKey    string
	OriginalFileName string
	FileSizeBytes    int64
	SupplierID       string `gorm:"index;size:36"`
	CustomerID       string `gorm:"index;size:36"`
	SupplierName     string
	SupplierTaxID    string
	SupplierEmail    string
	CustomerName     string
	CustomerTaxID    string
	CustomerEmail    string
	CreatedAt        time.Time `gorm:"index"`

	Lines []lineRecord `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	Taxes []taxRecord  `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
}

func (invoiceRecord) TableName() string { return "invoices" }

type lineRecord struct {
	ID            uint   `gorm:"primaryKey;autoIncrement"`
	InvoiceID     string `gorm:"index;size:36"`
	LineNumber    int
	ItemName      string `gorm:"not null"`
	ItemCode      string
	BuyerItemID   string
	Quantity      decimal.Decimal `gorm:"type:numeric"`
	UnitCode      string
	UnitPrice     decimal.Decimal `gorm:"type:numeric"`
	LineTotal     decimal.Decimal `gorm:"type:numeric"`
	TaxAmount     decimal.Decimal `gorm:"type:numeric"`
	TaxRate       decimal.Decimal `gorm:"type:numeric"`
	TaxCategoryID string
}

func (lineRecord) TableName() string { return "invoice_lines" }

type taxRecord struct {
	ID            uint   `gorm:"primaryKey;autoIncrement"`
	InvoiceID     string `gorm:"index;size:36"`
	TaxCategoryID string
	TaxableAmount decimal.Decimal `gorm:"type:numeric"`
	TaxAmount     decimal.Decimal `gorm:"type:numeric"`
	TaxRate       decimal.Decimal `gorm:"type:numeric"`
	TaxSchemeID   string
}

func (taxRecord) TableName() string { return "invoice_taxes" }

// GormStore is a GORM-backed invoice store
type GormStore struct {
	db *gorm.DB
}

// OpenSQLite opens (or creates) a SQLite-backed store and migrates its schema
func OpenSQLite(dsn string) (*GormStore, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("repository: open sqlite: %w", err)
	}
	return NewGormStore(db)
}

// NewGormStore wraps an existing gorm connection and migrates the schema
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&invoiceRecord{}, &lineRecord{}, &taxRecord{}); err != nil {
		return nil, fmt.Errorf("repository: migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

// Save inserts or replaces an invoice with its lines and taxes
func (s *GormStore) Save(ctx context.Context, inv *model.Invoice) error {
	rec := toRecord(inv)
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", rec.ID).Delete(&lineRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("invoice_id = ?", rec.ID).Delete(&taxRecord{}).Error; err != nil {
			return err
		}
		return tx.Save(rec).Error
	})
}

// Find returns the invoice with the given id, or nil when absent
func (s *GormStore) Find(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	var rec invoiceRecord
	err := s.db.WithContext(ctx).
		Preload("Lines").Preload("Taxes").
		First(&rec, "id = ?", id.String()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("repository: find invoice: %w", err)
	}
	return toModel(&rec)
}

// Query returns all invoices matching the filter
func (s *GormStore) Query(ctx context.Context, filter model.InvoiceFilter) ([]*model.Invoice, error) {
	var recs []invoiceRecord
	err := s.applyFilter(s.db.WithContext(ctx), filter).
		Preload("Lines").Preload("Taxes").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("repository: query invoices: %w", err)
	}
	out := make([]*model.Invoice, 0, len(recs))
	for i := range recs {
		inv, err := toModel(&recs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, nil
}

// List returns a page of invoices sorted by creation time descending
func (s *GormStore) List(ctx context.Context, filter model.InvoiceFilter, page, pageSize int) ([]*model.Invoice, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	var recs []invoiceRecord
	err := s.applyFilter(s.db.WithContext(ctx), filter).
		Preload("Lines").Preload("Taxes").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("repository: list invoices: %w", err)
	}
	out := make([]*model.Invoice, 0, len(recs))
	for i := range recs {
		inv, err := toModel(&recs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, nil
}

func (s *GormStore) applyFilter(db *gorm.DB, filter model.InvoiceFilter) *gorm.DB {
	if filter.OwnerID != nil {
		owner := filter.OwnerID.String()
		db = db.Where("supplier_id = ? OR customer_id = ?", owner, owner)
	}
	if filter.StartDate != nil {
		db = db.Where("issue_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		db = db.Where("issue_date <= ?", *filter.EndDate)
	}
	if filter.Status != nil {
		db = db.Where("status = ?", string(*filter.Status))
	}
	if filter.SupplierID != nil {
		db = db.Where("supplier_id = ?", filter.SupplierID.String())
	}
	if filter.CustomerID != nil {
		db = db.Where("customer_id = ?", filter.CustomerID.String())
	}
	if len(filter.InvoiceIDs) > 0 {
		ids := make([]string, 0, len(filter.InvoiceIDs))
		for _, id := range filter.InvoiceIDs {
			ids = append(ids, id.String())
		}
		db = db.Where("id IN ?", ids)
	}
	return db
}

func toRecord(inv *model.Invoice) *invoiceRecord {
	rec := &invoiceRecord{
		ID:               inv.ID.String(),
		InvoiceNumber:    inv.InvoiceNumber,
		UUID:             inv.UUID,
		IssueDate:        inv.IssueDate,
		IssueTime:        inv.IssueTime,
		InvoiceTypeCode:  inv.InvoiceTypeCode,
		CurrencyCode:     inv.CurrencyCode,
		LineCount:        inv.LineCount,
		NetAmount:        inv.NetAmount,
		TaxAmount:        inv.TaxAmount,
		TotalAmount:      inv.TotalAmount,
		DiscountAmount:   inv.DiscountAmount,
		Status:           string(inv.Status),
		DigitalSignature: inv.DigitalSignature,
		QRCode:           inv.QRCode,
		ICV:              inv.ICV,
		SourceFileKey:    inv.SourceFileKey,
		OriginalFileName: inv.OriginalFileName,
		FileSizeBytes:    inv.FileSizeBytes,
		SupplierID:       inv.SupplierID.String(),
		CustomerID:       inv.CustomerID.String(),
		SupplierName:     inv.Supplier.CompanyName,
		SupplierTaxID:    inv.Supplier.TaxID,
		SupplierEmail:    inv.Supplier.Email,
		CustomerName:     inv.Customer.CompanyName,
		CustomerTaxID:    inv.Customer.TaxID,
		CustomerEmail:    inv.Customer.Email,
		CreatedAt:        inv.CreatedAt,
	}
	for _, l := range inv.Lines {
		rec.Lines = append(rec.Lines, lineRecord{
			InvoiceID:     rec.ID,
			LineNumber:    l.LineNumber,
			ItemName:      l.ItemName,
			ItemCode:      l.ItemCode,
			BuyerItemID:   l.BuyerItemID,
			Quantity:      l.Quantity,
			UnitCode:      l.UnitCode,
			UnitPrice:     l.UnitPrice,
			LineTotal:     l.LineTotal,
			TaxAmount:     l.TaxAmount,
			TaxRate:       l.TaxRate,
			TaxCategoryID: l.TaxCategoryID,
		})
	}
	for _, t := range inv.Taxes {
		rec.Taxes = append(rec.Taxes, taxRecord{
			InvoiceID:     rec.ID,
			TaxCategoryID: t.TaxCategoryID,
			TaxableAmount: t.TaxableAmount,
			TaxAmount:     t.TaxAmount,
			TaxRate:       t.TaxRate,
			TaxSchemeID:   t.TaxSchemeID,
		})
	}
	return rec
}

func toModel(rec *invoiceRecord) (*model.Invoice, error) {
	id, err := uuid.Parse(rec.ID)
	if err != nil {
		return nil, fmt.Errorf("repository: corrupt invoice id %q: %w", rec.ID, err)
	}
	supplierID, err := uuid.Parse(rec.SupplierID)
	if err != nil {
		return nil, fmt.Errorf("repository: corrupt supplier id %q: %w", rec.SupplierID, err)
	}
	customerID, err := uuid.Parse(rec.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("repository: corrupt customer id %q: %w", rec.CustomerID, err)
	}

	inv := &model.Invoice{
		ID:               id,
		InvoiceNumber:    rec.InvoiceNumber,
		UUID:             rec.UUID,
		IssueDate:        rec.IssueDate,
		IssueTime:        rec.IssueTime,
		InvoiceTypeCode:  rec.InvoiceTypeCode,
		CurrencyCode:     rec.CurrencyCode,
		LineCount:        rec.LineCount,
		NetAmount:        rec.NetAmount,
		TaxAmount:        rec.TaxAmount,
		TotalAmount:      rec.TotalAmount,
		DiscountAmount:   rec.DiscountAmount,
		Status:           model.InvoiceStatus(rec.Status),
		DigitalSignature: rec.DigitalSignature,
		QRCode:           rec.QRCode,
		ICV:              rec.ICV,
		SourceFileKey:    rec.SourceFileKey,
		OriginalFileName: rec.OriginalFileName,
		FileSizeBytes:    rec.FileSizeBytes,
		SupplierID:       supplierID,
		CustomerID:       customerID,
		Supplier:         model.Party{CompanyName: rec.SupplierName, TaxID: rec.SupplierTaxID, Email: rec.SupplierEmail},
		Customer:         model.Party{CompanyName: rec.CustomerName, TaxID: rec.CustomerTaxID, Email: rec.CustomerEmail},
		CreatedAt:        rec.CreatedAt,
	}
	for _, l := range rec.Lines {
		inv.Lines = append(inv.Lines, model.InvoiceLine{
			LineNumber:    l.LineNumber,
			ItemName:      l.ItemName,
			ItemCode:      l.ItemCode,
			BuyerItemID:   l.BuyerItemID,
			Quantity:      l.Quantity,
			UnitCode:      l.UnitCode,
			UnitPrice:     l.UnitPrice,
			LineTotal:     l.LineTotal,
			TaxAmount:     l.TaxAmount,
			TaxRate:       l.TaxRate,
			TaxCategoryID: l.TaxCategoryID,
		})
	}
	for _, t := range rec.Taxes {
		inv.Taxes = append(inv.Taxes, model.InvoiceTax{
			TaxCategoryID: t.TaxCategoryID,
			TaxableAmount: t.TaxableAmount,
			TaxAmount:     t.TaxAmount,
			TaxRate:       t.TaxRate,
			TaxSchemeID:   t.TaxSchemeID,
		})
	}
	return inv, nil
}
