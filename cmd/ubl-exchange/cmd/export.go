package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rezonia/ubl-exchange/internal/export"
	"github.com/rezonia/ubl-exchange/internal/model"
	"github.com/rezonia/ubl-exchange/internal/repository"
	"github.com/rezonia/ubl-exchange/internal/ubl"
)

var (
	exportFormat     string
	exportOutput     string
	exportInvoiceID  string
	exportStatus     string
	exportStartDate  string
	exportEndDate    string
	exportSupplierID string
	exportCustomerID string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored invoices",
	Long: `Export invoices from the local database into one of the supported
formats: XML, Excel, CSV, PDF or JSON.

Without --invoice-id the command runs a batch export over all invoices
matching the filter flags. XML and PDF are single-record formats: a batch
export picks the most recently created match.

Examples:
  ubl-exchange export --format csv -o invoices.csv
  ubl-exchange export --format excel --status Approved
  ubl-exchange export --format pdf --invoice-id 6f1c0f6e-8c5f-4f7e-9f2a-0d8a4f0c9b11
  ubl-exchange export --format json --start-date 2024-01-01 --end-date 2024-12-31`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "xml", "Export format (xml, excel, csv, pdf, json)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: generated name)")
	exportCmd.Flags().StringVar(&exportInvoiceID, "invoice-id", "", "Export a single invoice by record id")
	exportCmd.Flags().StringVar(&exportStatus, "status", "", "Filter by lifecycle status")
	exportCmd.Flags().StringVar(&exportStartDate, "start-date", "", "Filter by issue date, inclusive (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&exportEndDate, "end-date", "", "Filter by issue date, inclusive (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&exportSupplierID, "supplier-id", "", "Filter by supplier id")
	exportCmd.Flags().StringVar(&exportCustomerID, "customer-id", "", "Filter by customer id")
}

func runExport(cmd *cobra.Command, args []string) error {
	format, ok := export.ParseFormat(exportFormat)
	if !ok {
		return fmt.Errorf("unsupported format: %s", exportFormat)
	}

	store, err := repository.OpenSQLite(databaseDSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	exporter := export.NewExporter(store, []export.Renderer{
		export.NewXMLRenderer(ubl.NewEncoder()),
		export.NewExcelRenderer(export.DefaultExcelOptions()),
		export.NewCSVRenderer(),
		export.NewPDFRenderer(),
		export.NewJSONRenderer(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var result *export.Result
	if exportInvoiceID != "" {
		id, err := uuid.Parse(exportInvoiceID)
		if err != nil {
			return fmt.Errorf("invalid invoice id: %s", exportInvoiceID)
		}
		result, err = exporter.ExportSingle(ctx, id, format)
		if err != nil {
			return err
		}
	} else {
		filter, err := buildExportFilter()
		if err != nil {
			return err
		}
		result, err = exporter.ExportBatch(ctx, filter, format)
		if err != nil {
			return err
		}
	}

	target := exportOutput
	if target == "" {
		target = result.FileName
	}
	if err := os.WriteFile(target, result.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}

	fmt.Printf("Exported %d invoice(s) to %s\n", result.RecordCount, target)
	return nil
}

func buildExportFilter() (model.InvoiceFilter, error) {
	var filter model.InvoiceFilter

	if exportStatus != "" {
		status := model.InvoiceStatus(exportStatus)
		if !status.Valid() {
			return filter, fmt.Errorf("unknown status: %s", exportStatus)
		}
		filter.Status = &status
	}
	if exportStartDate != "" {
		t, err := time.Parse("2006-01-02", exportStartDate)
		if err != nil {
			return filter, fmt.Errorf("invalid start date: %s", exportStartDate)
		}
		filter.StartDate = &t
	}
	if exportEndDate != "" {
		t, err := time.Parse("2006-01-02", exportEndDate)
		if err != nil {
			return filter, fmt.Errorf("invalid end date: %s", exportEndDate)
		}
		filter.EndDate = &t
	}
	if exportSupplierID != "" {
		id, err := uuid.Parse(exportSupplierID)
		if err != nil {
			return filter, fmt.Errorf("invalid supplier id: %s", exportSupplierID)
		}
		filter.SupplierID = &id
	}
	if exportCustomerID != "" {
		id, err := uuid.Parse(exportCustomerID)
		if err != nil {
			return filter, fmt.Errorf("invalid customer id: %s", exportCustomerID)
		}
		filter.CustomerID = &id
	}
	return filter, nil
}
