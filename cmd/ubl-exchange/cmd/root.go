package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "1.0.0"

	// Global flags
	verbose     bool
	databaseDSN string
)

var rootCmd = &cobra.Command{
	Use:   "ubl-exchange",
	Short: "Decode, store and export UBL 2.1 invoices",
	Long: `ubl-exchange is a CLI tool for working with UBL 2.1 e-invoices.

Supports:
  - Decoding UBL 2.1 Invoice XML into a canonical model
  - Storing decoded invoices in a SQLite database
  - Exporting stored invoices as XML, Excel, CSV, PDF or JSON

Examples:
  # Decode a UBL invoice to JSON
  ubl-exchange decode invoice.xml

  # Decode and persist into the local database
  ubl-exchange decode invoice.xml --store

  # Export all invoices as a spreadsheet
  ubl-exchange export --format excel -o invoices.xlsx

  # Start the HTTP API server
  ubl-exchange serve`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&databaseDSN, "db", "", "SQLite database path (env: UBLX_DATABASE_DSN)")

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	if databaseDSN == "" {
		databaseDSN = os.Getenv("UBLX_DATABASE_DSN")
	}
	if databaseDSN == "" {
		databaseDSN = "ubl-exchange.db"
	}
}

func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
