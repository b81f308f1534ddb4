package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/ubl-exchange/internal/config"
	"github.com/rezonia/ubl-exchange/internal/export"
	"github.com/rezonia/ubl-exchange/internal/logger"
	"github.com/rezonia/ubl-exchange/internal/repository"
	"github.com/rezonia/ubl-exchange/internal/server"
	"github.com/rezonia/ubl-exchange/internal/ubl"
)

var (
	serverAddr   string
	serverDebug  bool
	readTimeout  time.Duration
	writeTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the HTTP API server for uploading and exporting invoices.

The API provides endpoints for:
  - POST /api/v1/invoices           - Upload a UBL invoice
  - GET  /api/v1/invoices           - List stored invoices
  - GET  /api/v1/invoices/:id       - Fetch a stored invoice
  - POST /api/v1/export/invoices    - Batch export
  - GET  /api/v1/export/invoice/:id - Single-invoice export
  - GET  /api/v1/export/formats     - List export formats
  - GET  /health                    - Health check

Examples:
  # Start server with defaults
  ubl-exchange serve

  # Start on a custom port against a specific database
  ubl-exchange serve --address :9090 --db /var/lib/ublx/invoices.db

  # Start in debug mode
  ubl-exchange serve --debug`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverAddr, "address", "", "Server listen address (env: UBLX_ADDRESS)")
	serveCmd.Flags().BoolVar(&serverDebug, "debug", false, "Enable debug mode")
	serveCmd.Flags().DurationVar(&readTimeout, "read-timeout", 0, "HTTP read timeout (env: UBLX_READ_TIMEOUT)")
	serveCmd.Flags().DurationVar(&writeTimeout, "write-timeout", 0, "HTTP write timeout (env: UBLX_WRITE_TIMEOUT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Flags override the environment
	if serverAddr != "" {
		cfg.Address = serverAddr
	}
	if serverDebug {
		cfg.Debug = true
	}
	if readTimeout > 0 {
		cfg.ReadTimeout = readTimeout
	}
	if writeTimeout > 0 {
		cfg.WriteTimeout = writeTimeout
	}
	if databaseDSN != "" {
		cfg.DatabaseDSN = databaseDSN
	}

	if err := logger.Setup(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: cfg.LogOutput,
	}); err != nil {
		return err
	}

	store, err := repository.OpenSQLite(cfg.DatabaseDSN)
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

	srv := server.NewServer(&server.Config{
		Address:      cfg.Address,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		Debug:        cfg.Debug,
	}, store, ubl.NewDecoder(), exporter)

	// Handle graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		fmt.Println("\nShutting down server...")
		os.Exit(0)
	}()

	fmt.Printf("Starting server on %s (database: %s)\n", cfg.Address, cfg.DatabaseDSN)
	return srv.Run()
}
