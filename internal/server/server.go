// Package server exposes the codec and the export engine over HTTP. It is
// thin plumbing: authentication and request validation happen upstream.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rezonia/ubl-exchange/internal/export"
	"github.com/rezonia/ubl-exchange/internal/logger"
	"github.com/rezonia/ubl-exchange/internal/model"
	"github.com/rezonia/ubl-exchange/internal/ubl"
)

// Store is the invoice persistence consumed by the server
type Store interface {
	export.Repository
	Save(ctx context.Context, inv *model.Invoice) error
	List(ctx context.Context, filter model.InvoiceFilter, page, pageSize int) ([]*model.Invoice, error)
}

// Config holds server configuration
type Config struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool
}

// Server is the HTTP API server
type Server struct {
	config   *Config
	router   *gin.Engine
	store    Store
	decoder  *ubl.Decoder
	exporter *export.Exporter
}

// NewServer creates a new API server
func NewServer(config *Config, store Store, decoder *ubl.Decoder, exporter *export.Exporter) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if config.Debug {
		router.Use(gin.Logger())
	}

	s := &Server{
		config:   config,
		router:   router,
		store:    store,
		decoder:  decoder,
		exporter: exporter,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/invoices", s.handleUploadInvoice)
		v1.GET("/invoices", s.handleListInvoices)
		v1.GET("/invoices/:id", s.handleGetInvoice)
		v1.PUT("/invoices/:id/status", s.handleUpdateStatus)

		v1.POST("/export/invoices", s.handleExportBatch)
		v1.GET("/export/invoice/:id", s.handleExportSingle)
		v1.GET("/export/formats", s.handleFormats)
	}
}

// Run starts the HTTP server
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	log := logger.WithComponent("server")
	log.Info().Str("address", s.config.Address).Msg("listening")
	return srv.ListenAndServe()
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleUploadInvoice(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read request body"})
		return
	}
	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "empty request body"})
		return
	}

	inv, err := s.decoder.Decode(body)
	if err != nil {
		status := http.StatusUnprocessableEntity
		var docErr *model.InvalidDocumentTypeError
		if errors.As(err, &docErr) {
			status = http.StatusBadRequest
		}
		c.JSON(status, ErrorResponse{Error: "invoice decoding failed", Details: err.Error()})
		return
	}

	if raw := c.Query("supplier_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid supplier_id"})
			return
		}
		inv.SupplierID = id
	}
	if raw := c.Query("customer_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid customer_id"})
			return
		}
		inv.CustomerID = id
	}
	inv.OriginalFileName = c.Query("file_name")
	inv.FileSizeBytes = int64(len(body))

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	if err := s.store.Save(ctx, inv); err != nil {
		log := logger.WithComponent("server")
		log.Error().Err(err).Msg("save invoice")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to store invoice"})
		return
	}
	c.JSON(http.StatusCreated, InvoiceResponse{Invoice: inv})
}

func (s *Server) handleGetInvoice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid invoice id"})
		return
	}

	inv, err := s.store.Find(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "lookup failed"})
		return
	}
	if inv == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "invoice not found"})
		return
	}
	c.JSON(http.StatusOK, InvoiceResponse{Invoice: inv})
}

func (s *Server) handleUpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid invoice id"})
		return
	}

	var req StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid status request", Details: err.Error()})
		return
	}

	inv, err := s.store.Find(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "lookup failed"})
		return
	}
	if inv == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "invoice not found"})
		return
	}

	if err := inv.TransitionTo(model.InvoiceStatus(req.Status)); err != nil {
		// Unknown target status is a bad request; a known status the
		// lifecycle does not allow from here is a conflict.
		status := http.StatusConflict
		if !model.InvoiceStatus(req.Status).Valid() {
			status = http.StatusBadRequest
		}
		c.JSON(status, ErrorResponse{Error: "status transition rejected", Details: err.Error()})
		return
	}

	if err := s.store.Save(c.Request.Context(), inv); err != nil {
		log := logger.WithComponent("server")
		log.Error().Err(err).Msg("save status transition")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to store invoice"})
		return
	}
	c.JSON(http.StatusOK, InvoiceResponse{Invoice: inv})
}

func (s *Server) handleListInvoices(c *gin.Context) {
	filter, ok := s.filterFromQuery(c)
	if !ok {
		return
	}

	page := intQuery(c, "page", 1)
	pageSize := intQuery(c, "page_size", 20)

	invoices, err := s.store.List(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "listing failed"})
		return
	}
	c.JSON(http.StatusOK, InvoiceListResponse{Invoices: invoices, Page: page, PageSize: pageSize})
}

func (s *Server) handleExportBatch(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid export request", Details: err.Error()})
		return
	}

	format, ok := export.ParseFormat(req.Format)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unsupported export format", Details: req.Format})
		return
	}

	filter := model.InvoiceFilter{
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		SupplierID: req.SupplierID,
		CustomerID: req.CustomerID,
		InvoiceIDs: req.InvoiceIDs,
	}
	if req.Status != nil {
		status := model.InvoiceStatus(*req.Status)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown status", Details: *req.Status})
			return
		}
		filter.Status = &status
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Minute)
	defer cancel()

	result, err := s.exporter.ExportBatch(ctx, filter, format)
	if err != nil {
		s.writeExportError(c, err)
		return
	}
	s.writeExportResult(c, result)
}

func (s *Server) handleExportSingle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid invoice id"})
		return
	}

	format := export.FormatXML
	if raw := c.Query("format"); raw != "" {
		var ok bool
		if format, ok = export.ParseFormat(raw); !ok {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unsupported export format", Details: raw})
			return
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Minute)
	defer cancel()

	result, err := s.exporter.ExportSingle(ctx, id, format)
	if err != nil {
		s.writeExportError(c, err)
		return
	}
	s.writeExportResult(c, result)
}

func (s *Server) handleFormats(c *gin.Context) {
	c.JSON(http.StatusOK, export.FormatInfos())
}

func (s *Server) writeExportResult(c *gin.Context, result *export.Result) {
	c.Header("Content-Disposition", `attachment; filename="`+result.FileName+`"`)
	c.Header("X-Record-Count", strconv.Itoa(result.RecordCount))
	c.Data(http.StatusOK, result.ContentType, result.Data)
}

func (s *Server) writeExportError(c *gin.Context, err error) {
	var (
		notFound    *model.NotFoundError
		empty       *model.EmptyResultError
		unsupported *model.UnsupportedFormatError
	)
	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "invoice not found", Details: err.Error()})
	case errors.As(err, &empty):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "empty result set", Details: err.Error()})
	case errors.As(err, &unsupported):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unsupported export format", Details: err.Error()})
	default:
		log := logger.WithComponent("server")
		log.Error().Err(err).Msg("export failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "export failed", Details: err.Error()})
	}
}

func (s *Server) filterFromQuery(c *gin.Context) (model.InvoiceFilter, bool) {
	var filter model.InvoiceFilter
	if raw := c.Query("status"); raw != "" {
		status := model.InvoiceStatus(raw)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown status", Details: raw})
			return filter, false
		}
		filter.Status = &status
	}
	if raw := c.Query("supplier_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid supplier_id"})
			return filter, false
		}
		filter.SupplierID = &id
	}
	if raw := c.Query("customer_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid customer_id"})
			return filter, false
		}
		filter.CustomerID = &id
	}
	if raw := c.Query("owner_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid owner_id"})
			return filter, false
		}
		filter.OwnerID = &id
	}
	return filter, true
}

func intQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
