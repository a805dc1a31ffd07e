package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/cash_register_app/internal/core/ports/services"
	"github.com/SscSPs/cash_register_app/internal/dto"
	"github.com/SscSPs/cash_register_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// invoiceHandler handles HTTP requests related to supplier invoices.
type invoiceHandler struct {
	invoiceService portssvc.InvoiceSvcFacade
}

func newInvoiceHandler(is portssvc.InvoiceSvcFacade) *invoiceHandler {
	return &invoiceHandler{invoiceService: is}
}

// registerInvoiceRoutes registers routes related to invoices.
func registerInvoiceRoutes(rg *gin.RouterGroup, invoiceService portssvc.InvoiceSvcFacade) {
	h := newInvoiceHandler(invoiceService)

	invoices := rg.Group("/invoices")
	{
		invoices.GET("", h.listInvoices)
		invoices.POST("", h.createInvoice)
		invoices.POST("/reconcile", h.reconcile)
		invoices.POST("/migrate", h.migrateLegacy)
		invoices.GET("/:invoiceID", h.getInvoice)
		invoices.PUT("/:invoiceID", h.updateInvoice)
		invoices.DELETE("/:invoiceID", h.deleteInvoice)
		invoices.PUT("/:invoiceID/paid", h.setPaid)
		invoices.POST("/:invoiceID/wire-payments", h.registerWirePayment)
	}
}

// invoiceIDOrAbort parses the invoice id path parameter or writes a 400.
func invoiceIDOrAbort(c *gin.Context, logger *slog.Logger) (int64, bool) {
	id, err := int64Param(c, "invoiceID")
	if err != nil {
		logger.Warn("Invalid invoice ID", slog.String("invoice_id", c.Param("invoiceID")))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid invoice ID"})
		return 0, false
	}
	return id, true
}

// listInvoices godoc
// @Summary List invoices
// @Description Lists invoices with their status and the open summary
// @Tags invoices
// @Produce json
// @Param filter query string false "all, open, paid or overdue"
// @Param supplier query string false "Supplier name"
// @Success 200 {object} dto.ListInvoicesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /invoices [get]
func (h *invoiceHandler) listInvoices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListInvoicesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListInvoices", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}
	ownerID, ok := ownerOrAbort(c, logger)
	if !ok {
		return
	}

	resp, err := h.invoiceService.ListInvoices(c.Request.Context(), ownerID, params)
	if err != nil {
		respondError(c, logger, err, "Failed to list invoices")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getInvoice godoc
// @Summary Get an invoice
// @Tags invoices
// @Produce json
// @Param invoiceID path int true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /invoices/{invoiceID} [get]
func (h *invoiceHandler) getInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := ownerOrAbort(c, logger)
	if !ok {
		return
	}
	invoiceID, ok := invoiceIDOrAbort(c, logger)
	if !ok {
		return
	}

	resp, err := h.invoiceService.GetInvoice(c.Request.Context(), ownerID, invoiceID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve invoice")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// createInvoice godoc
// @Summary Create an invoice
// @Tags invoices
// @Accept json
// @Produce json
// @Param invoice body dto.CreateInvoiceRequest true "Invoice details"
// @Success 201 {object} domain.Invoice
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Invoice number already registered"
// @Security BearerAuth
// @Router /invoices [post]
func (h *invoiceHandler) createInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateInvoice", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	ownerID, ok := ownerOrAbort(c, logger)
	if !ok {
		return
	}

	inv, err := h.invoiceService.CreateInvoice(c.Request.Context(), ownerID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to create invoice")
		return
	}
	logger.Info("Invoice created", slog.Int64("invoice_id", inv.ID))
	c.JSON(http.StatusCreated, inv)
}

// updateInvoice godoc
// @Summary Update an invoice
// @Description Changes the provided fields, leaving the others untouched
// @Tags invoices
// @Accept json
// @Produce json
// @Param invoiceID path int true "Invoice ID"
// @Param invoice body dto.UpdateInvoiceRequest true "Fields to change"
// @Success 200 {object} domain.Invoice
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /invoices/{invoiceID} [put]
func (h *invoiceHandler) updateInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID, ok := invoiceIDOrAbort(c, logger)
	if !ok {
		return
	}
	var req dto.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateInvoice", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	ownerID, ok := ownerOrAbort(c, logger)
	if !ok {
		return
	}

	inv, err := h.invoiceService.UpdateInvoice(c.Request.Context(), ownerID, invoiceID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to update invoice")
		return
	}
	c.JSON(http.StatusOK, inv)
}

// deleteInvoice godoc
// @Summary Delete an invoice
// @Tags invoices
// @Param invoiceID path int true "Invoice ID"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /invoices/{invoiceID} [delete]
func (h *invoiceHandler) deleteInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := ownerOrAbort(c, logger)
	if !ok {
		return
	}
	invoiceID, ok := invoiceIDOrAbort(c, logger)
	if !ok {
		return
	}

	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), ownerID, invoiceID); err != nil {
		respondError(c, logger, err, "Failed to delete invoice")
		return
	}
	logger.Info("Invoice deleted", slog.Int64("invoice_id", invoiceID))
	c.Status(http.StatusNoContent)
}

// setPaid godoc
// @Summary Mark an invoice paid or unpaid
// @Description Legacy invoices must be migrated first
// @Tags invoices
// @Accept json
// @Produce json
// @Param invoiceID path int true "Invoice ID"
// @Param paid body dto.SetPaidRequest true "Paid flag"
// @Success 200 {object} domain.Invoice
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /invoices/{invoiceID}/paid [put]
func (h *invoiceHandler) setPaid(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID, ok := invoiceIDOrAbort(c, logger)
	if !ok {
		return
	}
	var req dto.SetPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetPaid", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	ownerID, ok := ownerOrAbort(c, logger)
	if !ok {
		return
	}

	inv, err := h.invoiceService.SetPaid(c.Request.Context(), ownerID, invoiceID, req.Paid)
	if err != nil {
		respondError(c, logger, err, "Failed to update invoice")
		return
	}
	c.JSON(http.StatusOK, inv)
}

// registerWirePayment godoc
// @Summary Register a wire payment
// @Description Adds a bank transfer or cheque to a legacy invoice
// @Tags invoices
// @Accept json
// @Produce json
// @Param invoiceID path int true "Invoice ID"
// @Param payment body dto.WirePaymentRequest true "Amount"
// @Success 200 {object} domain.Invoice
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /invoices/{invoiceID}/wire-payments [post]
func (h *invoiceHandler) registerWirePayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID, ok := invoiceIDOrAbort(c, logger)
	if !ok {
		return
	}
	var req dto.WirePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RegisterWirePayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	ownerID, ok := ownerOrAbort(c, logger)
	if !ok {
		return
	}

	inv, err := h.invoiceService.RegisterWirePayment(c.Request.Context(), ownerID, invoiceID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to register wire payment")
		return
	}
	c.JSON(http.StatusOK, inv)
}

// reconcile godoc
// @Summary Reconcile legacy invoices
// @Description Allocates supplier cash payments to the legacy invoices
// @Tags invoices
// @Produce json
// @Success 200 {object} accounting.ReconcileResult
// @Security BearerAuth
// @Router /invoices/reconcile [post]
func (h *invoiceHandler) reconcile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := ownerOrAbort(c, logger)
	if !ok {
		return
	}

	result, err := h.invoiceService.Reconcile(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, logger, err, "Failed to reconcile invoices")
		return
	}
	c.JSON(http.StatusOK, result)
}

// migrateLegacy godoc
// @Summary Migrate legacy invoices
// @Description Reconciles one last time and converts every legacy invoice to the current schema
// @Tags invoices
// @Produce json
// @Success 200 {object} dto.MigrationResult
// @Security BearerAuth
// @Router /invoices/migrate [post]
func (h *invoiceHandler) migrateLegacy(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := ownerOrAbort(c, logger)
	if !ok {
		return
	}

	result, err := h.invoiceService.MigrateLegacy(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, logger, err, "Failed to migrate invoices")
		return
	}
	logger.Info("Legacy invoices migrated", slog.Int("migrated", result.Migrated))
	c.JSON(http.StatusOK, result)
}
