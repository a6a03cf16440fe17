package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"billmint/internal/billing"
	"billmint/internal/common"
	"billmint/internal/config"
	"billmint/internal/services"
)

// InvoiceHandlers handles invoice-related HTTP requests
type InvoiceHandlers struct {
	invoiceService services.InvoiceServiceInterface
	pdfService     services.PDFService
	docService     services.DocumentService
	cfg            *config.BillingConfig
}

// NewInvoiceHandlers creates a new invoice handlers instance
func NewInvoiceHandlers(invoiceService services.InvoiceServiceInterface, pdfService services.PDFService, docService services.DocumentService, cfg *config.BillingConfig) *InvoiceHandlers {
	return &InvoiceHandlers{
		invoiceService: invoiceService,
		pdfService:     pdfService,
		docService:     docService,
		cfg:            cfg,
	}
}

// CreateInvoice prices the submitted draft and persists it with a fresh
// invoice number. Stock is decremented in the same transaction.
func (h *InvoiceHandlers) CreateInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req services.CreateInvoiceRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	invoice, err := h.invoiceService.CreateInvoice(ctx, tenantID, &req)
	if err != nil {
		return common.SendBillingError(c, err)
	}

	return c.JSON(http.StatusCreated, invoice)
}

// PreviewInvoice prices the draft without persisting it.
func (h *InvoiceHandlers) PreviewInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req services.CreateInvoiceRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	preview, err := h.invoiceService.PreviewInvoice(ctx, tenantID, &req)
	if err != nil {
		return common.SendBillingError(c, err)
	}

	return c.JSON(http.StatusOK, preview)
}

// GetInvoices lists invoices for the tenant
func (h *InvoiceHandlers) GetInvoices(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit, offset := pageParams(c)
	invoices, err := h.invoiceService.ListInvoices(ctx, tenantID, limit, offset)
	if err != nil {
		log.Printf("WARN: failed to list invoices for tenant %s: %v", tenantID, err)
		return common.SendServerError(c, "Failed to list invoices")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"invoices": invoices,
		"limit":    limit,
		"offset":   offset,
	})
}

// GetUnpaidInvoices lists pending and overdue invoices, pending first.
func (h *InvoiceHandlers) GetUnpaidInvoices(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit, offset := pageParams(c)
	invoices, err := h.invoiceService.GetUnpaidInvoices(ctx, tenantID, limit, offset)
	if err != nil {
		log.Printf("WARN: failed to list unpaid invoices for tenant %s: %v", tenantID, err)
		return common.SendServerError(c, "Failed to list unpaid invoices")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"invoices": invoices,
		"limit":    limit,
		"offset":   offset,
	})
}

// GetInvoiceByID returns a single invoice with its lines
func (h *InvoiceHandlers) GetInvoiceByID(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	invoiceID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	invoice, err := h.invoiceService.GetInvoiceByID(ctx, tenantID, invoiceID)
	if err != nil {
		return common.SendNotFoundError(c, "invoice")
	}

	return c.JSON(http.StatusOK, invoice)
}

// UpdateInvoiceStatusRequest represents the status update payload
type UpdateInvoiceStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateInvoiceStatus moves an invoice through its status lifecycle.
func (h *InvoiceHandlers) UpdateInvoiceStatus(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	invoiceID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req UpdateInvoiceStatusRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateInvoiceStatus(req.Status); err != nil {
		return common.SendValidationError(c, "status", err.Error())
	}

	if err := h.invoiceService.UpdateInvoiceStatus(ctx, tenantID, invoiceID, req.Status); err != nil {
		return common.SendBillingError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Invoice status updated",
		"status":  req.Status,
	})
}

// DeleteInvoice removes an invoice and restores the stock its lines consumed.
func (h *InvoiceHandlers) DeleteInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	invoiceID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.invoiceService.DeleteInvoice(ctx, tenantID, invoiceID); err != nil {
		return common.SendBillingError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// GetGSTReport summarizes tax collected per rate and GST type over a period.
// Dates come as start_date/end_date query params in YYYY-MM-DD.
func (h *InvoiceHandlers) GetGSTReport(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	startStr := c.QueryParam("start_date")
	endStr := c.QueryParam("end_date")
	if startStr == "" {
		return common.SendValidationError(c, "start_date", "start_date is required")
	}
	if endStr == "" {
		return common.SendValidationError(c, "end_date", "end_date is required")
	}
	if err := common.ValidateDateFormat(startStr, "start_date"); err != nil {
		return common.SendValidationError(c, "start_date", err.Error())
	}
	if err := common.ValidateDateFormat(endStr, "end_date"); err != nil {
		return common.SendValidationError(c, "end_date", err.Error())
	}
	startDate, _ := time.Parse("2006-01-02", startStr)
	endDate, _ := time.Parse("2006-01-02", endStr)

	rows, err := h.invoiceService.GetGSTReport(ctx, tenantID, startDate, endDate)
	if err != nil {
		return common.SendBillingError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"start_date": startStr,
		"end_date":   endStr,
		"rows":       rows,
	})
}

// DownloadInvoicePDF renders the invoice on the fly and streams it back.
func (h *InvoiceHandlers) DownloadInvoicePDF(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	invoiceID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	view, err := h.invoiceService.GetInvoiceView(ctx, tenantID, invoiceID)
	if err != nil {
		return common.SendBillingError(c, err)
	}

	pdf, err := h.pdfService.RenderInvoice(view)
	if err != nil {
		log.Printf("WARN: failed to render PDF for invoice %s: %v", invoiceID, err)
		return common.SendServerError(c, "Failed to render invoice PDF")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s.pdf", view.InvoiceNumber))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}

// GetInvoicePDFURL returns a presigned link to the stored PDF rendered by the
// background worker.
func (h *InvoiceHandlers) GetInvoicePDFURL(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	invoiceID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	expiry := time.Duration(h.cfg.Documents.PresignExpiryMins) * time.Minute
	url, err := h.docService.GetInvoicePDFURL(ctx, h.cfg.Documents.Bucket, tenantID, invoiceID, expiry)
	if err != nil {
		log.Printf("WARN: failed to presign PDF URL for invoice %s: %v", invoiceID, err)
		return common.SendBillingError(c, fmt.Errorf("%w: invoice document store", billing.ErrServiceUnavailable))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"url":        url,
		"expires_in": int(expiry.Seconds()),
	})
}
