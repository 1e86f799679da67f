package handler

import (
	"net/http"
	"strconv"
	"time"

	"tailor-service/internal/middleware"
	"tailor-service/internal/model"
	"tailor-service/internal/service"
	"tailor-service/pkg/database"
	"tailor-service/pkg/logger"
	"tailor-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// GenerateInvoice derives an invoice from an order's items. The invoice
// number is allocated from the tenant's GST or non-GST sequence.
func GenerateInvoice(c echo.Context) error {
	log := logger.FromContext(c)
	tenant := middleware.CurrentTenant(c)
	prometheus.RecordInvoiceOperation("generate")

	var req struct {
		OrderID uint       `json:"order_id"`
		DueDate *time.Time `json:"due_date"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse invoice request", zap.Error(err))
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.OrderID == 0 {
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "order_id is required"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	invoice, err := service.NewInvoices(database.GetDB()).GenerateFromOrder(tenant, req.OrderID, req.DueDate)
	if err != nil {
		return respondServiceError(c, log, err)
	}

	log.Info("Invoice generated",
		zap.Uint("tenant_id", tenant.ID),
		zap.Uint("order_id", req.OrderID),
		zap.String("invoice_number", invoice.InvoiceNumber))
	return c.JSON(http.StatusCreated, invoice)
}

// GenerateManualInvoice creates an invoice from ad-hoc billing lines,
// without an order behind it.
func GenerateManualInvoice(c echo.Context) error {
	log := logger.FromContext(c)
	tenant := middleware.CurrentTenant(c)
	prometheus.RecordInvoiceOperation("generate_manual")

	var input service.ManualBillingInput
	if err := c.Bind(&input); err != nil {
		log.Error("Failed to parse manual invoice request", zap.Error(err))
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	invoice, err := service.NewInvoices(database.GetDB()).GenerateManual(tenant, input)
	if err != nil {
		return respondServiceError(c, log, err)
	}

	log.Info("Manual invoice generated",
		zap.Uint("tenant_id", tenant.ID),
		zap.String("invoice_number", invoice.InvoiceNumber))
	return c.JSON(http.StatusCreated, invoice)
}

// ListInvoices returns the tenant's invoices, newest first.
func ListInvoices(c echo.Context) error {
	log := logger.FromContext(c)
	tenant := middleware.CurrentTenant(c)
	prometheus.RecordInvoiceOperation("list")

	defer prometheus.TrackDBOperation("query")(time.Now())

	query := database.GetDB().Where("tenant_id = ?", tenant.ID)
	if status := c.QueryParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var invoices []model.Invoice
	if result := query.Order("created_at DESC").Find(&invoices); result.Error != nil {
		log.Error("Failed to list invoices", zap.Error(result.Error))
		prometheus.RecordError("db_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list invoices"})
	}

	now := time.Now()
	for i := range invoices {
		invoices[i].Status = invoices[i].EffectiveStatus(now)
	}

	return c.JSON(http.StatusOK, invoices)
}

// GetInvoice returns one invoice scoped to the tenant.
func GetInvoice(c echo.Context) error {
	log := logger.FromContext(c)
	tenant := middleware.CurrentTenant(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid invoice ID"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var invoice model.Invoice
	if result := database.GetDB().Where("id = ? AND tenant_id = ?", id, tenant.ID).
		First(&invoice); result.Error != nil {
		return respondServiceError(c, log, result.Error)
	}

	invoice.Status = invoice.EffectiveStatus(time.Now())
	return c.JSON(http.StatusOK, invoice)
}

// MarkInvoiceSent stamps the invoice as sent.
func MarkInvoiceSent(c echo.Context) error {
	return setInvoiceStatus(c, "sent")
}

// MarkInvoicePaid stamps the invoice as paid.
func MarkInvoicePaid(c echo.Context) error {
	return setInvoiceStatus(c, "paid")
}

// CancelInvoice voids an unpaid invoice. Its sequence number is not
// reused.
func CancelInvoice(c echo.Context) error {
	return setInvoiceStatus(c, "cancelled")
}

func setInvoiceStatus(c echo.Context, status string) error {
	log := logger.FromContext(c)
	tenant := middleware.CurrentTenant(c)
	prometheus.RecordInvoiceOperation(status)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid invoice ID"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	invoices := service.NewInvoices(database.GetDB())
	var invoice *model.Invoice
	switch status {
	case "sent":
		invoice, err = invoices.MarkSent(tenant.ID, uint(id))
	case "paid":
		invoice, err = invoices.MarkPaid(tenant.ID, uint(id))
	case "cancelled":
		invoice, err = invoices.Cancel(tenant.ID, uint(id))
	}
	if err != nil {
		return respondServiceError(c, log, err)
	}

	log.Info("Invoice status changed",
		zap.Uint("tenant_id", tenant.ID),
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("status", invoice.Status))
	return c.JSON(http.StatusOK, invoice)
}
