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
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RecordPayment appends a payment against an order and returns the
// recomputed reconciliation summary.
func RecordPayment(c echo.Context) error {
	log := logger.FromContext(c)
	tenant := middleware.CurrentTenant(c)
	prometheus.RecordPaymentOperation("record")

	var req struct {
		OrderID   uint            `json:"order_id"`
		InvoiceID *uint           `json:"invoice_id"`
		Amount    decimal.Decimal `json:"amount"`
		Method    string          `json:"method"`
		Reference string          `json:"reference"`
		PaidAt    *time.Time      `json:"paid_at"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse payment request", zap.Error(err))
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.OrderID == 0 {
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "order_id is required"})
	}
	if req.Method == "" {
		req.Method = model.PaymentMethodCash
	}

	paidAt := time.Now()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}

	payment := model.Payment{
		TenantID:  tenant.ID,
		OrderID:   req.OrderID,
		InvoiceID: req.InvoiceID,
		Amount:    req.Amount,
		Method:    req.Method,
		Reference: req.Reference,
		PaidAt:    paidAt,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	summary, err := service.NewPayments(database.GetDB()).Record(tenant.ID, &payment)
	if err != nil {
		return respondServiceError(c, log, err)
	}

	log.Info("Payment recorded",
		zap.Uint("tenant_id", tenant.ID),
		zap.Uint("order_id", req.OrderID),
		zap.String("amount", req.Amount.String()),
		zap.String("status", summary.PaymentStatus))
	return c.JSON(http.StatusCreated, echo.Map{
		"payment": payment,
		"summary": summary,
	})
}

// VoidPayment marks a mistaken payment void and recomputes the order's
// summary. Payments are never deleted.
func VoidPayment(c echo.Context) error {
	log := logger.FromContext(c)
	tenant := middleware.CurrentTenant(c)
	prometheus.RecordPaymentOperation("void")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment ID"})
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.Bind(&req); err != nil {
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	summary, err := service.NewPayments(database.GetDB()).Void(tenant.ID, uint(id), req.Reason)
	if err != nil {
		return respondServiceError(c, log, err)
	}

	log.Info("Payment voided",
		zap.Uint("tenant_id", tenant.ID),
		zap.Uint64("payment_id", id),
		zap.String("reason", req.Reason))
	return c.JSON(http.StatusOK, echo.Map{"summary": summary})
}

// OrderPaymentSummary returns the derived paid/pending/status view for
// an order, plus its payment history.
func OrderPaymentSummary(c echo.Context) error {
	log := logger.FromContext(c)
	tenant := middleware.CurrentTenant(c)
	prometheus.RecordPaymentOperation("summary")

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order ID"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	summary, err := service.NewPayments(database.GetDB()).SummarizeOrder(tenant.ID, uint(orderID))
	if err != nil {
		return respondServiceError(c, log, err)
	}

	var payments []model.Payment
	if result := database.GetDB().
		Where("order_id = ? AND tenant_id = ?", orderID, tenant.ID).
		Order("paid_at DESC").Find(&payments); result.Error != nil {
		log.Error("Failed to list payments", zap.Error(result.Error))
		prometheus.RecordError("db_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list payments"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"summary":  summary,
		"payments": payments,
	})
}
