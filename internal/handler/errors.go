package handler

import (
	"errors"
	"net/http"

	"tailor-service/internal/service"
	"tailor-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// respondServiceError maps engine failures onto HTTP statuses. Quota
// denials are payment-required so billing UIs can react; lost races are
// retryable conflicts.
func respondServiceError(c echo.Context, log *zap.Logger, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, service.ErrQuotaExceeded):
		var qe *service.QuotaError
		resource := "unknown"
		if errors.As(err, &qe) {
			resource = string(qe.Resource)
		}
		prometheus.RecordQuotaDenial(resource)
		return c.JSON(http.StatusPaymentRequired, echo.Map{"error": err.Error(), "resource": resource})
	case errors.Is(err, service.ErrTenantInactive):
		prometheus.RecordError("tenant_inactive")
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrAlreadyConverted):
		prometheus.RecordError("already_converted")
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInquiryClosed):
		prometheus.RecordError("inquiry_closed")
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidTransition), errors.Is(err, service.ErrStageNotForward):
		prometheus.RecordError("invalid_transition")
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidJurisdiction):
		prometheus.RecordError("invalid_jurisdiction")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvariantViolation):
		prometheus.RecordError("invariant_violation")
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrConcurrencyConflict):
		prometheus.RecordError("concurrency_conflict")
		return c.JSON(http.StatusConflict, echo.Map{"error": "concurrent update, please retry"})
	default:
		log.Error("Unhandled service error", zap.Error(err))
		prometheus.RecordError("internal")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
