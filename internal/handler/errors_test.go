package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tailor-service/internal/service"
)

func TestRespondServiceError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", gorm.ErrRecordNotFound, http.StatusNotFound},
		{"quota denial", &service.QuotaError{Resource: service.ResourceCustomers, Limit: 1, Current: 1}, http.StatusPaymentRequired},
		{"inactive tenant", service.ErrTenantInactive, http.StatusForbidden},
		{"double conversion", service.ErrAlreadyConverted, http.StatusConflict},
		{"closed inquiry", service.ErrInquiryClosed, http.StatusConflict},
		{"invalid transition", service.ErrInvalidTransition, http.StatusUnprocessableEntity},
		{"backward stage", service.ErrStageNotForward, http.StatusUnprocessableEntity},
		{"missing jurisdiction", service.ErrInvalidJurisdiction, http.StatusBadRequest},
		{"broken invariant", service.ErrInvariantViolation, http.StatusUnprocessableEntity},
		{"lost race is a retryable conflict", service.ErrConcurrencyConflict, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			assert.NoError(t, respondServiceError(c, zap.NewNop(), tt.err))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
