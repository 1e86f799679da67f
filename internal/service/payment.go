package service

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"tailor-service/internal/model"
)

// PaymentSummary is the derived reconciliation of an order's payments.
// It is computed, never stored, except as the cached copy on the order.
type PaymentSummary struct {
	TotalOrderAmount decimal.Decimal `json:"total_order_amount"`
	TotalPaidAmount  decimal.Decimal `json:"total_paid_amount"`
	PendingAmount    decimal.Decimal `json:"pending_amount"`
	PaymentStatus    string          `json:"payment_status"`
}

// Summarize reconciles payments against an order total. Voided payments
// are skipped. Overpayment reports as paid with zero pending, never as a
// negative pending amount; refund handling is the caller's concern.
func Summarize(totalOrderAmount decimal.Decimal, payments []model.Payment) PaymentSummary {
	paid := decimal.Zero
	for _, p := range payments {
		if p.Voided {
			continue
		}
		paid = paid.Add(p.Amount)
	}

	pending := totalOrderAmount.Sub(paid)
	if pending.IsNegative() {
		pending = decimal.Zero
	}

	status := model.PaymentStatusUnpaid
	switch {
	case paid.IsZero():
		status = model.PaymentStatusUnpaid
	case paid.GreaterThanOrEqual(totalOrderAmount):
		status = model.PaymentStatusPaid
	default:
		status = model.PaymentStatusPartial
	}

	return PaymentSummary{
		TotalOrderAmount: totalOrderAmount.Round(2),
		TotalPaidAmount:  paid.Round(2),
		PendingAmount:    pending.Round(2),
		PaymentStatus:    status,
	}
}

// Payments records and voids payments and keeps the order's cached
// payment summary refreshed from the full payment history.
type Payments struct {
	db *gorm.DB
}

func NewPayments(db *gorm.DB) *Payments {
	return &Payments{db: db}
}

// Record appends a payment against an order (optionally an invoice) and
// refreshes the cached summary in the same transaction.
func (s *Payments) Record(tenantID uint, payment *model.Payment) (*PaymentSummary, error) {
	if !payment.Amount.IsPositive() {
		return nil, &InvariantError{Detail: "payment amount must be positive"}
	}

	var summary PaymentSummary
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var order model.Order
		if err := tx.Where("id = ? AND tenant_id = ?", payment.OrderID, tenantID).First(&order).Error; err != nil {
			return err
		}
		if payment.InvoiceID != nil {
			var invoice model.Invoice
			if err := tx.Where("id = ? AND tenant_id = ?", *payment.InvoiceID, tenantID).First(&invoice).Error; err != nil {
				return err
			}
		}

		payment.TenantID = tenantID
		if payment.PaidAt.IsZero() {
			payment.PaidAt = time.Now()
		}
		if err := tx.Create(payment).Error; err != nil {
			return err
		}

		var err error
		summary, err = refreshOrderPayments(tx, &order)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// Void marks a payment void and refreshes the order's summary. Payments
// are never deleted.
func (s *Payments) Void(tenantID, paymentID uint, reason string) (*PaymentSummary, error) {
	var summary PaymentSummary
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var payment model.Payment
		if err := tx.Where("id = ? AND tenant_id = ?", paymentID, tenantID).First(&payment).Error; err != nil {
			return err
		}
		if payment.Voided {
			return ErrInvalidTransition
		}
		now := time.Now()
		payment.Voided = true
		payment.VoidedAt = &now
		payment.VoidReason = reason
		if err := tx.Save(&payment).Error; err != nil {
			return err
		}

		var order model.Order
		if err := tx.Where("id = ?", payment.OrderID).First(&order).Error; err != nil {
			return err
		}
		var err error
		summary, err = refreshOrderPayments(tx, &order)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// SummarizeOrder reconciles an order on demand.
func (s *Payments) SummarizeOrder(tenantID, orderID uint) (*PaymentSummary, error) {
	var order model.Order
	if err := s.db.Where("id = ? AND tenant_id = ?", orderID, tenantID).First(&order).Error; err != nil {
		return nil, err
	}
	var payments []model.Payment
	if err := s.db.Where("order_id = ?", order.ID).Find(&payments).Error; err != nil {
		return nil, err
	}
	summary := Summarize(order.TotalAmount, payments)
	return &summary, nil
}

// refreshOrderPayments recomputes the cached summary from the full
// payment history and stores it on the order.
func refreshOrderPayments(tx *gorm.DB, order *model.Order) (PaymentSummary, error) {
	var payments []model.Payment
	if err := tx.Where("order_id = ?", order.ID).Find(&payments).Error; err != nil {
		return PaymentSummary{}, err
	}
	summary := Summarize(order.TotalAmount, payments)
	err := tx.Model(&model.Order{}).Where("id = ?", order.ID).
		Updates(map[string]interface{}{
			"paid_amount":    summary.TotalPaidAmount,
			"payment_status": summary.PaymentStatus,
		}).Error
	return summary, err
}
