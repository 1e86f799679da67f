package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment methods.
const (
	PaymentMethodCash     = "cash"
	PaymentMethodUPI      = "upi"
	PaymentMethodCard     = "card"
	PaymentMethodTransfer = "bank_transfer"
	PaymentMethodCheque   = "cheque"
)

// Payment is append-only. Mistaken entries are voided, never deleted, so
// reconciliation can always be recomputed from the full history.
type Payment struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	TenantID   uint           `json:"tenant_id" gorm:"index;not null"`
	OrderID    uint           `json:"order_id" gorm:"index;not null"`
	InvoiceID  *uint          `json:"invoice_id,omitempty" gorm:"index"`
	Amount     decimal.Decimal `json:"amount" gorm:"type:decimal(14,2);not null"`
	Method     string         `json:"method" gorm:"type:varchar(20);not null;default:'cash'"`
	Reference  string         `json:"reference" gorm:"type:varchar(100)"`
	PaidAt     time.Time      `json:"paid_at"`
	Voided     bool           `json:"voided" gorm:"default:false"`
	VoidedAt   *time.Time     `json:"voided_at,omitempty"`
	VoidReason string         `json:"void_reason" gorm:"type:varchar(255)"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}
