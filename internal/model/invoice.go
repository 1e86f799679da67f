package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Invoice statuses.
const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusSent      = "sent"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusOverdue   = "overdue"
	InvoiceStatusCancelled = "cancelled"
)

// Invoice carries a billing snapshot copied at generation time. The
// snapshot fields are never re-derived from the live customer or tenant
// so historical invoices remain stable.
type Invoice struct {
	ID               uint           `json:"id" gorm:"primaryKey"`
	TenantID         uint           `json:"tenant_id" gorm:"uniqueIndex:idx_invoice_tenant_number;not null"`
	OrderID          *uint          `json:"order_id,omitempty" gorm:"index"`
	CustomerID       *uint          `json:"customer_id,omitempty" gorm:"index"`
	InvoiceNumber    string         `json:"invoice_number" gorm:"type:varchar(50);uniqueIndex:idx_invoice_tenant_number;not null"`
	SequenceNo       int64          `json:"sequence_no" gorm:"not null"`
	IsGST            bool           `json:"is_gst" gorm:"default:false"`
	IsInterState     bool           `json:"is_inter_state" gorm:"default:false"`
	InvoiceDate      time.Time      `json:"invoice_date"`
	DueDate          *time.Time     `json:"due_date,omitempty"`
	BillingName      string         `json:"billing_name" gorm:"type:varchar(100);not null"`
	BillingAddress   string         `json:"billing_address" gorm:"type:text"`
	BillingStateCode string         `json:"billing_state_code" gorm:"type:varchar(2)"`
	BillingGSTNumber string         `json:"billing_gst_number" gorm:"type:varchar(15)"`
	SellerName       string         `json:"seller_name" gorm:"type:varchar(100)"`
	SellerStateCode  string         `json:"seller_state_code" gorm:"type:varchar(2)"`
	SellerGSTNumber  string         `json:"seller_gst_number" gorm:"type:varchar(15)"`
	Subtotal         decimal.Decimal `json:"subtotal" gorm:"type:decimal(14,2);default:0"`
	DiscountAmount   decimal.Decimal `json:"discount_amount" gorm:"type:decimal(14,2);default:0"`
	TaxableAmount    decimal.Decimal `json:"taxable_amount" gorm:"type:decimal(14,2);default:0"`
	CGSTAmount       decimal.Decimal `json:"cgst_amount" gorm:"type:decimal(14,2);default:0"`
	SGSTAmount       decimal.Decimal `json:"sgst_amount" gorm:"type:decimal(14,2);default:0"`
	IGSTAmount       decimal.Decimal `json:"igst_amount" gorm:"type:decimal(14,2);default:0"`
	TotalTaxAmount   decimal.Decimal `json:"total_tax_amount" gorm:"type:decimal(14,2);default:0"`
	TotalAmount      decimal.Decimal `json:"total_amount" gorm:"type:decimal(14,2);default:0"`
	AmountInWords    string         `json:"amount_in_words" gorm:"type:varchar(255)"`
	Status           string         `json:"status" gorm:"type:varchar(20);not null;default:'draft'"`
	SentAt           *time.Time     `json:"sent_at,omitempty"`
	PaidAt           *time.Time     `json:"paid_at,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `json:"-" gorm:"index"`
}

// EffectiveStatus projects `overdue` for a sent invoice whose due date
// has passed. Overdue is derived at read time, never stored, so a late
// payment needs no status repair.
func (i *Invoice) EffectiveStatus(now time.Time) string {
	if i.Status == InvoiceStatusSent && i.DueDate != nil && now.After(*i.DueDate) {
		return InvoiceStatusOverdue
	}
	return i.Status
}
