package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment statuses derived by reconciliation, cached on the order.
const (
	PaymentStatusUnpaid  = "unpaid"
	PaymentStatusPartial = "partial"
	PaymentStatusPaid    = "paid"
)

// Order is the production order aggregate. Subtotal, DiscountAmount,
// TaxAmount and TotalAmount are materialized caches: the pricing
// aggregator is the only legitimate writer of these fields.
type Order struct {
	ID                  uint           `json:"id" gorm:"primaryKey"`
	TenantID            uint           `json:"tenant_id" gorm:"uniqueIndex:idx_order_tenant_number;not null"`
	CustomerID          uint           `json:"customer_id" gorm:"index;not null"`
	InquiryID           *uint          `json:"inquiry_id,omitempty" gorm:"index"`
	OrderNumber         string         `json:"order_number" gorm:"type:varchar(50);uniqueIndex:idx_order_tenant_number;not null"`
	StatusID            *uint          `json:"status_id,omitempty" gorm:"index"`
	PriorityID          *uint          `json:"priority_id,omitempty" gorm:"index"`
	OrderDate           time.Time      `json:"order_date"`
	PromisedDeliveryAt  *time.Time     `json:"promised_delivery_at,omitempty"`
	Notes               string         `json:"notes" gorm:"type:text"`
	Subtotal            decimal.Decimal `json:"subtotal" gorm:"type:decimal(14,2);default:0"`
	DiscountAmount      decimal.Decimal `json:"discount_amount" gorm:"type:decimal(14,2);default:0"`
	TaxAmount           decimal.Decimal `json:"tax_amount" gorm:"type:decimal(14,2);default:0"`
	TotalAmount         decimal.Decimal `json:"total_amount" gorm:"type:decimal(14,2);default:0"`
	PaidAmount          decimal.Decimal `json:"paid_amount" gorm:"type:decimal(14,2);default:0"`
	PaymentStatus       string         `json:"payment_status" gorm:"type:varchar(20);not null;default:'unpaid'"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Customer Customer       `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Status   *OrderStatus   `json:"status,omitempty" gorm:"foreignKey:StatusID"`
	Priority *OrderPriority `json:"priority,omitempty" gorm:"foreignKey:PriorityID"`
	Items    []OrderItem    `json:"items,omitempty" gorm:"foreignKey:OrderID"`
}

// OrderItem is a single garment line on an order. Exactly one of the GST
// pairs (CGST+SGST, or IGST) is non-zero per item, governed by the
// order's jurisdiction.
type OrderItem struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	OrderID        uint           `json:"order_id" gorm:"index;not null"`
	TenantID       uint           `json:"tenant_id" gorm:"index;not null"`
	ItemTypeID     uint           `json:"item_type_id" gorm:"index;not null"`
	Description    string         `json:"description" gorm:"type:text"`
	Quantity       int            `json:"quantity" gorm:"not null;default:1"`
	UnitPrice      decimal.Decimal `json:"unit_price" gorm:"type:decimal(12,2);not null;default:0"`
	DiscountAmount decimal.Decimal `json:"discount_amount" gorm:"type:decimal(12,2);default:0"`
	CGSTRate       decimal.Decimal `json:"cgst_rate" gorm:"type:decimal(5,2);default:0"`
	SGSTRate       decimal.Decimal `json:"sgst_rate" gorm:"type:decimal(5,2);default:0"`
	IGSTRate       decimal.Decimal `json:"igst_rate" gorm:"type:decimal(5,2);default:0"`
	TaxAmount      decimal.Decimal `json:"tax_amount" gorm:"type:decimal(12,2);default:0"`
	TotalPrice     decimal.Decimal `json:"total_price" gorm:"type:decimal(12,2);default:0"`
	StageID        *uint          `json:"stage_id,omitempty" gorm:"index"`
	WorkerID       *uint          `json:"worker_id,omitempty" gorm:"index"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	ItemType ItemType       `json:"item_type,omitempty" gorm:"foreignKey:ItemTypeID"`
	Stage    *WorkflowStage `json:"stage,omitempty" gorm:"foreignKey:StageID"`
	Worker   *Worker        `json:"worker,omitempty" gorm:"foreignKey:WorkerID"`
}
