package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Inquiry statuses. `converted` and `closed` are terminal.
const (
	InquiryStatusNew           = "new"
	InquiryStatusContacted     = "contacted"
	InquiryStatusFollowUp      = "follow_up"
	InquiryStatusInterested    = "interested"
	InquiryStatusNotInterested = "not_interested"
	InquiryStatusConverted     = "converted"
	InquiryStatusClosed        = "closed"
)

// Inquiry captures a pre-sales lead. The contact snapshot works even when
// no customer is linked yet; conversion creates the customer on demand.
type Inquiry struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	TenantID        uint           `json:"tenant_id" gorm:"index;not null"`
	CustomerID      *uint          `json:"customer_id,omitempty" gorm:"index"`
	CustomerName    string         `json:"customer_name" gorm:"type:varchar(100);not null"`
	CustomerMobile  string         `json:"customer_mobile" gorm:"type:varchar(15)"`
	CustomerEmail   string         `json:"customer_email" gorm:"type:varchar(100)"`
	CustomerType    string         `json:"customer_type" gorm:"type:varchar(20);default:'individual'"`
	Address         string         `json:"address" gorm:"type:text"`
	StateCode       string         `json:"state_code" gorm:"type:varchar(2)"`
	Requirements    string         `json:"requirements" gorm:"type:text"`
	ItemTypeName    string         `json:"item_type_name" gorm:"type:varchar(100)"`
	Occasion        string         `json:"occasion" gorm:"type:varchar(100)"`
	BudgetMin       decimal.Decimal `json:"budget_min" gorm:"type:decimal(12,2);default:0"`
	BudgetMax       decimal.Decimal `json:"budget_max" gorm:"type:decimal(12,2);default:0"`
	Status          string         `json:"status" gorm:"type:varchar(20);not null;default:'new'"`
	ConvertedOrderID *uint         `json:"converted_order_id,omitempty" gorm:"index"`
	ConvertedAt     *time.Time     `json:"converted_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`
}

// IsTerminal reports whether the inquiry can still change status.
func (i *Inquiry) IsTerminal() bool {
	return i.Status == InquiryStatusConverted || i.Status == InquiryStatusClosed
}
