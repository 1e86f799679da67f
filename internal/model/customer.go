package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Customer types.
const (
	CustomerTypeIndividual = "individual"
	CustomerTypeBusiness   = "business"
)

// Customer belongs to exactly one tenant. OrdersCount and TotalSpent are
// materialized caches recomputed from orders, never incremented in place.
type Customer struct {
	ID               uint           `json:"id" gorm:"primaryKey"`
	TenantID         uint           `json:"tenant_id" gorm:"index;not null"`
	Name             string         `json:"name" gorm:"type:varchar(100);not null"`
	Mobile           string         `json:"mobile" gorm:"type:varchar(15);index"`
	Email            string         `json:"email" gorm:"type:varchar(100)"`
	CustomerType     string         `json:"customer_type" gorm:"type:varchar(20);not null;default:'individual'"`
	BillingAddress   string         `json:"billing_address" gorm:"type:text"`
	BillingStateCode string         `json:"billing_state_code" gorm:"type:varchar(2)"`
	DeliveryAddress  string         `json:"delivery_address" gorm:"type:text"`
	CompanyName      string         `json:"company_name" gorm:"type:varchar(100)"`
	GSTNumber        string         `json:"gst_number" gorm:"type:varchar(15)"`
	OrdersCount      int            `json:"orders_count" gorm:"default:0"`
	TotalSpent       decimal.Decimal `json:"total_spent" gorm:"type:decimal(14,2);default:0"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `json:"-" gorm:"index"`
}
