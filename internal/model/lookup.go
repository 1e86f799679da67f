package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ItemType is tenant-configurable master data for garment types. The HSN
// code and GST rate feed the tax calculator; display fields are opaque to
// the engine.
type ItemType struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	TenantID  uint           `json:"tenant_id" gorm:"uniqueIndex:idx_item_type_tenant_code;not null"`
	Code      string         `json:"code" gorm:"type:varchar(50);uniqueIndex:idx_item_type_tenant_code;not null"`
	Name      string         `json:"name" gorm:"type:varchar(100);not null"`
	HSNCode   string         `json:"hsn_code" gorm:"type:varchar(10)"`
	GSTRate   decimal.Decimal `json:"gst_rate" gorm:"type:decimal(5,2);default:0"`
	IsActive  bool           `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// OrderStatus is a tenant-configurable lookup row for order state.
type OrderStatus struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	TenantID  uint           `json:"tenant_id" gorm:"uniqueIndex:idx_order_status_tenant_code;not null"`
	Code      string         `json:"code" gorm:"type:varchar(50);uniqueIndex:idx_order_status_tenant_code;not null"`
	Name      string         `json:"name" gorm:"type:varchar(100);not null"`
	Color     string         `json:"color" gorm:"type:varchar(7)"`
	Position  int            `json:"position" gorm:"default:0"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// OrderPriority is a tenant-configurable lookup row for order priority.
type OrderPriority struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	TenantID  uint           `json:"tenant_id" gorm:"uniqueIndex:idx_order_priority_tenant_code;not null"`
	Code      string         `json:"code" gorm:"type:varchar(50);uniqueIndex:idx_order_priority_tenant_code;not null"`
	Name      string         `json:"name" gorm:"type:varchar(100);not null"`
	Color     string         `json:"color" gorm:"type:varchar(7)"`
	Position  int            `json:"position" gorm:"default:0"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// WorkflowStage is an ordered production step (cutting, stitching, ...)
// configured per tenant. Position defines the forward direction of the
// stage machine; IsTerminal marks the delivered/ready stage.
type WorkflowStage struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	TenantID   uint           `json:"tenant_id" gorm:"uniqueIndex:idx_workflow_stage_tenant_code;not null"`
	Code       string         `json:"code" gorm:"type:varchar(50);uniqueIndex:idx_workflow_stage_tenant_code;not null"`
	Name       string         `json:"name" gorm:"type:varchar(100);not null"`
	Color      string         `json:"color" gorm:"type:varchar(7)"`
	Position   int            `json:"position" gorm:"not null"`
	IsTerminal bool           `json:"is_terminal" gorm:"default:false"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}
