package model

import "time"

// StageEvent logs every workflow transition on an order item, including
// reopens. The log is append-only.
type StageEvent struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	TenantID    uint      `json:"tenant_id" gorm:"index;not null"`
	OrderItemID uint      `json:"order_item_id" gorm:"index;not null"`
	FromStageID *uint     `json:"from_stage_id,omitempty"`
	ToStageID   uint      `json:"to_stage_id" gorm:"not null"`
	WorkerID    *uint     `json:"worker_id,omitempty" gorm:"index"`
	Reopened    bool      `json:"reopened" gorm:"default:false"`
	Note        string    `json:"note" gorm:"type:varchar(255)"`
	CreatedAt   time.Time `json:"created_at"`
}
