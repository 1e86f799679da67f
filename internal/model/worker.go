package model

import (
	"time"

	"gorm.io/gorm"
)

// Worker represents production staff (cutters, stitchers, finishers) who
// can be assigned to order items. Workers count against the plan's worker
// quota.
type Worker struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	TenantID  uint           `json:"tenant_id" gorm:"index;not null"`
	Name      string         `json:"name" gorm:"type:varchar(100);not null"`
	Mobile    string         `json:"mobile" gorm:"type:varchar(15)"`
	Skill     string         `json:"skill" gorm:"type:varchar(50)"`
	IsActive  bool           `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
