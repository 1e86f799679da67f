package model

import (
	"time"

	"gorm.io/gorm"
)

// User represents a staff login for a tenant. Users count against the
// plan's user quota.
type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Email     string         `json:"email" gorm:"type:varchar(100);uniqueIndex"`
	Password  string         `json:"-" gorm:"type:varchar(255)"`
	Name      string         `json:"name" gorm:"type:varchar(100)"`
	TenantID  *uint          `json:"tenant_id,omitempty" gorm:"index"`
	Role      string         `json:"role,omitempty" gorm:"type:varchar(50);default:'member'"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
