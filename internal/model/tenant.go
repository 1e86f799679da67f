package model

import (
	"time"

	"gorm.io/gorm"
)

// Tenant statuses. A suspended tenant keeps its data but cannot create
// new orders, invoices or customers.
const (
	TenantStatusTrial     = "trial"
	TenantStatusActive    = "active"
	TenantStatusSuspended = "suspended"
)

// Tenant represents one business account in the multi-tenant system.
// Tenants are never hard-deleted; suspension is a status transition.
type Tenant struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	BusinessName string         `json:"business_name" gorm:"type:varchar(100);not null"`
	Subdomain    string         `json:"subdomain" gorm:"type:varchar(63);uniqueIndex"`
	Status       string         `json:"status" gorm:"type:varchar(20);not null;default:'trial'"`
	Onboarded    bool           `json:"onboarded" gorm:"default:false"`
	OwnerID      uint           `json:"owner_id" gorm:"index;not null"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Settings     *TenantSettings     `json:"settings,omitempty" gorm:"foreignKey:TenantID"`
	Subscription *TenantSubscription `json:"subscription,omitempty" gorm:"foreignKey:TenantID"`
}

// TenantSettings holds the per-tenant configuration read by the invoice
// generator and the tax calculator.
type TenantSettings struct {
	ID                      uint           `json:"id" gorm:"primaryKey"`
	TenantID                uint           `json:"tenant_id" gorm:"uniqueIndex;not null"`
	GSTEnabled              bool           `json:"gst_enabled" gorm:"default:false"`
	GSTNumber               string         `json:"gst_number" gorm:"type:varchar(15)"`
	StateCode               string         `json:"state_code" gorm:"type:varchar(2)"`
	GSTInvoicePrefix        string         `json:"gst_invoice_prefix" gorm:"type:varchar(10);default:'INV'"`
	NonGSTInvoicePrefix     string         `json:"non_gst_invoice_prefix" gorm:"type:varchar(10);default:'BILL'"`
	OrderPrefix             string         `json:"order_prefix" gorm:"type:varchar(10);default:'ORD'"`
	FinancialYearStartMonth int            `json:"financial_year_start_month" gorm:"default:4"`
	Currency                string         `json:"currency" gorm:"type:varchar(3);default:'INR'"`
	MeasurementUnit         string         `json:"measurement_unit" gorm:"type:varchar(10);default:'inch'"`
	CreatedAt               time.Time      `json:"created_at"`
	UpdatedAt               time.Time      `json:"updated_at"`
	DeletedAt               gorm.DeletedAt `json:"-" gorm:"index"`
}
