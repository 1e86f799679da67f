package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// UnlimitedQuota marks a plan limit as unbounded.
const UnlimitedQuota = -1

// Subscription statuses.
const (
	SubscriptionStatusTrialing  = "trialing"
	SubscriptionStatusActive    = "active"
	SubscriptionStatusCancelled = "cancelled"
	SubscriptionStatusExpired   = "expired"
)

// Billing cycles.
const (
	BillingCycleMonthly = "monthly"
	BillingCycleYearly  = "yearly"
)

// SubscriptionPlan defines the resource ceilings and pricing for a plan.
// A limit of -1 means unlimited.
type SubscriptionPlan struct {
	ID                uint            `json:"id" gorm:"primaryKey"`
	Name              string          `json:"name" gorm:"type:varchar(100);not null"`
	Code              string          `json:"code" gorm:"type:varchar(50);uniqueIndex;not null"`
	MaxUsers          int             `json:"max_users" gorm:"not null;default:-1"`
	MaxOrdersPerMonth int             `json:"max_orders_per_month" gorm:"not null;default:-1"`
	MaxCustomers      int             `json:"max_customers" gorm:"not null;default:-1"`
	MaxWorkers        int             `json:"max_workers" gorm:"not null;default:-1"`
	PriceMonthly      decimal.Decimal `json:"price_monthly" gorm:"type:decimal(12,2);default:0"`
	PriceYearly       decimal.Decimal `json:"price_yearly" gorm:"type:decimal(12,2);default:0"`
	IsActive          bool            `json:"is_active" gorm:"default:true"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	DeletedAt         gorm.DeletedAt  `json:"-" gorm:"index"`
}

// TenantSubscription binds a tenant to a plan for a billing period.
type TenantSubscription struct {
	ID                 uint           `json:"id" gorm:"primaryKey"`
	TenantID           uint           `json:"tenant_id" gorm:"uniqueIndex;not null"`
	PlanID             uint           `json:"plan_id" gorm:"index;not null"`
	Status             string         `json:"status" gorm:"type:varchar(20);not null;default:'trialing'"`
	BillingCycle       string         `json:"billing_cycle" gorm:"type:varchar(10);not null;default:'monthly'"`
	CurrentPeriodStart time.Time      `json:"current_period_start"`
	CurrentPeriodEnd   time.Time      `json:"current_period_end"`
	TrialEndsAt        *time.Time     `json:"trial_ends_at,omitempty"`
	CancelledAt        *time.Time     `json:"cancelled_at,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Plan SubscriptionPlan `json:"plan,omitempty" gorm:"foreignKey:PlanID"`
}

// IsCurrent reports whether the subscription still grants access at the
// given instant. Trialing subscriptions run until the trial end date.
func (s *TenantSubscription) IsCurrent(now time.Time) bool {
	switch s.Status {
	case SubscriptionStatusTrialing:
		return s.TrialEndsAt == nil || now.Before(*s.TrialEndsAt)
	case SubscriptionStatusActive:
		return s.CurrentPeriodEnd.IsZero() || now.Before(s.CurrentPeriodEnd)
	default:
		return false
	}
}
