package service

import (
	"time"

	"gorm.io/gorm"

	"tailor-service/internal/model"
)

// ResourceKind identifies a quota-bound resource.
type ResourceKind string

const (
	ResourceUsers           ResourceKind = "users"
	ResourceOrdersThisMonth ResourceKind = "orders_this_month"
	ResourceCustomers       ResourceKind = "customers"
	ResourceWorkers         ResourceKind = "workers"
)

// PlanLimit returns the plan ceiling for a resource kind.
// model.UnlimitedQuota (-1) always allows.
func PlanLimit(plan *model.SubscriptionPlan, kind ResourceKind) int {
	switch kind {
	case ResourceUsers:
		return plan.MaxUsers
	case ResourceOrdersThisMonth:
		return plan.MaxOrdersPerMonth
	case ResourceCustomers:
		return plan.MaxCustomers
	case ResourceWorkers:
		return plan.MaxWorkers
	default:
		return model.UnlimitedQuota
	}
}

// CheckQuota is the pure decision: given the plan limit and the current
// count, may one more resource of this kind be created?
func CheckQuota(plan *model.SubscriptionPlan, kind ResourceKind, current int64) error {
	limit := PlanLimit(plan, kind)
	if limit == model.UnlimitedQuota {
		return nil
	}
	if current >= int64(limit) {
		return &QuotaError{Resource: kind, Limit: limit, Current: current}
	}
	return nil
}

// QuotaService recounts usage inside the caller's transaction so the
// check and the guarded insert commit or fail together.
type QuotaService struct {
	db *gorm.DB
}

func NewQuotaService(db *gorm.DB) *QuotaService {
	return &QuotaService{db: db}
}

// Ensure denies creation for suspended tenants, lapsed subscriptions and
// exhausted quotas. It must be called on the same transaction that will
// perform the insert; counting outside the transaction reintroduces the
// check-then-act race.
func (s *QuotaService) Ensure(tx *gorm.DB, tenant *model.Tenant, kind ResourceKind) error {
	if tenant.Status == model.TenantStatusSuspended {
		return ErrTenantInactive
	}

	var sub model.TenantSubscription
	if err := tx.Preload("Plan").Where("tenant_id = ?", tenant.ID).First(&sub).Error; err != nil {
		return err
	}
	if !sub.IsCurrent(time.Now()) {
		return ErrTenantInactive
	}

	count, err := s.count(tx, tenant.ID, kind)
	if err != nil {
		return err
	}
	return CheckQuota(&sub.Plan, kind, count)
}

func (s *QuotaService) count(tx *gorm.DB, tenantID uint, kind ResourceKind) (int64, error) {
	var count int64
	var err error
	switch kind {
	case ResourceUsers:
		err = tx.Model(&model.User{}).Where("tenant_id = ?", tenantID).Count(&count).Error
	case ResourceOrdersThisMonth:
		now := time.Now()
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		err = tx.Model(&model.Order{}).
			Where("tenant_id = ? AND created_at >= ?", tenantID, monthStart).
			Count(&count).Error
	case ResourceCustomers:
		err = tx.Model(&model.Customer{}).Where("tenant_id = ?", tenantID).Count(&count).Error
	case ResourceWorkers:
		err = tx.Model(&model.Worker{}).Where("tenant_id = ?", tenantID).Count(&count).Error
	}
	return count, err
}
