package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tailor-service/internal/model"
)

func TestCheckQuota(t *testing.T) {
	plan := &model.SubscriptionPlan{MaxCustomers: 5}

	assert.NoError(t, CheckQuota(plan, ResourceCustomers, 4))

	err := CheckQuota(plan, ResourceCustomers, 5)
	require.ErrorIs(t, err, ErrQuotaExceeded)

	var qe *QuotaError
	require.True(t, errors.As(err, &qe))
	assert.Equal(t, ResourceCustomers, qe.Resource)
	assert.Equal(t, 5, qe.Limit)
	assert.Equal(t, int64(5), qe.Current)
}

func TestCheckQuotaUnlimited(t *testing.T) {
	plan := &model.SubscriptionPlan{MaxCustomers: model.UnlimitedQuota}
	assert.NoError(t, CheckQuota(plan, ResourceCustomers, 1_000_000))
}

func TestEnsureDeniesAtLimit(t *testing.T) {
	db := newTestDB(t)
	plan := unlimitedPlan()
	plan.MaxCustomers = 1
	tenant := seedTenant(t, db, plan, true, "24")
	seedCustomer(t, db, tenant.ID, "24")

	quota := NewQuotaService(db)
	err := quota.Ensure(db, tenant, ResourceCustomers)
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	// other resources are unaffected
	assert.NoError(t, quota.Ensure(db, tenant, ResourceWorkers))
}

func TestEnsureDeniesSuspendedTenant(t *testing.T) {
	db := newTestDB(t)
	tenant := seedTenant(t, db, unlimitedPlan(), true, "24")
	tenant.Status = model.TenantStatusSuspended

	err := NewQuotaService(db).Ensure(db, tenant, ResourceCustomers)
	assert.ErrorIs(t, err, ErrTenantInactive)
}

func TestEnsureDeniesLapsedSubscription(t *testing.T) {
	db := newTestDB(t)
	tenant := seedTenant(t, db, unlimitedPlan(), true, "24")

	past := time.Now().AddDate(0, 0, -1)
	require.NoError(t, db.Model(&model.TenantSubscription{}).
		Where("tenant_id = ?", tenant.ID).
		Update("trial_ends_at", past).Error)

	err := NewQuotaService(db).Ensure(db, tenant, ResourceOrdersThisMonth)
	assert.ErrorIs(t, err, ErrTenantInactive)
}
