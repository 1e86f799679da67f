package service

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"tailor-service/internal/model"
	"tailor-service/pkg/database"
)

var testDBSeq int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	n := atomic.AddInt64(&testDBSeq, 1)
	dsn := fmt.Sprintf("file:svc_test_%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.MigrateModels(db))
	return db
}

func unlimitedPlan() model.SubscriptionPlan {
	return model.SubscriptionPlan{
		Name:              "Test",
		Code:              "test",
		MaxUsers:          model.UnlimitedQuota,
		MaxOrdersPerMonth: model.UnlimitedQuota,
		MaxCustomers:      model.UnlimitedQuota,
		MaxWorkers:        model.UnlimitedQuota,
		IsActive:          true,
	}
}

// seedTenant creates a trial tenant with settings, the given plan and a
// current subscription.
func seedTenant(t *testing.T, db *gorm.DB, plan model.SubscriptionPlan, gstEnabled bool, stateCode string) *model.Tenant {
	t.Helper()

	tenant := model.Tenant{
		BusinessName: "Meera Tailors",
		Subdomain:    fmt.Sprintf("meera-%d", atomic.AddInt64(&testDBSeq, 1)),
		Status:       model.TenantStatusTrial,
		OwnerID:      1,
	}
	require.NoError(t, db.Create(&tenant).Error)

	settings := model.TenantSettings{
		TenantID:                tenant.ID,
		GSTEnabled:              gstEnabled,
		GSTNumber:               "24ABCDE1234F1Z5",
		StateCode:               stateCode,
		GSTInvoicePrefix:        "INV",
		NonGSTInvoicePrefix:     "BILL",
		OrderPrefix:             "ORD",
		FinancialYearStartMonth: 4,
		Currency:                "INR",
		MeasurementUnit:         "inch",
	}
	require.NoError(t, db.Create(&settings).Error)
	tenant.Settings = &settings

	require.NoError(t, db.Create(&plan).Error)

	trialEnd := time.Now().AddDate(0, 0, 14)
	sub := model.TenantSubscription{
		TenantID:           tenant.ID,
		PlanID:             plan.ID,
		Status:             model.SubscriptionStatusTrialing,
		BillingCycle:       model.BillingCycleMonthly,
		CurrentPeriodStart: time.Now(),
		CurrentPeriodEnd:   trialEnd,
		TrialEndsAt:        &trialEnd,
	}
	require.NoError(t, db.Create(&sub).Error)
	tenant.Subscription = &sub

	return &tenant
}

func seedItemType(t *testing.T, db *gorm.DB, tenantID uint, code string, gstRate string) *model.ItemType {
	t.Helper()
	itemType := model.ItemType{
		TenantID: tenantID,
		Code:     code,
		Name:     code,
		HSNCode:  "6204",
		GSTRate:  decimal.RequireFromString(gstRate),
		IsActive: true,
	}
	require.NoError(t, db.Create(&itemType).Error)
	return &itemType
}

func seedCustomer(t *testing.T, db *gorm.DB, tenantID uint, stateCode string) *model.Customer {
	t.Helper()
	customer := model.Customer{
		TenantID:         tenantID,
		Name:             "Ravi Shah",
		Mobile:           "9876543210",
		CustomerType:     model.CustomerTypeIndividual,
		BillingStateCode: stateCode,
	}
	require.NoError(t, db.Create(&customer).Error)
	return &customer
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
