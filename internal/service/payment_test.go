package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tailor-service/internal/model"
)

func TestSummarizePartial(t *testing.T) {
	summary := Summarize(dec("10000"), []model.Payment{
		{Amount: dec("3000")},
		{Amount: dec("2000")},
	})

	assert.True(t, summary.TotalPaidAmount.Equal(dec("5000")))
	assert.True(t, summary.PendingAmount.Equal(dec("5000")))
	assert.Equal(t, model.PaymentStatusPartial, summary.PaymentStatus)
}

func TestSummarizeOverpaymentClampsToZero(t *testing.T) {
	summary := Summarize(dec("10000"), []model.Payment{{Amount: dec("12000")}})

	assert.True(t, summary.TotalPaidAmount.Equal(dec("12000")))
	assert.True(t, summary.PendingAmount.IsZero())
	assert.Equal(t, model.PaymentStatusPaid, summary.PaymentStatus)
}

func TestSummarizeSkipsVoided(t *testing.T) {
	summary := Summarize(dec("10000"), []model.Payment{
		{Amount: dec("6000")},
		{Amount: dec("4000"), Voided: true},
	})

	assert.True(t, summary.TotalPaidAmount.Equal(dec("6000")))
	assert.Equal(t, model.PaymentStatusPartial, summary.PaymentStatus)
}

func TestSummarizeNoPayments(t *testing.T) {
	summary := Summarize(dec("10000"), nil)
	assert.Equal(t, model.PaymentStatusUnpaid, summary.PaymentStatus)
	assert.True(t, summary.PendingAmount.Equal(dec("10000")))
}

func seedPricedOrder(t *testing.T, db *gorm.DB, tenantID, customerID uint, total string) *model.Order {
	t.Helper()
	order := model.Order{
		TenantID:    tenantID,
		CustomerID:  customerID,
		OrderNumber: "ORD-0001",
		TotalAmount: dec(total),
	}
	require.NoError(t, db.Create(&order).Error)
	return &order
}

func TestRecordPaymentRefreshesOrderCache(t *testing.T) {
	db := newTestDB(t)
	tenant := seedTenant(t, db, unlimitedPlan(), true, "24")
	customer := seedCustomer(t, db, tenant.ID, "24")
	order := seedPricedOrder(t, db, tenant.ID, customer.ID, "10000")

	payments := NewPayments(db)
	summary, err := payments.Record(tenant.ID, &model.Payment{
		OrderID: order.ID,
		Amount:  dec("3000"),
		Method:  model.PaymentMethodUPI,
	})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPartial, summary.PaymentStatus)

	var stored model.Order
	require.NoError(t, db.First(&stored, order.ID).Error)
	assert.True(t, stored.PaidAmount.Equal(dec("3000")))
	assert.Equal(t, model.PaymentStatusPartial, stored.PaymentStatus)

	summary, err = payments.Record(tenant.ID, &model.Payment{
		OrderID: order.ID,
		Amount:  dec("7000"),
	})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPaid, summary.PaymentStatus)
	assert.True(t, summary.PendingAmount.IsZero())
}

func TestRecordPaymentRejectsNonPositive(t *testing.T) {
	db := newTestDB(t)
	tenant := seedTenant(t, db, unlimitedPlan(), true, "24")
	customer := seedCustomer(t, db, tenant.ID, "24")
	order := seedPricedOrder(t, db, tenant.ID, customer.ID, "10000")

	_, err := NewPayments(db).Record(tenant.ID, &model.Payment{OrderID: order.ID, Amount: dec("0")})
	assert.ErrorIs(t, err, ErrInvariantViolation)

	_, err = NewPayments(db).Record(tenant.ID, &model.Payment{OrderID: order.ID, Amount: dec("-10")})
	assert.ErrorIs(t, err, ErrInvariantViolation)
}

func TestVoidPaymentRecomputesFromHistory(t *testing.T) {
	db := newTestDB(t)
	tenant := seedTenant(t, db, unlimitedPlan(), true, "24")
	customer := seedCustomer(t, db, tenant.ID, "24")
	order := seedPricedOrder(t, db, tenant.ID, customer.ID, "10000")

	payments := NewPayments(db)
	first := model.Payment{OrderID: order.ID, Amount: dec("10000")}
	_, err := payments.Record(tenant.ID, &first)
	require.NoError(t, err)

	summary, err := payments.Void(tenant.ID, first.ID, "entered twice")
	require.NoError(t, err)
	assert.True(t, summary.TotalPaidAmount.IsZero())
	assert.Equal(t, model.PaymentStatusUnpaid, summary.PaymentStatus)

	// the voided row survives with its reason
	var stored model.Payment
	require.NoError(t, db.First(&stored, first.ID).Error)
	assert.True(t, stored.Voided)
	assert.Equal(t, "entered twice", stored.VoidReason)

	// voiding twice is rejected
	_, err = payments.Void(tenant.ID, first.ID, "again")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}
