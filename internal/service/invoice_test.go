package service

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tailor-service/internal/model"
)

var invoiceTestSeq int64

func seedConvertedOrder(t *testing.T, db *gorm.DB, tenant *model.Tenant, buyerState string) *model.Order {
	t.Helper()
	code := fmt.Sprintf("saree-%d", atomic.AddInt64(&invoiceTestSeq, 1))
	itemType := seedItemType(t, db, tenant.ID, code, "5")
	customer := seedCustomer(t, db, tenant.ID, buyerState)
	order, err := NewOrders(db).Create(tenant, customer.ID, OrderDraft{
		Items: []OrderItemDraft{{
			ItemTypeID: itemType.ID,
			Quantity:   1,
			UnitPrice:  dec("15000"),
		}},
	})
	require.NoError(t, err)
	return order
}

func TestGenerateFromOrderGST(t *testing.T) {
	db := newTestDB(t)
	tenant := seedTenant(t, db, unlimitedPlan(), true, "24")
	order := seedConvertedOrder(t, db, tenant, "24")

	invoice, err := NewInvoices(db).GenerateFromOrder(tenant, order.ID, nil)
	require.NoError(t, err)

	assert.Equal(t, "INV-0001", invoice.InvoiceNumber)
	assert.True(t, invoice.IsGST)
	assert.False(t, invoice.IsInterState)
	assert.True(t, invoice.CGSTAmount.Equal(dec("375")), "cgst = %s", invoice.CGSTAmount)
	assert.True(t, invoice.SGSTAmount.Equal(dec("375")))
	assert.True(t, invoice.IGSTAmount.IsZero())
	assert.True(t, invoice.TotalAmount.Equal(dec("15750")))
	assert.Equal(t, "Rupees Fifteen Thousand Seven Hundred Fifty Only", invoice.AmountInWords)

	// seller snapshot from tenant settings
	assert.Equal(t, "Meera Tailors", invoice.SellerName)
	assert.Equal(t, "24", invoice.SellerStateCode)
}

func TestGenerateFromOrderInterState(t *testing.T) {
	db := newTestDB(t)
	tenant := seedTenant(t, db, unlimitedPlan(), true, "24")
	order := seedConvertedOrder(t, db, tenant, "27")

	invoice, err := NewInvoices(db).GenerateFromOrder(tenant, order.ID, nil)
	require.NoError(t, err)

	assert.True(t, invoice.IsInterState)
	assert.True(t, invoice.IGSTAmount.Equal(dec("750")))
	assert.True(t, invoice.CGSTAmount.IsZero())
	assert.True(t, invoice.SGSTAmount.IsZero())
}

func TestInvoiceNumbersAreMonotonicPerType(t *testing.T) {
	db := newTestDB(t)
	tenant := seedTenant(t, db, unlimitedPlan(), true, "24")

	invoices := NewInvoices(db)
	for want := 1; want <= 3; want++ {
		order := seedConvertedOrder(t, db, tenant, "24")
		invoice, err := invoices.GenerateFromOrder(tenant, order.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, FormatSequence("INV", int64(want)), invoice.InvoiceNumber)
		assert.Equal(t, int64(want), invoice.SequenceNo)
	}
}

func TestNonGSTTenantUsesBillPrefix(t *testing.T) {
	db := newTestDB(t)
	tenant := seedTenant(t, db, unlimitedPlan(), false, "")
	order := seedConvertedOrder(t, db, tenant, "24")

	invoice, err := NewInvoices(db).GenerateFromOrder(tenant, order.ID, nil)
	require.NoError(t, err)

	assert.Equal(t, "BILL-0001", invoice.InvoiceNumber)
	assert.False(t, invoice.IsGST)
	assert.True(t, invoice.TotalTaxAmount.IsZero())
	assert.True(t, invoice.TotalAmount.Equal(dec("15000")))
}

func TestBillingSnapshotSurvivesCustomerEdits(t *testing.T) {
	db := newTestDB(t)
	tenant := seedTenant(t, db, unlimitedPlan(), true, "24")
	order := seedConvertedOrder(t, db, tenant, "24")

	invoice, err := NewInvoices(db).GenerateFromOrder(tenant, order.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "Ravi Shah", invoice.BillingName)

	require.NoError(t, db.Model(&model.Customer{}).Where("id = ?", order.CustomerID).
		Update("name", "Renamed Customer").Error)

	var stored model.Invoice
	require.NoError(t, db.First(&stored, invoice.ID).Error)
	assert.Equal(t, "Ravi Shah", stored.BillingName)
}

func TestGenerateManualInvoice(t *testing.T) {
	db := newTestDB(t)
	tenant := seedTenant(t, db, unlimitedPlan(), true, "24")

	invoice, err := NewInvoices(db).GenerateManual(tenant, ManualBillingInput{
		BillingName:      "Walk-in Customer",
		BillingStateCode: "24",
		Lines: []BillingLine{
			{Description: "Alteration", Quantity: 2, UnitPrice: dec("250"), GSTRate: dec("5")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "INV-0001", invoice.InvoiceNumber)
	assert.Nil(t, invoice.OrderID)
	// 500 taxable, 25 tax split 12.50/12.50
	assert.True(t, invoice.CGSTAmount.Equal(dec("12.50")))
	assert.True(t, invoice.TotalAmount.Equal(dec("525.00")))
}

func TestGenerateManualRequiresLinesAndName(t *testing.T) {
	db := newTestDB(t)
	tenant := seedTenant(t, db, unlimitedPlan(), true, "24")

	invoices := NewInvoices(db)
	_, err := invoices.GenerateManual(tenant, ManualBillingInput{BillingName: "X"})
	assert.ErrorIs(t, err, ErrInvariantViolation)

	_, err = invoices.GenerateManual(tenant, ManualBillingInput{
		Lines: []BillingLine{{Quantity: 1, UnitPrice: dec("100")}},
	})
	assert.ErrorIs(t, err, ErrInvariantViolation)
}

func TestInvoiceStatusTransitions(t *testing.T) {
	db := newTestDB(t)
	tenant := seedTenant(t, db, unlimitedPlan(), true, "24")
	order := seedConvertedOrder(t, db, tenant, "24")

	invoices := NewInvoices(db)
	invoice, err := invoices.GenerateFromOrder(tenant, order.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusDraft, invoice.Status)

	sent, err := invoices.MarkSent(tenant.ID, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusSent, sent.Status)
	assert.NotNil(t, sent.SentAt)

	paid, err := invoices.MarkPaid(tenant.ID, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusPaid, paid.Status)
	assert.NotNil(t, paid.PaidAt)

	// a paid invoice cannot be cancelled
	_, err = invoices.Cancel(tenant.ID, invoice.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCancelledInvoiceNumberIsNotReused(t *testing.T) {
	db := newTestDB(t)
	tenant := seedTenant(t, db, unlimitedPlan(), true, "24")

	invoices := NewInvoices(db)
	first, err := invoices.GenerateFromOrder(tenant, seedConvertedOrder(t, db, tenant, "24").ID, nil)
	require.NoError(t, err)
	_, err = invoices.Cancel(tenant.ID, first.ID)
	require.NoError(t, err)

	second, err := invoices.GenerateFromOrder(tenant, seedConvertedOrder(t, db, tenant, "24").ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "INV-0002", second.InvoiceNumber)
}
