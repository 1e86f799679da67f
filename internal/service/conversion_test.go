package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tailor-service/internal/model"
)

func seedInquiry(t *testing.T, db *gorm.DB, tenantID uint) *model.Inquiry {
	t.Helper()
	inquiry := model.Inquiry{
		TenantID:       tenantID,
		CustomerName:   "Asha Patel",
		CustomerMobile: "9812345678",
		CustomerType:   model.CustomerTypeIndividual,
		Address:        "12 MG Road, Surat",
		StateCode:      "24",
		Requirements:   "Bridal lehenga, silk",
		Status:         model.InquiryStatusInterested,
	}
	require.NoError(t, db.Create(&inquiry).Error)
	return &inquiry
}

func lehengaDraft(itemTypeID uint) OrderDraft {
	return OrderDraft{
		Items: []OrderItemDraft{{
			ItemTypeID:  itemTypeID,
			Description: "Bridal lehenga",
			Quantity:    1,
			UnitPrice:   dec("15000"),
		}},
	}
}

func TestConvertCreatesCustomerAndOrder(t *testing.T) {
	db := newTestDB(t)
	tenant := seedTenant(t, db, unlimitedPlan(), true, "24")
	itemType := seedItemType(t, db, tenant.ID, "lehenga", "5")
	inquiry := seedInquiry(t, db, tenant.ID)

	order, err := NewConversion(db).ConvertToOrder(tenant, inquiry.ID, lehengaDraft(itemType.ID))
	require.NoError(t, err)

	assert.Equal(t, "ORD-0001", order.OrderNumber)
	assert.True(t, order.TotalAmount.Equal(dec("15750")), "total = %s", order.TotalAmount)
	assert.True(t, order.TaxAmount.Equal(dec("750")))

	// customer materialized from the inquiry snapshot
	var customer model.Customer
	require.NoError(t, db.First(&customer, order.CustomerID).Error)
	assert.Equal(t, "Asha Patel", customer.Name)
	assert.Equal(t, "24", customer.BillingStateCode)
	assert.Equal(t, 1, customer.OrdersCount)
	assert.True(t, customer.TotalSpent.Equal(dec("15750")))

	// inquiry flipped exactly once
	var stored model.Inquiry
	require.NoError(t, db.First(&stored, inquiry.ID).Error)
	assert.Equal(t, model.InquiryStatusConverted, stored.Status)
	require.NotNil(t, stored.ConvertedOrderID)
	assert.Equal(t, order.ID, *stored.ConvertedOrderID)
	assert.NotNil(t, stored.ConvertedAt)
}

func TestConvertReusesLinkedCustomer(t *testing.T) {
	db := newTestDB(t)
	tenant := seedTenant(t, db, unlimitedPlan(), true, "24")
	itemType := seedItemType(t, db, tenant.ID, "kurta", "5")
	customer := seedCustomer(t, db, tenant.ID, "24")

	inquiry := seedInquiry(t, db, tenant.ID)
	require.NoError(t, db.Model(inquiry).Update("customer_id", customer.ID).Error)

	order, err := NewConversion(db).ConvertToOrder(tenant, inquiry.ID, lehengaDraft(itemType.ID))
	require.NoError(t, err)
	assert.Equal(t, customer.ID, order.CustomerID)

	var count int64
	require.NoError(t, db.Model(&model.Customer{}).Where("tenant_id = ?", tenant.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestConvertIsExactlyOnce(t *testing.T) {
	db := newTestDB(t)
	tenant := seedTenant(t, db, unlimitedPlan(), true, "24")
	itemType := seedItemType(t, db, tenant.ID, "lehenga", "5")
	inquiry := seedInquiry(t, db, tenant.ID)

	conversion := NewConversion(db)
	_, err := conversion.ConvertToOrder(tenant, inquiry.ID, lehengaDraft(itemType.ID))
	require.NoError(t, err)

	_, err = conversion.ConvertToOrder(tenant, inquiry.ID, lehengaDraft(itemType.ID))
	assert.ErrorIs(t, err, ErrAlreadyConverted)

	var orders int64
	require.NoError(t, db.Model(&model.Order{}).Where("tenant_id = ?", tenant.ID).Count(&orders).Error)
	assert.Equal(t, int64(1), orders)
}

func TestConvertClosedInquiry(t *testing.T) {
	db := newTestDB(t)
	tenant := seedTenant(t, db, unlimitedPlan(), true, "24")
	itemType := seedItemType(t, db, tenant.ID, "lehenga", "5")
	inquiry := seedInquiry(t, db, tenant.ID)
	require.NoError(t, db.Model(inquiry).Update("status", model.InquiryStatusClosed).Error)

	_, err := NewConversion(db).ConvertToOrder(tenant, inquiry.ID, lehengaDraft(itemType.ID))
	assert.ErrorIs(t, err, ErrInquiryClosed)
}

func TestConvertQuotaDenialRollsBackEverything(t *testing.T) {
	db := newTestDB(t)
	plan := unlimitedPlan()
	plan.MaxOrdersPerMonth = 0
	tenant := seedTenant(t, db, plan, true, "24")
	itemType := seedItemType(t, db, tenant.ID, "lehenga", "5")
	inquiry := seedInquiry(t, db, tenant.ID)

	_, err := NewConversion(db).ConvertToOrder(tenant, inquiry.ID, lehengaDraft(itemType.ID))
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	// no order, no customer, inquiry untouched
	var orders, customers int64
	require.NoError(t, db.Model(&model.Order{}).Where("tenant_id = ?", tenant.ID).Count(&orders).Error)
	require.NoError(t, db.Model(&model.Customer{}).Where("tenant_id = ?", tenant.ID).Count(&customers).Error)
	assert.Zero(t, orders)
	assert.Zero(t, customers)

	var stored model.Inquiry
	require.NoError(t, db.First(&stored, inquiry.ID).Error)
	assert.Equal(t, model.InquiryStatusInterested, stored.Status)
}

func TestConvertBusinessInquiryCopiesCompanyName(t *testing.T) {
	db := newTestDB(t)
	tenant := seedTenant(t, db, unlimitedPlan(), true, "24")
	itemType := seedItemType(t, db, tenant.ID, "uniform", "12")
	inquiry := seedInquiry(t, db, tenant.ID)
	require.NoError(t, db.Model(inquiry).Updates(map[string]interface{}{
		"customer_type": model.CustomerTypeBusiness,
		"customer_name": "Surat Textiles Pvt Ltd",
	}).Error)

	order, err := NewConversion(db).ConvertToOrder(tenant, inquiry.ID, lehengaDraft(itemType.ID))
	require.NoError(t, err)

	var customer model.Customer
	require.NoError(t, db.First(&customer, order.CustomerID).Error)
	assert.Equal(t, model.CustomerTypeBusiness, customer.CustomerType)
	assert.Equal(t, "Surat Textiles Pvt Ltd", customer.CompanyName)
}
