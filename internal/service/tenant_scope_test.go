package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tailor-service/internal/model"
)

// Two tenants sharing one database must be able to carry the same
// document numbers and lookup codes without colliding.
func TestDocumentNumbersScopedPerTenant(t *testing.T) {
	db := newTestDB(t)
	first := seedTenant(t, db, unlimitedPlan(), true, "24")
	secondPlan := unlimitedPlan()
	secondPlan.Code = "test2"
	second := seedTenant(t, db, secondPlan, true, "27")

	for _, tenant := range []*model.Tenant{first, second} {
		itemType := seedItemType(t, db, tenant.ID, "saree", "5")
		customer := seedCustomer(t, db, tenant.ID, "24")

		order, err := NewOrders(db).Create(tenant, customer.ID, OrderDraft{
			Items: []OrderItemDraft{{
				ItemTypeID: itemType.ID,
				Quantity:   1,
				UnitPrice:  dec("15000"),
			}},
		})
		require.NoError(t, err)
		assert.Equal(t, "ORD-0001", order.OrderNumber)

		invoice, err := NewInvoices(db).GenerateFromOrder(tenant, order.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, "INV-0001", invoice.InvoiceNumber)
	}
}

func TestLookupCodesScopedPerTenant(t *testing.T) {
	db := newTestDB(t)
	first := seedTenant(t, db, unlimitedPlan(), true, "24")
	secondPlan := unlimitedPlan()
	secondPlan.Code = "test2"
	second := seedTenant(t, db, secondPlan, true, "27")

	for _, tenant := range []*model.Tenant{first, second} {
		require.NoError(t, db.Create(&model.WorkflowStage{
			TenantID: tenant.ID, Code: "cutting", Name: "Cutting", Position: 1,
		}).Error)
		require.NoError(t, db.Create(&model.OrderStatus{
			TenantID: tenant.ID, Code: "new", Name: "New",
		}).Error)
		require.NoError(t, db.Create(&model.OrderPriority{
			TenantID: tenant.ID, Code: "urgent", Name: "Urgent",
		}).Error)
	}

	// Within one tenant the code stays unique.
	err := db.Create(&model.WorkflowStage{
		TenantID: first.ID, Code: "cutting", Name: "Cutting again", Position: 2,
	}).Error
	assert.Error(t, err)
}
