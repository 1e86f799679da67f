package service

import (
	"gorm.io/gorm"

	"tailor-service/internal/model"
)

// Orders creates production orders directly (outside inquiry conversion)
// and keeps the cached order totals in lockstep with item writes: every
// add/update/remove runs the pricing aggregator in the same transaction,
// so partial item lists are never visible as persisted totals.
type Orders struct {
	db      *gorm.DB
	quota   *QuotaService
	pricing Pricing
}

func NewOrders(db *gorm.DB) *Orders {
	return &Orders{db: db, quota: NewQuotaService(db)}
}

// Create makes a quota-guarded order for an existing customer.
func (s *Orders) Create(tenant *model.Tenant, customerID uint, draft OrderDraft) (*model.Order, error) {
	var order *model.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.quota.Ensure(tx, tenant, ResourceOrdersThisMonth); err != nil {
			return err
		}
		var customer model.Customer
		if err := tx.Where("id = ? AND tenant_id = ?", customerID, tenant.ID).First(&customer).Error; err != nil {
			return err
		}
		var settings model.TenantSettings
		if err := tx.Where("tenant_id = ?", tenant.ID).First(&settings).Error; err != nil {
			return err
		}
		var err error
		order, err = createOrder(tx, tenant, &settings, &customer, draft, nil, s.pricing)
		if err != nil {
			return err
		}
		return RefreshCustomerStats(tx, customer.ID)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// AddItem appends a line and reprices the order atomically.
func (s *Orders) AddItem(tenant *model.Tenant, orderID uint, line OrderItemDraft) (*model.Order, error) {
	return s.mutateItems(tenant, orderID, func(tx *gorm.DB, order *model.Order) error {
		var itemType model.ItemType
		if err := tx.Where("id = ? AND tenant_id = ?", line.ItemTypeID, tenant.ID).First(&itemType).Error; err != nil {
			return err
		}
		item := model.OrderItem{
			OrderID:        order.ID,
			TenantID:       tenant.ID,
			ItemTypeID:     itemType.ID,
			Description:    line.Description,
			Quantity:       line.Quantity,
			UnitPrice:      line.UnitPrice,
			DiscountAmount: line.DiscountAmount,
		}
		return tx.Create(&item).Error
	})
}

// UpdateItem edits a line and reprices the order atomically.
func (s *Orders) UpdateItem(tenant *model.Tenant, orderID, itemID uint, line OrderItemDraft) (*model.Order, error) {
	return s.mutateItems(tenant, orderID, func(tx *gorm.DB, order *model.Order) error {
		var item model.OrderItem
		if err := tx.Where("id = ? AND order_id = ?", itemID, order.ID).First(&item).Error; err != nil {
			return err
		}
		if line.ItemTypeID != 0 && line.ItemTypeID != item.ItemTypeID {
			var itemType model.ItemType
			if err := tx.Where("id = ? AND tenant_id = ?", line.ItemTypeID, tenant.ID).First(&itemType).Error; err != nil {
				return err
			}
			item.ItemTypeID = itemType.ID
		}
		item.Description = line.Description
		item.Quantity = line.Quantity
		item.UnitPrice = line.UnitPrice
		item.DiscountAmount = line.DiscountAmount
		return tx.Save(&item).Error
	})
}

// RemoveItem deletes a line and reprices the order atomically. The last
// item cannot be removed; an order with no items has no meaningful
// totals.
func (s *Orders) RemoveItem(tenant *model.Tenant, orderID, itemID uint) (*model.Order, error) {
	return s.mutateItems(tenant, orderID, func(tx *gorm.DB, order *model.Order) error {
		var count int64
		if err := tx.Model(&model.OrderItem{}).Where("order_id = ?", order.ID).Count(&count).Error; err != nil {
			return err
		}
		if count <= 1 {
			return &InvariantError{Detail: "order must keep at least one item"}
		}
		return tx.Where("id = ? AND order_id = ?", itemID, order.ID).Delete(&model.OrderItem{}).Error
	})
}

// mutateItems runs the item write and the repricing in one transaction.
func (s *Orders) mutateItems(tenant *model.Tenant, orderID uint, mutate func(*gorm.DB, *model.Order) error) (*model.Order, error) {
	var order model.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND tenant_id = ?", orderID, tenant.ID).First(&order).Error; err != nil {
			return err
		}
		if err := mutate(tx, &order); err != nil {
			return err
		}
		if err := s.reprice(tx, &order); err != nil {
			return err
		}
		return RefreshCustomerStats(tx, order.CustomerID)
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// reprice reloads the item list with item types, recomputes all cached
// monetary fields and persists them.
func (s *Orders) reprice(tx *gorm.DB, order *model.Order) error {
	if err := tx.Preload("ItemType").Where("order_id = ?", order.ID).Find(&order.Items).Error; err != nil {
		return err
	}
	var settings model.TenantSettings
	if err := tx.Where("tenant_id = ?", order.TenantID).First(&settings).Error; err != nil {
		return err
	}
	var customer model.Customer
	if err := tx.Where("id = ?", order.CustomerID).First(&customer).Error; err != nil {
		return err
	}

	if err := s.pricing.Recompute(order, &settings, customer.BillingStateCode); err != nil {
		return err
	}

	for i := range order.Items {
		item := &order.Items[i]
		if err := tx.Model(&model.OrderItem{}).Where("id = ?", item.ID).
			Updates(map[string]interface{}{
				"cgst_rate":   item.CGSTRate,
				"sgst_rate":   item.SGSTRate,
				"igst_rate":   item.IGSTRate,
				"tax_amount":  item.TaxAmount,
				"total_price": item.TotalPrice,
			}).Error; err != nil {
			return err
		}
	}
	return tx.Model(&model.Order{}).Where("id = ?", order.ID).
		Updates(map[string]interface{}{
			"subtotal":        order.Subtotal,
			"discount_amount": order.DiscountAmount,
			"tax_amount":      order.TaxAmount,
			"total_amount":    order.TotalAmount,
		}).Error
}
