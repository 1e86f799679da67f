package service

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"tailor-service/internal/model"
)

// OrderItemDraft is one requested line on the order being created.
type OrderItemDraft struct {
	ItemTypeID     uint            `json:"item_type_id"`
	Description    string          `json:"description"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
}

// OrderDraft is the order-creation input supplied alongside a
// conversion or a direct order create.
type OrderDraft struct {
	Items              []OrderItemDraft `json:"items"`
	OrderDate          time.Time        `json:"order_date"`
	PromisedDeliveryAt *time.Time       `json:"promised_delivery_at"`
	StatusID           *uint            `json:"status_id"`
	PriorityID         *uint            `json:"priority_id"`
	Notes              string           `json:"notes"`
}

// Conversion turns an inquiry into a production order. The whole
// workflow runs in one transaction: customer resolution, quota checks,
// order creation, pricing and the inquiry status flip commit together or
// not at all.
type Conversion struct {
	db      *gorm.DB
	quota   *QuotaService
	pricing Pricing
}

func NewConversion(db *gorm.DB) *Conversion {
	return &Conversion{db: db, quota: NewQuotaService(db)}
}

// ConvertToOrder converts the inquiry exactly once. A second call fails
// with ErrAlreadyConverted; two concurrent calls race on the guarded
// status update and exactly one wins.
func (s *Conversion) ConvertToOrder(tenant *model.Tenant, inquiryID uint, draft OrderDraft) (*model.Order, error) {
	var order *model.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var inquiry model.Inquiry
		if err := tx.Where("id = ? AND tenant_id = ?", inquiryID, tenant.ID).First(&inquiry).Error; err != nil {
			return err
		}
		if inquiry.Status == model.InquiryStatusConverted {
			return &ConversionError{InquiryID: inquiry.ID, OrderID: inquiry.ConvertedOrderID}
		}
		if inquiry.Status == model.InquiryStatusClosed {
			return ErrInquiryClosed
		}

		if err := s.quota.Ensure(tx, tenant, ResourceOrdersThisMonth); err != nil {
			return err
		}
		if inquiry.CustomerID == nil {
			if err := s.quota.Ensure(tx, tenant, ResourceCustomers); err != nil {
				return err
			}
		}

		customer, err := resolveOrCreateCustomer(tx, &inquiry)
		if err != nil {
			return err
		}

		var settings model.TenantSettings
		if err := tx.Where("tenant_id = ?", tenant.ID).First(&settings).Error; err != nil {
			return err
		}

		order, err = createOrder(tx, tenant, &settings, customer, draft, &inquiry, s.pricing)
		if err != nil {
			return err
		}

		// Guarded flip: lose the race on a concurrent conversion and
		// the transaction rolls back with a conflict.
		now := time.Now()
		res := tx.Model(&model.Inquiry{}).
			Where("id = ? AND status <> ?", inquiry.ID, model.InquiryStatusConverted).
			Updates(map[string]interface{}{
				"status":             model.InquiryStatusConverted,
				"converted_order_id": order.ID,
				"converted_at":       now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &ConversionError{InquiryID: inquiry.ID}
		}

		return RefreshCustomerStats(tx, customer.ID)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// resolveOrCreateCustomer is the sub-operation of conversion: reuse the
// linked customer or materialize one from the inquiry's contact
// snapshot. Business inquiries reuse the address as the company address.
func resolveOrCreateCustomer(tx *gorm.DB, inquiry *model.Inquiry) (*model.Customer, error) {
	if inquiry.CustomerID != nil {
		var customer model.Customer
		if err := tx.Where("id = ? AND tenant_id = ?", *inquiry.CustomerID, inquiry.TenantID).First(&customer).Error; err != nil {
			return nil, err
		}
		return &customer, nil
	}

	customerType := inquiry.CustomerType
	if customerType == "" {
		customerType = model.CustomerTypeIndividual
	}
	customer := model.Customer{
		TenantID:         inquiry.TenantID,
		Name:             inquiry.CustomerName,
		Mobile:           inquiry.CustomerMobile,
		Email:            inquiry.CustomerEmail,
		CustomerType:     customerType,
		BillingAddress:   inquiry.Address,
		BillingStateCode: inquiry.StateCode,
		DeliveryAddress:  inquiry.Address,
	}
	if customerType == model.CustomerTypeBusiness {
		customer.CompanyName = inquiry.CustomerName
	}
	if err := tx.Create(&customer).Error; err != nil {
		return nil, err
	}
	inquiry.CustomerID = &customer.ID
	return &customer, nil
}

// createOrder allocates a tenant-scoped order number, persists the order
// with its items and runs the pricing aggregator before the totals are
// written. Shared by conversion and direct order creation.
func createOrder(tx *gorm.DB, tenant *model.Tenant, settings *model.TenantSettings, customer *model.Customer, draft OrderDraft, inquiry *model.Inquiry, pricing Pricing) (*model.Order, error) {
	if len(draft.Items) == 0 {
		return nil, &InvariantError{Detail: "order must have at least one item"}
	}

	// No retry here: a lost allocation race aborts the enclosing
	// transaction on postgres, so the conflict surfaces to the caller,
	// which retries with a fresh transaction.
	seq, err := NextSequence(tx, tenant.ID, model.SequenceKeyOrder)
	if err != nil {
		return nil, err
	}

	orderDate := draft.OrderDate
	if orderDate.IsZero() {
		orderDate = time.Now()
	}

	order := model.Order{
		TenantID:           tenant.ID,
		CustomerID:         customer.ID,
		OrderNumber:        FormatSequence(settings.OrderPrefix, seq),
		StatusID:           draft.StatusID,
		PriorityID:         draft.PriorityID,
		OrderDate:          orderDate,
		PromisedDeliveryAt: draft.PromisedDeliveryAt,
		Notes:              draft.Notes,
	}
	if inquiry != nil {
		order.InquiryID = &inquiry.ID
	}

	order.Items = make([]model.OrderItem, 0, len(draft.Items))
	for _, line := range draft.Items {
		var itemType model.ItemType
		if err := tx.Where("id = ? AND tenant_id = ?", line.ItemTypeID, tenant.ID).First(&itemType).Error; err != nil {
			return nil, err
		}
		order.Items = append(order.Items, model.OrderItem{
			TenantID:       tenant.ID,
			ItemTypeID:     itemType.ID,
			ItemType:       itemType,
			Description:    line.Description,
			Quantity:       line.Quantity,
			UnitPrice:      line.UnitPrice,
			DiscountAmount: line.DiscountAmount,
		})
	}

	if err := pricing.Recompute(&order, settings, customer.BillingStateCode); err != nil {
		return nil, err
	}

	if err := tx.Create(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// RefreshCustomerStats recomputes the customer's cached order counters
// from the orders table. The cache is always rewritten in full, never
// incremented, so it cannot drift.
func RefreshCustomerStats(tx *gorm.DB, customerID uint) error {
	var count int64
	if err := tx.Model(&model.Order{}).Where("customer_id = ?", customerID).Count(&count).Error; err != nil {
		return err
	}
	type row struct {
		Total decimal.Decimal
	}
	var r row
	if err := tx.Model(&model.Order{}).
		Select("COALESCE(SUM(total_amount), 0) AS total").
		Where("customer_id = ?", customerID).
		Scan(&r).Error; err != nil {
		return err
	}
	return tx.Model(&model.Customer{}).Where("id = ?", customerID).
		Updates(map[string]interface{}{
			"orders_count": count,
			"total_spent":  r.Total,
		}).Error
}
