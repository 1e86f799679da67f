package service

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"tailor-service/internal/model"
)

// BillingLine is one taxable line feeding invoice generation, either
// derived from an order item or entered ad hoc.
type BillingLine struct {
	Description    string          `json:"description"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	GSTRate        decimal.Decimal `json:"gst_rate"`
}

// ManualBillingInput is ad-hoc billing data for an invoice without an
// order behind it.
type ManualBillingInput struct {
	CustomerID       *uint         `json:"customer_id"`
	BillingName      string        `json:"billing_name"`
	BillingAddress   string        `json:"billing_address"`
	BillingStateCode string        `json:"billing_state_code"`
	BillingGSTNumber string        `json:"billing_gst_number"`
	DueDate          *time.Time    `json:"due_date"`
	Lines            []BillingLine `json:"lines"`
}

// Invoices derives invoices from orders or manual billing data, numbers
// them per tenant and invoice type, and snapshots both parties so
// historical invoices never change when master data does.
type Invoices struct {
	db *gorm.DB
}

func NewInvoices(db *gorm.DB) *Invoices {
	return &Invoices{db: db}
}

// GenerateFromOrder builds an invoice from the order's items and the
// customer's billing snapshot.
func (s *Invoices) GenerateFromOrder(tenant *model.Tenant, orderID uint, dueDate *time.Time) (*model.Invoice, error) {
	var order model.Order
	if err := s.db.Preload("Items.ItemType").Preload("Customer").
		Where("id = ? AND tenant_id = ?", orderID, tenant.ID).First(&order).Error; err != nil {
		return nil, err
	}

	lines := make([]BillingLine, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, BillingLine{
			Description:    item.ItemType.Name,
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
			DiscountAmount: item.DiscountAmount,
			GSTRate:        item.ItemType.GSTRate,
		})
	}

	invoice := &model.Invoice{
		TenantID:         tenant.ID,
		OrderID:          &order.ID,
		CustomerID:       &order.CustomerID,
		DueDate:          dueDate,
		BillingName:      order.Customer.Name,
		BillingAddress:   order.Customer.BillingAddress,
		BillingStateCode: order.Customer.BillingStateCode,
		BillingGSTNumber: order.Customer.GSTNumber,
	}
	return s.generate(tenant, invoice, lines)
}

// GenerateManual builds an invoice from ad-hoc billing data.
func (s *Invoices) GenerateManual(tenant *model.Tenant, input ManualBillingInput) (*model.Invoice, error) {
	if input.BillingName == "" {
		return nil, &InvariantError{Detail: "billing name is required"}
	}
	invoice := &model.Invoice{
		TenantID:         tenant.ID,
		CustomerID:       input.CustomerID,
		DueDate:          input.DueDate,
		BillingName:      input.BillingName,
		BillingAddress:   input.BillingAddress,
		BillingStateCode: input.BillingStateCode,
		BillingGSTNumber: input.BillingGSTNumber,
	}
	return s.generate(tenant, invoice, input.Lines)
}

// generate fills amounts and the seller snapshot, allocates the number
// and persists the invoice. A lost sequence race is retried once in a
// fresh transaction before surfacing ErrConcurrencyConflict.
func (s *Invoices) generate(tenant *model.Tenant, invoice *model.Invoice, lines []BillingLine) (*model.Invoice, error) {
	if len(lines) == 0 {
		return nil, &InvariantError{Detail: "invoice must have at least one line"}
	}

	var settings model.TenantSettings
	if err := s.db.Where("tenant_id = ?", tenant.ID).First(&settings).Error; err != nil {
		return nil, err
	}

	invoice.SellerName = tenant.BusinessName
	invoice.SellerStateCode = settings.StateCode
	invoice.SellerGSTNumber = settings.GSTNumber
	invoice.InvoiceDate = time.Now()
	invoice.Status = model.InvoiceStatusDraft

	if err := fillAmounts(invoice, lines, &settings); err != nil {
		return nil, err
	}

	err := s.allocateAndCreate(invoice, &settings)
	if errors.Is(err, ErrConcurrencyConflict) {
		err = s.allocateAndCreate(invoice, &settings)
	}
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

// fillAmounts aggregates tax per line, not from the grand total, since
// lines may carry different GST rates. Amounts round per line.
func fillAmounts(invoice *model.Invoice, lines []BillingLine, settings *model.TenantSettings) error {
	subtotal := decimal.Zero
	discount := decimal.Zero
	cgst := decimal.Zero
	sgst := decimal.Zero
	igst := decimal.Zero
	carriesTax := false

	for _, line := range lines {
		if line.Quantity <= 0 {
			return &InvariantError{Detail: "invoice line quantity must be positive"}
		}
		if line.UnitPrice.IsNegative() || line.DiscountAmount.IsNegative() {
			return &InvariantError{Detail: "invoice line amounts must be non-negative"}
		}
		lineSubtotal := decimal.NewFromInt(int64(line.Quantity)).Mul(line.UnitPrice)
		lineTaxable := lineSubtotal.Sub(line.DiscountAmount)

		breakup, err := ComputeTax(lineTaxable, line.GSTRate, settings.StateCode, invoice.BillingStateCode, settings.GSTEnabled)
		if err != nil {
			return err
		}
		if breakup.Total().IsPositive() {
			carriesTax = true
		}

		subtotal = subtotal.Add(lineSubtotal)
		discount = discount.Add(line.DiscountAmount)
		cgst = cgst.Add(breakup.CGST)
		sgst = sgst.Add(breakup.SGST)
		igst = igst.Add(breakup.IGST)
	}

	invoice.IsGST = settings.GSTEnabled && carriesTax
	invoice.IsInterState = settings.StateCode != "" && invoice.BillingStateCode != "" &&
		settings.StateCode != invoice.BillingStateCode
	invoice.Subtotal = subtotal.Round(2)
	invoice.DiscountAmount = discount.Round(2)
	invoice.TaxableAmount = invoice.Subtotal.Sub(invoice.DiscountAmount)
	invoice.CGSTAmount = cgst.Round(2)
	invoice.SGSTAmount = sgst.Round(2)
	invoice.IGSTAmount = igst.Round(2)
	invoice.TotalTaxAmount = invoice.CGSTAmount.Add(invoice.SGSTAmount).Add(invoice.IGSTAmount)
	invoice.TotalAmount = invoice.TaxableAmount.Add(invoice.TotalTaxAmount)
	invoice.AmountInWords = AmountInWords(invoice.TotalAmount, settings.Currency)
	return nil
}

func (s *Invoices) allocateAndCreate(invoice *model.Invoice, settings *model.TenantSettings) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		key := model.SequenceKeyNonGSTInvoice
		prefix := settings.NonGSTInvoicePrefix
		if invoice.IsGST {
			key = model.SequenceKeyGSTInvoice
			prefix = settings.GSTInvoicePrefix
		}
		seq, err := NextSequence(tx, invoice.TenantID, key)
		if err != nil {
			return err
		}
		invoice.ID = 0
		invoice.SequenceNo = seq
		invoice.InvoiceNumber = FormatSequence(prefix, seq)
		return tx.Create(invoice).Error
	})
}

// MarkSent stamps the invoice as sent.
func (s *Invoices) MarkSent(tenantID, invoiceID uint) (*model.Invoice, error) {
	return s.setStatus(tenantID, invoiceID, model.InvoiceStatusSent)
}

// MarkPaid stamps the invoice as paid.
func (s *Invoices) MarkPaid(tenantID, invoiceID uint) (*model.Invoice, error) {
	return s.setStatus(tenantID, invoiceID, model.InvoiceStatusPaid)
}

// Cancel voids an unpaid invoice.
func (s *Invoices) Cancel(tenantID, invoiceID uint) (*model.Invoice, error) {
	return s.setStatus(tenantID, invoiceID, model.InvoiceStatusCancelled)
}

func (s *Invoices) setStatus(tenantID, invoiceID uint, status string) (*model.Invoice, error) {
	var invoice model.Invoice
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND tenant_id = ?", invoiceID, tenantID).First(&invoice).Error; err != nil {
			return err
		}
		if invoice.Status == model.InvoiceStatusCancelled {
			return ErrInvalidTransition
		}
		if invoice.Status == model.InvoiceStatusPaid && status != model.InvoiceStatusPaid {
			return ErrInvalidTransition
		}
		now := time.Now()
		invoice.Status = status
		switch status {
		case model.InvoiceStatusSent:
			invoice.SentAt = &now
		case model.InvoiceStatusPaid:
			invoice.PaidAt = &now
		}
		return tx.Save(&invoice).Error
	})
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}
