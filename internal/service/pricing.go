package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"tailor-service/internal/model"
)

var two = decimal.NewFromInt(2)

// Pricing is the order pricing aggregator. It is the single source of
// truth for the cached monetary fields on Order and OrderItem: every
// item write runs it in the same transaction, and the stored fields are
// never adjusted by incremental deltas.
type Pricing struct{}

// Recompute rewrites every item's discount/tax/total and the order's
// subtotal/discount/tax/total from the item list. It is idempotent:
// recomputing unchanged input yields identical output.
//
// Each item's ItemType must be loaded; its GST rate feeds the tax
// calculator. GST is rounded per line item, which matches how the lines
// appear on the invoice.
func (Pricing) Recompute(order *model.Order, settings *model.TenantSettings, buyerState string) error {
	subtotal := decimal.Zero
	discount := decimal.Zero
	tax := decimal.Zero
	total := decimal.Zero

	for i := range order.Items {
		item := &order.Items[i]
		if err := validateItem(item); err != nil {
			return err
		}

		lineSubtotal := decimal.NewFromInt(int64(item.Quantity)).Mul(item.UnitPrice)
		lineTaxable := lineSubtotal.Sub(item.DiscountAmount)

		rate := item.ItemType.GSTRate
		breakup, err := ComputeTax(lineTaxable, rate, settings.StateCode, buyerState, settings.GSTEnabled)
		if err != nil {
			return err
		}

		item.CGSTRate, item.SGSTRate, item.IGSTRate = splitRate(rate, breakup)
		item.TaxAmount = breakup.Total()
		item.TotalPrice = lineTaxable.Add(item.TaxAmount)

		subtotal = subtotal.Add(lineSubtotal)
		discount = discount.Add(item.DiscountAmount)
		tax = tax.Add(item.TaxAmount)
		total = total.Add(item.TotalPrice)
	}

	order.Subtotal = subtotal.Round(2)
	order.DiscountAmount = discount.Round(2)
	order.TaxAmount = tax.Round(2)
	order.TotalAmount = total.Round(2)

	expected := order.Subtotal.Sub(order.DiscountAmount).Add(order.TaxAmount)
	if !order.TotalAmount.Equal(expected) {
		return &InvariantError{Detail: fmt.Sprintf(
			"order total %s does not match subtotal %s - discount %s + tax %s",
			order.TotalAmount, order.Subtotal, order.DiscountAmount, order.TaxAmount)}
	}
	return nil
}

func validateItem(item *model.OrderItem) error {
	if item.Quantity <= 0 {
		return &InvariantError{Detail: fmt.Sprintf("item %d has non-positive quantity %d", item.ID, item.Quantity)}
	}
	if item.UnitPrice.IsNegative() {
		return &InvariantError{Detail: fmt.Sprintf("item %d has negative unit price %s", item.ID, item.UnitPrice)}
	}
	if item.DiscountAmount.IsNegative() {
		return &InvariantError{Detail: fmt.Sprintf("item %d has negative discount %s", item.ID, item.DiscountAmount)}
	}
	lineSubtotal := decimal.NewFromInt(int64(item.Quantity)).Mul(item.UnitPrice)
	if item.DiscountAmount.GreaterThan(lineSubtotal) {
		return &InvariantError{Detail: fmt.Sprintf("item %d discount %s exceeds line subtotal %s", item.ID, item.DiscountAmount, lineSubtotal)}
	}
	return nil
}

// splitRate stores which half of the rate applied to each GST head so
// the item records its jurisdiction determination alongside the amounts.
func splitRate(rate decimal.Decimal, breakup TaxBreakup) (cgst, sgst, igst decimal.Decimal) {
	zero := decimal.Zero
	if breakup.IGST.IsPositive() {
		return zero, zero, rate
	}
	if breakup.CGST.IsPositive() || breakup.SGST.IsPositive() {
		half := rate.Div(two)
		return half, half, zero
	}
	return zero, zero, zero
}
