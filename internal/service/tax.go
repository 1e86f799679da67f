package service

import "github.com/shopspring/decimal"

var oneHundred = decimal.NewFromInt(100)

// TaxBreakup is the GST split for a taxable amount. Intra-state supplies
// carry CGST+SGST, inter-state supplies carry IGST; never both.
type TaxBreakup struct {
	CGST decimal.Decimal `json:"cgst"`
	SGST decimal.Decimal `json:"sgst"`
	IGST decimal.Decimal `json:"igst"`
}

// Total returns the summed tax of the breakup.
func (t TaxBreakup) Total() decimal.Decimal {
	return t.CGST.Add(t.SGST).Add(t.IGST)
}

// ZeroTax is an all-zero breakup at currency precision.
func ZeroTax() TaxBreakup {
	zero := decimal.Zero.Round(2)
	return TaxBreakup{CGST: zero, SGST: zero, IGST: zero}
}

// ComputeTax splits GST on a taxable amount by jurisdiction. The full
// rate applies as IGST when seller and buyer states differ, otherwise it
// is halved into CGST and SGST. Rounding is half-up to 2 decimal places
// and happens once on the final amounts, not on intermediate per-unit
// values, so it cannot compound across line items.
//
// A zero rate or a disabled GST module yields all zeros regardless of
// jurisdiction. Missing state codes with a positive rate are a tenant
// configuration error.
func ComputeTax(taxable, ratePercent decimal.Decimal, sellerState, buyerState string, gstEnabled bool) (TaxBreakup, error) {
	if !gstEnabled || ratePercent.IsZero() {
		return ZeroTax(), nil
	}
	if sellerState == "" || buyerState == "" {
		return TaxBreakup{}, ErrInvalidJurisdiction
	}

	fullTax := taxable.Mul(ratePercent).Div(oneHundred)
	if sellerState != buyerState {
		return TaxBreakup{
			CGST: decimal.Zero.Round(2),
			SGST: decimal.Zero.Round(2),
			IGST: fullTax.Round(2),
		}, nil
	}

	half := fullTax.Div(decimal.NewFromInt(2))
	return TaxBreakup{
		CGST: half.Round(2),
		SGST: half.Round(2),
		IGST: decimal.Zero.Round(2),
	}, nil
}
