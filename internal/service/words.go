package service

import (
	"strings"

	"github.com/shopspring/decimal"
)

var onesWords = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tensWords = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

// AmountInWords renders a monetary amount in words using the Indian
// numbering system (crore, lakh). It is a deterministic formatting of
// the amount, never independently entered.
func AmountInWords(amount decimal.Decimal, currency string) string {
	unit, subunit := "Rupees", "Paise"
	if currency != "" && currency != "INR" {
		unit, subunit = currency, "Cents"
	}

	amount = amount.Round(2)
	rupees := amount.IntPart()
	paise := amount.Sub(decimal.NewFromInt(rupees)).Mul(decimal.NewFromInt(100)).Round(0).IntPart()

	var parts []string
	if rupees == 0 {
		parts = append(parts, unit, "Zero")
	} else {
		parts = append(parts, unit, integerInWords(rupees))
	}
	if paise > 0 {
		parts = append(parts, "and", integerInWords(paise), subunit)
	}
	parts = append(parts, "Only")
	return strings.Join(parts, " ")
}

// integerInWords groups by the Indian system: crore, lakh, thousand,
// then the final three digits.
func integerInWords(n int64) string {
	if n == 0 {
		return "Zero"
	}

	var parts []string
	appendGroup := func(value int64, label string) {
		if value > 0 {
			parts = append(parts, belowThousand(value))
			if label != "" {
				parts = append(parts, label)
			}
		}
	}

	appendGroup(n/10000000, "Crore")
	n %= 10000000
	appendGroup(n/100000, "Lakh")
	n %= 100000
	appendGroup(n/1000, "Thousand")
	n %= 1000
	appendGroup(n, "")

	return strings.Join(parts, " ")
}

func belowThousand(n int64) string {
	var parts []string
	if n >= 100 {
		parts = append(parts, onesWords[n/100], "Hundred")
		n %= 100
	}
	if n >= 20 {
		parts = append(parts, tensWords[n/10])
		n %= 10
	}
	if n > 0 {
		parts = append(parts, onesWords[n])
	}
	return strings.Join(parts, " ")
}
