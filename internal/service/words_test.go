package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmountInWords(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"0", "Rupees Zero Only"},
		{"7", "Rupees Seven Only"},
		{"15750", "Rupees Fifteen Thousand Seven Hundred Fifty Only"},
		{"525.50", "Rupees Five Hundred Twenty Five and Fifty Paise Only"},
		{"100000", "Rupees One Lakh Only"},
		{"12345678", "Rupees One Crore Twenty Three Lakh Forty Five Thousand Six Hundred Seventy Eight Only"},
		{"0.05", "Rupees Zero and Five Paise Only"},
		{"19.999", "Rupees Twenty Only"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, AmountInWords(dec(tt.amount), "INR"))
		})
	}
}

func TestAmountInWordsForeignCurrency(t *testing.T) {
	assert.Equal(t, "USD Twelve and Fifty Cents Only", AmountInWords(dec("12.50"), "USD"))
}
