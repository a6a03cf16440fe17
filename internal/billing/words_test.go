package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAmountInWords(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"0", "ZERO RUPEES ONLY"},
		{"1", "ONE RUPEES ONLY"},
		{"17", "SEVENTEEN RUPEES ONLY"},
		{"40", "FORTY RUPEES ONLY"},
		{"99", "NINETY NINE RUPEES ONLY"},
		{"100", "ONE HUNDRED RUPEES ONLY"},
		{"212.4", "TWO HUNDRED TWELVE RUPEES ONLY"},
		{"212.5", "TWO HUNDRED THIRTEEN RUPEES ONLY"},
		{"1200", "ONE THOUSAND TWO HUNDRED RUPEES ONLY"},
		{"99999", "NINETY NINE THOUSAND NINE HUNDRED NINETY NINE RUPEES ONLY"},
		{"100000", "ONE LAKH RUPEES ONLY"},
		{"913183", "NINE LAKH THIRTEEN THOUSAND ONE HUNDRED EIGHTY THREE RUPEES ONLY"},
		{"10000000", "ONE CRORE RUPEES ONLY"},
		{"12345678", "ONE CRORE TWENTY THREE LAKH FORTY FIVE THOUSAND SIX HUNDRED SEVENTY EIGHT RUPEES ONLY"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			got := AmountInWords(decimal.RequireFromString(tt.amount))
			assert.Equal(t, tt.want, got)
		})
	}
}
