package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestReconcile(t *testing.T) {
	grand := decimal.RequireFromString("212.4")

	tests := []struct {
		name       string
		advance    string
		received   string
		wantDue    string
		wantReturn string
	}{
		{"nothing paid", "0", "0", "212.4", "0"},
		{"advance only", "50", "0", "162.4", "0"},
		{"exact payment", "0", "212.4", "0", "0"},
		{"overpaid", "0", "300", "0", "87.6"},
		{"advance plus partial", "100", "50", "62.4", "0"},
		// The return amount counts received alone: the advance stays on
		// account even when advance+received exceeds the total.
		{"advance plus received over total", "200", "100", "0", "0"},
		{"advance alone over total", "500", "0", "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reconcile(grand,
				decimal.RequireFromString(tt.advance),
				decimal.RequireFromString(tt.received))
			assertDecimalEqual(t, tt.wantDue, got.DueAmount)
			assertDecimalEqual(t, tt.wantReturn, got.ReturnAmount)
		})
	}
}

func TestReconcileNeverNegative(t *testing.T) {
	amounts := []string{"0", "0.01", "99.99", "212.4", "1000000"}
	grand := decimal.RequireFromString("212.4")

	for _, a := range amounts {
		for _, r := range amounts {
			got := Reconcile(grand,
				decimal.RequireFromString(a),
				decimal.RequireFromString(r))
			assert.False(t, got.DueAmount.IsNegative(), "advance=%s received=%s", a, r)
			assert.False(t, got.ReturnAmount.IsNegative(), "advance=%s received=%s", a, r)
		}
	}
}

func TestValidateAmounts(t *testing.T) {
	assert.NoError(t, ValidateAmounts(decimal.Zero, decimal.Zero))
	assert.NoError(t, ValidateAmounts(decimal.NewFromInt(10), decimal.NewFromInt(20)))
	assert.ErrorIs(t, ValidateAmounts(decimal.NewFromInt(-1), decimal.Zero), ErrInvalidAmount)
	assert.ErrorIs(t, ValidateAmounts(decimal.Zero, decimal.NewFromFloat(-0.01)), ErrInvalidAmount)
}
