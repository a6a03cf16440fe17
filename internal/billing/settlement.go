package billing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Settlement is the outcome of offsetting payments against the grand total.
type Settlement struct {
	DueAmount    decimal.Decimal `json:"due_amount"`
	ReturnAmount decimal.Decimal `json:"return_amount"`
}

// ValidateAmounts rejects negative payment inputs before reconciliation.
func ValidateAmounts(advance, received decimal.Decimal) error {
	if advance.IsNegative() {
		return fmt.Errorf("%w: advance %s", ErrInvalidAmount, advance)
	}
	if received.IsNegative() {
		return fmt.Errorf("%w: received %s", ErrInvalidAmount, received)
	}
	return nil
}

// Reconcile computes the amount still due and the amount to hand back.
//
// Due counts both the advance and the received amount against the grand
// total; the return amount counts the received amount alone. The asymmetry
// is deliberate business behavior (an advance is kept on account, not
// refunded at billing time) and is pending product-owner confirmation.
// Both values clamp at zero.
func Reconcile(grandTotal, advance, received decimal.Decimal) Settlement {
	due := grandTotal.Sub(advance.Add(received))
	if due.IsNegative() {
		due = decimal.Zero
	}
	refund := received.Sub(grandTotal)
	if refund.IsNegative() {
		refund = decimal.Zero
	}
	return Settlement{DueAmount: due, ReturnAmount: refund}
}
