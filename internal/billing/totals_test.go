package billing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(price float64, rate, qty int) LineItem {
	return LineItem{
		ProductID: uuid.New(),
		Name:      "item",
		UnitPrice: decimal.NewFromFloat(price),
		TaxRate:   rate,
		Quantity:  qty,
	}
}

func assertDecimalEqual(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(decimal.RequireFromString(want)),
		"want %s, got %s", want, got)
}

func TestComputeTotalsIntraState(t *testing.T) {
	// Unit price 100, rate 18%, qty 2, discount 10%:
	// gross 200, discount 20, taxable 180, CGST = SGST = 16.2, total 212.4
	totals, err := ComputeTotals(
		[]LineItem{line(100, 18, 2)},
		decimal.NewFromInt(10),
		GSTIntraState,
	)
	require.NoError(t, err)

	assertDecimalEqual(t, "200", totals.Subtotal)
	assertDecimalEqual(t, "20", totals.DiscountAmount)
	assertDecimalEqual(t, "180", totals.TaxableAmount)
	assertDecimalEqual(t, "16.2", totals.TotalCGST)
	assertDecimalEqual(t, "16.2", totals.TotalSGST)
	assertDecimalEqual(t, "0", totals.TotalIGST)
	assertDecimalEqual(t, "212.4", totals.GrandTotal)
}

func TestComputeTotalsInterState(t *testing.T) {
	// Same line inter-state: full 32.4 books as IGST, grand total unchanged.
	totals, err := ComputeTotals(
		[]LineItem{line(100, 18, 2)},
		decimal.NewFromInt(10),
		GSTInterState,
	)
	require.NoError(t, err)

	assertDecimalEqual(t, "32.4", totals.TotalIGST)
	assertDecimalEqual(t, "0", totals.TotalCGST)
	assertDecimalEqual(t, "0", totals.TotalSGST)
	assertDecimalEqual(t, "212.4", totals.GrandTotal)
}

func TestComputeTotalsMixedRates(t *testing.T) {
	// Distinct rates force per-line taxation; an aggregate rate would be wrong.
	lines := []LineItem{
		line(100, 18, 1), // taxable 100, igst 18
		line(100, 5, 1),  // taxable 100, igst 5
	}
	totals, err := ComputeTotals(lines, decimal.Zero, GSTInterState)
	require.NoError(t, err)

	assertDecimalEqual(t, "200", totals.Subtotal)
	assertDecimalEqual(t, "23", totals.TotalIGST)
	assertDecimalEqual(t, "223", totals.GrandTotal)
	require.Len(t, totals.Lines, 2)
	assertDecimalEqual(t, "18", totals.Lines[0].IGST)
	assertDecimalEqual(t, "5", totals.Lines[1].IGST)
}

func TestComputeTotalsDiscountAppliedPerLine(t *testing.T) {
	lines := []LineItem{
		line(100, 18, 1),
		line(200, 5, 1),
	}
	totals, err := ComputeTotals(lines, decimal.NewFromInt(50), GSTIntraState)
	require.NoError(t, err)

	// Each line keeps half its gross.
	assertDecimalEqual(t, "50", totals.Lines[0].Taxable)
	assertDecimalEqual(t, "100", totals.Lines[1].Taxable)
	assertDecimalEqual(t, "150", totals.TaxableAmount)
	assertDecimalEqual(t, "150", totals.DiscountAmount)

	// line0: 50*9% = 4.5 each half; line1: 100*2.5% = 2.5 each half
	assertDecimalEqual(t, "7", totals.TotalCGST)
	assertDecimalEqual(t, "7", totals.TotalSGST)
}

func TestComputeTotalsTaxableExactForAllDiscounts(t *testing.T) {
	lines := []LineItem{line(99.99, 18, 3), line(249.50, 12, 2)}
	subtotal := decimal.RequireFromString("798.97") // 299.97 + 499.00

	for d := 0; d <= 100; d += 5 {
		discount := decimal.NewFromInt(int64(d))
		totals, err := ComputeTotals(lines, discount, GSTInterState)
		require.NoError(t, err)

		want := subtotal.Mul(decimal.NewFromInt(1).Sub(discount.Div(decimal.NewFromInt(100))))
		assert.True(t, totals.TaxableAmount.Equal(want),
			"discount %d: want %s, got %s", d, want, totals.TaxableAmount)
		assert.True(t, totals.Subtotal.Equal(subtotal))
	}
}

func TestComputeTotalsCGSTAlwaysEqualsSGST(t *testing.T) {
	lines := []LineItem{line(33.33, 9, 7), line(150, 28, 1), line(12.5, 5, 4)}
	totals, err := ComputeTotals(lines, decimal.NewFromFloat(12.5), GSTIntraState)
	require.NoError(t, err)

	assert.True(t, totals.TotalCGST.Equal(totals.TotalSGST))
	assert.True(t, totals.TotalIGST.IsZero())
	for _, lt := range totals.Lines {
		assert.True(t, lt.CGST.Equal(lt.SGST))
	}
}

func TestComputeTotalsGrandTotalIndependentOfSplit(t *testing.T) {
	lines := []LineItem{line(100, 18, 2), line(75.25, 5, 3)}
	discount := decimal.NewFromInt(10)

	intra, err := ComputeTotals(lines, discount, GSTIntraState)
	require.NoError(t, err)
	inter, err := ComputeTotals(lines, discount, GSTInterState)
	require.NoError(t, err)

	assert.True(t, intra.GrandTotal.Equal(inter.GrandTotal),
		"intra %s vs inter %s", intra.GrandTotal, inter.GrandTotal)
	assert.True(t, intra.TaxAmount().Equal(inter.TaxAmount()))
}

func TestComputeTotalsUnresolvedFailsFast(t *testing.T) {
	_, err := ComputeTotals([]LineItem{line(100, 18, 1)}, decimal.Zero, GSTUnresolved)
	assert.ErrorIs(t, err, ErrTaxTypeUndetermined)
}

func TestComputeTotalsDiscountBounds(t *testing.T) {
	lines := []LineItem{line(100, 18, 1)}

	_, err := ComputeTotals(lines, decimal.NewFromInt(-1), GSTInterState)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = ComputeTotals(lines, decimal.NewFromInt(101), GSTInterState)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	totals, err := ComputeTotals(lines, decimal.NewFromInt(100), GSTInterState)
	require.NoError(t, err)
	assert.True(t, totals.TaxableAmount.IsZero())
	assert.True(t, totals.GrandTotal.IsZero())
}

func TestComputeTotalsEmptyDraft(t *testing.T) {
	totals, err := ComputeTotals(nil, decimal.Zero, GSTIntraState)
	require.NoError(t, err)
	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.GrandTotal.IsZero())
	assert.Empty(t, totals.Lines)
}

func TestTotalsRounded(t *testing.T) {
	// 33.335 * 18% needs rounding only at presentation time.
	totals, err := ComputeTotals([]LineItem{line(33.335, 18, 1)}, decimal.Zero, GSTInterState)
	require.NoError(t, err)

	assertDecimalEqual(t, "6.0003", totals.TotalIGST)
	rounded := totals.Rounded()
	assertDecimalEqual(t, "6", rounded.TotalIGST)
	assertDecimalEqual(t, "33.34", rounded.Subtotal)
}

func TestValidTaxRate(t *testing.T) {
	for _, rate := range []int{2, 5, 9, 12, 18, 28, 40} {
		assert.True(t, ValidTaxRate(rate), "rate %d", rate)
	}
	for _, rate := range []int{0, 1, 3, 10, 15, 20, 100, -5} {
		assert.False(t, ValidTaxRate(rate), "rate %d", rate)
	}
}
