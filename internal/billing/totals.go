package billing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	two     = decimal.NewFromInt(2)
)

// TaxRates is the set of GST rates a product may carry, in percent.
var TaxRates = []int{2, 5, 9, 12, 18, 28, 40}

// ValidTaxRate reports whether rate is one of the permitted GST rates.
func ValidTaxRate(rate int) bool {
	for _, r := range TaxRates {
		if r == rate {
			return true
		}
	}
	return false
}

// LineTax is the computed tax breakdown of a single line. Amounts are
// unrounded; rounding happens once at presentation.
type LineTax struct {
	Gross   decimal.Decimal `json:"gross"`
	Taxable decimal.Decimal `json:"taxable"`
	CGST    decimal.Decimal `json:"cgst"`
	SGST    decimal.Decimal `json:"sgst"`
	IGST    decimal.Decimal `json:"igst"`
}

// Totals is the aggregate money picture of a draft invoice.
type Totals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxableAmount  decimal.Decimal `json:"taxable_amount"`
	TotalCGST      decimal.Decimal `json:"total_cgst"`
	TotalSGST      decimal.Decimal `json:"total_sgst"`
	TotalIGST      decimal.Decimal `json:"total_igst"`
	GrandTotal     decimal.Decimal `json:"grand_total"`
	Lines          []LineTax       `json:"lines"`
}

// TaxAmount is the sum of all tax buckets.
func (t Totals) TaxAmount() decimal.Decimal {
	return t.TotalCGST.Add(t.TotalSGST).Add(t.TotalIGST)
}

// Rounded returns a copy with every amount rounded to 2 decimal places.
// Intermediate computation stays unrounded so per-line rounding error does
// not compound across the invoice.
func (t Totals) Rounded() Totals {
	r := Totals{
		Subtotal:       t.Subtotal.Round(2),
		DiscountAmount: t.DiscountAmount.Round(2),
		TaxableAmount:  t.TaxableAmount.Round(2),
		TotalCGST:      t.TotalCGST.Round(2),
		TotalSGST:      t.TotalSGST.Round(2),
		TotalIGST:      t.TotalIGST.Round(2),
		GrandTotal:     t.GrandTotal.Round(2),
		Lines:          make([]LineTax, len(t.Lines)),
	}
	for i, l := range t.Lines {
		r.Lines[i] = LineTax{
			Gross:   l.Gross.Round(2),
			Taxable: l.Taxable.Round(2),
			CGST:    l.CGST.Round(2),
			SGST:    l.SGST.Round(2),
			IGST:    l.IGST.Round(2),
		}
	}
	return r
}

// ComputeTotals prices the draft. The discount percentage is applied
// proportionally to every line, because tax must be computed per line (lines
// carry distinct rates) and only then summed per bucket. Intra-state splits
// each line's tax into equal CGST and SGST halves; inter-state books the
// full amount as IGST.
//
// An unresolved GST type fails with ErrTaxTypeUndetermined rather than
// assuming a scheme.
func ComputeTotals(lines []LineItem, discountPercent decimal.Decimal, gstType GSTType) (Totals, error) {
	if discountPercent.IsNegative() || discountPercent.GreaterThan(hundred) {
		return Totals{}, fmt.Errorf("%w: discount percent %s", ErrInvalidAmount, discountPercent)
	}
	if gstType == GSTUnresolved {
		return Totals{}, ErrTaxTypeUndetermined
	}

	keepFactor := decimal.NewFromInt(1).Sub(discountPercent.Div(hundred))

	totals := Totals{
		Subtotal:       decimal.Zero,
		DiscountAmount: decimal.Zero,
		TaxableAmount:  decimal.Zero,
		TotalCGST:      decimal.Zero,
		TotalSGST:      decimal.Zero,
		TotalIGST:      decimal.Zero,
		GrandTotal:     decimal.Zero,
		Lines:          make([]LineTax, 0, len(lines)),
	}

	for _, line := range lines {
		gross := line.Gross()
		taxable := gross.Mul(keepFactor)
		rate := decimal.NewFromInt(int64(line.TaxRate))

		lt := LineTax{Gross: gross, Taxable: taxable}
		switch gstType {
		case GSTInterState:
			lt.IGST = taxable.Mul(rate).Div(hundred)
		case GSTIntraState:
			half := taxable.Mul(rate.Div(two)).Div(hundred)
			lt.CGST = half
			lt.SGST = half
		}

		totals.Subtotal = totals.Subtotal.Add(gross)
		totals.TaxableAmount = totals.TaxableAmount.Add(taxable)
		totals.TotalCGST = totals.TotalCGST.Add(lt.CGST)
		totals.TotalSGST = totals.TotalSGST.Add(lt.SGST)
		totals.TotalIGST = totals.TotalIGST.Add(lt.IGST)
		totals.Lines = append(totals.Lines, lt)
	}

	totals.DiscountAmount = totals.Subtotal.Sub(totals.TaxableAmount)
	totals.GrandTotal = totals.TaxableAmount.
		Add(totals.TotalCGST).
		Add(totals.TotalSGST).
		Add(totals.TotalIGST)

	return totals, nil
}
