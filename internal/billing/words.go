package billing

import (
	"strings"

	"github.com/shopspring/decimal"
)

var onesWords = []string{
	"", "ONE", "TWO", "THREE", "FOUR", "FIVE", "SIX", "SEVEN", "EIGHT", "NINE",
	"TEN", "ELEVEN", "TWELVE", "THIRTEEN", "FOURTEEN", "FIFTEEN", "SIXTEEN",
	"SEVENTEEN", "EIGHTEEN", "NINETEEN",
}

var tensWords = []string{
	"", "", "TWENTY", "THIRTY", "FORTY", "FIFTY", "SIXTY", "SEVENTY",
	"EIGHTY", "NINETY",
}

// AmountInWords spells out a rupee amount in the Indian numbering system,
// e.g. 1200 -> "ONE THOUSAND TWO HUNDRED RUPEES ONLY". The amount is
// rounded to the nearest whole rupee first; paise are not spelled out.
func AmountInWords(amount decimal.Decimal) string {
	rupees := amount.Round(0).IntPart()
	if rupees < 0 {
		return "MINUS " + AmountInWords(amount.Neg())
	}
	if rupees == 0 {
		return "ZERO RUPEES ONLY"
	}
	return indianWords(rupees) + " RUPEES ONLY"
}

// indianWords groups by crore (1e7), lakh (1e5), thousand and hundred.
func indianWords(n int64) string {
	var parts []string
	if n >= 10000000 {
		parts = append(parts, indianWords(n/10000000), "CRORE")
		n %= 10000000
	}
	if n >= 100000 {
		parts = append(parts, underHundred(n/100000), "LAKH")
		n %= 100000
	}
	if n >= 1000 {
		parts = append(parts, underHundred(n/1000), "THOUSAND")
		n %= 1000
	}
	if n >= 100 {
		parts = append(parts, onesWords[n/100], "HUNDRED")
		n %= 100
	}
	if n > 0 {
		parts = append(parts, underHundred(n))
	}
	return strings.Join(parts, " ")
}

func underHundred(n int64) string {
	if n < 20 {
		return onesWords[n]
	}
	if n%10 == 0 {
		return tensWords[n/10]
	}
	return tensWords[n/10] + " " + onesWords[n%10]
}
