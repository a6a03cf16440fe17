package billing

import "strings"

// GSTType classifies a transaction for tax splitting purposes.
type GSTType int

const (
	// GSTUnresolved means seller or buyer GST details are still missing.
	// Totals must not be computed against it.
	GSTUnresolved GSTType = iota
	// GSTIntraState splits tax into equal CGST and SGST halves.
	GSTIntraState
	// GSTInterState applies the full rate as IGST.
	GSTInterState
)

// Label returns the persisted string form of the GST type.
func (t GSTType) Label() string {
	switch t {
	case GSTIntraState:
		return "CGST_SGST"
	case GSTInterState:
		return "IGST"
	default:
		return "UNRESOLVED"
	}
}

// ResolveGSTType decides between intra-state (CGST+SGST) and inter-state
// (IGST) taxation from the seller's and buyer's GST registrations. If either
// GSTIN is missing the type stays unresolved; callers must surface "tax type
// pending" instead of defaulting to one scheme.
//
// Explicit state codes are the 2-letter form ("MH") while GSTIN prefixes are
// 2-digit numeric ("27"); the two encodings never compare equal, so both
// sides must resolve within one encoding. Explicit codes are used only when
// both parties carry them in the same encoding; otherwise both sides fall
// back to the numeric GSTIN prefix, which every valid GSTIN carries.
func ResolveGSTType(sellerGSTIN, sellerState, buyerGSTIN, buyerState string) GSTType {
	sellerGSTIN = strings.TrimSpace(sellerGSTIN)
	buyerGSTIN = strings.TrimSpace(buyerGSTIN)
	if sellerGSTIN == "" || buyerGSTIN == "" {
		return GSTUnresolved
	}

	seller := strings.TrimSpace(sellerState)
	buyer := strings.TrimSpace(buyerState)
	if seller == "" || buyer == "" || isNumericCode(seller) != isNumericCode(buyer) {
		seller = numericStateCode(sellerGSTIN)
		buyer = numericStateCode(buyerGSTIN)
	}
	if seller == "" || buyer == "" {
		return GSTUnresolved
	}

	if strings.EqualFold(seller, buyer) {
		return GSTIntraState
	}
	return GSTInterState
}

// StateCodeFromGSTIN extracts the two-character state code prefix of a
// GSTIN. Returns "" if the GSTIN is too short to carry one.
func StateCodeFromGSTIN(gstin string) string {
	gstin = strings.TrimSpace(gstin)
	if len(gstin) < 2 {
		return ""
	}
	return gstin[:2]
}

// numericStateCode returns the GSTIN's state code prefix, or "" when the
// prefix is not the two digits a valid GSTIN starts with.
func numericStateCode(gstin string) string {
	code := StateCodeFromGSTIN(gstin)
	if !isNumericCode(code) {
		return ""
	}
	return code
}

func isNumericCode(code string) bool {
	if code == "" {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
