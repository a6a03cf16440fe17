package common

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidateGSTIN(t *testing.T) {
	assert.NoError(t, ValidateGSTIN("", "gstin")) // optional
	assert.NoError(t, ValidateGSTIN("27AAAAA1234A1Z5", "gstin"))
	assert.Error(t, ValidateGSTIN("27AAAAA1234A1Z", "gstin"))   // 14 chars
	assert.Error(t, ValidateGSTIN("XXAAAAA1234A1Z5", "gstin"))  // bad state digits
	assert.Error(t, ValidateGSTIN("27aaaaa1234a1z5", "gstin"))  // lower case
}

func TestValidateStateCode(t *testing.T) {
	assert.NoError(t, ValidateStateCode("", "state_code"))
	assert.NoError(t, ValidateStateCode("MH", "state_code"))
	assert.NoError(t, ValidateStateCode("ka", "state_code"))
	assert.Error(t, ValidateStateCode("MAH", "state_code"))
	assert.Error(t, ValidateStateCode("M1", "state_code"))
}

func TestValidateTaxRate(t *testing.T) {
	assert.NoError(t, ValidateTaxRate(18, "tax_rate"))
	assert.Error(t, ValidateTaxRate(15, "tax_rate"))
}

func TestValidateHSNSAC(t *testing.T) {
	assert.NoError(t, ValidateHSNSAC("", "hsn_sac"))
	assert.NoError(t, ValidateHSNSAC("120991", "hsn_sac"))
	assert.Error(t, ValidateHSNSAC("123456789", "hsn_sac"))
	assert.Error(t, ValidateHSNSAC("12AB91", "hsn_sac"))
}

func TestValidateAmounts(t *testing.T) {
	assert.NoError(t, ValidateNonNegativeAmount(decimal.Zero, "advance"))
	assert.Error(t, ValidateNonNegativeAmount(decimal.NewFromInt(-5), "advance"))
	assert.NoError(t, ValidatePositiveAmount(decimal.NewFromFloat(0.01), "unit_price"))
	assert.Error(t, ValidatePositiveAmount(decimal.Zero, "unit_price"))
}

func TestValidateInvoiceStatus(t *testing.T) {
	for _, status := range []string{"pending", "paid", "overdue"} {
		assert.NoError(t, ValidateInvoiceStatus(status))
	}
	assert.Error(t, ValidateInvoiceStatus("cancelled"))
	assert.Error(t, ValidateInvoiceStatus("Pending"))
}
