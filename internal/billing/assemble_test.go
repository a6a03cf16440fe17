package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billmint/internal/models"
)

func validDraft() *InvoiceDraft {
	return &InvoiceDraft{
		TenantID:       uuid.New(),
		OrganizationID: uuid.New(),
		CustomerID:     uuid.New(),
		SellerGSTIN:    "27AAAAA1234A1Z5",
		BuyerGSTIN:     "27BBBBB5678B1Z3",
		GSTType:        GSTIntraState,
		Lines: []LineItem{
			{
				ProductID: uuid.New(),
				Name:      "Hybrid Tomato Seeds",
				SKU:       "SEED-TOM-01",
				HSNSAC:    "120991",
				UnitPrice: decimal.NewFromInt(100),
				TaxRate:   18,
				Quantity:  2,
			},
		},
		DiscountPercent: decimal.NewFromInt(10),
		Advance:         decimal.NewFromInt(50),
		Received:        decimal.Zero,
		IssueDate:       time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		DueDate:         time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		Status:          "Pending",
		BillingAddress: models.Address{
			Line1:     "12 MG Road",
			City:      "Pune",
			State:     "Maharashtra",
			StateCode: "MH",
		},
		ShippingSameAsBilling: true,
	}
}

func assembleDraft(t *testing.T, draft *InvoiceDraft) (*models.Invoice, error) {
	t.Helper()
	totals, err := ComputeTotals(draft.Lines, draft.DiscountPercent, draft.GSTType)
	if err != nil {
		return nil, err
	}
	settlement := Reconcile(totals.GrandTotal, draft.Advance, draft.Received)
	return Assemble(draft, totals, settlement)
}

func TestAssemble(t *testing.T) {
	draft := validDraft()
	inv, err := assembleDraft(t, draft)
	require.NoError(t, err)

	assert.Equal(t, draft.TenantID, inv.TenantID)
	assert.Equal(t, draft.OrganizationID, inv.OrganizationID)
	assert.Equal(t, draft.CustomerID, inv.CustomerID)
	assert.Equal(t, "CGST_SGST", inv.GSTType)
	assert.Equal(t, "pending", inv.Status) // status is lower-cased
	require.NotNil(t, inv.SellerGSTIN)
	assert.Equal(t, "27AAAAA1234A1Z5", *inv.SellerGSTIN)

	assertDecimalEqual(t, "200", inv.Subtotal)
	assertDecimalEqual(t, "20", inv.DiscountAmount)
	assertDecimalEqual(t, "180", inv.TaxableAmount)
	assertDecimalEqual(t, "16.2", inv.CGST)
	assertDecimalEqual(t, "16.2", inv.SGST)
	assertDecimalEqual(t, "0", inv.IGST)
	assertDecimalEqual(t, "32.4", inv.TaxAmount)
	assertDecimalEqual(t, "212.4", inv.TotalAmount)
	assertDecimalEqual(t, "162.4", inv.DueAmount)
	assertDecimalEqual(t, "0", inv.ReturnAmount)

	require.Len(t, inv.Lines, 1)
	lineRec := inv.Lines[0]
	assert.Equal(t, inv.ID, lineRec.InvoiceID)
	assert.Equal(t, 2, lineRec.Quantity)
	assert.Equal(t, 18, lineRec.TaxRate)
	assertDecimalEqual(t, "180", lineRec.Taxable)
	assertDecimalEqual(t, "16.2", lineRec.CGST)

	// Shipping mirrors billing when flagged.
	require.NotNil(t, inv.ShippingAddress)
	assert.Equal(t, draft.BillingAddress, *inv.ShippingAddress)
}

func TestAssembleDistinctShippingAddress(t *testing.T) {
	draft := validDraft()
	draft.ShippingSameAsBilling = false
	draft.ShippingAddress = &models.Address{Line1: "Warehouse 4", City: "Nashik", StateCode: "MH"}

	inv, err := assembleDraft(t, draft)
	require.NoError(t, err)
	require.NotNil(t, inv.ShippingAddress)
	assert.Equal(t, "Warehouse 4", inv.ShippingAddress.Line1)
}

func TestAssembleValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*InvoiceDraft)
	}{
		{"missing organization", func(d *InvoiceDraft) { d.OrganizationID = uuid.Nil }},
		{"missing customer", func(d *InvoiceDraft) { d.CustomerID = uuid.Nil }},
		{"no line items", func(d *InvoiceDraft) { d.Lines = nil }},
		{"missing issue date", func(d *InvoiceDraft) { d.IssueDate = time.Time{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := validDraft()
			tt.mutate(draft)
			_, err := Assemble(draft, Totals{}, Settlement{})
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestAssembleUnresolvedGSTType(t *testing.T) {
	draft := validDraft()
	draft.GSTType = GSTUnresolved
	_, err := Assemble(draft, Totals{}, Settlement{})
	assert.ErrorIs(t, err, ErrTaxTypeUndetermined)
}

func TestToPresentationModel(t *testing.T) {
	draft := validDraft()
	inv, err := assembleDraft(t, draft)
	require.NoError(t, err)
	inv.InvoiceNumber = "INV-2026-04-0001"

	org := &models.Organization{Name: "Sharma Traders"}
	customer := &models.Customer{
		FirstName:      "Asha",
		LastName:       "Patil",
		BillingAddress: draft.BillingAddress,
	}

	view := ToPresentationModel(inv, org, customer)
	assert.Equal(t, "INV-2026-04-0001", view.InvoiceNumber)
	assert.Equal(t, "Sharma Traders", view.OrganizationName)
	assert.Equal(t, "Asha Patil", view.CustomerName)
	assert.Equal(t, "TWO HUNDRED TWELVE RUPEES ONLY", view.AmountInWords)
	assertDecimalEqual(t, "212.4", view.GrandTotal)
	require.Len(t, view.Lines, 1)
	assertDecimalEqual(t, "200", view.Lines[0].Amount)
}
