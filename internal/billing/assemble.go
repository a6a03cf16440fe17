package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"billmint/internal/models"
)

// InvoiceDraft is the editing-session aggregate: everything the user has
// chosen, before pricing. Derived amounts live in Totals and Settlement and
// are recomputed on every edit, never stored on the draft.
type InvoiceDraft struct {
	TenantID       uuid.UUID
	OrganizationID uuid.UUID
	CustomerID     uuid.UUID
	SellerGSTIN    string
	BuyerGSTIN     string
	GSTType        GSTType
	Lines          []LineItem
	DiscountPercent decimal.Decimal
	Advance        decimal.Decimal
	Received       decimal.Decimal
	IssueDate      time.Time
	DueDate        time.Time
	Status         string
	// ShippingSameAsBilling reuses BillingAddress for shipping.
	ShippingSameAsBilling bool
	BillingAddress        models.Address
	ShippingAddress       *models.Address
}

// Validate checks the draft is complete enough to persist. The save call
// must not reach the API when this fails.
func (d *InvoiceDraft) Validate() error {
	if d.OrganizationID == uuid.Nil {
		return fmt.Errorf("%w: organization not selected", ErrValidation)
	}
	if d.CustomerID == uuid.Nil {
		return fmt.Errorf("%w: customer not selected", ErrValidation)
	}
	if len(d.Lines) == 0 {
		return fmt.Errorf("%w: no line items", ErrValidation)
	}
	if d.IssueDate.IsZero() {
		return fmt.Errorf("%w: issue date missing", ErrValidation)
	}
	return nil
}

// Assemble shapes the draft plus its computed totals and settlement into the
// invoice record handed to persistence. Rounds all amounts to 2 decimal
// places; this is the presentation boundary of the computation.
func Assemble(draft *InvoiceDraft, totals Totals, settlement Settlement) (*models.Invoice, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	if draft.GSTType == GSTUnresolved {
		return nil, ErrTaxTypeUndetermined
	}

	rounded := totals.Rounded()

	shipping := draft.ShippingAddress
	if draft.ShippingSameAsBilling {
		billing := draft.BillingAddress
		shipping = &billing
	}

	inv := &models.Invoice{
		ID:              uuid.New(),
		TenantID:        draft.TenantID,
		OrganizationID:  draft.OrganizationID,
		CustomerID:      draft.CustomerID,
		GSTType:         draft.GSTType.Label(),
		Subtotal:        rounded.Subtotal,
		DiscountPercent: draft.DiscountPercent,
		DiscountAmount:  rounded.DiscountAmount,
		TaxableAmount:   rounded.TaxableAmount,
		CGST:            rounded.TotalCGST,
		SGST:            rounded.TotalSGST,
		IGST:            rounded.TotalIGST,
		TaxAmount:       totals.TaxAmount().Round(2),
		TotalAmount:     rounded.GrandTotal,
		Advance:         draft.Advance.Round(2),
		Received:        draft.Received.Round(2),
		DueAmount:       settlement.DueAmount.Round(2),
		ReturnAmount:    settlement.ReturnAmount.Round(2),
		Status:          strings.ToLower(draft.Status),
		IssueDate:       draft.IssueDate,
		DueDate:         draft.DueDate,
		ShippingAddress: shipping,
	}
	if inv.Status == "" {
		inv.Status = models.InvoiceStatusPending
	}
	if gstin := strings.TrimSpace(draft.SellerGSTIN); gstin != "" {
		inv.SellerGSTIN = &gstin
	}
	if gstin := strings.TrimSpace(draft.BuyerGSTIN); gstin != "" {
		inv.BuyerGSTIN = &gstin
	}

	for i, line := range draft.Lines {
		lt := rounded.Lines[i]
		inv.Lines = append(inv.Lines, models.InvoiceLine{
			ID:        uuid.New(),
			InvoiceID: inv.ID,
			ProductID: line.ProductID,
			Name:      line.Name,
			SKU:       line.SKU,
			HSNSAC:    line.HSNSAC,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			TaxRate:   line.TaxRate,
			Taxable:   lt.Taxable,
			CGST:      lt.CGST,
			SGST:      lt.SGST,
			IGST:      lt.IGST,
		})
	}

	return inv, nil
}

// InvoiceView is the printable presentation of an invoice.
type InvoiceView struct {
	InvoiceNumber    string          `json:"invoice_number"`
	OrganizationName string          `json:"organization_name"`
	CustomerName     string          `json:"customer_name"`
	SellerGSTIN      string          `json:"seller_gstin"`
	BuyerGSTIN       string          `json:"buyer_gstin"`
	GSTType          string          `json:"gst_type"`
	IssueDate        time.Time       `json:"issue_date"`
	DueDate          time.Time       `json:"due_date"`
	Lines            []InvoiceViewLine `json:"lines"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	DiscountAmount   decimal.Decimal `json:"discount_amount"`
	TaxableAmount    decimal.Decimal `json:"taxable_amount"`
	CGST             decimal.Decimal `json:"cgst"`
	SGST             decimal.Decimal `json:"sgst"`
	IGST             decimal.Decimal `json:"igst"`
	GrandTotal       decimal.Decimal `json:"grand_total"`
	DueAmount        decimal.Decimal `json:"due_amount"`
	ReturnAmount     decimal.Decimal `json:"return_amount"`
	AmountInWords    string          `json:"amount_in_words"`
	BillingAddress   models.Address  `json:"billing_address"`
	ShippingAddress  *models.Address `json:"shipping_address"`
}

type InvoiceViewLine struct {
	Name      string          `json:"name"`
	HSNSAC    string          `json:"hsn_sac"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	TaxRate   int             `json:"tax_rate"`
	Amount    decimal.Decimal `json:"amount"`
}

// ToPresentationModel builds the printable view of a persisted invoice.
func ToPresentationModel(inv *models.Invoice, org *models.Organization, customer *models.Customer) *InvoiceView {
	view := &InvoiceView{
		InvoiceNumber:    inv.InvoiceNumber,
		OrganizationName: org.Name,
		CustomerName:     strings.TrimSpace(customer.FirstName + " " + customer.LastName),
		SellerGSTIN:      derefOrEmpty(inv.SellerGSTIN),
		BuyerGSTIN:       derefOrEmpty(inv.BuyerGSTIN),
		GSTType:          inv.GSTType,
		IssueDate:        inv.IssueDate,
		DueDate:          inv.DueDate,
		Subtotal:         inv.Subtotal,
		DiscountAmount:   inv.DiscountAmount,
		TaxableAmount:    inv.TaxableAmount,
		CGST:             inv.CGST,
		SGST:             inv.SGST,
		IGST:             inv.IGST,
		GrandTotal:       inv.TotalAmount,
		DueAmount:        inv.DueAmount,
		ReturnAmount:     inv.ReturnAmount,
		AmountInWords:    AmountInWords(inv.TotalAmount),
		BillingAddress:   customer.BillingAddress,
		ShippingAddress:  inv.ShippingAddress,
	}
	for _, line := range inv.Lines {
		gross := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		view.Lines = append(view.Lines, InvoiceViewLine{
			Name:      line.Name,
			HSNSAC:    line.HSNSAC,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			TaxRate:   line.TaxRate,
			Amount:    gross.Round(2),
		})
	}
	return view
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
