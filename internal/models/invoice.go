package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice statuses. Transitions are enforced in the invoice service.
const (
	InvoiceStatusPending = "pending"
	InvoiceStatusPaid    = "paid"
	InvoiceStatusOverdue = "overdue"
)

type Invoice struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	TenantID        uuid.UUID       `json:"tenant_id" db:"tenant_id"`
	InvoiceNumber   string          `json:"invoice_number" db:"invoice_number"`
	OrganizationID  uuid.UUID       `json:"organization_id" db:"organization_id"`
	CustomerID      uuid.UUID       `json:"customer_id" db:"customer_id"`
	SellerGSTIN     *string         `json:"seller_gstin" db:"seller_gstin"`
	BuyerGSTIN      *string         `json:"buyer_gstin" db:"buyer_gstin"`
	GSTType         string          `json:"gst_type" db:"gst_type"`
	Subtotal        decimal.Decimal `json:"subtotal" db:"subtotal"`
	DiscountPercent decimal.Decimal `json:"discount_percent" db:"discount_percent"`
	DiscountAmount  decimal.Decimal `json:"discount_amount" db:"discount_amount"`
	TaxableAmount   decimal.Decimal `json:"taxable_amount" db:"taxable_amount"`
	CGST            decimal.Decimal `json:"cgst" db:"cgst"`
	SGST            decimal.Decimal `json:"sgst" db:"sgst"`
	IGST            decimal.Decimal `json:"igst" db:"igst"`
	TaxAmount       decimal.Decimal `json:"tax_amount" db:"tax_amount"`
	TotalAmount     decimal.Decimal `json:"total_amount" db:"total_amount"`
	Advance         decimal.Decimal `json:"advance" db:"advance"`
	Received        decimal.Decimal `json:"received" db:"received"`
	DueAmount       decimal.Decimal `json:"due_amount" db:"due_amount"`
	ReturnAmount    decimal.Decimal `json:"return_amount" db:"return_amount"`
	Status          string          `json:"status" db:"status"`
	IssueDate       time.Time       `json:"issue_date" db:"issue_date"`
	DueDate         time.Time       `json:"due_date" db:"due_date"`
	PaidDate        *time.Time      `json:"paid_date" db:"paid_date"`
	ShippingAddress *Address        `json:"shipping_address" db:"shipping_address"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`

	// Lines are persisted in invoice_lines alongside the invoice row.
	Lines []InvoiceLine `json:"lines" db:"-"`
}

type InvoiceLine struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	InvoiceID uuid.UUID       `json:"invoice_id" db:"invoice_id"`
	ProductID uuid.UUID       `json:"product_id" db:"product_id"`
	Name      string          `json:"name" db:"name"`
	SKU       string          `json:"sku" db:"sku"`
	HSNSAC    string          `json:"hsn_sac" db:"hsn_sac"`
	Quantity  int             `json:"quantity" db:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price" db:"unit_price"`
	TaxRate   int             `json:"tax_rate" db:"tax_rate"`
	Taxable   decimal.Decimal `json:"taxable" db:"taxable"`
	CGST      decimal.Decimal `json:"cgst" db:"cgst"`
	SGST      decimal.Decimal `json:"sgst" db:"sgst"`
	IGST      decimal.Decimal `json:"igst" db:"igst"`
}

// GSTReportRow represents a row in GST reporting
type GSTReportRow struct {
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	GSTType       string          `json:"gst_type"`
	SellerGSTIN   *string         `json:"seller_gstin"`
	BuyerGSTIN    *string         `json:"buyer_gstin"`
	TaxableAmount decimal.Decimal `json:"taxable_amount"`
	CGST          decimal.Decimal `json:"cgst"`
	SGST          decimal.Decimal `json:"sgst"`
	IGST          decimal.Decimal `json:"igst"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Status        string          `json:"status"`
	IssueDate     time.Time       `json:"issue_date"`
}
