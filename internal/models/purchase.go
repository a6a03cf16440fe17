package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Purchase records stock bought from a supplier. Creating one increments the
// product's current stock.
type Purchase struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	TenantID      uuid.UUID       `json:"tenant_id" db:"tenant_id"`
	ProductID     uuid.UUID       `json:"product_id" db:"product_id"`
	SupplierName  string          `json:"supplier_name" db:"supplier_name"`
	SupplierGSTIN *string         `json:"supplier_gstin" db:"supplier_gstin"`
	Quantity      int             `json:"quantity" db:"quantity"`
	UnitCost      decimal.Decimal `json:"unit_cost" db:"unit_cost"`
	PurchaseDate  time.Time       `json:"purchase_date" db:"purchase_date"`
	Notes         *string         `json:"notes" db:"notes"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}
