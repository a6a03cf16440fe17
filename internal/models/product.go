package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductSearchFilter holds search and filter criteria for product queries
type ProductSearchFilter struct {
	Query     string           `json:"query,omitempty"`     // Full-text search across name, SKU, HSN/SAC
	MinStock  *int             `json:"min_stock,omitempty"` // Minimum current stock
	MaxStock  *int             `json:"max_stock,omitempty"` // Maximum current stock
	MinPrice  *decimal.Decimal `json:"min_price,omitempty"` // Minimum unit price
	MaxPrice  *decimal.Decimal `json:"max_price,omitempty"` // Maximum unit price
	TaxRate   *int             `json:"tax_rate,omitempty"`  // Exact GST rate match
	SortBy    string           `json:"sort_by,omitempty"`   // Sort field: name, created_at, current_stock, unit_price
	SortOrder string           `json:"sort_order,omitempty"`
	Limit     int              `json:"limit,omitempty"`
	Offset    int              `json:"offset,omitempty"`
}

type Product struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	TenantID     uuid.UUID       `json:"tenant_id" db:"tenant_id"`
	Name         string          `json:"name" db:"name"`
	SKU          string          `json:"sku" db:"sku"`
	HSNSAC       string          `json:"hsn_sac" db:"hsn_sac"`
	UnitPrice    decimal.Decimal `json:"unit_price" db:"unit_price"`
	TaxRate      int             `json:"tax_rate" db:"tax_rate"`
	CurrentStock int             `json:"current_stock" db:"current_stock"`
	Description  *string         `json:"description" db:"description"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}
