package models

import (
	"time"

	"github.com/google/uuid"
)

// CustomerSearchFilter holds search criteria for customer queries
type CustomerSearchFilter struct {
	Query     string `json:"query,omitempty"`      // Full-text search across name, email, phone
	StateCode string `json:"state_code,omitempty"` // Filter by GST state code
	SortBy    string `json:"sort_by,omitempty"`    // Sort field: name, created_at
	SortOrder string `json:"sort_order,omitempty"` // Sort order: asc, desc
	Limit     int    `json:"limit,omitempty"`
	Offset    int    `json:"offset,omitempty"`
}

type Customer struct {
	ID             uuid.UUID `json:"id" db:"id"`
	TenantID       uuid.UUID `json:"tenant_id" db:"tenant_id"`
	FirstName      string    `json:"first_name" db:"first_name"`
	LastName       string    `json:"last_name" db:"last_name"`
	Email          *string   `json:"email" db:"email"`
	Phone          *string   `json:"phone" db:"phone"`
	GSTIN          *string   `json:"gstin" db:"gstin"`
	StateCode      *string   `json:"state_code" db:"state_code"`
	BillingAddress Address   `json:"billing_address" db:"billing_address"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}
