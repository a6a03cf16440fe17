package models

import (
	"time"

	"github.com/google/uuid"
)

// Organization is a seller entity the tenant issues invoices under. A tenant
// may register several organizations, each with its own GSTIN.
type Organization struct {
	ID        uuid.UUID `json:"id" db:"id"`
	TenantID  uuid.UUID `json:"tenant_id" db:"tenant_id"`
	Name      string    `json:"name" db:"name"`
	GSTIN     *string   `json:"gstin" db:"gstin"`
	StateCode *string   `json:"state_code" db:"state_code"`
	Address   Address   `json:"address" db:"address"`
	Email     *string   `json:"email" db:"email"`
	Phone     *string   `json:"phone" db:"phone"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
