package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Employee struct {
	ID        uuid.UUID        `json:"id" db:"id"`
	TenantID  uuid.UUID        `json:"tenant_id" db:"tenant_id"`
	FirstName string           `json:"first_name" db:"first_name"`
	LastName  string           `json:"last_name" db:"last_name"`
	Email     *string          `json:"email" db:"email"`
	Phone     *string          `json:"phone" db:"phone"`
	Role      string           `json:"role" db:"role"`
	Salary    *decimal.Decimal `json:"salary" db:"salary"`
	JoinedAt  time.Time        `json:"joined_at" db:"joined_at"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt time.Time        `json:"updated_at" db:"updated_at"`
}
