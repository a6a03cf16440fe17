package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"billmint/internal/models"
)

type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Customer, error)
	Update(ctx context.Context, customer *models.Customer) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Customer, error)
}

type customerRepo struct {
	db *pgxpool.Pool
}

func NewCustomerRepository(db *pgxpool.Pool) CustomerRepository {
	return &customerRepo{db: db}
}

const customerColumns = `id, tenant_id, first_name, last_name, email, phone, gstin, state_code, billing_address, created_at, updated_at`

func (r *customerRepo) Create(ctx context.Context, customer *models.Customer) error {
	address, err := json.Marshal(customer.BillingAddress)
	if err != nil {
		return fmt.Errorf("marshal billing address: %w", err)
	}
	query := `
		INSERT INTO customers (id, tenant_id, first_name, last_name, email, phone, gstin, state_code, billing_address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err = r.db.Exec(ctx, query, customer.ID, customer.TenantID, customer.FirstName, customer.LastName, customer.Email, customer.Phone, customer.GSTIN, customer.StateCode, address)
	return err
}

func (r *customerRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Customer, error) {
	customer := &models.Customer{}
	var address []byte
	query := `SELECT ` + customerColumns + ` FROM customers WHERE tenant_id = $1 AND id = $2`
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&customer.ID, &customer.TenantID, &customer.FirstName, &customer.LastName, &customer.Email, &customer.Phone, &customer.GSTIN, &customer.StateCode, &address, &customer.CreatedAt, &customer.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(address) > 0 {
		if err := json.Unmarshal(address, &customer.BillingAddress); err != nil {
			return nil, fmt.Errorf("unmarshal billing address: %w", err)
		}
	}
	return customer, nil
}

func (r *customerRepo) Update(ctx context.Context, customer *models.Customer) error {
	address, err := json.Marshal(customer.BillingAddress)
	if err != nil {
		return fmt.Errorf("marshal billing address: %w", err)
	}
	query := `
		UPDATE customers
		SET first_name = $1, last_name = $2, email = $3, phone = $4, gstin = $5, state_code = $6, billing_address = $7, updated_at = NOW()
		WHERE tenant_id = $8 AND id = $9
	`
	_, err = r.db.Exec(ctx, query, customer.FirstName, customer.LastName, customer.Email, customer.Phone, customer.GSTIN, customer.StateCode, address, customer.TenantID, customer.ID)
	return err
}

func (r *customerRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `DELETE FROM customers WHERE tenant_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, tenantID, id)
	return err
}

func (r *customerRepo) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE tenant_id = $1 ORDER BY first_name, last_name LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []*models.Customer
	for rows.Next() {
		customer := &models.Customer{}
		var address []byte
		if err := rows.Scan(&customer.ID, &customer.TenantID, &customer.FirstName, &customer.LastName, &customer.Email, &customer.Phone, &customer.GSTIN, &customer.StateCode, &address, &customer.CreatedAt, &customer.UpdatedAt); err != nil {
			return nil, err
		}
		if len(address) > 0 {
			if err := json.Unmarshal(address, &customer.BillingAddress); err != nil {
				return nil, fmt.Errorf("unmarshal billing address: %w", err)
			}
		}
		customers = append(customers, customer)
	}
	return customers, rows.Err()
}
