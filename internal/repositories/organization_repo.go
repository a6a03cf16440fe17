package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"billmint/internal/models"
)

type OrganizationRepository interface {
	Create(ctx context.Context, org *models.Organization) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Organization, error)
	Update(ctx context.Context, org *models.Organization) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Organization, error)
}

type organizationRepo struct {
	db *pgxpool.Pool
}

func NewOrganizationRepository(db *pgxpool.Pool) OrganizationRepository {
	return &organizationRepo{db: db}
}

const organizationColumns = `id, tenant_id, name, gstin, state_code, address, email, phone, created_at, updated_at`

func (r *organizationRepo) Create(ctx context.Context, org *models.Organization) error {
	address, err := json.Marshal(org.Address)
	if err != nil {
		return fmt.Errorf("marshal address: %w", err)
	}
	query := `
		INSERT INTO organizations (id, tenant_id, name, gstin, state_code, address, email, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	_, err = r.db.Exec(ctx, query, org.ID, org.TenantID, org.Name, org.GSTIN, org.StateCode, address, org.Email, org.Phone)
	return err
}

func (r *organizationRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Organization, error) {
	org := &models.Organization{}
	var address []byte
	query := `SELECT ` + organizationColumns + ` FROM organizations WHERE tenant_id = $1 AND id = $2`
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&org.ID, &org.TenantID, &org.Name, &org.GSTIN, &org.StateCode, &address, &org.Email, &org.Phone, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(address) > 0 {
		if err := json.Unmarshal(address, &org.Address); err != nil {
			return nil, fmt.Errorf("unmarshal address: %w", err)
		}
	}
	return org, nil
}

func (r *organizationRepo) Update(ctx context.Context, org *models.Organization) error {
	address, err := json.Marshal(org.Address)
	if err != nil {
		return fmt.Errorf("marshal address: %w", err)
	}
	query := `
		UPDATE organizations
		SET name = $1, gstin = $2, state_code = $3, address = $4, email = $5, phone = $6, updated_at = NOW()
		WHERE tenant_id = $7 AND id = $8
	`
	_, err = r.db.Exec(ctx, query, org.Name, org.GSTIN, org.StateCode, address, org.Email, org.Phone, org.TenantID, org.ID)
	return err
}

func (r *organizationRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `DELETE FROM organizations WHERE tenant_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, tenantID, id)
	return err
}

func (r *organizationRepo) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Organization, error) {
	query := `SELECT ` + organizationColumns + ` FROM organizations WHERE tenant_id = $1 ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orgs []*models.Organization
	for rows.Next() {
		org := &models.Organization{}
		var address []byte
		if err := rows.Scan(&org.ID, &org.TenantID, &org.Name, &org.GSTIN, &org.StateCode, &address, &org.Email, &org.Phone, &org.CreatedAt, &org.UpdatedAt); err != nil {
			return nil, err
		}
		if len(address) > 0 {
			if err := json.Unmarshal(address, &org.Address); err != nil {
				return nil, fmt.Errorf("unmarshal address: %w", err)
			}
		}
		orgs = append(orgs, org)
	}
	return orgs, rows.Err()
}
