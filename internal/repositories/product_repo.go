package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"billmint/internal/billing"
	"billmint/internal/models"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Product, error)
	ListAll(ctx context.Context, tenantID uuid.UUID) ([]*models.Product, error)
	GetBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*models.Product, error)
	// AdjustStock applies a signed stock change; negative changes fail when
	// they would push stock below zero.
	AdjustStock(ctx context.Context, tenantID, productID uuid.UUID, change int) error
}

type productRepo struct {
	db DB
}

func NewProductRepository(db DB) ProductRepository {
	return &productRepo{db: db}
}

const productColumns = `id, tenant_id, name, sku, hsn_sac, unit_price, tax_rate, current_stock, description, created_at, updated_at`

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (id, tenant_id, name, sku, hsn_sac, unit_price, tax_rate, current_stock, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, product.ID, product.TenantID, product.Name, product.SKU, product.HSNSAC, product.UnitPrice, product.TaxRate, product.CurrentStock, product.Description)
	return err
}

func (r *productRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Product, error) {
	product := &models.Product{}
	query := `SELECT ` + productColumns + ` FROM products WHERE tenant_id = $1 AND id = $2`
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&product.ID, &product.TenantID, &product.Name, &product.SKU, &product.HSNSAC, &product.UnitPrice, &product.TaxRate, &product.CurrentStock, &product.Description, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *productRepo) Update(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products
		SET name = $1, sku = $2, hsn_sac = $3, unit_price = $4, tax_rate = $5, current_stock = $6, description = $7, updated_at = NOW()
		WHERE tenant_id = $8 AND id = $9
	`
	_, err := r.db.Exec(ctx, query, product.Name, product.SKU, product.HSNSAC, product.UnitPrice, product.TaxRate, product.CurrentStock, product.Description, product.TenantID, product.ID)
	return err
}

func (r *productRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `DELETE FROM products WHERE tenant_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, tenantID, id)
	return err
}

func (r *productRepo) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE tenant_id = $1 ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *productRepo) ListAll(ctx context.Context, tenantID uuid.UUID) ([]*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE tenant_id = $1 ORDER BY name`
	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *productRepo) GetBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*models.Product, error) {
	product := &models.Product{}
	query := `SELECT ` + productColumns + ` FROM products WHERE tenant_id = $1 AND sku = $2`
	err := r.db.QueryRow(ctx, query, tenantID, sku).Scan(&product.ID, &product.TenantID, &product.Name, &product.SKU, &product.HSNSAC, &product.UnitPrice, &product.TaxRate, &product.CurrentStock, &product.Description, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *productRepo) AdjustStock(ctx context.Context, tenantID, productID uuid.UUID, change int) error {
	query := `
		UPDATE products
		SET current_stock = current_stock + $1, updated_at = NOW()
		WHERE tenant_id = $2 AND id = $3 AND current_stock + $1 >= 0
	`
	tag, err := r.db.Exec(ctx, query, change, tenantID, productID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: adjustment of %d rejected for product %s", billing.ErrInsufficientStock, change, productID)
	}
	return nil
}

func scanProducts(rows pgx.Rows) ([]*models.Product, error) {
	var products []*models.Product
	for rows.Next() {
		product := &models.Product{}
		if err := rows.Scan(&product.ID, &product.TenantID, &product.Name, &product.SKU, &product.HSNSAC, &product.UnitPrice, &product.TaxRate, &product.CurrentStock, &product.Description, &product.CreatedAt, &product.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}
