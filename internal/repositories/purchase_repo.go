package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"billmint/internal/models"
)

type PurchaseRepository interface {
	// Create records the purchase and increments the product's stock in one
	// transaction.
	Create(ctx context.Context, purchase *models.Purchase) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Purchase, error)
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Purchase, error)
	ListByProduct(ctx context.Context, tenantID, productID uuid.UUID) ([]*models.Purchase, error)
}

type purchaseRepo struct {
	db *pgxpool.Pool
}

func NewPurchaseRepository(db *pgxpool.Pool) PurchaseRepository {
	return &purchaseRepo{db: db}
}

const purchaseColumns = `id, tenant_id, product_id, supplier_name, supplier_gstin, quantity, unit_cost, purchase_date, notes, created_at, updated_at`

func (r *purchaseRepo) Create(ctx context.Context, purchase *models.Purchase) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO purchases (id, tenant_id, product_id, supplier_name, supplier_gstin, quantity, unit_cost, purchase_date, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err = tx.Exec(ctx, query, purchase.ID, purchase.TenantID, purchase.ProductID, purchase.SupplierName, purchase.SupplierGSTIN, purchase.Quantity, purchase.UnitCost, purchase.PurchaseDate, purchase.Notes)
	if err != nil {
		return err
	}

	stockQuery := `
		UPDATE products
		SET current_stock = current_stock + $1, updated_at = NOW()
		WHERE tenant_id = $2 AND id = $3
	`
	tag, err := tx.Exec(ctx, stockQuery, purchase.Quantity, purchase.TenantID, purchase.ProductID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return tx.Commit(ctx)
}

func (r *purchaseRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Purchase, error) {
	purchase := &models.Purchase{}
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE tenant_id = $1 AND id = $2`
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&purchase.ID, &purchase.TenantID, &purchase.ProductID, &purchase.SupplierName, &purchase.SupplierGSTIN, &purchase.Quantity, &purchase.UnitCost, &purchase.PurchaseDate, &purchase.Notes, &purchase.CreatedAt, &purchase.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return purchase, nil
}

func (r *purchaseRepo) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE tenant_id = $1 ORDER BY purchase_date DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPurchases(rows)
}

func (r *purchaseRepo) ListByProduct(ctx context.Context, tenantID, productID uuid.UUID) ([]*models.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE tenant_id = $1 AND product_id = $2 ORDER BY purchase_date DESC`
	rows, err := r.db.Query(ctx, query, tenantID, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPurchases(rows)
}

func scanPurchases(rows pgx.Rows) ([]*models.Purchase, error) {
	var purchases []*models.Purchase
	for rows.Next() {
		purchase := &models.Purchase{}
		if err := rows.Scan(&purchase.ID, &purchase.TenantID, &purchase.ProductID, &purchase.SupplierName, &purchase.SupplierGSTIN, &purchase.Quantity, &purchase.UnitCost, &purchase.PurchaseDate, &purchase.Notes, &purchase.CreatedAt, &purchase.UpdatedAt); err != nil {
			return nil, err
		}
		purchases = append(purchases, purchase)
	}
	return purchases, rows.Err()
}
