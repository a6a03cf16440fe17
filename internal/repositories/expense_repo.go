package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"billmint/internal/models"
)

type ExpenseRepository interface {
	Create(ctx context.Context, expense *models.Expense) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Expense, error)
	Update(ctx context.Context, expense *models.Expense) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Expense, error)
	ListByProject(ctx context.Context, tenantID, projectID uuid.UUID) ([]*models.Expense, error)
}

type expenseRepo struct {
	db *pgxpool.Pool
}

func NewExpenseRepository(db *pgxpool.Pool) ExpenseRepository {
	return &expenseRepo{db: db}
}

const expenseColumns = `id, tenant_id, project_id, category, description, amount, spent_at, created_at, updated_at`

func (r *expenseRepo) Create(ctx context.Context, expense *models.Expense) error {
	query := `
		INSERT INTO expenses (id, tenant_id, project_id, category, description, amount, spent_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, expense.ID, expense.TenantID, expense.ProjectID, expense.Category, expense.Description, expense.Amount, expense.SpentAt)
	return err
}

func (r *expenseRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Expense, error) {
	expense := &models.Expense{}
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE tenant_id = $1 AND id = $2`
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&expense.ID, &expense.TenantID, &expense.ProjectID, &expense.Category, &expense.Description, &expense.Amount, &expense.SpentAt, &expense.CreatedAt, &expense.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return expense, nil
}

func (r *expenseRepo) Update(ctx context.Context, expense *models.Expense) error {
	query := `
		UPDATE expenses
		SET project_id = $1, category = $2, description = $3, amount = $4, spent_at = $5, updated_at = NOW()
		WHERE tenant_id = $6 AND id = $7
	`
	_, err := r.db.Exec(ctx, query, expense.ProjectID, expense.Category, expense.Description, expense.Amount, expense.SpentAt, expense.TenantID, expense.ID)
	return err
}

func (r *expenseRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `DELETE FROM expenses WHERE tenant_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, tenantID, id)
	return err
}

func (r *expenseRepo) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE tenant_id = $1 ORDER BY spent_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanExpenses(rows)
}

func (r *expenseRepo) ListByProject(ctx context.Context, tenantID, projectID uuid.UUID) ([]*models.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE tenant_id = $1 AND project_id = $2 ORDER BY spent_at DESC`
	rows, err := r.db.Query(ctx, query, tenantID, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanExpenses(rows)
}

func scanExpenses(rows pgx.Rows) ([]*models.Expense, error) {
	var expenses []*models.Expense
	for rows.Next() {
		expense := &models.Expense{}
		if err := rows.Scan(&expense.ID, &expense.TenantID, &expense.ProjectID, &expense.Category, &expense.Description, &expense.Amount, &expense.SpentAt, &expense.CreatedAt, &expense.UpdatedAt); err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}
