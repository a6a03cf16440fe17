package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"billmint/internal/models"
)

type EmployeeRepository interface {
	Create(ctx context.Context, employee *models.Employee) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Employee, error)
	Update(ctx context.Context, employee *models.Employee) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Employee, error)
}

type employeeRepo struct {
	db *pgxpool.Pool
}

func NewEmployeeRepository(db *pgxpool.Pool) EmployeeRepository {
	return &employeeRepo{db: db}
}

const employeeColumns = `id, tenant_id, first_name, last_name, email, phone, role, salary, joined_at, created_at, updated_at`

func (r *employeeRepo) Create(ctx context.Context, employee *models.Employee) error {
	query := `
		INSERT INTO employees (id, tenant_id, first_name, last_name, email, phone, role, salary, joined_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, employee.ID, employee.TenantID, employee.FirstName, employee.LastName, employee.Email, employee.Phone, employee.Role, employee.Salary, employee.JoinedAt)
	return err
}

func (r *employeeRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Employee, error) {
	employee := &models.Employee{}
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE tenant_id = $1 AND id = $2`
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&employee.ID, &employee.TenantID, &employee.FirstName, &employee.LastName, &employee.Email, &employee.Phone, &employee.Role, &employee.Salary, &employee.JoinedAt, &employee.CreatedAt, &employee.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return employee, nil
}

func (r *employeeRepo) Update(ctx context.Context, employee *models.Employee) error {
	query := `
		UPDATE employees
		SET first_name = $1, last_name = $2, email = $3, phone = $4, role = $5, salary = $6, joined_at = $7, updated_at = NOW()
		WHERE tenant_id = $8 AND id = $9
	`
	_, err := r.db.Exec(ctx, query, employee.FirstName, employee.LastName, employee.Email, employee.Phone, employee.Role, employee.Salary, employee.JoinedAt, employee.TenantID, employee.ID)
	return err
}

func (r *employeeRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `DELETE FROM employees WHERE tenant_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, tenantID, id)
	return err
}

func (r *employeeRepo) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE tenant_id = $1 ORDER BY first_name, last_name LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []*models.Employee
	for rows.Next() {
		employee := &models.Employee{}
		if err := rows.Scan(&employee.ID, &employee.TenantID, &employee.FirstName, &employee.LastName, &employee.Email, &employee.Phone, &employee.Role, &employee.Salary, &employee.JoinedAt, &employee.CreatedAt, &employee.UpdatedAt); err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}
	return employees, rows.Err()
}
