package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"billmint/internal/models"
)

type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Project, error)
}

type projectRepo struct {
	db *pgxpool.Pool
}

func NewProjectRepository(db *pgxpool.Pool) ProjectRepository {
	return &projectRepo{db: db}
}

const projectColumns = `id, tenant_id, customer_id, name, description, status, start_date, end_date, created_at, updated_at`

func (r *projectRepo) Create(ctx context.Context, project *models.Project) error {
	query := `
		INSERT INTO projects (id, tenant_id, customer_id, name, description, status, start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, project.ID, project.TenantID, project.CustomerID, project.Name, project.Description, project.Status, project.StartDate, project.EndDate)
	return err
}

func (r *projectRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Project, error) {
	project := &models.Project{}
	query := `SELECT ` + projectColumns + ` FROM projects WHERE tenant_id = $1 AND id = $2`
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&project.ID, &project.TenantID, &project.CustomerID, &project.Name, &project.Description, &project.Status, &project.StartDate, &project.EndDate, &project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (r *projectRepo) Update(ctx context.Context, project *models.Project) error {
	query := `
		UPDATE projects
		SET customer_id = $1, name = $2, description = $3, status = $4, start_date = $5, end_date = $6, updated_at = NOW()
		WHERE tenant_id = $7 AND id = $8
	`
	_, err := r.db.Exec(ctx, query, project.CustomerID, project.Name, project.Description, project.Status, project.StartDate, project.EndDate, project.TenantID, project.ID)
	return err
}

func (r *projectRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `DELETE FROM projects WHERE tenant_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, tenantID, id)
	return err
}

func (r *projectRepo) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE tenant_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		project := &models.Project{}
		if err := rows.Scan(&project.ID, &project.TenantID, &project.CustomerID, &project.Name, &project.Description, &project.Status, &project.StartDate, &project.EndDate, &project.CreatedAt, &project.UpdatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}
