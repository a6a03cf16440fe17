package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"billmint/internal/common"
	"billmint/internal/models"
	"billmint/internal/repositories"
)

// ProjectHandlers handles project-related HTTP requests
type ProjectHandlers struct {
	projectRepo repositories.ProjectRepository
}

// NewProjectHandlers creates a new project handlers instance
func NewProjectHandlers(projectRepo repositories.ProjectRepository) *ProjectHandlers {
	return &ProjectHandlers{projectRepo: projectRepo}
}

// CreateProject registers a customer project that expenses can be charged to
func (h *ProjectHandlers) CreateProject(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var project models.Project
	if err := c.Bind(&project); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateRequiredString(project.Name, "name"); err != nil {
		return common.SendClientError(c, err.Error())
	}

	project.ID = uuid.New()
	project.TenantID = tenantID
	if project.Status == "" {
		project.Status = "active"
	}
	project.CreatedAt = time.Now()
	project.UpdatedAt = time.Now()

	if err := h.projectRepo.Create(ctx, &project); err != nil {
		log.Printf("WARN: failed to create project for tenant %s: %v", tenantID, err)
		return common.SendServerError(c, "Failed to create project")
	}

	return c.JSON(http.StatusCreated, project)
}

// GetProjects lists projects for the tenant
func (h *ProjectHandlers) GetProjects(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit, offset := pageParams(c)
	projects, err := h.projectRepo.List(ctx, tenantID, limit, offset)
	if err != nil {
		log.Printf("WARN: failed to list projects for tenant %s: %v", tenantID, err)
		return common.SendServerError(c, "Failed to list projects")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"projects": projects,
		"limit":    limit,
		"offset":   offset,
	})
}

// GetProjectByID returns a single project
func (h *ProjectHandlers) GetProjectByID(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	projectID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	project, err := h.projectRepo.GetByID(ctx, tenantID, projectID)
	if err != nil || project == nil {
		return common.SendNotFoundError(c, "project")
	}

	return c.JSON(http.StatusOK, project)
}

// UpdateProject replaces a project's editable fields
func (h *ProjectHandlers) UpdateProject(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	projectID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var project models.Project
	if err := c.Bind(&project); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateRequiredString(project.Name, "name"); err != nil {
		return common.SendClientError(c, err.Error())
	}

	project.ID = projectID
	project.TenantID = tenantID
	project.UpdatedAt = time.Now()

	if err := h.projectRepo.Update(ctx, &project); err != nil {
		log.Printf("WARN: failed to update project %s: %v", projectID, err)
		return common.SendServerError(c, "Failed to update project")
	}

	return c.JSON(http.StatusOK, project)
}

// DeleteProject removes a project
func (h *ProjectHandlers) DeleteProject(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	projectID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.projectRepo.Delete(ctx, tenantID, projectID); err != nil {
		return common.SendNotFoundError(c, "project")
	}

	return c.NoContent(http.StatusNoContent)
}
