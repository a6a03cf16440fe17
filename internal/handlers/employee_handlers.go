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

// EmployeeHandlers handles employee-related HTTP requests
type EmployeeHandlers struct {
	employeeRepo repositories.EmployeeRepository
}

// NewEmployeeHandlers creates a new employee handlers instance
func NewEmployeeHandlers(employeeRepo repositories.EmployeeRepository) *EmployeeHandlers {
	return &EmployeeHandlers{employeeRepo: employeeRepo}
}

func validateEmployee(employee *models.Employee) error {
	if err := common.ValidateRequiredString(employee.FirstName, "first_name"); err != nil {
		return err
	}
	if err := common.ValidateRequiredString(employee.Role, "role"); err != nil {
		return err
	}
	if employee.Salary != nil {
		if err := common.ValidatePositiveAmount(*employee.Salary, "salary"); err != nil {
			return err
		}
	}
	return nil
}

// CreateEmployee adds an employee record
func (h *EmployeeHandlers) CreateEmployee(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var employee models.Employee
	if err := c.Bind(&employee); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := validateEmployee(&employee); err != nil {
		return common.SendClientError(c, err.Error())
	}

	employee.ID = uuid.New()
	employee.TenantID = tenantID
	if employee.JoinedAt.IsZero() {
		employee.JoinedAt = time.Now()
	}
	employee.CreatedAt = time.Now()
	employee.UpdatedAt = time.Now()

	if err := h.employeeRepo.Create(ctx, &employee); err != nil {
		log.Printf("WARN: failed to create employee for tenant %s: %v", tenantID, err)
		return common.SendServerError(c, "Failed to create employee")
	}

	return c.JSON(http.StatusCreated, employee)
}

// GetEmployees lists employees for the tenant
func (h *EmployeeHandlers) GetEmployees(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit, offset := pageParams(c)
	employees, err := h.employeeRepo.List(ctx, tenantID, limit, offset)
	if err != nil {
		log.Printf("WARN: failed to list employees for tenant %s: %v", tenantID, err)
		return common.SendServerError(c, "Failed to list employees")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"employees": employees,
		"limit":     limit,
		"offset":    offset,
	})
}

// GetEmployeeByID returns a single employee
func (h *EmployeeHandlers) GetEmployeeByID(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	employeeID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	employee, err := h.employeeRepo.GetByID(ctx, tenantID, employeeID)
	if err != nil || employee == nil {
		return common.SendNotFoundError(c, "employee")
	}

	return c.JSON(http.StatusOK, employee)
}

// UpdateEmployee replaces an employee's editable fields
func (h *EmployeeHandlers) UpdateEmployee(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	employeeID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var employee models.Employee
	if err := c.Bind(&employee); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := validateEmployee(&employee); err != nil {
		return common.SendClientError(c, err.Error())
	}

	employee.ID = employeeID
	employee.TenantID = tenantID
	employee.UpdatedAt = time.Now()

	if err := h.employeeRepo.Update(ctx, &employee); err != nil {
		log.Printf("WARN: failed to update employee %s: %v", employeeID, err)
		return common.SendServerError(c, "Failed to update employee")
	}

	return c.JSON(http.StatusOK, employee)
}

// DeleteEmployee removes an employee record
func (h *EmployeeHandlers) DeleteEmployee(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	employeeID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.employeeRepo.Delete(ctx, tenantID, employeeID); err != nil {
		return common.SendNotFoundError(c, "employee")
	}

	return c.NoContent(http.StatusNoContent)
}
