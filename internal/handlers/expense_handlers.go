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

// ExpenseHandlers handles expense-related HTTP requests
type ExpenseHandlers struct {
	expenseRepo repositories.ExpenseRepository
}

// NewExpenseHandlers creates a new expense handlers instance
func NewExpenseHandlers(expenseRepo repositories.ExpenseRepository) *ExpenseHandlers {
	return &ExpenseHandlers{expenseRepo: expenseRepo}
}

func validateExpense(expense *models.Expense) error {
	if err := common.ValidateRequiredString(expense.Category, "category"); err != nil {
		return err
	}
	if err := common.ValidatePositiveAmount(expense.Amount, "amount"); err != nil {
		return err
	}
	return nil
}

// CreateExpense records a business expense, optionally tied to a project
func (h *ExpenseHandlers) CreateExpense(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var expense models.Expense
	if err := c.Bind(&expense); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := validateExpense(&expense); err != nil {
		return common.SendClientError(c, err.Error())
	}

	expense.ID = uuid.New()
	expense.TenantID = tenantID
	if expense.SpentAt.IsZero() {
		expense.SpentAt = time.Now()
	}
	expense.CreatedAt = time.Now()
	expense.UpdatedAt = time.Now()

	if err := h.expenseRepo.Create(ctx, &expense); err != nil {
		log.Printf("WARN: failed to create expense for tenant %s: %v", tenantID, err)
		return common.SendServerError(c, "Failed to create expense")
	}

	return c.JSON(http.StatusCreated, expense)
}

// GetExpenses lists expenses for the tenant
func (h *ExpenseHandlers) GetExpenses(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit, offset := pageParams(c)
	expenses, err := h.expenseRepo.List(ctx, tenantID, limit, offset)
	if err != nil {
		log.Printf("WARN: failed to list expenses for tenant %s: %v", tenantID, err)
		return common.SendServerError(c, "Failed to list expenses")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"expenses": expenses,
		"limit":    limit,
		"offset":   offset,
	})
}

// GetExpenseByID returns a single expense
func (h *ExpenseHandlers) GetExpenseByID(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	expenseID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	expense, err := h.expenseRepo.GetByID(ctx, tenantID, expenseID)
	if err != nil || expense == nil {
		return common.SendNotFoundError(c, "expense")
	}

	return c.JSON(http.StatusOK, expense)
}

// GetExpensesByProject lists expenses charged to one project
func (h *ExpenseHandlers) GetExpensesByProject(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	projectID, err := common.ValidateUUID(c.Param("project_id"), "project_id")
	if err != nil {
		return common.SendValidationError(c, "project_id", err.Error())
	}

	expenses, err := h.expenseRepo.ListByProject(ctx, tenantID, projectID)
	if err != nil {
		log.Printf("WARN: failed to list expenses for project %s: %v", projectID, err)
		return common.SendServerError(c, "Failed to list expenses")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"expenses": expenses,
	})
}

// UpdateExpense replaces an expense's editable fields
func (h *ExpenseHandlers) UpdateExpense(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	expenseID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var expense models.Expense
	if err := c.Bind(&expense); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := validateExpense(&expense); err != nil {
		return common.SendClientError(c, err.Error())
	}

	expense.ID = expenseID
	expense.TenantID = tenantID
	expense.UpdatedAt = time.Now()

	if err := h.expenseRepo.Update(ctx, &expense); err != nil {
		log.Printf("WARN: failed to update expense %s: %v", expenseID, err)
		return common.SendServerError(c, "Failed to update expense")
	}

	return c.JSON(http.StatusOK, expense)
}

// DeleteExpense removes an expense
func (h *ExpenseHandlers) DeleteExpense(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	expenseID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.expenseRepo.Delete(ctx, tenantID, expenseID); err != nil {
		return common.SendNotFoundError(c, "expense")
	}

	return c.NoContent(http.StatusNoContent)
}
