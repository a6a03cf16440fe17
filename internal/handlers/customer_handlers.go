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

// CustomerHandlers handles customer-related HTTP requests
type CustomerHandlers struct {
	customerRepo repositories.CustomerRepository
}

// NewCustomerHandlers creates a new customer handlers instance
func NewCustomerHandlers(customerRepo repositories.CustomerRepository) *CustomerHandlers {
	return &CustomerHandlers{customerRepo: customerRepo}
}

// validateCustomer checks the GST identity fields. A customer without a GSTIN
// is a valid unregistered buyer; a GSTIN, once given, must be well formed.
func validateCustomer(customer *models.Customer) error {
	if err := common.ValidateRequiredString(customer.FirstName, "first_name"); err != nil {
		return err
	}
	if gstin := common.SafeString(customer.GSTIN); gstin != "" {
		if err := common.ValidateGSTIN(gstin, "gstin"); err != nil {
			return err
		}
	}
	if code := common.SafeString(customer.StateCode); code != "" {
		if err := common.ValidateStateCode(code, "state_code"); err != nil {
			return err
		}
	}
	return nil
}

// CreateCustomer registers a buyer for the tenant
func (h *CustomerHandlers) CreateCustomer(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var customer models.Customer
	if err := c.Bind(&customer); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := validateCustomer(&customer); err != nil {
		return common.SendClientError(c, err.Error())
	}

	customer.ID = uuid.New()
	customer.TenantID = tenantID
	customer.CreatedAt = time.Now()
	customer.UpdatedAt = time.Now()

	if err := h.customerRepo.Create(ctx, &customer); err != nil {
		log.Printf("WARN: failed to create customer for tenant %s: %v", tenantID, err)
		return common.SendServerError(c, "Failed to create customer")
	}

	return c.JSON(http.StatusCreated, customer)
}

// GetCustomers lists customers for the tenant
func (h *CustomerHandlers) GetCustomers(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit, offset := pageParams(c)
	customers, err := h.customerRepo.List(ctx, tenantID, limit, offset)
	if err != nil {
		log.Printf("WARN: failed to list customers for tenant %s: %v", tenantID, err)
		return common.SendServerError(c, "Failed to list customers")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"customers": customers,
		"limit":     limit,
		"offset":    offset,
	})
}

// GetCustomerByID returns a single customer
func (h *CustomerHandlers) GetCustomerByID(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	customerID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	customer, err := h.customerRepo.GetByID(ctx, tenantID, customerID)
	if err != nil || customer == nil {
		return common.SendNotFoundError(c, "customer")
	}

	return c.JSON(http.StatusOK, customer)
}

// UpdateCustomer replaces a customer's editable fields
func (h *CustomerHandlers) UpdateCustomer(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	customerID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var customer models.Customer
	if err := c.Bind(&customer); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := validateCustomer(&customer); err != nil {
		return common.SendClientError(c, err.Error())
	}

	customer.ID = customerID
	customer.TenantID = tenantID
	customer.UpdatedAt = time.Now()

	if err := h.customerRepo.Update(ctx, &customer); err != nil {
		log.Printf("WARN: failed to update customer %s: %v", customerID, err)
		return common.SendServerError(c, "Failed to update customer")
	}

	return c.JSON(http.StatusOK, customer)
}

// DeleteCustomer removes a customer
func (h *CustomerHandlers) DeleteCustomer(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	customerID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.customerRepo.Delete(ctx, tenantID, customerID); err != nil {
		return common.SendNotFoundError(c, "customer")
	}

	return c.NoContent(http.StatusNoContent)
}
