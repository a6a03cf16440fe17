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

// OrganizationHandlers handles seller organization HTTP requests
type OrganizationHandlers struct {
	orgRepo repositories.OrganizationRepository
}

// NewOrganizationHandlers creates a new organization handlers instance
func NewOrganizationHandlers(orgRepo repositories.OrganizationRepository) *OrganizationHandlers {
	return &OrganizationHandlers{orgRepo: orgRepo}
}

func validateOrganization(org *models.Organization) error {
	if err := common.ValidateRequiredString(org.Name, "name"); err != nil {
		return err
	}
	if gstin := common.SafeString(org.GSTIN); gstin != "" {
		if err := common.ValidateGSTIN(gstin, "gstin"); err != nil {
			return err
		}
	}
	if code := common.SafeString(org.StateCode); code != "" {
		if err := common.ValidateStateCode(code, "state_code"); err != nil {
			return err
		}
	}
	return nil
}

// CreateOrganization registers a seller entity the tenant invoices under
func (h *OrganizationHandlers) CreateOrganization(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var org models.Organization
	if err := c.Bind(&org); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := validateOrganization(&org); err != nil {
		return common.SendClientError(c, err.Error())
	}

	org.ID = uuid.New()
	org.TenantID = tenantID
	org.CreatedAt = time.Now()
	org.UpdatedAt = time.Now()

	if err := h.orgRepo.Create(ctx, &org); err != nil {
		log.Printf("WARN: failed to create organization for tenant %s: %v", tenantID, err)
		return common.SendServerError(c, "Failed to create organization")
	}

	return c.JSON(http.StatusCreated, org)
}

// GetOrganizations lists seller organizations for the tenant
func (h *OrganizationHandlers) GetOrganizations(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit, offset := pageParams(c)
	orgs, err := h.orgRepo.List(ctx, tenantID, limit, offset)
	if err != nil {
		log.Printf("WARN: failed to list organizations for tenant %s: %v", tenantID, err)
		return common.SendServerError(c, "Failed to list organizations")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"organizations": orgs,
		"limit":         limit,
		"offset":        offset,
	})
}

// GetOrganizationByID returns a single organization
func (h *OrganizationHandlers) GetOrganizationByID(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	orgID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	org, err := h.orgRepo.GetByID(ctx, tenantID, orgID)
	if err != nil || org == nil {
		return common.SendNotFoundError(c, "organization")
	}

	return c.JSON(http.StatusOK, org)
}

// UpdateOrganization replaces an organization's editable fields
func (h *OrganizationHandlers) UpdateOrganization(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	orgID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var org models.Organization
	if err := c.Bind(&org); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := validateOrganization(&org); err != nil {
		return common.SendClientError(c, err.Error())
	}

	org.ID = orgID
	org.TenantID = tenantID
	org.UpdatedAt = time.Now()

	if err := h.orgRepo.Update(ctx, &org); err != nil {
		log.Printf("WARN: failed to update organization %s: %v", orgID, err)
		return common.SendServerError(c, "Failed to update organization")
	}

	return c.JSON(http.StatusOK, org)
}

// DeleteOrganization removes an organization
func (h *OrganizationHandlers) DeleteOrganization(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	orgID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.orgRepo.Delete(ctx, tenantID, orgID); err != nil {
		return common.SendNotFoundError(c, "organization")
	}

	return c.NoContent(http.StatusNoContent)
}
