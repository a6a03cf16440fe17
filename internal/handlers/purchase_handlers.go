package handlers

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"billmint/internal/common"
	"billmint/internal/models"
	"billmint/internal/services"
)

// PurchaseHandlers handles purchase-related HTTP requests
type PurchaseHandlers struct {
	purchaseService services.PurchaseServiceInterface
}

// NewPurchaseHandlers creates a new purchase handlers instance
func NewPurchaseHandlers(purchaseService services.PurchaseServiceInterface) *PurchaseHandlers {
	return &PurchaseHandlers{purchaseService: purchaseService}
}

// CreatePurchase records incoming stock and increments the product's count
func (h *PurchaseHandlers) CreatePurchase(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var purchase models.Purchase
	if err := c.Bind(&purchase); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	purchase.TenantID = tenantID

	if err := h.purchaseService.CreatePurchase(ctx, &purchase); err != nil {
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusCreated, purchase)
}

// GetPurchases lists purchases for the tenant
func (h *PurchaseHandlers) GetPurchases(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit, offset := pageParams(c)
	purchases, err := h.purchaseService.ListPurchases(ctx, tenantID, limit, offset)
	if err != nil {
		log.Printf("WARN: failed to list purchases for tenant %s: %v", tenantID, err)
		return common.SendServerError(c, "Failed to list purchases")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"purchases": purchases,
		"limit":     limit,
		"offset":    offset,
	})
}

// GetPurchaseByID returns a single purchase
func (h *PurchaseHandlers) GetPurchaseByID(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	purchaseID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	purchase, err := h.purchaseService.GetPurchaseByID(ctx, tenantID, purchaseID)
	if err != nil || purchase == nil {
		return common.SendNotFoundError(c, "purchase")
	}

	return c.JSON(http.StatusOK, purchase)
}

// GetPurchasesByProduct lists the purchase history of one product
func (h *PurchaseHandlers) GetPurchasesByProduct(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	productID, err := common.ValidateUUID(c.Param("product_id"), "product_id")
	if err != nil {
		return common.SendValidationError(c, "product_id", err.Error())
	}

	purchases, err := h.purchaseService.ListPurchasesByProduct(ctx, tenantID, productID)
	if err != nil {
		log.Printf("WARN: failed to list purchases for product %s: %v", productID, err)
		return common.SendServerError(c, "Failed to list purchases")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"purchases": purchases,
	})
}
