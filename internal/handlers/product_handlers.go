package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"billmint/internal/common"
	"billmint/internal/models"
	"billmint/internal/services"
)

// ProductHandlers handles product-related HTTP requests
type ProductHandlers struct {
	productService services.ProductServiceInterface
}

// NewProductHandlers creates a new product handlers instance
func NewProductHandlers(productService services.ProductServiceInterface) *ProductHandlers {
	return &ProductHandlers{productService: productService}
}

// CreateProduct adds a product to the tenant's catalog
func (h *ProductHandlers) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var product models.Product
	if err := c.Bind(&product); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	product.ID = uuid.New()
	product.TenantID = tenantID
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()

	if err := h.productService.CreateProduct(ctx, &product); err != nil {
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusCreated, product)
}

// GetProducts lists products for the tenant
func (h *ProductHandlers) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit, offset := pageParams(c)
	products, err := h.productService.ListProducts(ctx, tenantID, limit, offset)
	if err != nil {
		log.Printf("WARN: failed to list products for tenant %s: %v", tenantID, err)
		return common.SendServerError(c, "Failed to list products")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"products": products,
		"limit":    limit,
		"offset":   offset,
	})
}

// GetProductByID returns a single product
func (h *ProductHandlers) GetProductByID(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	productID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	product, err := h.productService.GetProductByID(ctx, tenantID, productID)
	if err != nil || product == nil {
		return common.SendNotFoundError(c, "product")
	}

	return c.JSON(http.StatusOK, product)
}

// GetProductBySKU returns a single product looked up by SKU
func (h *ProductHandlers) GetProductBySKU(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	sku := c.Param("sku")
	if sku == "" {
		return common.SendValidationError(c, "sku", "sku is required")
	}

	product, err := h.productService.GetProductBySKU(ctx, tenantID, sku)
	if err != nil || product == nil {
		return common.SendNotFoundError(c, "product")
	}

	return c.JSON(http.StatusOK, product)
}

// UpdateProduct replaces a product's editable fields
func (h *ProductHandlers) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	productID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var product models.Product
	if err := c.Bind(&product); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	product.ID = productID
	product.TenantID = tenantID
	product.UpdatedAt = time.Now()

	if err := h.productService.UpdateProduct(ctx, &product); err != nil {
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusOK, product)
}

// DeleteProduct removes a product from the catalog
func (h *ProductHandlers) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	productID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.productService.DeleteProduct(ctx, tenantID, productID); err != nil {
		return common.SendNotFoundError(c, "product")
	}

	return c.NoContent(http.StatusNoContent)
}

// GetCatalog returns the sellable catalog snapshot used to draft invoices
func (h *ProductHandlers) GetCatalog(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	catalog, err := h.productService.Catalog(ctx, tenantID)
	if err != nil {
		log.Printf("WARN: failed to load catalog for tenant %s: %v", tenantID, err)
		return common.SendServerError(c, "Failed to load catalog")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"catalog": catalog,
	})
}

// AdjustStockRequest represents a manual stock correction
type AdjustStockRequest struct {
	Change int `json:"change" validate:"required"`
}

// AdjustStock applies a manual stock correction. Negative changes fail when
// they would take stock below zero.
func (h *ProductHandlers) AdjustStock(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	productID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req AdjustStockRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Change == 0 {
		return common.SendValidationError(c, "change", "change must not be zero")
	}

	if err := h.productService.AdjustStock(ctx, tenantID, productID, req.Change); err != nil {
		return common.SendBillingError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Stock adjusted",
		"change":  req.Change,
	})
}
