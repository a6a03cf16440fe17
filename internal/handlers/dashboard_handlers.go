package handlers

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"billmint/internal/common"
	"billmint/internal/services"
)

// DashboardHandlers handles dashboard HTTP requests
type DashboardHandlers struct {
	dashboardService services.DashboardServiceInterface
}

// NewDashboardHandlers creates a new dashboard handlers instance
func NewDashboardHandlers(dashboardService services.DashboardServiceInterface) *DashboardHandlers {
	return &DashboardHandlers{dashboardService: dashboardService}
}

// GetMetrics returns the tenant's billing overview
func (h *DashboardHandlers) GetMetrics(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	metrics, err := h.dashboardService.GetMetrics(ctx, tenantID)
	if err != nil {
		log.Printf("WARN: failed to compute dashboard metrics for tenant %s: %v", tenantID, err)
		return common.SendServerError(c, "Failed to compute dashboard metrics")
	}

	return c.JSON(http.StatusOK, metrics)
}
