package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"billmint/internal/caching"
	"billmint/internal/common"
	"billmint/internal/models"
	"billmint/internal/repositories"
)

// PurchaseServiceInterface defines the interface for purchase service
type PurchaseServiceInterface interface {
	CreatePurchase(ctx context.Context, purchase *models.Purchase) error
	GetPurchaseByID(ctx context.Context, tenantID, purchaseID uuid.UUID) (*models.Purchase, error)
	ListPurchases(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Purchase, error)
	ListPurchasesByProduct(ctx context.Context, tenantID, productID uuid.UUID) ([]*models.Purchase, error)
}

type purchaseService struct {
	purchaseRepo repositories.PurchaseRepository
	productRepo  repositories.ProductRepository
	cache        caching.CacheService
}

// NewPurchaseService creates a new purchase service
func NewPurchaseService(purchaseRepo repositories.PurchaseRepository, productRepo repositories.ProductRepository, cache caching.CacheService) PurchaseServiceInterface {
	return &purchaseService{purchaseRepo: purchaseRepo, productRepo: productRepo, cache: cache}
}

// CreatePurchase records the purchase; the repository increments stock in the
// same transaction.
func (s *purchaseService) CreatePurchase(ctx context.Context, purchase *models.Purchase) error {
	if err := common.ValidateRequiredString(purchase.SupplierName, "supplier_name"); err != nil {
		return err
	}
	if gstin := common.SafeString(purchase.SupplierGSTIN); gstin != "" {
		if err := common.ValidateGSTIN(gstin, "supplier_gstin"); err != nil {
			return err
		}
	}
	if err := common.ValidatePositiveInteger(purchase.Quantity, "quantity", 1000000); err != nil {
		return err
	}
	if err := common.ValidatePositiveAmount(purchase.UnitCost, "unit_cost"); err != nil {
		return err
	}
	if _, err := s.productRepo.GetByID(ctx, purchase.TenantID, purchase.ProductID); err != nil {
		return err
	}

	if purchase.ID == uuid.Nil {
		purchase.ID = uuid.New()
	}
	if purchase.PurchaseDate.IsZero() {
		purchase.PurchaseDate = time.Now()
	}
	if err := s.purchaseRepo.Create(ctx, purchase); err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.DeleteCatalog(ctx, purchase.TenantID); err != nil {
			log.Printf("WARN: catalog cache invalidation failed for tenant %s: %v", purchase.TenantID, err)
		}
	}
	return nil
}

func (s *purchaseService) GetPurchaseByID(ctx context.Context, tenantID, purchaseID uuid.UUID) (*models.Purchase, error) {
	return s.purchaseRepo.GetByID(ctx, tenantID, purchaseID)
}

func (s *purchaseService) ListPurchases(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Purchase, error) {
	return s.purchaseRepo.List(ctx, tenantID, limit, offset)
}

func (s *purchaseService) ListPurchasesByProduct(ctx context.Context, tenantID, productID uuid.UUID) ([]*models.Purchase, error) {
	return s.purchaseRepo.ListByProduct(ctx, tenantID, productID)
}
