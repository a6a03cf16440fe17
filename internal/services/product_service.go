package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"billmint/internal/billing"
	"billmint/internal/caching"
	"billmint/internal/common"
	"billmint/internal/models"
	"billmint/internal/repositories"
)

// ProductServiceInterface defines the interface for product service
type ProductServiceInterface interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProductByID(ctx context.Context, tenantID, productID uuid.UUID) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, tenantID, productID uuid.UUID) error
	ListProducts(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Product, error)
	GetProductBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*models.Product, error)
	// Catalog is the sellable snapshot that seeds a draft invoice's stock
	// ledger. Served from cache when warm.
	Catalog(ctx context.Context, tenantID uuid.UUID) ([]billing.CatalogProduct, error)
	AdjustStock(ctx context.Context, tenantID, productID uuid.UUID, change int) error
}

type productService struct {
	productRepo repositories.ProductRepository
	cache       caching.CacheService
}

// NewProductService creates a new product service
func NewProductService(productRepo repositories.ProductRepository, cache caching.CacheService) ProductServiceInterface {
	return &productService{productRepo: productRepo, cache: cache}
}

func validateProduct(product *models.Product) error {
	if err := common.ValidateRequiredString(product.Name, "name"); err != nil {
		return err
	}
	if err := common.ValidateRequiredString(product.SKU, "sku"); err != nil {
		return err
	}
	if err := common.ValidateHSNSAC(product.HSNSAC, "hsn_sac"); err != nil {
		return err
	}
	if err := common.ValidateTaxRate(product.TaxRate, "tax_rate"); err != nil {
		return err
	}
	if err := common.ValidatePositiveAmount(product.UnitPrice, "unit_price"); err != nil {
		return err
	}
	if product.CurrentStock < 0 {
		return fmt.Errorf("current_stock must not be negative")
	}
	return nil
}

func (s *productService) invalidateCatalog(ctx context.Context, tenantID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteCatalog(ctx, tenantID); err != nil {
		log.Printf("WARN: catalog cache invalidation failed for tenant %s: %v", tenantID, err)
	}
}

func (s *productService) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return err
	}
	s.invalidateCatalog(ctx, product.TenantID)
	return nil
}

func (s *productService) GetProductByID(ctx context.Context, tenantID, productID uuid.UUID) (*models.Product, error) {
	return s.productRepo.GetByID(ctx, tenantID, productID)
}

func (s *productService) UpdateProduct(ctx context.Context, product *models.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}
	if err := s.productRepo.Update(ctx, product); err != nil {
		return err
	}
	s.invalidateCatalog(ctx, product.TenantID)
	return nil
}

func (s *productService) DeleteProduct(ctx context.Context, tenantID, productID uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, tenantID, productID); err != nil {
		return err
	}
	s.invalidateCatalog(ctx, tenantID)
	return nil
}

func (s *productService) ListProducts(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Product, error) {
	return s.productRepo.List(ctx, tenantID, limit, offset)
}

func (s *productService) GetProductBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*models.Product, error) {
	return s.productRepo.GetBySKU(ctx, tenantID, sku)
}

func (s *productService) Catalog(ctx context.Context, tenantID uuid.UUID) ([]billing.CatalogProduct, error) {
	if s.cache != nil {
		cached, err := s.cache.GetCatalog(ctx, tenantID)
		if err != nil {
			log.Printf("WARN: catalog cache read failed for tenant %s: %v", tenantID, err)
		} else if cached != nil {
			return cached, nil
		}
	}

	products, err := s.productRepo.ListAll(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	catalog := make([]billing.CatalogProduct, 0, len(products))
	for _, p := range products {
		catalog = append(catalog, billing.CatalogProduct{
			ID:           p.ID,
			Name:         p.Name,
			SKU:          p.SKU,
			HSNSAC:       p.HSNSAC,
			UnitPrice:    p.UnitPrice,
			TaxRate:      p.TaxRate,
			CurrentStock: p.CurrentStock,
		})
	}

	if s.cache != nil {
		if err := s.cache.SetCatalog(ctx, tenantID, catalog, 5*time.Minute); err != nil {
			log.Printf("WARN: catalog cache write failed for tenant %s: %v", tenantID, err)
		}
	}
	return catalog, nil
}

func (s *productService) AdjustStock(ctx context.Context, tenantID, productID uuid.UUID, change int) error {
	if err := s.productRepo.AdjustStock(ctx, tenantID, productID, change); err != nil {
		return err
	}
	s.invalidateCatalog(ctx, tenantID)
	return nil
}
