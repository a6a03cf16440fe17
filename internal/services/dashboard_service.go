package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"billmint/internal/caching"
	"billmint/internal/repositories"
)

// DashboardMetrics is the summary card data for the tenant's home screen.
type DashboardMetrics struct {
	TotalInvoices    int             `json:"total_invoices"`
	PendingInvoices  int             `json:"pending_invoices"`
	PaidInvoices     int             `json:"paid_invoices"`
	OverdueInvoices  int             `json:"overdue_invoices"`
	Revenue          decimal.Decimal `json:"revenue"`
	Receivables      decimal.Decimal `json:"receivables"`
	TaxCollected     decimal.Decimal `json:"tax_collected"`
	LowStockProducts int             `json:"low_stock_products"`
}

// DashboardServiceInterface defines the interface for dashboard service
type DashboardServiceInterface interface {
	GetMetrics(ctx context.Context, tenantID uuid.UUID) (*DashboardMetrics, error)
}

type dashboardService struct {
	invoiceRepo repositories.InvoiceRepository
	productRepo repositories.ProductRepository
	cache       caching.CacheService
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(invoiceRepo repositories.InvoiceRepository, productRepo repositories.ProductRepository, cache caching.CacheService) DashboardServiceInterface {
	return &dashboardService{invoiceRepo: invoiceRepo, productRepo: productRepo, cache: cache}
}

const (
	dashboardTTL      = 2 * time.Minute
	dashboardWindow   = 90 // days of invoice history the cards summarize
	lowStockThreshold = 5
)

// GetMetrics summarizes the last 90 days of invoices. Revenue counts paid
// invoices only; receivables is the outstanding due on pending and overdue
// ones.
func (s *dashboardService) GetMetrics(ctx context.Context, tenantID uuid.UUID) (*DashboardMetrics, error) {
	if s.cache != nil {
		cached, err := s.cache.GetDashboard(ctx, tenantID)
		if err != nil {
			log.Printf("WARN: dashboard cache read failed for tenant %s: %v", tenantID, err)
		} else if cached != nil {
			if metrics, ok := metricsFromCache(cached); ok {
				return metrics, nil
			}
		}
	}

	now := time.Now()
	invoices, err := s.invoiceRepo.GetByDateRange(ctx, tenantID, now.AddDate(0, 0, -dashboardWindow), now)
	if err != nil {
		return nil, err
	}

	metrics := &DashboardMetrics{
		Revenue:      decimal.Zero,
		Receivables:  decimal.Zero,
		TaxCollected: decimal.Zero,
	}
	for _, inv := range invoices {
		metrics.TotalInvoices++
		switch inv.Status {
		case "pending":
			metrics.PendingInvoices++
			metrics.Receivables = metrics.Receivables.Add(inv.DueAmount)
		case "paid":
			metrics.PaidInvoices++
			metrics.Revenue = metrics.Revenue.Add(inv.TotalAmount)
			metrics.TaxCollected = metrics.TaxCollected.Add(inv.TaxAmount)
		case "overdue":
			metrics.OverdueInvoices++
			metrics.Receivables = metrics.Receivables.Add(inv.DueAmount)
		}
	}

	products, err := s.productRepo.ListAll(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		if p.CurrentStock < lowStockThreshold {
			metrics.LowStockProducts++
		}
	}

	if s.cache != nil {
		if err := s.cache.SetDashboard(ctx, tenantID, metricsToCache(metrics), dashboardTTL); err != nil {
			log.Printf("WARN: dashboard cache write failed for tenant %s: %v", tenantID, err)
		}
	}
	return metrics, nil
}

func metricsToCache(m *DashboardMetrics) map[string]interface{} {
	return map[string]interface{}{
		"total_invoices":     m.TotalInvoices,
		"pending_invoices":   m.PendingInvoices,
		"paid_invoices":      m.PaidInvoices,
		"overdue_invoices":   m.OverdueInvoices,
		"revenue":            m.Revenue.String(),
		"receivables":        m.Receivables.String(),
		"tax_collected":      m.TaxCollected.String(),
		"low_stock_products": m.LowStockProducts,
	}
}

func metricsFromCache(cached map[string]interface{}) (*DashboardMetrics, bool) {
	metrics := &DashboardMetrics{}
	counts := map[string]*int{
		"total_invoices":     &metrics.TotalInvoices,
		"pending_invoices":   &metrics.PendingInvoices,
		"paid_invoices":      &metrics.PaidInvoices,
		"overdue_invoices":   &metrics.OverdueInvoices,
		"low_stock_products": &metrics.LowStockProducts,
	}
	for key, dst := range counts {
		v, ok := cached[key].(float64) // JSON numbers decode as float64
		if !ok {
			return nil, false
		}
		*dst = int(v)
	}
	amounts := map[string]*decimal.Decimal{
		"revenue":       &metrics.Revenue,
		"receivables":   &metrics.Receivables,
		"tax_collected": &metrics.TaxCollected,
	}
	for key, dst := range amounts {
		v, ok := cached[key].(string)
		if !ok {
			return nil, false
		}
		d, err := decimal.NewFromString(v)
		if err != nil {
			return nil, false
		}
		*dst = d
	}
	return metrics, true
}
