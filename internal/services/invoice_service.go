package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"billmint/internal/billing"
	"billmint/internal/caching"
	"billmint/internal/common"
	"billmint/internal/config"
	"billmint/internal/models"
	"billmint/internal/repositories"
)

// InvoiceLineRequest selects one catalog product onto the draft.
type InvoiceLineRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// CreateInvoiceRequest is the draft the client submits for pricing or saving.
type CreateInvoiceRequest struct {
	OrganizationID        uuid.UUID            `json:"organization_id"`
	CustomerID            uuid.UUID            `json:"customer_id"`
	Lines                 []InvoiceLineRequest `json:"lines"`
	DiscountPercent       decimal.Decimal      `json:"discount_percent"`
	Advance               decimal.Decimal      `json:"advance"`
	Received              decimal.Decimal      `json:"received"`
	IssueDate             time.Time            `json:"issue_date"`
	DueDate               time.Time            `json:"due_date"`
	ShippingSameAsBilling bool                 `json:"shipping_same_as_billing"`
	ShippingAddress       *models.Address      `json:"shipping_address"`
}

// InvoicePreview is the priced draft returned without persisting anything.
type InvoicePreview struct {
	GSTType       string             `json:"gst_type"`
	Totals        billing.Totals     `json:"totals"`
	Settlement    billing.Settlement `json:"settlement"`
	AmountInWords string             `json:"amount_in_words"`
}

// TaskEnqueuer hands work to the background queue. Kept as an interface so
// invoice creation does not depend on a running queue in tests.
type TaskEnqueuer interface {
	EnqueueInvoicePDF(ctx context.Context, tenantID, invoiceID uuid.UUID) error
}

// InvoiceServiceInterface defines the interface for invoice service
type InvoiceServiceInterface interface {
	CreateInvoice(ctx context.Context, tenantID uuid.UUID, req *CreateInvoiceRequest) (*models.Invoice, error)
	PreviewInvoice(ctx context.Context, tenantID uuid.UUID, req *CreateInvoiceRequest) (*InvoicePreview, error)
	GetInvoiceByID(ctx context.Context, tenantID, invoiceID uuid.UUID) (*models.Invoice, error)
	GetInvoiceView(ctx context.Context, tenantID, invoiceID uuid.UUID) (*billing.InvoiceView, error)
	ListInvoices(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Invoice, error)
	GetUnpaidInvoices(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Invoice, error)
	UpdateInvoiceStatus(ctx context.Context, tenantID, invoiceID uuid.UUID, status string) error
	DeleteInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) error
	GetGSTReport(ctx context.Context, tenantID uuid.UUID, startDate, endDate time.Time) ([]models.GSTReportRow, error)
	MarkOverdueInvoices(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

type invoiceService struct {
	invoiceRepo  repositories.InvoiceRepository
	orgRepo      repositories.OrganizationRepository
	customerRepo repositories.CustomerRepository
	productRepo  repositories.ProductRepository
	cache        caching.CacheService
	enqueuer     TaskEnqueuer
	cfg          *config.BillingConfig
}

// NewInvoiceService creates a new invoice service. enqueuer may be nil when
// no background queue is configured.
func NewInvoiceService(invoiceRepo repositories.InvoiceRepository, orgRepo repositories.OrganizationRepository, customerRepo repositories.CustomerRepository, productRepo repositories.ProductRepository, cache caching.CacheService, enqueuer TaskEnqueuer, cfg *config.BillingConfig) InvoiceServiceInterface {
	return &invoiceService{
		invoiceRepo:  invoiceRepo,
		orgRepo:      orgRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		cache:        cache,
		enqueuer:     enqueuer,
		cfg:          cfg,
	}
}

const catalogTTL = 5 * time.Minute

// catalog loads the tenant's sellable product snapshot, cache first.
func (s *invoiceService) catalog(ctx context.Context, tenantID uuid.UUID) ([]billing.CatalogProduct, error) {
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
		return nil, fmt.Errorf("load product catalog: %w", err)
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
		if err := s.cache.SetCatalog(ctx, tenantID, catalog, catalogTTL); err != nil {
			log.Printf("WARN: catalog cache write failed for tenant %s: %v", tenantID, err)
		}
	}
	return catalog, nil
}

// buildDraft validates the request against live stock and resolves the GST
// scheme from the seller and buyer registrations.
func (s *invoiceService) buildDraft(ctx context.Context, tenantID uuid.UUID, req *CreateInvoiceRequest) (*billing.InvoiceDraft, *models.Organization, *models.Customer, error) {
	org, err := s.orgRepo.GetByID(ctx, tenantID, req.OrganizationID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load organization: %w", err)
	}
	customer, err := s.customerRepo.GetByID(ctx, tenantID, req.CustomerID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load customer: %w", err)
	}

	catalog, err := s.catalog(ctx, tenantID)
	if err != nil {
		return nil, nil, nil, err
	}

	ledger := billing.NewStockLedger(catalog)
	for _, lr := range req.Lines {
		line, err := ledger.SelectProduct(lr.ProductID)
		if err != nil {
			return nil, nil, nil, err
		}
		line.Quantity = lr.Quantity
		if err := ledger.AddLine(line); err != nil {
			return nil, nil, nil, err
		}
	}

	sellerGSTIN := common.SafeString(org.GSTIN)
	buyerGSTIN := common.SafeString(customer.GSTIN)
	gstType := billing.ResolveGSTType(sellerGSTIN, common.SafeString(org.StateCode), buyerGSTIN, common.SafeString(customer.StateCode))

	issueDate := req.IssueDate
	if issueDate.IsZero() {
		issueDate = time.Now()
	}
	dueDate := req.DueDate
	if dueDate.IsZero() {
		dueDate = issueDate.AddDate(0, 0, s.cfg.Invoice.DefaultDueDays)
	}

	draft := &billing.InvoiceDraft{
		TenantID:              tenantID,
		OrganizationID:        org.ID,
		CustomerID:            customer.ID,
		SellerGSTIN:           sellerGSTIN,
		BuyerGSTIN:            buyerGSTIN,
		GSTType:               gstType,
		Lines:                 ledger.Lines(),
		DiscountPercent:       req.DiscountPercent,
		Advance:               req.Advance,
		Received:              req.Received,
		IssueDate:             issueDate,
		DueDate:               dueDate,
		Status:                models.InvoiceStatusPending,
		ShippingSameAsBilling: req.ShippingSameAsBilling,
		BillingAddress:        customer.BillingAddress,
		ShippingAddress:       req.ShippingAddress,
	}
	return draft, org, customer, nil
}

func (s *invoiceService) price(draft *billing.InvoiceDraft) (billing.Totals, billing.Settlement, error) {
	if err := billing.ValidateAmounts(draft.Advance, draft.Received); err != nil {
		return billing.Totals{}, billing.Settlement{}, err
	}
	totals, err := billing.ComputeTotals(draft.Lines, draft.DiscountPercent, draft.GSTType)
	if err != nil {
		return billing.Totals{}, billing.Settlement{}, err
	}
	settlement := billing.Reconcile(totals.GrandTotal, draft.Advance, draft.Received)
	return totals, settlement, nil
}

// PreviewInvoice prices the draft without saving. Used on every edit so the
// client never computes money itself.
func (s *invoiceService) PreviewInvoice(ctx context.Context, tenantID uuid.UUID, req *CreateInvoiceRequest) (*InvoicePreview, error) {
	draft, _, _, err := s.buildDraft(ctx, tenantID, req)
	if err != nil {
		return nil, err
	}
	totals, settlement, err := s.price(draft)
	if err != nil {
		return nil, err
	}
	rounded := totals.Rounded()
	return &InvoicePreview{
		GSTType:       draft.GSTType.Label(),
		Totals:        rounded,
		Settlement:    billing.Settlement{DueAmount: settlement.DueAmount.Round(2), ReturnAmount: settlement.ReturnAmount.Round(2)},
		AmountInWords: billing.AmountInWords(rounded.GrandTotal),
	}, nil
}

// CreateInvoice prices and persists the draft. Stock is decremented inside
// the repository transaction, so a concurrent sale of the same product fails
// the save rather than overselling.
func (s *invoiceService) CreateInvoice(ctx context.Context, tenantID uuid.UUID, req *CreateInvoiceRequest) (*models.Invoice, error) {
	draft, _, _, err := s.buildDraft(ctx, tenantID, req)
	if err != nil {
		return nil, err
	}
	totals, settlement, err := s.price(draft)
	if err != nil {
		return nil, err
	}

	invoice, err := billing.Assemble(draft, totals, settlement)
	if err != nil {
		return nil, err
	}

	number, err := s.invoiceRepo.GenerateInvoiceNumber(ctx, tenantID, s.cfg.Invoice.NumberPrefix, invoice.IssueDate)
	if err != nil {
		return nil, fmt.Errorf("generate invoice number: %w", err)
	}
	invoice.InvoiceNumber = number

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateTenantCache(ctx, tenantID); err != nil {
			log.Printf("WARN: cache invalidation failed for tenant %s: %v", tenantID, err)
		}
	}

	if s.enqueuer != nil {
		if err := s.enqueuer.EnqueueInvoicePDF(ctx, tenantID, invoice.ID); err != nil {
			log.Printf("WARN: failed to enqueue PDF render for invoice %s: %v", invoice.ID, err)
		}
	}

	return invoice, nil
}

func (s *invoiceService) GetInvoiceByID(ctx context.Context, tenantID, invoiceID uuid.UUID) (*models.Invoice, error) {
	return s.invoiceRepo.GetByID(ctx, tenantID, invoiceID)
}

// GetInvoiceView builds the printable presentation of a saved invoice.
func (s *invoiceService) GetInvoiceView(ctx context.Context, tenantID, invoiceID uuid.UUID) (*billing.InvoiceView, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	org, err := s.orgRepo.GetByID(ctx, tenantID, invoice.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("load organization: %w", err)
	}
	customer, err := s.customerRepo.GetByID(ctx, tenantID, invoice.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("load customer: %w", err)
	}
	return billing.ToPresentationModel(invoice, org, customer), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Invoice, error) {
	return s.invoiceRepo.List(ctx, tenantID, limit, offset)
}

// GetUnpaidInvoices returns pending and overdue invoices as one page,
// pending first.
func (s *invoiceService) GetUnpaidInvoices(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Invoice, error) {
	return s.invoiceRepo.ListUnpaid(ctx, tenantID, limit, offset)
}

// isValidStatusTransition enforces the invoice lifecycle: pending may become
// paid or overdue, overdue may still be paid, paid is terminal.
func isValidStatusTransition(current, next string) bool {
	switch current {
	case models.InvoiceStatusPending:
		return next == models.InvoiceStatusPaid || next == models.InvoiceStatusOverdue
	case models.InvoiceStatusOverdue:
		return next == models.InvoiceStatusPaid
	default:
		return false
	}
}

func (s *invoiceService) UpdateInvoiceStatus(ctx context.Context, tenantID, invoiceID uuid.UUID, status string) error {
	if err := common.ValidateInvoiceStatus(status); err != nil {
		return err
	}

	invoice, err := s.invoiceRepo.GetByID(ctx, tenantID, invoiceID)
	if err != nil {
		return err
	}
	if !isValidStatusTransition(invoice.Status, status) {
		return fmt.Errorf("%w: cannot change status from %s to %s", billing.ErrValidation, invoice.Status, status)
	}

	var paidDate *time.Time
	if status == models.InvoiceStatusPaid {
		now := time.Now()
		paidDate = &now
	}
	if err := s.invoiceRepo.UpdateStatus(ctx, tenantID, invoiceID, status, paidDate); err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.DeleteDashboard(ctx, tenantID); err != nil {
			log.Printf("WARN: dashboard cache invalidation failed for tenant %s: %v", tenantID, err)
		}
	}
	return nil
}

// DeleteInvoice removes the invoice; the repository returns its reserved
// stock in the same transaction, so the catalog cache goes stale too.
func (s *invoiceService) DeleteInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) error {
	if err := s.invoiceRepo.Delete(ctx, tenantID, invoiceID); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.InvalidateTenantCache(ctx, tenantID); err != nil {
			log.Printf("WARN: cache invalidation failed for tenant %s: %v", tenantID, err)
		}
	}
	return nil
}

func (s *invoiceService) GetGSTReport(ctx context.Context, tenantID uuid.UUID, startDate, endDate time.Time) ([]models.GSTReportRow, error) {
	if endDate.Before(startDate) {
		return nil, fmt.Errorf("%w: end date before start date", billing.ErrValidation)
	}
	return s.invoiceRepo.GetGSTReportData(ctx, tenantID, startDate, endDate)
}

func (s *invoiceService) MarkOverdueInvoices(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	marked, err := s.invoiceRepo.MarkOverdue(ctx, tenantID, time.Now())
	if err != nil {
		return 0, err
	}
	if marked > 0 && s.cache != nil {
		if err := s.cache.DeleteDashboard(ctx, tenantID); err != nil {
			log.Printf("WARN: dashboard cache invalidation failed for tenant %s: %v", tenantID, err)
		}
	}
	return marked, nil
}
