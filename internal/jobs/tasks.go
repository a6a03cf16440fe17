package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"billmint/internal/config"
	"billmint/internal/services"
)

// Task type definitions
const (
	TypeInvoiceRenderPDF = "invoice:render_pdf"
)

// InvoicePDFPayload defines the payload for invoice PDF render tasks
type InvoicePDFPayload struct {
	TenantID  uuid.UUID `json:"tenant_id"`
	InvoiceID uuid.UUID `json:"invoice_id"`
}

// NewInvoicePDFTask creates a new invoice PDF render task
func NewInvoicePDFTask(tenantID, invoiceID uuid.UUID) (*asynq.Task, error) {
	payload := InvoicePDFPayload{TenantID: tenantID, InvoiceID: invoiceID}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeInvoiceRenderPDF, data, asynq.MaxRetry(3), asynq.Timeout(2*time.Minute)), nil
}

// Enqueuer submits tasks to the asynq queue.
type Enqueuer struct {
	client *asynq.Client
}

func NewEnqueuer(client *asynq.Client) *Enqueuer {
	return &Enqueuer{client: client}
}

// EnqueueInvoicePDF queues a PDF render for a freshly created invoice.
func (e *Enqueuer) EnqueueInvoicePDF(ctx context.Context, tenantID, invoiceID uuid.UUID) error {
	task, err := NewInvoicePDFTask(tenantID, invoiceID)
	if err != nil {
		return err
	}
	info, err := e.client.EnqueueContext(ctx, task)
	if err != nil {
		return err
	}
	log.Printf("Enqueued %s task %s for invoice %s", TypeInvoiceRenderPDF, info.ID, invoiceID)
	return nil
}

var _ services.TaskEnqueuer = (*Enqueuer)(nil)

// InvoicePDFProcessor renders and stores invoice PDFs off the request path.
type InvoicePDFProcessor struct {
	invoiceSvc services.InvoiceServiceInterface
	pdfSvc     services.PDFService
	docSvc     services.DocumentService
	cfg        *config.BillingConfig
}

func NewInvoicePDFProcessor(invoiceSvc services.InvoiceServiceInterface, pdfSvc services.PDFService, docSvc services.DocumentService, cfg *config.BillingConfig) *InvoicePDFProcessor {
	return &InvoicePDFProcessor{
		invoiceSvc: invoiceSvc,
		pdfSvc:     pdfSvc,
		docSvc:     docSvc,
		cfg:        cfg,
	}
}

// HandleInvoicePDFTask renders the invoice and uploads it to object storage.
func (p *InvoicePDFProcessor) HandleInvoicePDFTask(ctx context.Context, t *asynq.Task) error {
	var payload InvoicePDFPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal invoice PDF payload: %w", err)
	}

	log.Printf("Rendering PDF for invoice %s (tenant %s)", payload.InvoiceID, payload.TenantID)

	view, err := p.invoiceSvc.GetInvoiceView(ctx, payload.TenantID, payload.InvoiceID)
	if err != nil {
		return fmt.Errorf("load invoice view: %w", err)
	}

	pdf, err := p.pdfSvc.RenderInvoice(view)
	if err != nil {
		return err
	}

	if err := p.docSvc.UploadInvoicePDF(ctx, p.cfg.Documents.Bucket, payload.TenantID, payload.InvoiceID, pdf); err != nil {
		return fmt.Errorf("upload invoice PDF: %w", err)
	}

	log.Printf("Stored PDF for invoice %s (%d bytes)", payload.InvoiceID, len(pdf))
	return nil
}

// RegisterHandlers wires task handlers onto the asynq mux.
func RegisterHandlers(mux *asynq.ServeMux, pdfProcessor *InvoicePDFProcessor) {
	mux.HandleFunc(TypeInvoiceRenderPDF, pdfProcessor.HandleInvoicePDFTask)
}
