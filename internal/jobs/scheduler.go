package jobs

import (
	"context"
	"log"
	"sync"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"

	"billmint/internal/config"
	"billmint/internal/repositories"
	"billmint/internal/services"
)

// JobScheduler runs periodic maintenance across all active tenants.
type JobScheduler struct {
	scheduler  gocron.Scheduler
	invoiceSvc services.InvoiceServiceInterface
	tenantRepo repositories.TenantRepository
	cfg        *config.BillingConfig
	jobs       map[string]gocron.Job
	mu         sync.RWMutex
}

// NewJobScheduler creates a new job scheduler
func NewJobScheduler(invoiceSvc services.InvoiceServiceInterface, tenantRepo repositories.TenantRepository, cfg *config.BillingConfig) *JobScheduler {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler:  scheduler,
		invoiceSvc: invoiceSvc,
		tenantRepo: tenantRepo,
		cfg:        cfg,
		jobs:       make(map[string]gocron.Job),
	}
	js.registerJobs()
	return js
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() {
	overdueJob, err := js.scheduler.NewJob(
		gocron.CronJob(js.cfg.Jobs.OverdueSweepCron, false),
		gocron.NewTask(js.sweepOverdueInvoices, context.Background()),
		gocron.WithName("overdue-invoice-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create overdue sweep job: %v", err)
	} else {
		js.jobs["overdue-sweep"] = overdueJob
	}

	log.Printf("Registered %d background jobs", len(js.jobs))
}

// sweepOverdueInvoices marks past-due pending invoices overdue for every
// active tenant.
func (js *JobScheduler) sweepOverdueInvoices(ctx context.Context) error {
	log.Printf("Starting overdue invoice sweep")

	tenants, err := js.tenantRepo.ListActive(ctx)
	if err != nil {
		log.Printf("Failed to get tenants for overdue sweep: %v", err)
		return err
	}

	semaphore := make(chan struct{}, js.cfg.Jobs.Concurrency)
	var wg sync.WaitGroup
	for _, tenant := range tenants {
		wg.Add(1)
		go func(tenantID uuid.UUID) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			marked, err := js.invoiceSvc.MarkOverdueInvoices(ctx, tenantID)
			if err != nil {
				log.Printf("Failed to mark overdue invoices for tenant %s: %v", tenantID, err)
				return
			}
			if marked > 0 {
				log.Printf("Marked %d invoices overdue for tenant %s", marked, tenantID)
			}
		}(tenant.ID)
	}
	wg.Wait()

	log.Printf("Completed overdue invoice sweep for %d tenants", len(tenants))
	return nil
}
