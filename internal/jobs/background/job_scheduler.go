package background

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"gakkaihub/internal/models"
	"gakkaihub/internal/repositories"
	"gakkaihub/internal/services"
)

// JobScheduler runs the recurring maintenance work, currently the overdue
// invoice sweep across every active society.
type JobScheduler struct {
	scheduler   gocron.Scheduler
	invoiceSvc  services.InvoiceService
	societyRepo repositories.SocietyRepository
	jobs        map[string]gocron.Job
	mu          sync.RWMutex
}

func NewJobScheduler(invoiceSvc services.InvoiceService, societyRepo repositories.SocietyRepository, sweepInterval time.Duration) *JobScheduler {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler:   scheduler,
		invoiceSvc:  invoiceSvc,
		societyRepo: societyRepo,
		jobs:        make(map[string]gocron.Job),
	}
	js.registerJobs(sweepInterval)
	return js
}

func (js *JobScheduler) Start() error {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
	return nil
}

func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs(sweepInterval time.Duration) {
	if sweepInterval <= 0 {
		sweepInterval = time.Hour
	}
	sweepJob, err := js.scheduler.NewJob(
		gocron.DurationJob(sweepInterval),
		gocron.NewTask(js.sweepOverdueInvoices, context.Background()),
		gocron.WithName("overdue-invoice-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create overdue sweep job: %v", err)
	} else {
		js.jobs["overdue-invoice-sweep"] = sweepJob
	}

	log.Printf("Registered %d background jobs", len(js.jobs))
}

// sweepOverdueInvoices flips overdue invoices for every active society.
// One society failing never stops the rest of the sweep.
func (js *JobScheduler) sweepOverdueInvoices(ctx context.Context) error {
	log.Printf("Starting overdue invoice sweep")

	societies, err := js.societyRepo.ListActive(ctx)
	if err != nil {
		log.Printf("Failed to list societies for overdue sweep: %v", err)
		return err
	}

	now := time.Now()
	total := 0
	for _, society := range societies {
		if society.Status != models.SocietyStatusActive {
			continue
		}
		marked, err := js.invoiceSvc.SweepOverdue(ctx, society.ID, now)
		if err != nil {
			log.Printf("Overdue sweep failed for society %s: %v", society.ID.String(), err)
			continue
		}
		if marked > 0 {
			log.Printf("Marked %d invoices overdue for society %s", marked, society.ID.String())
		}
		total += marked
	}

	log.Printf("Completed overdue invoice sweep: %d invoices across %d societies", total, len(societies))
	return nil
}

// GetJobStatus reports the registered jobs for the health endpoint.
func (js *JobScheduler) GetJobStatus() map[string]interface{} {
	js.mu.RLock()
	defer js.mu.RUnlock()

	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}
	return map[string]interface{}{
		"total_jobs": len(js.jobs),
		"jobs":       names,
	}
}
