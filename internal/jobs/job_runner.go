package jobs

import (
	"context"
	"time"

	"locadora-erp-backend/internal/config"
	"locadora-erp-backend/internal/logger"
	"locadora-erp-backend/internal/service"
)

const jobTimeout = 10 * time.Minute

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	services *Services
	config   *config.Config
	now      func() time.Time
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Payment      service.PaymentService
	Availability service.AvailabilityService
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(services *Services, cfg *config.Config) *JobRunner {
	return &JobRunner{
		services: services,
		config:   cfg,
		now:      time.Now,
	}
}

// Config exposes the configuration the runner was built with.
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery and a deadline.
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := jr.now()
	logger.Info("Starting job", "job", jobName)
	jobFunc(ctx)
	logger.Info("Job completed", "job", jobName, "duration_ms", jr.now().Sub(start).Milliseconds())
}

// MarkOverduePayments moves Pending payments past their due date to Overdue.
func (jr *JobRunner) MarkOverduePayments() {
	jr.runWithRecovery("MarkOverduePayments", func(ctx context.Context) {
		n, err := jr.services.Payment.MarkOverduePayments(ctx, jr.now())
		if err != nil {
			logger.Error("Failed to mark overdue payments", "error", err)
			return
		}
		logger.Info("Marked overdue payments", "count", n)
	})
}

// AuditAllocations reports products whose active allocations exceed stock on
// some day.
func (jr *JobRunner) AuditAllocations() {
	jr.runWithRecovery("AuditAllocations", func(ctx context.Context) {
		audits, err := jr.services.Availability.AuditAllocations(ctx)
		if err != nil {
			logger.Error("Failed to audit allocations", "error", err)
			return
		}
		over := 0
		for _, a := range audits {
			if a.Overallocated() {
				over++
			}
		}
		logger.Info("Allocation audit finished", "products", len(audits), "overallocated", over)
	})
}

// RunAllNightlyJobs runs all nightly jobs (for manual execution)
func (jr *JobRunner) RunAllNightlyJobs() {
	jr.MarkOverduePayments()
	jr.AuditAllocations()
}
