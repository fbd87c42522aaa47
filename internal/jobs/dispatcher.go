// Package jobs coordinates the asynchronous job lifecycle: durable creation,
// hand-off to the external task executor, and status updates reported back
// by the executor callback.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/scoutiq/landscape-api/internal/domain"
	"github.com/scoutiq/landscape-api/internal/store"
)

// Enqueuer schedules a created job for execution via the external task
// queue. EnqueueJob returns an executor-side task name for logging.
type Enqueuer interface {
	EnqueueJob(ctx context.Context, job *domain.Job) (string, error)
}

// Dispatcher submits jobs: it persists them and hands them to the enqueuer.
// With a nil enqueuer (local development without a task queue) jobs persist
// as pending and wait for a manual callback.
type Dispatcher struct {
	jobs     store.JobStore
	enqueuer Enqueuer
	logger   *slog.Logger
}

// NewDispatcher creates a Dispatcher. The enqueuer may be nil.
func NewDispatcher(jobs store.JobStore, enqueuer Enqueuer, log *slog.Logger) (*Dispatcher, error) {
	if jobs == nil {
		return nil, errors.New("job store cannot be nil")
	}
	if log == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &Dispatcher{
		jobs:     jobs,
		enqueuer: enqueuer,
		logger:   log.With(slog.String("component", "job_dispatcher")),
	}, nil
}

// Submit creates a pending job for the payload and schedules it. If
// scheduling fails the job is marked failed before the error is returned,
// so no job silently sticks in pending with a broken queue.
func (d *Dispatcher) Submit(ctx context.Context, jobType string, payload any) (*domain.Job, error) {
	job, err := domain.NewJob(jobType, payload)
	if err != nil {
		return nil, err
	}

	if err := d.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	if d.enqueuer == nil {
		d.logger.Info("no enqueuer configured, job stays pending",
			slog.String("job_id", job.ID.String()))
		return job, nil
	}

	taskName, err := d.enqueuer.EnqueueJob(ctx, job)
	if err != nil {
		d.logger.Error("failed to enqueue job, marking failed",
			slog.String("job_id", job.ID.String()),
			slog.String("error", err.Error()))
		if updateErr := d.jobs.UpdateStatus(ctx, job.ID, domain.JobStatusFailed, store.JobUpdate{
			Error: fmt.Sprintf("failed to enqueue: %v", err),
		}); updateErr != nil {
			d.logger.Error("failed to mark job failed after enqueue error",
				slog.String("job_id", job.ID.String()),
				slog.String("error", updateErr.Error()))
		}
		return nil, fmt.Errorf("failed to enqueue job %s: %w", job.ID, err)
	}

	d.logger.Info("job enqueued",
		slog.String("job_id", job.ID.String()),
		slog.String("task_name", taskName))
	return job, nil
}

// GetStatus retrieves a job by ID.
func (d *Dispatcher) GetStatus(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	return d.jobs.GetByID(ctx, id)
}

// UpdateStatus records a status change reported by the job executor.
func (d *Dispatcher) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.JobStatus, update store.JobUpdate) error {
	return d.jobs.UpdateStatus(ctx, id, status, update)
}
