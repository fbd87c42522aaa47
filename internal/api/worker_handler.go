package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/scoutiq/landscape-api/internal/api/shared"
	"github.com/scoutiq/landscape-api/internal/domain"
	"github.com/scoutiq/landscape-api/internal/store"
)

// JobExecutorBackend is what the worker callback needs from the job layer:
// status lookups and status writes.
type JobExecutorBackend interface {
	GetStatus(ctx context.Context, id uuid.UUID) (*domain.Job, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.JobStatus, update store.JobUpdate) error
}

// jobResult is the result document stored on a completed analysis job.
type jobResult struct {
	ID        string                `json:"id"`
	Timestamp time.Time             `json:"timestamp"`
	Results   domain.AnalysisResult `json:"results"`
}

// WorkerHandler executes jobs delivered by the task queue callback.
//
// The callback always answers HTTP 200: the queue's retry machinery must not
// re-run a job whose failure is already recorded on the job row. Success or
// failure travels in the body instead.
type WorkerHandler struct {
	jobs     JobExecutorBackend
	analyzer Analyzer
	logger   *slog.Logger
}

// NewWorkerHandler creates a WorkerHandler.
func NewWorkerHandler(jobs JobExecutorBackend, analyzer Analyzer, log *slog.Logger) *WorkerHandler {
	return &WorkerHandler{
		jobs:     jobs,
		analyzer: analyzer,
		logger:   log.With(slog.String("component", "worker_handler")),
	}
}

// ProcessJob handles POST /process-job.
func (h *WorkerHandler) ProcessJob(w http.ResponseWriter, r *http.Request) {
	var req WorkerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithJSON(w, r, http.StatusOK, WorkerResponse{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	jobID, err := uuid.Parse(req.JobID)
	if err != nil {
		shared.RespondWithJSON(w, r, http.StatusOK, WorkerResponse{
			Success: false,
			Error:   "Invalid job ID",
		})
		return
	}

	log := h.logger.With(slog.String("job_id", jobID.String()))

	if err := h.runJob(r.Context(), jobID, req); err != nil {
		log.Error("job execution failed", slog.String("error", err.Error()))
		shared.RespondWithJSON(w, r, http.StatusOK, WorkerResponse{
			Success: false,
			JobID:   jobID.String(),
			Error:   err.Error(),
		})
		return
	}

	log.Info("job executed")
	shared.RespondWithJSON(w, r, http.StatusOK, WorkerResponse{
		Success: true,
		JobID:   jobID.String(),
	})
}

// runJob executes one job and records its terminal state. Every failure
// after the job exists is persisted as a failed status before returning.
func (h *WorkerHandler) runJob(ctx context.Context, jobID uuid.UUID, req WorkerRequest) error {
	job, err := h.jobs.GetStatus(ctx, jobID)
	if err != nil {
		return fmt.Errorf("job lookup failed: %w", err)
	}
	if job.Terminal() {
		// Queue redelivery of an already-finished job is a no-op.
		return nil
	}

	if err := h.jobs.UpdateStatus(ctx, jobID, domain.JobStatusRunning, store.JobUpdate{}); err != nil {
		return fmt.Errorf("failed to mark job running: %w", err)
	}

	switch job.Type {
	case domain.JobTypeCompetitiveAnalysis:
		err = h.runAnalysis(ctx, jobID, req, job)
	default:
		err = fmt.Errorf("unknown job type: %s", job.Type)
	}

	if err != nil {
		if updateErr := h.jobs.UpdateStatus(ctx, jobID, domain.JobStatusFailed, store.JobUpdate{
			Error: err.Error(),
		}); updateErr != nil {
			h.logger.Error("failed to record job failure",
				slog.String("job_id", jobID.String()),
				slog.String("error", updateErr.Error()))
		}
		return err
	}
	return nil
}

// runAnalysis executes a competitive analysis job. The callback body's data
// takes precedence; an empty body falls back to the payload stored with the
// job.
func (h *WorkerHandler) runAnalysis(ctx context.Context, jobID uuid.UUID, req WorkerRequest, job *domain.Job) error {
	payload := req.Data
	if len(payload) == 0 {
		payload = job.Payload
	}

	var analysisReq domain.AnalysisRequest
	if err := json.Unmarshal(payload, &analysisReq); err != nil {
		return fmt.Errorf("invalid analysis payload: %w", err)
	}

	analysis, err := h.analyzer.Analyze(ctx, analysisReq)
	if err != nil {
		return err
	}

	result, err := json.Marshal(jobResult{
		ID:        analysis.ID.String(),
		Timestamp: analysis.CreatedAt,
		Results:   analysis.Results,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal job result: %w", err)
	}

	if err := h.jobs.UpdateStatus(ctx, jobID, domain.JobStatusCompleted, store.JobUpdate{
		Result: result,
	}); err != nil {
		return fmt.Errorf("failed to mark job completed: %w", err)
	}
	return nil
}
