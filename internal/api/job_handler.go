package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/scoutiq/landscape-api/internal/api/shared"
	"github.com/scoutiq/landscape-api/internal/domain"
)

// JobReader looks up job status.
type JobReader interface {
	GetStatus(ctx context.Context, id uuid.UUID) (*domain.Job, error)
}

// JobHandler serves job status lookups.
type JobHandler struct {
	jobs JobReader
}

// NewJobHandler creates a JobHandler.
func NewJobHandler(jobs JobReader) *JobHandler {
	return &JobHandler{jobs: jobs}
}

// GetByID handles GET /api/jobs/{jobID}. Completed analysis jobs carry a
// link to the persisted analysis alongside the inline result.
func (h *JobHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "jobID"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid job ID")
		return
	}

	job, err := h.jobs.GetStatus(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	resp := JobResponse{
		ID:          job.ID.String(),
		Type:        job.Type,
		Status:      string(job.Status),
		Result:      job.Result,
		Error:       job.Error,
		CreatedAt:   job.CreatedAt,
		StartedAt:   job.StartedAt,
		CompletedAt: job.CompletedAt,
	}
	if job.Status == domain.JobStatusCompleted && job.Type == domain.JobTypeCompetitiveAnalysis {
		if analysisID := analysisIDFromResult(job.Result); analysisID != "" {
			resp.AnalysisURL = fmt.Sprintf("/api/competitive-landscape/%s", analysisID)
		}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// analysisIDFromResult pulls the analysis ID out of a completed job result.
func analysisIDFromResult(result []byte) string {
	if len(result) == 0 {
		return ""
	}
	var doc struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(result, &doc); err != nil {
		return ""
	}
	return doc.ID
}
