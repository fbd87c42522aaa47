package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/scoutiq/landscape-api/internal/api/shared"
	"github.com/scoutiq/landscape-api/internal/domain"
	"github.com/scoutiq/landscape-api/internal/store"
)

// Pagination bounds for list endpoints.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// JobSubmitter creates and schedules asynchronous jobs.
type JobSubmitter interface {
	Submit(ctx context.Context, jobType string, payload any) (*domain.Job, error)
}

// Analyzer runs a full analysis synchronously.
type Analyzer interface {
	Analyze(ctx context.Context, req domain.AnalysisRequest) (*domain.Analysis, error)
}

// AnalysisHandler serves analysis submission and retrieval.
type AnalysisHandler struct {
	submitter  JobSubmitter
	analyzer   Analyzer
	analyses   store.AnalysisStore
	production bool
}

// NewAnalysisHandler creates an AnalysisHandler.
func NewAnalysisHandler(submitter JobSubmitter, analyzer Analyzer, analyses store.AnalysisStore, production bool) *AnalysisHandler {
	return &AnalysisHandler{
		submitter:  submitter,
		analyzer:   analyzer,
		analyses:   analyses,
		production: production,
	}
}

// Analyze handles POST /api/competitive-landscape/analyze: it validates the request, creates an
// analysis job, and responds 202 with the job's status URL.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req domain.AnalysisRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, GetSafeErrorMessage(err))
		return
	}

	job, err := h.submitter.Submit(r.Context(), domain.JobTypeCompetitiveAnalysis, req)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), "Failed to start analysis", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, AnalyzeAcceptedResponse{
		Message:   "Competitive analysis queued for processing",
		JobID:     job.ID.String(),
		Status:    string(job.Status),
		StatusURL: fmt.Sprintf("/api/jobs/%s", job.ID),
	})
}

// AnalyzeSync handles POST /api/competitive-landscape/analyze-sync: it runs the full pipeline
// inline and returns the finished analysis. Disabled in production, where
// pipeline runtimes exceed sane request deadlines.
func (h *AnalysisHandler) AnalyzeSync(w http.ResponseWriter, r *http.Request) {
	if h.production {
		shared.RespondWithError(w, r, http.StatusForbidden, "Synchronous analysis is not available in production")
		return
	}

	var req domain.AnalysisRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, GetSafeErrorMessage(err))
		return
	}

	analysis, err := h.analyzer.Analyze(r.Context(), req)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, analysis)
}

// List handles GET /api/competitive-landscape with limit/offset pagination.
func (h *AnalysisHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := parsePagination(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	summaries, total, err := h.analyses.List(r.Context(), limit, offset)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), "Failed to list analyses", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AnalysisListResponse{
		Analyses:   summaries,
		Pagination: newPagination(total, limit, offset),
	})
}

// GetByID handles GET /api/competitive-landscape/{analysisID}.
func (h *AnalysisHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "analysisID"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid analysis ID")
		return
	}

	analysis, err := h.analyses.GetByID(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, analysis)
}

// ListCompetitors handles GET /api/competitive-landscape/{analysisID}/competitors,
// ordered by relevancy descending.
func (h *AnalysisHandler) ListCompetitors(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "analysisID"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid analysis ID")
		return
	}

	limit, offset, err := parsePagination(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	competitors, total, err := h.analyses.ListCompetitors(r.Context(), id, limit, offset)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CompetitorListResponse{
		Competitors: competitors,
		Pagination:  newPagination(total, limit, offset),
	})
}

// parsePagination reads limit and offset query parameters. Absent parameters
// take the defaults; present but unparseable or out-of-range values
// (limit outside [1, MaxPageLimit], negative offset) are rejected.
func parsePagination(r *http.Request) (limit, offset int, err error) {
	limit = DefaultPageLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, convErr := strconv.Atoi(raw)
		if convErr != nil || v < 1 || v > MaxPageLimit {
			return 0, 0, fmt.Errorf("limit must be an integer between 1 and %d", MaxPageLimit)
		}
		limit = v
	}

	if raw := r.URL.Query().Get("offset"); raw != "" {
		v, convErr := strconv.Atoi(raw)
		if convErr != nil || v < 0 {
			return 0, 0, fmt.Errorf("offset must be a non-negative integer")
		}
		offset = v
	}
	return limit, offset, nil
}
