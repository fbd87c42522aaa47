package api

import (
	"encoding/json"
	"time"

	"github.com/scoutiq/landscape-api/internal/domain"
)

// AnalyzeAcceptedResponse is returned when an analysis job is accepted.
type AnalyzeAcceptedResponse struct {
	Message   string `json:"message"`
	JobID     string `json:"jobId"`
	Status    string `json:"status"`
	StatusURL string `json:"statusUrl"`
}

// JobResponse is the public shape of a job status lookup. AnalysisURL is set
// only on completed analysis jobs.
type JobResponse struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Status      string          `json:"status"`
	Result      json.RawMessage `json:"result,omitempty"`
	Error       string          `json:"error,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	StartedAt   *time.Time      `json:"startedAt,omitempty"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
	AnalysisURL string          `json:"analysisUrl,omitempty"`
}

// Pagination reports the window a list response covers.
type Pagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"hasMore"`
}

// AnalysisListResponse is a page of analysis summaries.
type AnalysisListResponse struct {
	Analyses   []*domain.AnalysisSummary `json:"analyses"`
	Pagination Pagination                `json:"pagination"`
}

// CompetitorListResponse is a page of one analysis's competitors.
type CompetitorListResponse struct {
	Competitors []*domain.Competitor `json:"competitors"`
	Pagination  Pagination           `json:"pagination"`
}

// WorkerRequest is the body the task executor POSTs to the job callback.
type WorkerRequest struct {
	JobID string          `json:"jobId"`
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data"`
}

// WorkerResponse is always returned with HTTP 200 from the job callback so
// the task queue does not retry: job failure is recorded on the job row, not
// signaled through the transport.
type WorkerResponse struct {
	Success bool   `json:"success"`
	JobID   string `json:"jobId,omitempty"`
	Error   string `json:"error,omitempty"`
}

// newPagination computes the page descriptor for a list result.
func newPagination(total, limit, offset int) Pagination {
	return Pagination{
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: offset+limit < total,
	}
}
