package domain

import (
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// JobStatus represents the lifecycle state of an asynchronous job.
type JobStatus string

// Possible job status values. Pending is the initial state; completed and
// failed are terminal and no transition leaves them.
const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// Job type constants
const (
	// JobTypeCompetitiveAnalysis represents the job type for running a
	// competitive landscape analysis.
	JobTypeCompetitiveAnalysis = "competitive_analysis"
)

// Job is a durable record tracking one asynchronous unit of work.
// Payload is the original request and is immutable after creation.
// Result is set only when the job completes; Error only when it fails.
type Job struct {
	ID          uuid.UUID       `json:"id"`
	Type        string          `json:"type"`
	Status      JobStatus       `json:"status"`
	Payload     json.RawMessage `json:"data"`
	Result      json.RawMessage `json:"result,omitempty"`
	Error       string          `json:"error,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	StartedAt   *time.Time      `json:"startedAt,omitempty"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
}

// NewJob creates a new pending Job with a random UUID and the given type
// and payload. The payload is serialized to JSON at creation time.
// Returns an error if validation fails.
func NewJob(jobType string, payload any) (*Job, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal job payload: %w", err)
	}

	job := &Job{
		ID:        uuid.New(),
		Type:      jobType,
		Status:    JobStatusPending,
		Payload:   data,
		CreatedAt: time.Now().UTC(),
	}

	if err := job.Validate(); err != nil {
		return nil, err
	}

	return job, nil
}

// Validate checks if the Job has valid data.
func (j *Job) Validate() error {
	if j.ID == uuid.Nil {
		return fmt.Errorf("%w: job ID cannot be empty", ErrInvalidID)
	}

	if j.Type == "" {
		return ErrEmptyJobType
	}

	if !isValidJobStatus(j.Status) {
		return ErrInvalidJobStatus
	}

	return nil
}

// Terminal reports whether the job is in a terminal state.
func (j *Job) Terminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}

// isValidJobStatus checks if the given status is a known JobStatus.
func isValidJobStatus(status JobStatus) bool {
	switch status {
	case JobStatusPending, JobStatusRunning, JobStatusCompleted, JobStatusFailed:
		return true
	default:
		return false
	}
}

// Accepted length range for a solution description, in characters.
const (
	MinSolutionDescriptionLen = 10
	MaxSolutionDescriptionLen = 5000
)

// AnalysisRequest is the payload of a competitive_analysis job: the
// caller-supplied solution description plus optional industry and metadata.
type AnalysisRequest struct {
	SolutionDescription string         `json:"solutionDescription"`
	IndustryID          string         `json:"industryId,omitempty"`
	Metadata            map[string]any `json:"metadata,omitempty"`
}

// Validate checks the request for the constraints the research engine
// assumes have been enforced at the boundary.
func (r *AnalysisRequest) Validate() error {
	if r.SolutionDescription == "" {
		return ErrEmptySolutionDescription
	}
	if n := utf8.RuneCountInString(r.SolutionDescription); n < MinSolutionDescriptionLen || n > MaxSolutionDescriptionLen {
		return ErrSolutionDescriptionLength
	}
	return nil
}
