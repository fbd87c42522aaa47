package store

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/scoutiq/landscape-api/internal/domain"
)

// JobUpdate carries the optional fields set alongside a job status change.
// Result is only meaningful when transitioning into completed; Error when
// transitioning into failed.
type JobUpdate struct {
	Result json.RawMessage
	Error  string
}

// JobStore persists and retrieves asynchronous jobs.
//
// UpdateStatus deliberately performs no transition-legality check: the job
// executor endpoint is the only writer after creation and is trusted to
// respect the pending -> running -> {completed, failed} state machine.
type JobStore interface {
	// Create persists a new job.
	Create(ctx context.Context, job *domain.Job) error

	// GetByID retrieves a job by its unique ID.
	// Returns ErrJobNotFound if the job does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error)

	// UpdateStatus sets the job's status and the fields in update. It stamps
	// started_at when the new status is running, and completed_at when the
	// new status is terminal.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.JobStatus, update JobUpdate) error
}

// AnalysisStore persists and retrieves completed analyses and their
// normalized competitor rows.
type AnalysisStore interface {
	// Create persists an analysis together with its competitor rows in a
	// single transaction. Competitor relevancy is assumed already clamped.
	Create(ctx context.Context, analysis *domain.Analysis, competitors []*domain.Competitor) error

	// GetByID retrieves a full analysis by its unique ID.
	// Returns ErrAnalysisNotFound if the analysis does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Analysis, error)

	// List returns analysis summaries ordered by creation time descending,
	// plus the total number of stored analyses.
	List(ctx context.Context, limit, offset int) ([]*domain.AnalysisSummary, int, error)

	// ListCompetitors returns competitors for one analysis ordered by
	// relevancy descending, plus the total competitor count for the analysis.
	ListCompetitors(ctx context.Context, analysisID uuid.UUID, limit, offset int) ([]*domain.Competitor, int, error)
}
