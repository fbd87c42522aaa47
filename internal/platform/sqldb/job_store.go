package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/scoutiq/landscape-api/internal/domain"
	"github.com/scoutiq/landscape-api/internal/platform/logger"
	"github.com/scoutiq/landscape-api/internal/store"
)

// JobStore implements store.JobStore on either supported backend.
type JobStore struct {
	db      store.DBTX
	backend string
}

// NewJobStore creates a JobStore. The backend selects placeholder binding
// and must match the database behind db.
func NewJobStore(db store.DBTX, backend string) *JobStore {
	return &JobStore{
		db:      db,
		backend: backend,
	}
}

// Create persists a new job.
func (s *JobStore) Create(ctx context.Context, job *domain.Job) error {
	log := logger.FromContext(ctx)

	if err := job.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := Rebind(s.backend, `
		INSERT INTO jobs (id, type, status, data, result, error, created_at, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := s.db.ExecContext(ctx, query,
		job.ID,
		job.Type,
		job.Status,
		nullBytes(job.Payload),
		nullBytes(job.Result),
		nullString(job.Error),
		job.CreatedAt,
		job.StartedAt,
		job.CompletedAt,
	)
	if err != nil {
		log.Error("failed to save job",
			"job_id", job.ID,
			"job_type", job.Type,
			"error", err)
		return fmt.Errorf("failed to save job to database: %w", err)
	}

	return nil
}

// GetByID retrieves a job by its unique ID.
func (s *JobStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	query := Rebind(s.backend, `
		SELECT id, type, status, data, result, error, created_at, started_at, completed_at
		FROM jobs
		WHERE id = ?
	`)

	var (
		job         domain.Job
		data        []byte
		result      []byte
		errMsg      sql.NullString
		startedAt   sql.NullTime
		completedAt sql.NullTime
	)

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&job.ID,
		&job.Type,
		&job.Status,
		&data,
		&result,
		&errMsg,
		&job.CreatedAt,
		&startedAt,
		&completedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	job.Payload = data
	job.Result = result
	job.Error = errMsg.String
	if startedAt.Valid {
		t := startedAt.Time.UTC()
		job.StartedAt = &t
	}
	if completedAt.Valid {
		t := completedAt.Time.UTC()
		job.CompletedAt = &t
	}

	return &job, nil
}

// UpdateStatus sets the job's status plus the update fields, stamping
// started_at on entry into running and completed_at on entry into a terminal
// state. Timestamps already set are left alone so replayed callbacks do not
// rewrite history.
func (s *JobStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.JobStatus, update store.JobUpdate) error {
	log := logger.FromContext(ctx)

	now := time.Now().UTC()

	var query string
	var args []interface{}

	switch status {
	case domain.JobStatusRunning:
		query = `
			UPDATE jobs
			SET status = ?, started_at = COALESCE(started_at, ?)
			WHERE id = ?
		`
		args = []interface{}{status, now, id}
	case domain.JobStatusCompleted, domain.JobStatusFailed:
		query = `
			UPDATE jobs
			SET status = ?, result = ?, error = ?, completed_at = COALESCE(completed_at, ?)
			WHERE id = ?
		`
		args = []interface{}{status, nullBytes(update.Result), nullString(update.Error), now, id}
	default:
		query = `
			UPDATE jobs
			SET status = ?
			WHERE id = ?
		`
		args = []interface{}{status, id}
	}

	result, err := s.db.ExecContext(ctx, Rebind(s.backend, query), args...)
	if err != nil {
		log.Error("failed to update job status",
			"job_id", id,
			"status", status,
			"error", err)
		return fmt.Errorf("%w: %v", store.ErrUpdateFailed, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrJobNotFound
	}

	return nil
}

// WithTx returns a JobStore bound to the given transaction.
func (s *JobStore) WithTx(tx *sql.Tx) *JobStore {
	return &JobStore{
		db:      tx,
		backend: s.backend,
	}
}

// nullBytes maps an empty JSON blob to NULL.
func nullBytes(b []byte) interface{} {
	if len(b) == 0 {
		return nil
	}
	return []byte(b)
}

// nullString maps an empty string to NULL.
func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
