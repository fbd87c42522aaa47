package sqldb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/scoutiq/landscape-api/internal/domain"
	"github.com/scoutiq/landscape-api/internal/platform/logger"
	"github.com/scoutiq/landscape-api/internal/store"
)

// AnalysisStore implements store.AnalysisStore on either supported backend.
// It holds the raw *sql.DB rather than a DBTX because Create manages its own
// transaction.
type AnalysisStore struct {
	db      *sql.DB
	backend string
}

// NewAnalysisStore creates an AnalysisStore for the given backend.
func NewAnalysisStore(db *sql.DB, backend string) *AnalysisStore {
	return &AnalysisStore{
		db:      db,
		backend: backend,
	}
}

// Create persists an analysis and its competitor rows atomically. Either
// everything lands or nothing does.
func (s *AnalysisStore) Create(ctx context.Context, analysis *domain.Analysis, competitors []*domain.Competitor) error {
	log := logger.FromContext(ctx)

	results, err := json.Marshal(analysis.Results)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal analysis results: %v", store.ErrInvalidEntity, err)
	}
	var metadata []byte
	if analysis.Metadata != nil {
		metadata, err = json.Marshal(analysis.Metadata)
		if err != nil {
			return fmt.Errorf("%w: failed to marshal analysis metadata: %v", store.ErrInvalidEntity, err)
		}
	}

	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		insertAnalysis := Rebind(s.backend, `
			INSERT INTO competitive_analyses
				(id, industry_id, solution_description, results, metadata, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`)
		_, err := tx.ExecContext(ctx, insertAnalysis,
			analysis.ID,
			nullString(analysis.IndustryID),
			analysis.SolutionDescription,
			results,
			nullBytes(metadata),
			analysis.CreatedAt,
			analysis.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to save analysis",
				"analysis_id", analysis.ID,
				"error", err)
			return fmt.Errorf("failed to save analysis to database: %w", err)
		}

		insertCompetitor := Rebind(s.backend, `
			INSERT INTO competitors
				(analysis_id, name, relevancy, details, strategic_note, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`)
		now := time.Now().UTC()
		for _, c := range competitors {
			createdAt := c.CreatedAt
			if createdAt.IsZero() {
				createdAt = now
			}
			_, err := tx.ExecContext(ctx, insertCompetitor,
				analysis.ID,
				c.Name,
				c.Relevancy,
				nullBytes(c.Details),
				nullString(c.StrategicNote),
				createdAt,
			)
			if err != nil {
				log.Error("failed to save competitor",
					"analysis_id", analysis.ID,
					"competitor", c.Name,
					"error", err)
				return fmt.Errorf("failed to save competitor to database: %w", err)
			}
		}
		return nil
	})
}

// GetByID retrieves a full analysis by its unique ID.
func (s *AnalysisStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Analysis, error) {
	query := Rebind(s.backend, `
		SELECT id, industry_id, solution_description, results, metadata, created_at, updated_at
		FROM competitive_analyses
		WHERE id = ?
	`)

	var (
		analysis   domain.Analysis
		industryID sql.NullString
		results    []byte
		metadata   []byte
	)

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&analysis.ID,
		&industryID,
		&analysis.SolutionDescription,
		&results,
		&metadata,
		&analysis.CreatedAt,
		&analysis.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrAnalysisNotFound
		}
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	analysis.IndustryID = industryID.String
	if err := json.Unmarshal(results, &analysis.Results); err != nil {
		return nil, fmt.Errorf("%w: failed to decode analysis results: %v", store.ErrInvalidEntity, err)
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &analysis.Metadata); err != nil {
			return nil, fmt.Errorf("%w: failed to decode analysis metadata: %v", store.ErrInvalidEntity, err)
		}
	}

	return &analysis, nil
}

// List returns analysis summaries newest first, plus the total count.
func (s *AnalysisStore) List(ctx context.Context, limit, offset int) ([]*domain.AnalysisSummary, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM competitive_analyses`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count analyses: %w", err)
	}

	query := Rebind(s.backend, `
		SELECT id, industry_id, solution_description, results, created_at
		FROM competitive_analyses
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`)

	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer rows.Close()

	summaries := make([]*domain.AnalysisSummary, 0, limit)
	for rows.Next() {
		var (
			summary    domain.AnalysisSummary
			industryID sql.NullString
			results    []byte
		)
		if err := rows.Scan(&summary.ID, &industryID, &summary.SolutionDescription, &results, &summary.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan analysis row: %w", err)
		}
		summary.IndustryID = industryID.String

		// Summary and analysis date live inside the results document.
		var doc struct {
			AnalysisDate time.Time `json:"analysisDate"`
			Summary      string    `json:"summary"`
		}
		if err := json.Unmarshal(results, &doc); err == nil {
			summary.AnalysisDate = doc.AnalysisDate
			summary.Summary = doc.Summary
		}

		summaries = append(summaries, &summary)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating analysis rows: %w", err)
	}

	return summaries, total, nil
}

// ListCompetitors returns one analysis's competitors ordered by relevancy
// descending, plus the total competitor count for the analysis. Returns
// ErrAnalysisNotFound when the analysis itself does not exist.
func (s *AnalysisStore) ListCompetitors(ctx context.Context, analysisID uuid.UUID, limit, offset int) ([]*domain.Competitor, int, error) {
	var exists int
	existsQuery := Rebind(s.backend, `SELECT COUNT(*) FROM competitive_analyses WHERE id = ?`)
	if err := s.db.QueryRowContext(ctx, existsQuery, analysisID).Scan(&exists); err != nil {
		return nil, 0, fmt.Errorf("failed to check analysis existence: %w", err)
	}
	if exists == 0 {
		return nil, 0, store.ErrAnalysisNotFound
	}

	var total int
	countQuery := Rebind(s.backend, `SELECT COUNT(*) FROM competitors WHERE analysis_id = ?`)
	if err := s.db.QueryRowContext(ctx, countQuery, analysisID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count competitors: %w", err)
	}

	query := Rebind(s.backend, `
		SELECT id, analysis_id, name, relevancy, details, strategic_note, created_at
		FROM competitors
		WHERE analysis_id = ?
		ORDER BY relevancy DESC, id ASC
		LIMIT ? OFFSET ?
	`)

	rows, err := s.db.QueryContext(ctx, query, analysisID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query competitors: %w", err)
	}
	defer rows.Close()

	competitors := make([]*domain.Competitor, 0, limit)
	for rows.Next() {
		var (
			c             domain.Competitor
			details       []byte
			strategicNote sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.AnalysisID, &c.Name, &c.Relevancy, &details, &strategicNote, &c.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan competitor row: %w", err)
		}
		c.Details = details
		c.StrategicNote = strategicNote.String
		competitors = append(competitors, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating competitor rows: %w", err)
	}

	return competitors, total, nil
}
