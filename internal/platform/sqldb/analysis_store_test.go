package sqldb

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scoutiq/landscape-api/internal/domain"
	"github.com/scoutiq/landscape-api/internal/store"
)

func newTestAnalysis(t *testing.T, summary string) *domain.Analysis {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.Analysis{
		ID:                  uuid.New(),
		IndustryID:          "logistics",
		SolutionDescription: "last-mile delivery routing",
		Results: domain.AnalysisResult{
			SolutionDescription: "last-mile delivery routing",
			AnalysisDate:        now,
			Summary:             summary,
			Competitors: []domain.CompetitorFact{
				{Name: "Onfleet", RelevancyScore: 8},
			},
		},
		Metadata:  map[string]any{"requestedBy": "ops"},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestAnalysisStoreCreateAndGet(t *testing.T) {
	db := newTestDB(t)
	analyses := NewAnalysisStore(db, BackendSQLite)
	ctx := context.Background()

	analysis := newTestAnalysis(t, "summary text")
	competitors := []*domain.Competitor{
		{
			AnalysisID:    analysis.ID,
			Name:          "Onfleet",
			Relevancy:     8,
			Details:       json.RawMessage(`{"name":"Onfleet"}`),
			StrategicNote: "Direct competitor - monitor closely for strategic moves",
		},
	}

	require.NoError(t, analyses.Create(ctx, analysis, competitors))

	got, err := analyses.GetByID(ctx, analysis.ID)
	require.NoError(t, err)

	assert.Equal(t, analysis.ID, got.ID)
	assert.Equal(t, "logistics", got.IndustryID)
	assert.Equal(t, "last-mile delivery routing", got.SolutionDescription)
	assert.Equal(t, "summary text", got.Results.Summary)
	require.Len(t, got.Results.Competitors, 1)
	assert.Equal(t, "Onfleet", got.Results.Competitors[0].Name)
	assert.Equal(t, map[string]any{"requestedBy": "ops"}, got.Metadata)
}

func TestAnalysisStoreGetMissing(t *testing.T) {
	db := newTestDB(t)
	analyses := NewAnalysisStore(db, BackendSQLite)

	_, err := analyses.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrAnalysisNotFound)
}

func TestAnalysisStoreCreateIsAtomic(t *testing.T) {
	db := newTestDB(t)
	analyses := NewAnalysisStore(db, BackendSQLite)
	ctx := context.Background()

	// Duplicate analysis ID on the second create: the insert fails and the
	// competitor rows from the failed attempt must not survive.
	analysis := newTestAnalysis(t, "s")
	require.NoError(t, analyses.Create(ctx, analysis, nil))

	err := analyses.Create(ctx, analysis, []*domain.Competitor{
		{AnalysisID: analysis.ID, Name: "Ghost", Relevancy: 5},
	})
	require.Error(t, err)

	_, total, err := analyses.ListCompetitors(ctx, analysis.ID, 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestAnalysisStoreList(t *testing.T) {
	db := newTestDB(t)
	analyses := NewAnalysisStore(db, BackendSQLite)
	ctx := context.Background()

	const count = 25
	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < count; i++ {
		a := newTestAnalysis(t, fmt.Sprintf("summary %d", i))
		a.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		a.UpdatedAt = a.CreatedAt
		require.NoError(t, analyses.Create(ctx, a, nil))
	}

	t.Run("first page newest first", func(t *testing.T) {
		summaries, total, err := analyses.List(ctx, 20, 0)
		require.NoError(t, err)
		assert.Equal(t, count, total)
		require.Len(t, summaries, 20)
		assert.Equal(t, "summary 24", summaries[0].Summary)
		assert.True(t, summaries[0].CreatedAt.After(summaries[19].CreatedAt))
	})

	t.Run("last partial page", func(t *testing.T) {
		summaries, total, err := analyses.List(ctx, 20, 20)
		require.NoError(t, err)
		assert.Equal(t, count, total)
		assert.Len(t, summaries, 5)
	})

	t.Run("offset beyond total is empty", func(t *testing.T) {
		summaries, total, err := analyses.List(ctx, 20, 100)
		require.NoError(t, err)
		assert.Equal(t, count, total)
		assert.Empty(t, summaries)
	})
}

func TestAnalysisStoreListCompetitors(t *testing.T) {
	db := newTestDB(t)
	analyses := NewAnalysisStore(db, BackendSQLite)
	ctx := context.Background()

	analysis := newTestAnalysis(t, "s")
	competitors := []*domain.Competitor{
		{AnalysisID: analysis.ID, Name: "Low", Relevancy: 3},
		{AnalysisID: analysis.ID, Name: "High", Relevancy: 9},
		{AnalysisID: analysis.ID, Name: "Mid", Relevancy: 6},
	}
	require.NoError(t, analyses.Create(ctx, analysis, competitors))

	t.Run("ordered by relevancy descending", func(t *testing.T) {
		got, total, err := analyses.ListCompetitors(ctx, analysis.ID, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		require.Len(t, got, 3)
		assert.Equal(t, "High", got[0].Name)
		assert.Equal(t, "Mid", got[1].Name)
		assert.Equal(t, "Low", got[2].Name)
	})

	t.Run("pagination", func(t *testing.T) {
		got, total, err := analyses.ListCompetitors(ctx, analysis.ID, 2, 2)
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		require.Len(t, got, 1)
		assert.Equal(t, "Low", got[0].Name)
	})

	t.Run("missing analysis yields not found", func(t *testing.T) {
		_, _, err := analyses.ListCompetitors(ctx, uuid.New(), 10, 0)
		assert.ErrorIs(t, err, store.ErrAnalysisNotFound)
	})
}

func TestCompetitorsCascadeDelete(t *testing.T) {
	db := newTestDB(t)
	analyses := NewAnalysisStore(db, BackendSQLite)
	ctx := context.Background()

	analysis := newTestAnalysis(t, "s")
	require.NoError(t, analyses.Create(ctx, analysis, []*domain.Competitor{
		{AnalysisID: analysis.ID, Name: "Onfleet", Relevancy: 8},
	}))

	_, err := db.ExecContext(ctx, `DELETE FROM competitive_analyses WHERE id = ?`, analysis.ID)
	require.NoError(t, err)

	var orphans int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM competitors`).Scan(&orphans))
	assert.Zero(t, orphans)
}
