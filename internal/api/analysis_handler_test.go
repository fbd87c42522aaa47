package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scoutiq/landscape-api/internal/domain"
	"github.com/scoutiq/landscape-api/internal/store"
)

// stubSubmitter implements JobSubmitter.
type stubSubmitter struct {
	job   *domain.Job
	err   error
	calls int
}

func (s *stubSubmitter) Submit(ctx context.Context, jobType string, payload any) (*domain.Job, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.job, nil
}

// stubAnalyzer implements Analyzer.
type stubAnalyzer struct {
	analysis *domain.Analysis
	err      error
	calls    int
}

func (s *stubAnalyzer) Analyze(ctx context.Context, req domain.AnalysisRequest) (*domain.Analysis, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.analysis, nil
}

// stubAnalyses implements store.AnalysisStore.
type stubAnalyses struct {
	analysis    *domain.Analysis
	summaries   []*domain.AnalysisSummary
	competitors []*domain.Competitor
	total       int
	err         error

	gotLimit  int
	gotOffset int
}

func (s *stubAnalyses) Create(ctx context.Context, analysis *domain.Analysis, competitors []*domain.Competitor) error {
	return nil
}

func (s *stubAnalyses) GetByID(ctx context.Context, id uuid.UUID) (*domain.Analysis, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.analysis, nil
}

func (s *stubAnalyses) List(ctx context.Context, limit, offset int) ([]*domain.AnalysisSummary, int, error) {
	s.gotLimit, s.gotOffset = limit, offset
	if s.err != nil {
		return nil, 0, s.err
	}
	return s.summaries, s.total, nil
}

func (s *stubAnalyses) ListCompetitors(ctx context.Context, analysisID uuid.UUID, limit, offset int) ([]*domain.Competitor, int, error) {
	s.gotLimit, s.gotOffset = limit, offset
	if s.err != nil {
		return nil, 0, s.err
	}
	return s.competitors, s.total, nil
}

func pendingJob(t *testing.T) *domain.Job {
	t.Helper()
	job, err := domain.NewJob(domain.JobTypeCompetitiveAnalysis, domain.AnalysisRequest{SolutionDescription: "route optimization platform"})
	require.NoError(t, err)
	return job
}

func TestAnalyzeEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("accepts a valid request", func(t *testing.T) {
		t.Parallel()

		job := pendingJob(t)
		h := NewAnalysisHandler(&stubSubmitter{job: job}, &stubAnalyzer{}, &stubAnalyses{}, false)

		r := httptest.NewRequest(http.MethodPost, "/api/competitive-landscape/analyze",
			strings.NewReader(`{"solutionDescription":"AI scheduling tool"}`))
		w := httptest.NewRecorder()
		h.Analyze(w, r)

		assert.Equal(t, http.StatusAccepted, w.Code)
		var resp AnalyzeAcceptedResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, job.ID.String(), resp.JobID)
		assert.Equal(t, "pending", resp.Status)
		assert.Equal(t, "/api/jobs/"+job.ID.String(), resp.StatusURL)
	})

	t.Run("rejects a missing solution description", func(t *testing.T) {
		t.Parallel()

		h := NewAnalysisHandler(&stubSubmitter{}, &stubAnalyzer{}, &stubAnalyses{}, false)
		r := httptest.NewRequest(http.MethodPost, "/api/competitive-landscape/analyze", strings.NewReader(`{}`))
		w := httptest.NewRecorder()
		h.Analyze(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "solutionDescription is required")
	})

	t.Run("rejects a too-short solution description", func(t *testing.T) {
		t.Parallel()

		submitter := &stubSubmitter{}
		h := NewAnalysisHandler(submitter, &stubAnalyzer{}, &stubAnalyses{}, false)
		r := httptest.NewRequest(http.MethodPost, "/api/competitive-landscape/analyze",
			strings.NewReader(`{"solutionDescription":"too short"}`))
		w := httptest.NewRecorder()
		h.Analyze(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "between 10 and 5000 characters")
		assert.Zero(t, submitter.calls)
	})

	t.Run("rejects a too-long solution description", func(t *testing.T) {
		t.Parallel()

		submitter := &stubSubmitter{}
		h := NewAnalysisHandler(submitter, &stubAnalyzer{}, &stubAnalyses{}, false)
		body, err := json.Marshal(map[string]string{
			"solutionDescription": strings.Repeat("a", 5001),
		})
		require.NoError(t, err)
		r := httptest.NewRequest(http.MethodPost, "/api/competitive-landscape/analyze",
			strings.NewReader(string(body)))
		w := httptest.NewRecorder()
		h.Analyze(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "between 10 and 5000 characters")
		assert.Zero(t, submitter.calls)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		t.Parallel()

		h := NewAnalysisHandler(&stubSubmitter{}, &stubAnalyzer{}, &stubAnalyses{}, false)
		r := httptest.NewRequest(http.MethodPost, "/api/competitive-landscape/analyze", strings.NewReader(`{`))
		w := httptest.NewRecorder()
		h.Analyze(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("submit failure is sanitized", func(t *testing.T) {
		t.Parallel()

		h := NewAnalysisHandler(&stubSubmitter{err: errors.New("queue exploded at 10.0.0.1")}, &stubAnalyzer{}, &stubAnalyses{}, false)
		r := httptest.NewRequest(http.MethodPost, "/api/competitive-landscape/analyze",
			strings.NewReader(`{"solutionDescription":"route optimization platform"}`))
		w := httptest.NewRecorder()
		h.Analyze(w, r)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "10.0.0.1")
	})
}

func TestAnalyzeSyncEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("runs inline outside production", func(t *testing.T) {
		t.Parallel()

		analysis := &domain.Analysis{
			ID:                  uuid.New(),
			SolutionDescription: "x",
			CreatedAt:           time.Now().UTC(),
		}
		analyzer := &stubAnalyzer{analysis: analysis}
		h := NewAnalysisHandler(&stubSubmitter{}, analyzer, &stubAnalyses{}, false)

		r := httptest.NewRequest(http.MethodPost, "/api/competitive-landscape/analyze-sync",
			strings.NewReader(`{"solutionDescription":"route optimization platform"}`))
		w := httptest.NewRecorder()
		h.AnalyzeSync(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, analyzer.calls)
		assert.Contains(t, w.Body.String(), analysis.ID.String())
	})

	t.Run("blocked in production", func(t *testing.T) {
		t.Parallel()

		analyzer := &stubAnalyzer{}
		h := NewAnalysisHandler(&stubSubmitter{}, analyzer, &stubAnalyses{}, true)

		r := httptest.NewRequest(http.MethodPost, "/api/competitive-landscape/analyze-sync",
			strings.NewReader(`{"solutionDescription":"route optimization platform"}`))
		w := httptest.NewRecorder()
		h.AnalyzeSync(w, r)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Zero(t, analyzer.calls)
	})
}

func TestListAnalysesEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("paginates with defaults", func(t *testing.T) {
		t.Parallel()

		analyses := &stubAnalyses{
			summaries: []*domain.AnalysisSummary{{ID: uuid.New(), Summary: "s"}},
			total:     45,
		}
		h := NewAnalysisHandler(&stubSubmitter{}, &stubAnalyzer{}, analyses, false)

		r := httptest.NewRequest(http.MethodGet, "/api/competitive-landscape", nil)
		w := httptest.NewRecorder()
		h.List(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, DefaultPageLimit, analyses.gotLimit)
		assert.Zero(t, analyses.gotOffset)

		var resp AnalysisListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 45, resp.Pagination.Total)
		assert.True(t, resp.Pagination.HasMore)
	})

	t.Run("honors explicit limit and offset", func(t *testing.T) {
		t.Parallel()

		analyses := &stubAnalyses{total: 30}
		h := NewAnalysisHandler(&stubSubmitter{}, &stubAnalyzer{}, analyses, false)

		r := httptest.NewRequest(http.MethodGet, "/api/competitive-landscape?limit=100&offset=20", nil)
		w := httptest.NewRecorder()
		h.List(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, MaxPageLimit, analyses.gotLimit)
		assert.Equal(t, 20, analyses.gotOffset)

		var resp AnalysisListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Pagination.HasMore)
	})

	t.Run("rejects an out-of-range limit", func(t *testing.T) {
		t.Parallel()

		analyses := &stubAnalyses{total: 30}
		h := NewAnalysisHandler(&stubSubmitter{}, &stubAnalyzer{}, analyses, false)

		r := httptest.NewRequest(http.MethodGet, "/api/competitive-landscape?limit=500", nil)
		w := httptest.NewRecorder()
		h.List(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "limit must be an integer between 1 and 100")
		assert.Zero(t, analyses.gotLimit)
	})

	t.Run("rejects a malformed offset", func(t *testing.T) {
		t.Parallel()

		analyses := &stubAnalyses{total: 30}
		h := NewAnalysisHandler(&stubSubmitter{}, &stubAnalyzer{}, analyses, false)

		r := httptest.NewRequest(http.MethodGet, "/api/competitive-landscape?offset=abc", nil)
		w := httptest.NewRecorder()
		h.List(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "offset must be a non-negative integer")
		assert.Zero(t, analyses.gotLimit)
	})

	t.Run("hasMore boundary is exact", func(t *testing.T) {
		t.Parallel()

		// offset+limit == total: nothing beyond this page.
		analyses := &stubAnalyses{total: 40}
		h := NewAnalysisHandler(&stubSubmitter{}, &stubAnalyzer{}, analyses, false)

		r := httptest.NewRequest(http.MethodGet, "/api/competitive-landscape?limit=20&offset=20", nil)
		w := httptest.NewRecorder()
		h.List(w, r)

		var resp AnalysisListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Pagination.HasMore)
	})
}

func TestGetAnalysisEndpoint(t *testing.T) {
	t.Parallel()

	newRequest := func(id string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/api/competitive-landscape/"+id, nil)
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("analysisID", id)
		return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}

	t.Run("returns the analysis", func(t *testing.T) {
		t.Parallel()

		analysis := &domain.Analysis{ID: uuid.New(), SolutionDescription: "x"}
		h := NewAnalysisHandler(&stubSubmitter{}, &stubAnalyzer{}, &stubAnalyses{analysis: analysis}, false)

		w := httptest.NewRecorder()
		h.GetByID(w, newRequest(analysis.ID.String()))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), analysis.ID.String())
	})

	t.Run("invalid id is a 400", func(t *testing.T) {
		t.Parallel()

		h := NewAnalysisHandler(&stubSubmitter{}, &stubAnalyzer{}, &stubAnalyses{}, false)
		w := httptest.NewRecorder()
		h.GetByID(w, newRequest("not-a-uuid"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing analysis is a 404", func(t *testing.T) {
		t.Parallel()

		h := NewAnalysisHandler(&stubSubmitter{}, &stubAnalyzer{}, &stubAnalyses{err: store.ErrAnalysisNotFound}, false)
		w := httptest.NewRecorder()
		h.GetByID(w, newRequest(uuid.NewString()))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Analysis not found")
	})
}

func TestListCompetitorsEndpoint(t *testing.T) {
	t.Parallel()

	newRequest := func(id, query string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/api/competitive-landscape/"+id+"/competitors"+query, nil)
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("analysisID", id)
		return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}

	t.Run("returns competitors with pagination", func(t *testing.T) {
		t.Parallel()

		analyses := &stubAnalyses{
			competitors: []*domain.Competitor{{ID: 1, Name: "Samsara", Relevancy: 9}},
			total:       1,
		}
		h := NewAnalysisHandler(&stubSubmitter{}, &stubAnalyzer{}, analyses, false)

		w := httptest.NewRecorder()
		h.ListCompetitors(w, newRequest(uuid.NewString(), "?limit=5"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 5, analyses.gotLimit)

		var resp CompetitorListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Competitors, 1)
		assert.Equal(t, "Samsara", resp.Competitors[0].Name)
		assert.False(t, resp.Pagination.HasMore)
	})

	t.Run("missing analysis is a 404", func(t *testing.T) {
		t.Parallel()

		h := NewAnalysisHandler(&stubSubmitter{}, &stubAnalyzer{}, &stubAnalyses{err: store.ErrAnalysisNotFound}, false)
		w := httptest.NewRecorder()
		h.ListCompetitors(w, newRequest(uuid.NewString(), ""))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
