// Package research implements the competitive-landscape research pipeline:
// aspect generation, concurrent per-aspect research, aggregation into a
// typed result, executive summary generation, and persistence.
package research

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/scoutiq/landscape-api/internal/domain"
	"github.com/scoutiq/landscape-api/internal/generation"
	"github.com/scoutiq/landscape-api/internal/platform/logger"
	"github.com/scoutiq/landscape-api/internal/store"
)

// Default stage deadlines, used when the config leaves them zero.
const (
	DefaultAspectTimeout   = 60 * time.Second
	DefaultPipelineTimeout = 5 * time.Minute
)

// fallbackFindings is recorded for an aspect whose research call failed.
// Aggregation skips it; it survives on the analysis for manual review.
var fallbackFindings = json.RawMessage(`{"error":"Unable to complete research","message":"Manual review needed for this aspect"}`)

// Config bounds the pipeline's two deadline layers: one per research aspect
// and one over the whole run.
type Config struct {
	AspectTimeout   time.Duration
	PipelineTimeout time.Duration
}

// Engine runs the full analysis pipeline against a text generator and
// persists the outcome.
type Engine struct {
	generator generation.TextGenerator
	analyses  store.AnalysisStore
	cfg       Config
	logger    *slog.Logger
}

// NewEngine creates a research engine. Zero timeouts fall back to the
// package defaults.
func NewEngine(generator generation.TextGenerator, analyses store.AnalysisStore, cfg Config, log *slog.Logger) (*Engine, error) {
	if generator == nil {
		return nil, errors.New("text generator cannot be nil")
	}
	if analyses == nil {
		return nil, errors.New("analysis store cannot be nil")
	}
	if log == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.AspectTimeout <= 0 {
		cfg.AspectTimeout = DefaultAspectTimeout
	}
	if cfg.PipelineTimeout <= 0 {
		cfg.PipelineTimeout = DefaultPipelineTimeout
	}
	return &Engine{
		generator: generator,
		analyses:  analyses,
		cfg:       cfg,
		logger:    log.With(slog.String("component", "research_engine")),
	}, nil
}

// Analyze runs the pipeline end to end and returns the persisted analysis.
// Individual aspect failures degrade to fallback findings; aspect-generation,
// summary, or persistence failures abort the run.
func (e *Engine) Analyze(ctx context.Context, req domain.AnalysisRequest) (*domain.Analysis, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.PipelineTimeout)
	defer cancel()

	log := logger.FromContextOrDefault(ctx, e.logger)

	aspects, err := e.generateAspects(ctx, req.SolutionDescription)
	if err != nil {
		return nil, fmt.Errorf("failed to generate research aspects: %w", err)
	}
	log.Info("generated research aspects", slog.Int("count", len(aspects)))

	results := e.researchAll(ctx, aspects, req.SolutionDescription)

	result := buildResult(req.SolutionDescription, results)

	summary, err := e.generateSummary(ctx, results)
	if err != nil {
		return nil, fmt.Errorf("failed to generate executive summary: %w", err)
	}
	result.Summary = summary

	now := time.Now().UTC()
	analysis := &domain.Analysis{
		ID:                  uuid.New(),
		IndustryID:          req.IndustryID,
		SolutionDescription: req.SolutionDescription,
		Results:             result,
		Metadata:            req.Metadata,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	competitors, err := competitorRows(analysis.ID, result.Competitors)
	if err != nil {
		return nil, err
	}

	if err := e.analyses.Create(ctx, analysis, competitors); err != nil {
		return nil, fmt.Errorf("failed to save analysis: %w", err)
	}

	log.Info("analysis complete",
		slog.String("analysis_id", analysis.ID.String()),
		slog.Int("competitor_count", len(competitors)))
	return analysis, nil
}

// generateAspects asks the generator for the research plan and orders it by
// importance. The response is accepted either as {"aspects": [...]} or as a
// bare array.
func (e *Engine) generateAspects(ctx context.Context, solutionDescription string) ([]domain.Aspect, error) {
	raw, err := e.generator.GenerateJSON(ctx, aspectSystemPrompt, aspectUserPrompt(solutionDescription))
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Aspects []domain.Aspect `json:"aspects"`
	}
	var aspects []domain.Aspect
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Aspects) > 0 {
		aspects = envelope.Aspects
	} else if err := json.Unmarshal(raw, &aspects); err != nil {
		return nil, fmt.Errorf("%w: aspect response is neither an aspect object nor an array", generation.ErrInvalidResponse)
	}
	if len(aspects) == 0 {
		return nil, fmt.Errorf("%w: aspect response contains no aspects", generation.ErrInvalidResponse)
	}

	domain.SortAspectsByImportance(aspects)
	return aspects, nil
}

// researchAll fans the aspects out to concurrent research calls and joins
// their results, preserving the aspect order.
func (e *Engine) researchAll(ctx context.Context, aspects []domain.Aspect, solutionDescription string) []domain.AspectResult {
	results := make([]domain.AspectResult, len(aspects))
	var wg sync.WaitGroup
	for i, aspect := range aspects {
		wg.Add(1)
		go func(i int, aspect domain.Aspect) {
			defer wg.Done()
			results[i] = e.researchAspect(ctx, aspect, solutionDescription)
		}(i, aspect)
	}
	wg.Wait()
	return results
}

// researchAspect runs one aspect's research call under its own deadline.
// Any failure yields the fallback result rather than an error: a single
// aspect must not sink the whole analysis.
func (e *Engine) researchAspect(ctx context.Context, aspect domain.Aspect, solutionDescription string) domain.AspectResult {
	actx, cancel := context.WithTimeout(ctx, e.cfg.AspectTimeout)
	defer cancel()

	raw, err := e.generator.GenerateJSON(actx, researchPrompt(aspect, solutionDescription), researchUserPrompt(solutionDescription))
	if err != nil {
		e.logger.Warn("aspect research failed, recording fallback",
			slog.String("aspect", aspect.Name),
			slog.String("error", err.Error()))
		raw = fallbackFindings
	}

	return domain.AspectResult{
		Aspect:     aspect.Name,
		Importance: aspect.Importance,
		Findings:   raw,
		Timestamp:  time.Now().UTC(),
	}
}

// generateSummary produces the executive summary from the key findings.
// Unlike aspect research this failure propagates: an analysis without a
// summary is not worth persisting.
func (e *Engine) generateSummary(ctx context.Context, results []domain.AspectResult) (string, error) {
	return e.generator.GenerateText(ctx, summarySystemPrompt, summaryUserPrompt(keyFindings(results)))
}
