// Package gemini implements the generation.TextGenerator interface using
// Google's Gemini API.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/scoutiq/landscape-api/internal/config"
	"github.com/scoutiq/landscape-api/internal/generation"
	"google.golang.org/genai"
)

// Generator calls the Gemini API to produce structured research output and
// plain-text summaries. It performs exactly one attempt per call: retrying
// transient failures is left to the external task executor.
type Generator struct {
	logger *slog.Logger
	client *genai.Client
	model  string

	// maxSummaryTokens bounds plain-text completions; zero means no bound.
	maxSummaryTokens int32
}

// NewGenerator creates a Generator from LLM configuration.
//
// Returns generation.ErrInvalidConfig when the API key or model name is
// missing, or an error when client construction fails.
func NewGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Generator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return &Generator{
		logger:           logger,
		client:           client,
		model:            cfg.ModelName,
		maxSummaryTokens: int32(cfg.MaxSummaryTokens),
	}, nil
}

// Ensure Generator implements the generation.TextGenerator interface
var _ generation.TextGenerator = (*Generator)(nil)

// GenerateJSON implements generation.TextGenerator.GenerateJSON.
// Research prompts run in JSON mode at a low temperature for data fidelity.
func (g *Generator) GenerateJSON(ctx context.Context, system, user string) (json.RawMessage, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr[float32](0.3),
		ResponseMIMEType:  "application/json",
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
	}

	text, err := g.generate(ctx, user, cfg)
	if err != nil {
		return nil, err
	}

	if !json.Valid([]byte(text)) {
		g.logger.ErrorContext(ctx, "model returned malformed JSON",
			"model", g.model,
			"response_length", len(text))
		return nil, fmt.Errorf("%w: response is not valid JSON", generation.ErrInvalidResponse)
	}

	return json.RawMessage(text), nil
}

// GenerateText implements generation.TextGenerator.GenerateText.
// Summary prompts run at a higher temperature with a token ceiling.
func (g *Generator) GenerateText(ctx context.Context, system, user string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr[float32](0.7),
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
	}
	if g.maxSummaryTokens > 0 {
		cfg.MaxOutputTokens = g.maxSummaryTokens
	}

	return g.generate(ctx, user, cfg)
}

// generate performs a single GenerateContent call and classifies its outcome.
func (g *Generator) generate(ctx context.Context, prompt string, cfg *genai.GenerateContentConfig) (string, error) {
	if prompt == "" {
		return "", fmt.Errorf("%w: prompt cannot be empty", generation.ErrInvalidConfig)
	}

	g.logger.DebugContext(ctx, "calling Gemini API",
		"model", g.model,
		"prompt_length", len(prompt))

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
	if err != nil {
		g.logger.ErrorContext(ctx, "Gemini API call failed",
			"model", g.model,
			"error", err)
		return "", fmt.Errorf("%w: %v", generation.ErrUpstream, err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: finish reason %s", generation.ErrContentBlocked, candidate.FinishReason)
	}

	if candidate.Content == nil {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: empty text in response", generation.ErrInvalidResponse)
	}

	g.logger.DebugContext(ctx, "Gemini API call succeeded",
		"model", g.model,
		"response_length", len(text))

	return text, nil
}
