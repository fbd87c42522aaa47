// Package generation provides interfaces and error types for interacting
// with the external generative text API. It abstracts the details of LLM
// API integration (Gemini), allowing the research engine to issue prompts
// without coupling to a specific external service.
package generation

import (
	"context"
	"encoding/json"
)

// TextGenerator defines the interface for the black-box generative text API.
// This interface serves as a boundary between the application core and
// external AI/LLM services, following the hexagonal architecture pattern.
type TextGenerator interface {
	// GenerateJSON sends the given system and user prompts to the model in
	// JSON mode and returns the raw JSON document produced.
	//
	// Returns ErrInvalidResponse when the model output is not valid JSON,
	// ErrContentBlocked when safety filters block the output, and
	// ErrUpstream for transport-level failures.
	GenerateJSON(ctx context.Context, system, user string) (json.RawMessage, error)

	// GenerateText sends the given system and user prompts to the model and
	// returns the plain-text completion. Error semantics match GenerateJSON.
	GenerateText(ctx context.Context, system, user string) (string, error)
}
