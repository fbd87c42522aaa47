package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrUpstream is returned when the generative API is unreachable or
	// fails at the transport level. The core performs no automatic retry;
	// the external executor's retry policy is the only retry mechanism.
	ErrUpstream = errors.New("generative API request failed")

	// ErrInvalidResponse is returned when the LLM response cannot be parsed or is malformed
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the LLM blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")
)
