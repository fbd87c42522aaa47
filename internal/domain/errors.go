package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidJobStatus is returned when a job status is not one of the
	// known lifecycle states.
	ErrInvalidJobStatus = errors.New("invalid job status")

	// ErrEmptyJobType is returned when a job is created without a type.
	ErrEmptyJobType = errors.New("job type cannot be empty")

	// ErrEmptySolutionDescription is returned when an analysis request has
	// no solution description.
	ErrEmptySolutionDescription = errors.New("solution description cannot be empty")

	// ErrSolutionDescriptionLength is returned when a solution description
	// falls outside the accepted character range.
	ErrSolutionDescriptionLength = errors.New("solution description must be between 10 and 5000 characters")
)
