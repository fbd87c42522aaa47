package api

import (
	"errors"
	"net/http"

	"github.com/scoutiq/landscape-api/internal/domain"
	"github.com/scoutiq/landscape-api/internal/generation"
	"github.com/scoutiq/landscape-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types or messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrEmptySolutionDescription),
		errors.Is(err, domain.ErrSolutionDescriptionLength),
		errors.Is(err, domain.ErrEmptyJobType),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	case errors.Is(err, generation.ErrContentBlocked):
		return http.StatusUnprocessableEntity

	case errors.Is(err, generation.ErrUpstream):
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-safe message for the error.
func GetSafeErrorMessage(err error) string {
	switch {
	case errors.Is(err, store.ErrJobNotFound):
		return "Job not found"
	case errors.Is(err, store.ErrAnalysisNotFound):
		return "Analysis not found"
	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"
	case errors.Is(err, domain.ErrEmptySolutionDescription):
		return "solutionDescription is required"
	case errors.Is(err, domain.ErrSolutionDescriptionLength):
		return "solutionDescription must be between 10 and 5000 characters"
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request"
	case errors.Is(err, generation.ErrContentBlocked):
		return "Content policy blocked the analysis"
	case errors.Is(err, generation.ErrUpstream):
		return "Analysis provider unavailable"
	default:
		return "An internal error occurred"
	}
}
