package apperror

import (
	"errors"
	"net/http"
)

var (
	// ErrValidation is returned when a request body fails field validation.
	ErrValidation = errors.New("validation failed")
	// ErrConflict is returned when a unique constraint would be violated.
	ErrConflict = errors.New("conflict")
	// ErrNotFound is returned when the referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned on ownership or role violations.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthorized is returned on bad credentials or invalid tokens.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUnavailable is returned when an external dependency (mail, blob store) fails.
	ErrUnavailable = errors.New("service unavailable")
)

// Status maps a sentinel error to its HTTP status code. Unrecognized errors
// are treated as internal.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
