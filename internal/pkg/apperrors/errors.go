package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the search pipeline. Only ErrInvalidQuery and
// ErrBackendUnavailable ever reach the caller; the rest are absorbed by
// the retrieval cascade's fallbacks and at most logged.
var (
	ErrInvalidQuery         = errors.New("invalid query")
	ErrEmbeddingUnavailable = errors.New("embedding provider unavailable")
	ErrRetrievalTimeout     = errors.New("retrieval timed out")
	ErrBackendUnavailable   = errors.New("search backend unavailable")
)

// AppError pairs an error with the HTTP status the API layer should emit.
type AppError struct {
	Status  int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewInvalidQuery(message string) *AppError {
	return &AppError{Status: 400, Message: message, Err: ErrInvalidQuery}
}

func NewBackendUnavailable(err error) *AppError {
	return &AppError{Status: 503, Message: "search backend unavailable", Err: errors.Join(ErrBackendUnavailable, err)}
}

// StatusOf maps an error to its HTTP status, defaulting to 500.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	switch {
	case errors.Is(err, ErrInvalidQuery):
		return 400
	case errors.Is(err, ErrBackendUnavailable):
		return 503
	default:
		return 500
	}
}
