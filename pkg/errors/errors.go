// Package errors defines the sentinel errors shared across the indexer,
// the query engine, and the HTTP surface, plus an AppError wrapper that
// carries a human-readable message and an HTTP status for API responses.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUsage signals a missing or invalid command-line argument.
	ErrUsage = errors.New("usage error")
	// ErrBadMagic signals an index file whose magic header does not match.
	ErrBadMagic = errors.New("bad magic header")
	// ErrMalformedPostings signals a varbyte overrun or a truncated
	// postings block.
	ErrMalformedPostings = errors.New("malformed postings")
	// ErrDocumentNotFound signals a document id outside the doc table.
	ErrDocumentNotFound = errors.New("document not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrRateLimited      = errors.New("rate limit exceeded")
	ErrTimeout          = errors.New("operation timed out")
	ErrInternal         = errors.New("internal error")
)

type AppError struct {
	Err        error
	Message    string
	StatusCode int
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, statusCode int, message string) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    message,
		StatusCode: statusCode,
	}
}

func Newf(sentinel error, statusCode int, format string, args ...any) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    fmt.Sprintf(format, args...),
		StatusCode: statusCode,
	}
}

func HTTPStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, ErrDocumentNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrUsage):
		return http.StatusBadRequest
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrTimeout):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrBadMagic), errors.Is(err, ErrMalformedPostings):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
