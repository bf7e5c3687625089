package client

import (
	"fmt"

	"github.com/kailas-cloud/blogsearch/internal/domain"
)

// ErrEmptyQuery is returned when the server rejects the query as empty.
// Use errors.Is() to check.
var ErrEmptyQuery = domain.ErrEmptyQuery

// APIError is a non-2xx response other than an empty-query rejection.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("blogsearch: http %d", e.StatusCode)
	}
	return fmt.Sprintf("blogsearch: http %d: %s", e.StatusCode, e.Message)
}
