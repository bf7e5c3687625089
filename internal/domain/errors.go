package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyQuery signals that no search text was supplied.
	ErrEmptyQuery = errors.New("no search term provided")
	// ErrEmbeddingFailure signals an embedding provider failure or malformed embedding.
	ErrEmbeddingFailure = errors.New("embedding failure")
	// ErrStoreUnavailable signals a candidate fetch, vector search, or document lookup failure.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrDocumentNotFound signals a ranked identifier with no document behind it.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrUnknownStrategy signals an unsupported retrieval strategy.
	ErrUnknownStrategy = errors.New("unknown retrieval strategy")
)

// DimensionMismatchError names the candidate whose vector disagrees with the query vector.
type DimensionMismatchError struct {
	ID       string
	Expected int
	Actual   int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("%s: candidate %q has %d dimensions, query has %d",
		ErrVectorDimMismatch.Error(), e.ID, e.Actual, e.Expected)
}

func (e *DimensionMismatchError) Unwrap() error { return ErrVectorDimMismatch }
