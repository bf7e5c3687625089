package search

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/blogsearch/internal/domain"
	"github.com/kailas-cloud/blogsearch/internal/domain/rank"
)

// KeywordRetriever matches the query as a substring of title or body.
// Results are unranked: every hit scores 1.
type KeywordRetriever struct {
	matcher KeywordMatcher
}

// NewKeywordRetriever creates a keyword retriever.
func NewKeywordRetriever(matcher KeywordMatcher) *KeywordRetriever {
	return &KeywordRetriever{matcher: matcher}
}

// Retrieve runs the keyword match.
func (r *KeywordRetriever) Retrieve(ctx context.Context, query string, limit int) ([]rank.Result, error) {
	if limit <= 0 {
		return nil, rank.ErrInvalidK
	}
	hits, err := r.matcher.Match(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: keyword match: %w", domain.ErrStoreUnavailable, err)
	}
	return hits, nil
}
