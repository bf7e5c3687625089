package search

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/blogsearch/internal/domain"
	"github.com/kailas-cloud/blogsearch/internal/domain/rank"
	"github.com/kailas-cloud/blogsearch/internal/domain/vector"
)

// DelegatedRetriever runs KNN on the vector index instead of ranking locally.
type DelegatedRetriever struct {
	embed         Embedder
	index         VectorIndex
	numCandidates int
}

// NewDelegatedRetriever creates a retriever backed by a server-side vector index.
// numCandidates is the KNN breadth; values below the request limit are raised to it.
func NewDelegatedRetriever(embed Embedder, index VectorIndex, numCandidates int) *DelegatedRetriever {
	return &DelegatedRetriever{embed: embed, index: index, numCandidates: numCandidates}
}

// Retrieve embeds the query and returns the first limit index hits.
func (r *DelegatedRetriever) Retrieve(ctx context.Context, query string, limit int) ([]rank.Result, error) {
	if limit <= 0 {
		return nil, rank.ErrInvalidK
	}

	q, err := embedQuery(ctx, r.embed, query)
	if err != nil {
		return nil, err
	}

	k := max(r.numCandidates, limit)
	hits, err := r.index.Nearest(ctx, q, k)
	if err != nil {
		return nil, fmt.Errorf("%w: vector search: %w", domain.ErrStoreUnavailable, err)
	}

	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// embedQuery vectorizes the query, mapping every failure to ErrEmbeddingFailure.
func embedQuery(ctx context.Context, e Embedder, query string) (vector.Vector, error) {
	res, err := e.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %w", domain.ErrEmbeddingFailure, err)
	}
	if len(res.Embedding) == 0 {
		return nil, fmt.Errorf("%w: empty query embedding", domain.ErrEmbeddingFailure)
	}
	return vector.Vector(res.Embedding), nil
}
