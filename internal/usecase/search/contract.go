package search

import (
	"context"

	"github.com/kailas-cloud/blogsearch/internal/domain"
	"github.com/kailas-cloud/blogsearch/internal/domain/post"
	"github.com/kailas-cloud/blogsearch/internal/domain/rank"
	"github.com/kailas-cloud/blogsearch/internal/domain/vector"
)

// Retriever turns a query into ranked post identifiers, best first, at most limit long.
type Retriever interface {
	Retrieve(ctx context.Context, query string, limit int) ([]rank.Result, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// CandidateSource lists every stored embedding for client-side ranking.
type CandidateSource interface {
	All(ctx context.Context) ([]rank.Candidate, error)
}

// VectorIndex answers nearest-neighbour queries server-side.
type VectorIndex interface {
	Nearest(ctx context.Context, v vector.Vector, k int) ([]rank.Result, error)
}

// KeywordMatcher finds posts whose title or body contains the query.
type KeywordMatcher interface {
	Match(ctx context.Context, query string, limit int) ([]rank.Result, error)
}

// DocumentStore resolves post IDs to their stored content.
// The second return value lists IDs that have no document.
type DocumentStore interface {
	GetMany(ctx context.Context, ids []string) ([]post.Document, []string, error)
}
