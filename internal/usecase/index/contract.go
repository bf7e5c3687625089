package index

import (
	"context"

	"github.com/kailas-cloud/blogsearch/internal/domain"
	"github.com/kailas-cloud/blogsearch/internal/domain/post"
	"github.com/kailas-cloud/blogsearch/internal/repository/candidate"
)

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// PostWriter stores post content for the vector strategies.
type PostWriter interface {
	Put(ctx context.Context, p *post.Post) error
}

// EmbeddingWriter stores embedding records and owns the vector index.
type EmbeddingWriter interface {
	Put(ctx context.Context, records []candidate.Record) error
	EnsureIndex(ctx context.Context) error
}

// KeywordWriter stores post rows for the keyword strategy.
type KeywordWriter interface {
	Upsert(ctx context.Context, p *post.Post) error
}
