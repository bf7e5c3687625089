package index

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/blogsearch/internal/domain"
	"github.com/kailas-cloud/blogsearch/internal/domain/post"
	"github.com/kailas-cloud/blogsearch/internal/logger"
	"github.com/kailas-cloud/blogsearch/internal/repository/candidate"
)

// Service writes posts into the stores the configured strategies read from.
type Service struct {
	embed    Embedder
	posts    PostWriter
	vectors  EmbeddingWriter
	keywords KeywordWriter
}

// New creates an indexer. Attach at least one store with WithVectorStores or WithKeywordStore.
func New(embed Embedder) *Service {
	return &Service{embed: embed}
}

// WithVectorStores enables post JSON and embedding writes.
func (s *Service) WithVectorStores(posts PostWriter, vectors EmbeddingWriter) *Service {
	s.posts = posts
	s.vectors = vectors
	return s
}

// WithKeywordStore enables SQL row writes.
func (s *Service) WithKeywordStore(keywords KeywordWriter) *Service {
	s.keywords = keywords
	return s
}

// Index stores posts with per-post error reporting. Posts without an ID get a UUID.
func (s *Service) Index(ctx context.Context, posts []post.Post) []Result {
	results := make([]Result, len(posts))

	valid := make([]int, 0, len(posts))
	for i := range posts {
		if posts[i].ID == "" {
			posts[i].ID = uuid.NewString()
		}
		if err := posts[i].Validate(); err != nil {
			results[i] = failed(posts[i].ID, err)
			continue
		}
		valid = append(valid, i)
	}
	if len(valid) == 0 {
		return results
	}

	var vectors [][]float32
	if s.vectors != nil {
		var err error
		vectors, err = s.prepareVectors(ctx, posts, valid)
		if err != nil {
			for _, i := range valid {
				results[i] = failed(posts[i].ID, err)
			}
			return results
		}
	}

	for n, i := range valid {
		p := &posts[i]
		var v []float32
		if vectors != nil {
			v = vectors[n]
		}
		if err := s.store(ctx, p, v); err != nil {
			results[i] = failed(p.ID, err)
			continue
		}
		results[i] = ok(p.ID)
	}

	logger.FromContext(ctx).Info("posts indexed",
		zap.Int("requested", len(posts)),
		zap.Int("indexed", countOK(results)),
	)
	return results
}

// prepareVectors makes sure the vector index exists and embeds every valid post in one batch.
func (s *Service) prepareVectors(ctx context.Context, posts []post.Post, valid []int) ([][]float32, error) {
	if err := s.vectors.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("%w: ensure index: %w", domain.ErrStoreUnavailable, err)
	}

	texts := make([]string, len(valid))
	for n, i := range valid {
		texts[n] = posts[i].EmbeddingText()
	}

	res, err := domain.EmbedAll(ctx, s.embed, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: embed posts: %w", domain.ErrEmbeddingFailure, err)
	}
	if len(res.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d posts",
			domain.ErrEmbeddingFailure, len(res.Embeddings), len(texts))
	}
	return res.Embeddings, nil
}

func (s *Service) store(ctx context.Context, p *post.Post, v []float32) error {
	if s.vectors != nil {
		if err := s.posts.Put(ctx, p); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
		}
		if err := s.vectors.Put(ctx, []candidate.Record{{PostID: p.ID, Vector: v}}); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
		}
	}
	if s.keywords != nil {
		if err := s.keywords.Upsert(ctx, p); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
		}
	}
	return nil
}

func countOK(results []Result) int {
	n := 0
	for _, r := range results {
		if r.OK() {
			n++
		}
	}
	return n
}
