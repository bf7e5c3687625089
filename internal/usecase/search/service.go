package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/blogsearch/internal/domain"
	"github.com/kailas-cloud/blogsearch/internal/domain/post"
	"github.com/kailas-cloud/blogsearch/internal/logger"
	"github.com/kailas-cloud/blogsearch/internal/metrics"
)

// Service resolves a free-text query to blog post documents, best first.
type Service struct {
	strategy  Strategy
	retriever Retriever
	docs      DocumentStore
	limit     int
}

// New creates a search service. limit <= 0 selects domain.DefaultResultLimit.
func New(strategy Strategy, retriever Retriever, docs DocumentStore, limit int) *Service {
	if limit <= 0 {
		limit = domain.DefaultResultLimit
	}
	return &Service{strategy: strategy, retriever: retriever, docs: docs, limit: limit}
}

// Strategy returns the retrieval strategy this service was built with.
func (s *Service) Strategy() Strategy { return s.strategy }

// Search retrieves ranked post IDs and resolves them to documents in rank order.
// Posts missing from the document store are logged and dropped.
func (s *Service) Search(ctx context.Context, query string) ([]post.Document, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.ErrEmptyQuery
	}

	ctx = logger.With(ctx, zap.String("strategy", s.strategy.String()))
	start := time.Now()
	docs, err := s.search(ctx, query)

	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.SearchDuration.WithLabelValues(s.strategy.String(), status).Observe(time.Since(start).Seconds())
	if err == nil {
		metrics.SearchResults.WithLabelValues(s.strategy.String()).Observe(float64(len(docs)))
	}
	return docs, err
}

func (s *Service) search(ctx context.Context, query string) ([]post.Document, error) {
	hits, err := s.retriever.Retrieve(ctx, query, s.limit)
	if err != nil {
		return nil, classify(err)
	}
	if len(hits) == 0 {
		return []post.Document{}, nil
	}
	if len(hits) > s.limit {
		hits = hits[:s.limit]
	}

	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = post.IDFromCandidate(h.ID())
	}

	docs, missing, err := s.docs.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve documents: %w", domain.ErrStoreUnavailable, err)
	}

	if len(missing) > 0 {
		log := logger.FromContext(ctx)
		for _, id := range missing {
			log.Warn("ranked post has no document",
				zap.String("post_id", id),
				zap.Error(domain.ErrDocumentNotFound),
			)
		}
		metrics.SearchDroppedDocumentsTotal.WithLabelValues(s.strategy.String()).Add(float64(len(missing)))
	}

	return docs, nil
}

// classify keeps embedding and store failures distinguishable and folds
// anything else into ErrStoreUnavailable.
func classify(err error) error {
	if errors.Is(err, domain.ErrEmbeddingFailure) || errors.Is(err, domain.ErrStoreUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
}
