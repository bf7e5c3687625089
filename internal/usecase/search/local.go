package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/blogsearch/internal/domain"
	"github.com/kailas-cloud/blogsearch/internal/domain/rank"
	"github.com/kailas-cloud/blogsearch/internal/logger"
	"github.com/kailas-cloud/blogsearch/internal/metrics"
)

// LocalRetriever fetches every stored embedding and ranks them in process.
type LocalRetriever struct {
	embed      Embedder
	candidates CandidateSource
}

// NewLocalRetriever creates a client-side ranking retriever.
func NewLocalRetriever(embed Embedder, candidates CandidateSource) *LocalRetriever {
	return &LocalRetriever{embed: embed, candidates: candidates}
}

// Retrieve embeds the query and ranks all candidates by cosine similarity.
func (r *LocalRetriever) Retrieve(ctx context.Context, query string, limit int) ([]rank.Result, error) {
	q, err := embedQuery(ctx, r.embed, query)
	if err != nil {
		return nil, err
	}

	candidates, err := r.candidates.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch candidates: %w", domain.ErrStoreUnavailable, err)
	}

	ranking, err := rank.Rank(q, candidates, limit)
	if err != nil {
		return nil, fmt.Errorf("rank candidates: %w", err)
	}

	if len(ranking.Skipped) > 0 {
		log := logger.FromContext(ctx)
		for _, skipped := range ranking.Skipped {
			log.Warn("candidate skipped",
				zap.String("candidate_id", skipped.ID),
				zap.Int("expected_dim", skipped.Expected),
				zap.Int("actual_dim", skipped.Actual),
			)
		}
		metrics.SearchSkippedCandidatesTotal.Add(float64(len(ranking.Skipped)))
	}

	return ranking.Results, nil
}
