// Package candidate stores post embeddings in Redis hashes and serves them for ranking.
package candidate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/blogsearch/internal/db"
	"github.com/kailas-cloud/blogsearch/internal/domain/post"
	"github.com/kailas-cloud/blogsearch/internal/domain/rank"
	"github.com/kailas-cloud/blogsearch/internal/domain/vector"
	"github.com/kailas-cloud/blogsearch/internal/logger"
	"github.com/kailas-cloud/blogsearch/internal/metrics"
)

const (
	fieldVector = "vector"
	fieldType   = "type"
	fieldPostID = "post_id"

	recordType = "embedding"

	// fetchBatch bounds the number of HGETALL commands per pipeline.
	fetchBatch = 256
)

// store is the consumer interface for embedding records (ISP).
type store interface {
	Scan(ctx context.Context, pattern string) ([]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
}

// Record is an embedding to persist for a post.
type Record struct {
	PostID string
	Vector vector.Vector
}

// Repo reads and writes embedding records under a key prefix.
type Repo struct {
	store      store
	keyPrefix  string
	dimensions int
	hnswM      int
	hnswEF     int
}

// New creates a candidate repository. dimensions sizes the vector index.
func New(s store, keyPrefix string, dimensions int) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix, dimensions: dimensions}
}

// WithHNSW sets HNSW graph parameters for EnsureIndex. Zero keeps the server default.
func (r *Repo) WithHNSW(m, efConstruction int) *Repo {
	r.hnswM = m
	r.hnswEF = efConstruction
	return r
}

// IndexName is the FT index over embedding records.
func (r *Repo) IndexName() string {
	return r.keyPrefix + "embeddings:idx"
}

func (r *Repo) recordPrefix() string {
	return r.keyPrefix + post.EmbeddingKeyPrefix
}

// All loads every stored embedding as a ranking candidate.
// Records deleted between SCAN and HGETALL are skipped, and so are records whose
// vector blob does not decode.
func (r *Repo) All(ctx context.Context) ([]rank.Candidate, error) {
	keys, err := r.store.Scan(ctx, r.recordPrefix()+"*")
	if err != nil {
		return nil, fmt.Errorf("scan embeddings: %w", err)
	}

	out := make([]rank.Candidate, 0, len(keys))
	for start := 0; start < len(keys); start += fetchBatch {
		batch := keys[start:min(start+fetchBatch, len(keys))]
		hashes, err := r.store.HGetAllMulti(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("fetch embeddings: %w", err)
		}

		for i, h := range hashes {
			blob, ok := h[fieldVector]
			if !ok {
				continue
			}
			id := strings.TrimPrefix(batch[i], r.keyPrefix)
			v, err := vector.FromBytes([]byte(blob))
			if err != nil {
				logger.FromContext(ctx).Warn("candidate skipped",
					zap.String("candidate_id", id),
					zap.String("reason", "undecodable vector"),
					zap.Error(err),
				)
				metrics.SearchSkippedCandidatesTotal.Inc()
				continue
			}
			out = append(out, rank.Candidate{ID: id, Vector: v})
		}
	}
	return out, nil
}

// Nearest asks the vector index for the k records closest to v, best first.
// Result IDs are candidate IDs; scores are cosine similarity.
func (r *Repo) Nearest(ctx context.Context, v vector.Vector, k int) ([]rank.Result, error) {
	res, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    r.IndexName(),
		Field:        fieldVector,
		Vector:       v,
		K:            k,
		ReturnFields: []string{fieldPostID},
	})
	if err != nil {
		return nil, fmt.Errorf("knn search: %w", err)
	}

	out := make([]rank.Result, 0, len(res.Entries))
	for _, e := range res.Entries {
		out = append(out, rank.NewResult(strings.TrimPrefix(e.Key, r.keyPrefix), e.Score))
	}
	return out, nil
}

// Put writes embedding records in one pipeline.
func (r *Repo) Put(ctx context.Context, records []Record) error {
	items := make([]db.HashSetItem, len(records))
	for i, rec := range records {
		items[i] = db.HashSetItem{
			Key: r.keyPrefix + post.CandidateID(rec.PostID),
			Fields: map[string]string{
				fieldVector: string(rec.Vector.Bytes()),
				fieldType:   recordType,
				fieldPostID: rec.PostID,
			},
		}
	}
	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("store embeddings: %w", err)
	}
	return nil
}

// EnsureIndex creates the vector index if it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	def, err := db.NewIndex(r.IndexName()).
		Prefix(r.recordPrefix()).
		Tag(fieldPostID).
		VectorHNSW(fieldVector, r.dimensions, db.DistanceCosine, r.hnswM, r.hnswEF).
		Build()
	if err != nil {
		return fmt.Errorf("build index definition: %w", err)
	}

	if err := r.store.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}
