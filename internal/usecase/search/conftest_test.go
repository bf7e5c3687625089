package search

import (
	"context"

	"github.com/kailas-cloud/blogsearch/internal/domain"
	"github.com/kailas-cloud/blogsearch/internal/domain/post"
	"github.com/kailas-cloud/blogsearch/internal/domain/rank"
	"github.com/kailas-cloud/blogsearch/internal/domain/vector"
)

type mockEmbedder struct {
	vec    []float32
	err    error
	called bool
	text   string
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.called = true
	m.text = text
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec}, nil
}

type mockCandidates struct {
	candidates []rank.Candidate
	err        error
	called     bool
}

func (m *mockCandidates) All(_ context.Context) ([]rank.Candidate, error) {
	m.called = true
	return m.candidates, m.err
}

type mockIndex struct {
	hits  []rank.Result
	err   error
	lastK int
}

func (m *mockIndex) Nearest(_ context.Context, _ vector.Vector, k int) ([]rank.Result, error) {
	m.lastK = k
	return m.hits, m.err
}

type mockMatcher struct {
	hits      []rank.Result
	err       error
	lastQuery string
	lastLimit int
}

func (m *mockMatcher) Match(_ context.Context, query string, limit int) ([]rank.Result, error) {
	m.lastQuery = query
	m.lastLimit = limit
	return m.hits, m.err
}

type mockRetriever struct {
	retrieveFn func(ctx context.Context, query string, limit int) ([]rank.Result, error)
}

func (m *mockRetriever) Retrieve(ctx context.Context, query string, limit int) ([]rank.Result, error) {
	return m.retrieveFn(ctx, query, limit)
}

type mockDocs struct {
	docs    map[string]string
	err     error
	lastIDs []string
}

func (m *mockDocs) GetMany(_ context.Context, ids []string) ([]post.Document, []string, error) {
	m.lastIDs = ids
	if m.err != nil {
		return nil, nil, m.err
	}
	var (
		out     []post.Document
		missing []string
	)
	for _, id := range ids {
		content, ok := m.docs[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		out = append(out, post.Document{ID: id, Content: []byte(content)})
	}
	return out, missing, nil
}

func results(ids ...string) []rank.Result {
	out := make([]rank.Result, len(ids))
	for i, id := range ids {
		out[i] = rank.NewResult(id, 1-float64(i)*0.1)
	}
	return out
}

func ids(rs []rank.Result) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.ID()
	}
	return out
}
