// Package rank selects the top-k candidates by cosine similarity to a query vector.
package rank

import (
	"errors"
	"slices"

	"github.com/kailas-cloud/blogsearch/internal/domain"
	"github.com/kailas-cloud/blogsearch/internal/domain/vector"
)

var (
	// ErrInvalidK signals a non-positive k.
	ErrInvalidK = errors.New("k must be positive")
	// ErrEmptyVector signals a query vector with no dimensions.
	ErrEmptyVector = errors.New("query vector is empty")
)

// Candidate is an identifier paired with its stored embedding.
type Candidate struct {
	ID     string
	Vector vector.Vector
}

// Result is a single ranked identifier.
type Result struct {
	id    string
	score float64
}

// NewResult creates a ranked result.
func NewResult(id string, score float64) Result {
	return Result{id: id, score: score}
}

// ID returns the candidate identifier.
func (r Result) ID() string { return r.id }

// Score returns the similarity score.
func (r Result) Score() float64 { return r.score }

// Ranking is the output of Rank.
type Ranking struct {
	// Results are ordered by descending score, at most k entries.
	Results []Result
	// Skipped lists candidates excluded for having a different dimensionality than the query.
	Skipped []*domain.DimensionMismatchError
}

// Rank scores every candidate against query and returns the k best.
//
// Candidates whose dimensionality differs from the query are excluded and reported in
// Ranking.Skipped rather than failing the call. Ties keep their input order.
// Rank holds no state and is safe for concurrent use.
func Rank(query vector.Vector, candidates []Candidate, k int) (Ranking, error) {
	if k <= 0 {
		return Ranking{}, ErrInvalidK
	}
	if query.Dim() == 0 {
		return Ranking{}, ErrEmptyVector
	}

	var out Ranking
	scored := make([]Result, 0, len(candidates))
	for _, c := range candidates {
		if c.Vector.Dim() != query.Dim() {
			out.Skipped = append(out.Skipped, &domain.DimensionMismatchError{
				ID:       c.ID,
				Expected: query.Dim(),
				Actual:   c.Vector.Dim(),
			})
			continue
		}
		scored = append(scored, Result{id: c.ID, score: vector.Cosine(query, c.Vector)})
	}

	slices.SortStableFunc(scored, func(a, b Result) int {
		switch {
		case a.score > b.score:
			return -1
		case a.score < b.score:
			return 1
		default:
			return 0
		}
	})

	if len(scored) > k {
		scored = scored[:k]
	}
	out.Results = scored
	return out, nil
}
