package rank

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/kailas-cloud/blogsearch/internal/domain"
	"github.com/kailas-cloud/blogsearch/internal/domain/vector"
)

func ids(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.ID()
	}
	return out
}

func TestRank_Scenario(t *testing.T) {
	candidates := []Candidate{
		{ID: "A", Vector: vector.Vector{1, 0}},
		{ID: "B", Vector: vector.Vector{0, 1}},
		{ID: "C", Vector: vector.Vector{0.7, 0.7}},
	}

	r, err := Rank(vector.Vector{1, 0}, candidates, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(r.Results))
	}
	if r.Results[0].ID() != "A" || math.Abs(r.Results[0].Score()-1) > 1e-6 {
		t.Errorf("expected A with score 1, got %s %f", r.Results[0].ID(), r.Results[0].Score())
	}
	if r.Results[1].ID() != "C" || math.Abs(r.Results[1].Score()-0.7071) > 1e-3 {
		t.Errorf("expected C with score ~0.707, got %s %f", r.Results[1].ID(), r.Results[1].Score())
	}
}

func TestRank_DescendingOrder(t *testing.T) {
	query := vector.Vector{0.2, -0.5, 0.9}
	var candidates []Candidate
	for i := range 50 {
		f := float32(i)
		candidates = append(candidates, Candidate{
			ID:     fmt.Sprintf("c%d", i),
			Vector: vector.Vector{f - 25, float32(math.Sin(float64(f))), f * 0.1},
		})
	}

	r, err := Rank(query, candidates, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.Results) != 20 {
		t.Fatalf("expected 20 results, got %d", len(r.Results))
	}
	for i := 0; i+1 < len(r.Results); i++ {
		if r.Results[i].Score() < r.Results[i+1].Score() {
			t.Fatalf("results not descending at %d: %f < %f", i, r.Results[i].Score(), r.Results[i+1].Score())
		}
	}
}

func TestRank_EmptyCandidates(t *testing.T) {
	for _, k := range []int{1, 10, 1000} {
		r, err := Rank(vector.Vector{1, 2}, nil, k)
		if err != nil {
			t.Fatalf("k=%d: unexpected error: %v", k, err)
		}
		if len(r.Results) != 0 {
			t.Errorf("k=%d: expected empty results, got %d", k, len(r.Results))
		}
	}
}

func TestRank_KExceedsCandidates(t *testing.T) {
	candidates := []Candidate{
		{ID: "low", Vector: vector.Vector{0, 1}},
		{ID: "high", Vector: vector.Vector{1, 0}},
		{ID: "mid", Vector: vector.Vector{1, 1}},
	}

	r, err := Rank(vector.Vector{1, 0}, candidates, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := ids(r.Results)
	want := []string{"high", "mid", "low"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestRank_StableOnTies(t *testing.T) {
	candidates := []Candidate{
		{ID: "first", Vector: vector.Vector{2, 0}},
		{ID: "other", Vector: vector.Vector{0, 1}},
		{ID: "second", Vector: vector.Vector{5, 0}},
		{ID: "third", Vector: vector.Vector{1, 0}},
	}

	r, err := Rank(vector.Vector{1, 0}, candidates, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := ids(r.Results)
	want := []string{"first", "second", "third", "other"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestRank_ZeroVectorCandidateScoresZero(t *testing.T) {
	candidates := []Candidate{
		{ID: "zero", Vector: vector.Vector{0, 0}},
		{ID: "neg", Vector: vector.Vector{-1, 0}},
	}

	r, err := Rank(vector.Vector{1, 0}, candidates, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Results[0].ID() != "zero" || r.Results[0].Score() != 0 {
		t.Errorf("expected zero vector first with score 0, got %s %f", r.Results[0].ID(), r.Results[0].Score())
	}
	if math.IsNaN(r.Results[1].Score()) {
		t.Error("score must never be NaN")
	}
}

func TestRank_SkipsDimensionMismatch(t *testing.T) {
	candidates := []Candidate{
		{ID: "ok", Vector: vector.Vector{1, 0}},
		{ID: "short", Vector: vector.Vector{1}},
		{ID: "long", Vector: vector.Vector{1, 0, 0}},
	}

	r, err := Rank(vector.Vector{1, 0}, candidates, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ids(r.Results); len(got) != 1 || got[0] != "ok" {
		t.Errorf("expected only 'ok', got %v", got)
	}
	if len(r.Skipped) != 2 {
		t.Fatalf("expected 2 skipped, got %d", len(r.Skipped))
	}
	if r.Skipped[0].ID != "short" || r.Skipped[0].Actual != 1 || r.Skipped[0].Expected != 2 {
		t.Errorf("unexpected skipped[0]: %+v", r.Skipped[0])
	}
	if !errors.Is(r.Skipped[1], domain.ErrVectorDimMismatch) {
		t.Error("expected skipped error to wrap ErrVectorDimMismatch")
	}
}

func TestRank_InvalidInput(t *testing.T) {
	if _, err := Rank(vector.Vector{1}, nil, 0); !errors.Is(err, ErrInvalidK) {
		t.Errorf("k=0: expected ErrInvalidK, got %v", err)
	}
	if _, err := Rank(vector.Vector{1}, nil, -3); !errors.Is(err, ErrInvalidK) {
		t.Errorf("k=-3: expected ErrInvalidK, got %v", err)
	}
	if _, err := Rank(nil, nil, 1); !errors.Is(err, ErrEmptyVector) {
		t.Errorf("empty query: expected ErrEmptyVector, got %v", err)
	}
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	candidates := []Candidate{
		{ID: "b", Vector: vector.Vector{0, 1}},
		{ID: "a", Vector: vector.Vector{1, 0}},
	}

	if _, err := Rank(vector.Vector{1, 0}, candidates, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if candidates[0].ID != "b" || candidates[1].ID != "a" {
		t.Errorf("input order changed: %v", candidates)
	}
}
