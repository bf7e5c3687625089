package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/blogsearch/internal/config"
	"github.com/kailas-cloud/blogsearch/internal/domain"
	"github.com/kailas-cloud/blogsearch/internal/domain/post"
	embeddinguc "github.com/kailas-cloud/blogsearch/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/blogsearch/internal/usecase/health"
)

func keywordConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Config{
		Search: config.SearchConfig{Strategy: "keyword"},
		SQL:    config.SQLConfig{DSN: filepath.Join(t.TempDir(), "blog.db")},
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	return cfg
}

func TestNewApp_KeywordEndToEnd(t *testing.T) {
	ctx := context.Background()
	a, err := newApp(ctx, keywordConfig(t), zap.NewNop())
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	defer a.Close()

	if a.store != nil {
		t.Error("keyword strategy should not connect to redis")
	}

	res := a.indexer.Index(ctx, []post.Post{
		{ID: "go-1", Title: "Go channels", Body: "Buffered and unbuffered channels."},
		{ID: "redis-1", Title: "Redis streams", Body: "Consumer groups in practice."},
	})
	for _, r := range res {
		if !r.OK() {
			t.Fatalf("index %s: %v", r.ID(), r.Err())
		}
	}

	docs, err := a.search.Search(ctx, "channels")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != "go-1" {
		t.Fatalf("docs = %+v", docs)
	}

	if _, err := a.search.Search(ctx, "  "); !errors.Is(err, domain.ErrEmptyQuery) {
		t.Errorf("expected ErrEmptyQuery, got %v", err)
	}

	report := a.health.Check(ctx)
	if report.Status != healthuc.Healthy || report.Checks["sql"] != healthuc.CheckOK {
		t.Errorf("health = %+v", report)
	}
	if _, ok := report.Checks["embedding"]; ok {
		t.Error("keyword strategy should not check the embedding provider")
	}
}

func TestNewApp_UnknownStrategy(t *testing.T) {
	cfg := keywordConfig(t)
	cfg.Search.Strategy = "hybrid"
	if _, err := newApp(context.Background(), cfg, zap.NewNop()); !errors.Is(err, domain.ErrUnknownStrategy) {
		t.Fatalf("expected ErrUnknownStrategy, got %v", err)
	}
}

func TestBuildEmbedder_Chain(t *testing.T) {
	cfg := config.Config{}
	cfg.ApplyDefaults()

	plain := buildEmbedder(cfg, nil, "", zap.NewNop())
	if _, ok := plain.(*embeddinguc.InstrumentedEmbedder); !ok {
		t.Errorf("without instruction got %T, want *embedding.InstrumentedEmbedder", plain)
	}

	withInstruction := buildEmbedder(cfg, nil, "query: ", zap.NewNop())
	if _, ok := withInstruction.(*domain.InstructionEmbedder); !ok {
		t.Errorf("with instruction got %T, want *domain.InstructionEmbedder", withInstruction)
	}
	if _, ok := withInstruction.(domain.HealthChecker); !ok {
		t.Error("chain should expose HealthCheck")
	}
}

func TestRunIndex_OutputAndPartialFailure(t *testing.T) {
	c := &cli{cfg: keywordConfig(t), logger: zap.NewNop()}
	var out bytes.Buffer

	err := runIndex(context.Background(), &out, c, []post.Post{
		{ID: "ok-1", Title: "Fine"},
		{ID: "bad-1"},
		{ID: "ok-2", Body: "Also fine"},
	}, 2)
	if !errors.Is(err, errIndexPartial) {
		t.Fatalf("expected errIndexPartial, got %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 result lines, got %d: %s", len(lines), out.String())
	}
	var second struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if second.ID != "bad-1" || second.Status != "error" {
		t.Errorf("second line = %+v", second)
	}
}

func TestRunIndex_InvalidBatchSize(t *testing.T) {
	c := &cli{cfg: keywordConfig(t), logger: zap.NewNop()}
	if err := runIndex(context.Background(), &bytes.Buffer{}, c, nil, 0); err == nil {
		t.Fatal("expected error for zero batch size")
	}
}

func TestRunLocalQuery(t *testing.T) {
	cfg := keywordConfig(t)
	c := &cli{cfg: cfg, logger: zap.NewNop()}
	ctx := context.Background()

	if err := runIndex(ctx, &bytes.Buffer{}, c, []post.Post{{ID: "p", Title: "Tracing with zap"}}, 10); err != nil {
		t.Fatalf("index: %v", err)
	}

	var out bytes.Buffer
	if err := runLocalQuery(ctx, &out, c, "zap"); err != nil {
		t.Fatalf("query: %v", err)
	}
	var docs []map[string]any
	if err := json.Unmarshal(out.Bytes(), &docs); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(docs) != 1 || docs[0]["id"] != "p" {
		t.Errorf("docs = %v", docs)
	}
}
