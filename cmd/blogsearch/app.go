package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/blogsearch/internal/config"
	dbRedis "github.com/kailas-cloud/blogsearch/internal/db/redis"
	"github.com/kailas-cloud/blogsearch/internal/db/sqldb"
	"github.com/kailas-cloud/blogsearch/internal/domain"
	"github.com/kailas-cloud/blogsearch/internal/metrics"
	candidaterepo "github.com/kailas-cloud/blogsearch/internal/repository/candidate"
	"github.com/kailas-cloud/blogsearch/internal/repository/embcache"
	keywordrepo "github.com/kailas-cloud/blogsearch/internal/repository/keyword"
	postrepo "github.com/kailas-cloud/blogsearch/internal/repository/post"
	openaiEmb "github.com/kailas-cloud/blogsearch/internal/transport/openai"
	embeddinguc "github.com/kailas-cloud/blogsearch/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/blogsearch/internal/usecase/health"
	indexuc "github.com/kailas-cloud/blogsearch/internal/usecase/index"
	searchuc "github.com/kailas-cloud/blogsearch/internal/usecase/search"
)

// app is the composition root shared by every command.
type app struct {
	cfg    config.Config
	logger *zap.Logger

	store *dbRedis.Store // nil unless a vector strategy is configured
	sql   *sqldb.DB      // nil unless sql.dsn is set

	search  *searchuc.Service
	indexer *indexuc.Service
	health  *healthuc.Service
}

// newApp connects the configured stores and wires the services. Close releases them.
func newApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (_ *app, err error) {
	strategy, err := searchuc.ParseStrategy(cfg.Search.Strategy)
	if err != nil {
		return nil, err
	}

	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterSearchMetrics()

	a := &app{cfg: cfg, logger: logger}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	if strategy.UsesVectors() {
		a.store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Username: cfg.Database.Username,
			Password: cfg.Database.Password,
			DB:       cfg.Database.DB,

			WriteTimeout: time.Duration(cfg.Database.CommandTimeout) * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("create redis store: %w", err)
		}
		readiness := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
		if err = a.store.WaitForReady(ctx, readiness); err != nil {
			return nil, fmt.Errorf("redis not ready: %w", err)
		}
		logger.Info("Connected to redis", zap.Strings("addrs", cfg.Database.Addrs))
	}

	if cfg.SQL.DSN != "" {
		a.sql, err = sqldb.Open(ctx, sqldb.Config{Driver: sqldb.Dialect(cfg.SQL.Driver), DSN: cfg.SQL.DSN})
		if err != nil {
			return nil, fmt.Errorf("open sql: %w", err)
		}
		logger.Info("Connected to sql", zap.String("driver", cfg.SQL.Driver))
	}

	docEmbedder := buildEmbedder(cfg, a.store, "", logger)
	queryEmbedder := buildEmbedder(cfg, a.store, cfg.Embedding.QueryInstruction, logger)

	var (
		candidates *candidaterepo.Repo
		posts      *postrepo.Repo
		keywords   *keywordrepo.Repo
	)
	if a.store != nil {
		candidates = candidaterepo.New(a.store, cfg.Storage.KeyPrefix, cfg.Embedding.Dimensions).
			WithHNSW(cfg.Storage.HNSWM, cfg.Storage.HNSWEF)
		posts = postrepo.New(a.store, cfg.Storage.KeyPrefix)
	}
	if a.sql != nil {
		keywords = keywordrepo.New(a.sql)
	}

	var (
		retriever searchuc.Retriever
		docs      searchuc.DocumentStore
	)
	switch strategy {
	case searchuc.StrategyLocal:
		retriever, docs = searchuc.NewLocalRetriever(queryEmbedder, candidates), posts
	case searchuc.StrategyDelegated:
		retriever, docs = searchuc.NewDelegatedRetriever(queryEmbedder, candidates, cfg.Search.NumCandidates), posts
	case searchuc.StrategyKeyword:
		if keywords == nil {
			return nil, errors.New("keyword strategy requires sql.dsn")
		}
		retriever, docs = searchuc.NewKeywordRetriever(keywords), keywords
	}
	a.search = searchuc.New(strategy, retriever, docs, cfg.Search.Limit)

	a.indexer = indexuc.New(docEmbedder)
	if a.store != nil {
		a.indexer = a.indexer.WithVectorStores(posts, candidates)
	}
	if keywords != nil {
		a.indexer = a.indexer.WithKeywordStore(keywords)
	}

	var embCheck healthuc.EmbeddingChecker
	if strategy.UsesVectors() {
		embCheck = newEmbeddingHealthChecker(docEmbedder)
	}
	a.health = healthuc.New(embCheck)
	if a.store != nil {
		a.health = a.health.WithStore("redis", a.store)
	}
	if a.sql != nil {
		a.health = a.health.WithStore("sql", a.sql)
	}

	logger.Info("Search service ready",
		zap.String("strategy", strategy.String()),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
		zap.Int("limit", cfg.Search.Limit),
	)
	return a, nil
}

// Close releases store connections.
func (a *app) Close() {
	if a.store != nil {
		a.store.Close()
	}
	if a.sql != nil {
		if err := a.sql.Close(); err != nil {
			a.logger.Warn("close sql", zap.Error(err))
		}
	}
}

// embeddingHealthChecker wraps domain.Embedder to implement health.EmbeddingChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instrumented -> Instruction.
// store may be nil, which disables caching.
func buildEmbedder(cfg config.Config, store *dbRedis.Store, instruction string, logger *zap.Logger) domain.Embedder {
	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Timeout:    time.Duration(cfg.Embedding.TimeoutSec) * time.Second,
		Logger:     logger,
	})

	var embedder domain.Embedder = base
	if store != nil && cfg.CacheEnabled() {
		embedder = embcache.New(base, store, embcache.Config{
			KeyPrefix:  cfg.Storage.KeyPrefix,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
			TTL:        cfg.CacheTTL(),
		}, metrics.EmbeddingCacheTotal, logger)
	}

	embedder = embeddinguc.NewInstrumentedEmbedder(
		embedder, cfg.Embedding.Provider, cfg.Embedding.Model, cfg.Embedding.Dimensions, logger,
	)

	// Instruction prefix is outermost so the cache key includes it.
	if instruction != "" {
		return domain.NewInstructionEmbedder(embedder, instruction)
	}
	return embedder
}
