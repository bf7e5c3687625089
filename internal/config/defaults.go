package config

import "github.com/kailas-cloud/blogsearch/internal/domain"

// Defaults re-exported so callers need not import domain for them.
const (
	DefaultEmbeddingModel = domain.DefaultEmbeddingModel
	DefaultDimensions     = domain.DefaultDimensions
	DefaultResultLimit    = domain.DefaultResultLimit
	DefaultNumCandidates  = domain.DefaultNumCandidates
	DefaultKeyPrefix      = domain.KeyPrefix
)
