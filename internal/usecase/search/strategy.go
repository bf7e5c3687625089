package search

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/blogsearch/internal/domain"
)

// Strategy names a retrieval strategy.
type Strategy string

// Supported strategies.
const (
	StrategyLocal     Strategy = "local"
	StrategyDelegated Strategy = "delegated"
	StrategyKeyword   Strategy = "keyword"
)

// ParseStrategy validates a strategy name. Matching is case-insensitive.
func ParseStrategy(s string) (Strategy, error) {
	switch st := Strategy(strings.ToLower(strings.TrimSpace(s))); st {
	case StrategyLocal, StrategyDelegated, StrategyKeyword:
		return st, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownStrategy, s)
	}
}

// UsesVectors reports whether the strategy needs the embedding store.
func (s Strategy) UsesVectors() bool {
	return s == StrategyLocal || s == StrategyDelegated
}

func (s Strategy) String() string { return string(s) }
