package health

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/blogsearch/internal/logger"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// DefaultCheckTimeout bounds each component check.
const DefaultCheckTimeout = 3 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status                 `json:"status"`
	Checks map[string]CheckResult `json:"checks"`
}

type namedPinger struct {
	name string
	p    Pinger
}

// Service coordinates health checks.
type Service struct {
	stores    []namedPinger
	embedding EmbeddingChecker
	timeout   time.Duration
}

// New creates a Service. embedding can be nil.
func New(embedding EmbeddingChecker) *Service {
	return &Service{embedding: embedding, timeout: DefaultCheckTimeout}
}

// WithStore adds a store checked under name ("redis", "sql").
func (s *Service) WithStore(name string, p Pinger) *Service {
	if p != nil {
		s.stores = append(s.stores, namedPinger{name: name, p: p})
	}
	return s
}

// WithTimeout overrides the per-check timeout.
func (s *Service) WithTimeout(d time.Duration) *Service {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, len(s.stores)+1)

	for _, st := range s.stores {
		checks[st.name] = s.run(ctx, st.name, st.p.Ping)
	}
	if s.embedding != nil {
		checks["embedding"] = s.run(ctx, "embedding", s.embedding.HealthCheck)
	}

	failed := 0
	for _, v := range checks {
		if v == CheckError {
			failed++
		}
	}

	status := Healthy
	switch {
	case failed > 0 && failed == len(checks):
		status = Unhealthy
	case failed > 0:
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}

func (s *Service) run(ctx context.Context, name string, check func(context.Context) error) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := check(ctx); err != nil {
		logger.FromContext(ctx).Warn("health check failed", zap.String("component", name), zap.Error(err))
		return CheckError
	}
	return CheckOK
}
