package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/blogsearch/internal/domain"
	"github.com/kailas-cloud/blogsearch/internal/domain/post"
	healthuc "github.com/kailas-cloud/blogsearch/internal/usecase/health"
)

// Client-facing error bodies. Details are logged, never returned.
const (
	msgNoSearchTerm = "No search term provided"
	msgSearchFailed = "Error searching blog posts"
	msgInternal     = "Internal server error"
)

// Searcher resolves a query to documents.
type Searcher interface {
	Search(ctx context.Context, query string) ([]post.Document, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Server serves the search API.
type Server struct {
	search Searcher
	health HealthChecker
	logger *zap.Logger
}

// NewServer creates an HTTP API server. health can be nil.
func NewServer(search Searcher, health HealthChecker, logger *zap.Logger) *Server {
	return &Server{search: search, health: health, logger: logger}
}

type errorResponse struct {
	Error string `json:"error"`
}

// Search handles GET /search?q=.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, msgNoSearchTerm)
		return
	}

	docs, err := s.search.Search(r.Context(), q)
	if err != nil {
		s.handleSearchError(r.Context(), w, err)
		return
	}

	if docs == nil {
		docs = []post.Document{}
	}
	writeJSON(w, http.StatusOK, docs)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if s.health == nil {
		writeJSON(w, http.StatusOK, healthuc.Report{Status: healthuc.Healthy, Checks: map[string]healthuc.CheckResult{}})
		return
	}

	report := s.health.Check(r.Context())
	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, report)
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) handleSearchError(ctx context.Context, w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrEmptyQuery) {
		writeError(w, http.StatusBadRequest, msgNoSearchTerm)
		return
	}

	s.logger.Error("search failed",
		zap.String("request_id", chiMiddleware.GetReqID(ctx)),
		zap.String("kind", errorKind(err)),
		zap.Error(err),
	)
	writeError(w, http.StatusInternalServerError, msgSearchFailed)
}

// errorKind names the failure class for logs.
func errorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmbeddingFailure):
		return "embedding"
	case errors.Is(err, domain.ErrStoreUnavailable):
		return "store"
	default:
		return "internal"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
