package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kailas-cloud/blogsearch/internal/version"
)

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 4 << 10

// Client calls a blogsearch server.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	obs       *observer
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	cfg := &clientConfig{timeout: defaultTimeout, userAgent: version.UserAgent()}
	for _, o := range opts {
		o.apply(cfg)
	}

	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("blogsearch: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("blogsearch: base url %q must be http or https", baseURL)
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.timeout}
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	return &Client{baseURL: u, http: hc, userAgent: cfg.userAgent, obs: obs}, nil
}

// Search runs a query and returns the matching posts as raw JSON, best first.
func (c *Client) Search(ctx context.Context, query string) (_ []json.RawMessage, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	var out []json.RawMessage
	if err = c.get(ctx, "/search", url.Values{"q": {query}}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// HealthReport mirrors the /health response.
type HealthReport struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Health fetches the server health report. A degraded server returns the report with an *APIError.
func (c *Client) Health(ctx context.Context) (_ HealthReport, err error) {
	start := time.Now()
	defer func() { c.obs.observe("health", start, err) }()

	var report HealthReport
	err = c.get(ctx, "/health", nil, &report)
	return report, err
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL.JoinPath(path)
	if query != nil {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("blogsearch: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("blogsearch: %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("blogsearch: decode %s response: %w", path, err)
		}
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return responseError(resp.StatusCode, body, out)
}

// responseError maps a non-200 response. Health bodies are still decoded into out.
func responseError(status int, body []byte, out any) error {
	var e struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(body, &e)

	if status == http.StatusBadRequest && e.Error != "" {
		return fmt.Errorf("%w: %s", ErrEmptyQuery, e.Error)
	}
	if status == http.StatusServiceUnavailable {
		_ = json.Unmarshal(body, out)
	}

	msg := e.Error
	if msg == "" {
		msg = strings.TrimSpace(string(body))
	}
	return &APIError{StatusCode: status, Message: msg}
}

// IsAPIError reports whether err is an *APIError with the given status.
func IsAPIError(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}
