package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"renovo-backend-go/internal/models"
)

// ErrUpstream is returned for non-2xx answers from the search endpoint.
var ErrUpstream = errors.New("search endpoint returned an error")

// HTTPSearcher calls an external search endpoint: GET <baseURL>?q=<query>&limit=<n>
// answering {"results": [ServiceOffering...]}. Calls go through a circuit breaker.
type HTTPSearcher struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[[]models.ServiceOffering]
	logger  *zap.Logger
}

// HTTPSearcherConfig configures an HTTPSearcher. Zero values get defaults.
type HTTPSearcherConfig struct {
	BaseURL          string
	Timeout          time.Duration
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

type searchResponse struct {
	Results []models.ServiceOffering `json:"results"`
}

// NewHTTPSearcher creates an HTTPSearcher.
func NewHTTPSearcher(cfg HTTPSearcherConfig, logger *zap.Logger) *HTTPSearcher {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.OpenTimeout == 0 {
		cfg.OpenTimeout = 30 * time.Second
	}

	settings := gobreaker.Settings{
		Name:        "search",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name), zap.String("from", from.String()), zap.String("to", to.String()))
		},
	}

	return &HTTPSearcher{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
		breaker: gobreaker.NewCircuitBreaker[[]models.ServiceOffering](settings),
		logger:  logger,
	}
}

// Search queries the remote endpoint.
func (s *HTTPSearcher) Search(ctx context.Context, query string, limit int) ([]models.ServiceOffering, error) {
	limit = ClampLimit(limit)
	results, err := s.breaker.Execute(func() ([]models.ServiceOffering, error) {
		return s.fetch(ctx, query, limit)
	})
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// State reports the circuit breaker state.
func (s *HTTPSearcher) State() gobreaker.State {
	return s.breaker.State()
}

func (s *HTTPSearcher) fetch(ctx context.Context, query string, limit int) ([]models.ServiceOffering, error) {
	u, err := url.Parse(s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid search URL: %w", err)
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("limit", strconv.Itoa(limit))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}
	return body.Results, nil
}

// IsUnavailable reports whether err means the remote search endpoint failed or
// the breaker is refusing calls.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUpstream) || errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
