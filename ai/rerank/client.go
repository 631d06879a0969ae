package rerank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/poiesic/sift/ai"
)

// DefaultTimeout bounds a single rerank request.
const DefaultTimeout = 30 * time.Second

// Client implements ai.Reranker.
type Client struct {
	endpoint string
	model    string
	apiKey   string
	http     *http.Client
	limiter  *ai.Limiter
	logger   *slog.Logger
}

// Option configures a Client.
type Option func(*Client) error

// WithModel sets the model name sent with each request.
func WithModel(model string) Option {
	return func(c *Client) error {
		c.model = model
		return nil
	}
}

// WithAPIKey sets the bearer token.
func WithAPIKey(key string) Option {
	return func(c *Client) error {
		c.apiKey = key
		return nil
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return fmt.Errorf("%w: http client is nil", ai.ErrInvalidConfig)
		}
		c.http = hc
		return nil
	}
}

// WithLimiter throttles outgoing requests.
func WithLimiter(l *ai.Limiter) Option {
	return func(c *Client) error {
		c.limiter = l
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger.With("component", "rerank-client")
		return nil
	}
}

// New creates a rerank client for host. The host may be given with or
// without the /v1 suffix.
func New(host string, opts ...Option) (*Client, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return nil, fmt.Errorf("%w: rerank host is required", ai.ErrInvalidConfig)
	}
	host = strings.TrimSuffix(host, "/")
	if !strings.HasSuffix(host, "/v1") {
		host += "/v1"
	}

	c := &Client{
		endpoint: host + "/rerank",
		http:     &http.Client{Timeout: DefaultTimeout},
		logger:   slog.Default().With("component", "rerank-client"),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// NewFromConfig creates a client from the rerank settings of config.
func NewFromConfig(config *ai.Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return New(config.RerankHost,
		WithModel(config.RerankModel),
		WithAPIKey(config.APIKey),
		WithLimiter(ai.NewLimiter(config.RequestsPerSecond)),
	)
}

type request struct {
	Model     string   `json:"model,omitempty"`
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
	TopN      int      `json:"top_n,omitempty"`
}

// result accepts both the llama.cpp/Jina field name and the TEI one.
type result struct {
	Index          int      `json:"index"`
	RelevanceScore *float64 `json:"relevance_score"`
	Score          *float64 `json:"score"`
}

type response struct {
	Model   string   `json:"model"`
	Results []result `json:"results"`
}

// Rerank scores documents against query. The returned outcome has been
// validated against len(documents).
func (c *Client) Rerank(ctx context.Context, query string, documents []string, topK int) (ai.RerankOutcome, error) {
	if len(documents) == 0 {
		return ai.RerankOutcome{Model: c.model}, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return ai.RerankOutcome{}, err
	}

	body, err := json.Marshal(request{
		Model:     c.model,
		Query:     query,
		Documents: documents,
		TopN:      topK,
	})
	if err != nil {
		return ai.RerankOutcome{}, fmt.Errorf("failed to marshal rerank request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return ai.RerankOutcome{}, fmt.Errorf("failed to create rerank request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	c.logger.Debug("sending rerank request", "documents", len(documents), "topK", topK)
	resp, err := c.http.Do(req)
	if err != nil {
		return ai.RerankOutcome{}, fmt.Errorf("rerank request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return ai.RerankOutcome{}, fmt.Errorf("%w: rerank returned status %d: %s",
			ai.ErrProviderUnavailable, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var decoded response
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ai.RerankOutcome{}, fmt.Errorf("%w: %w", ai.ErrMalformedResponse, err)
	}

	outcome := ai.RerankOutcome{
		Model:  decoded.Model,
		Scores: make([]ai.RerankScore, 0, len(decoded.Results)),
	}
	for _, r := range decoded.Results {
		var score float64
		switch {
		case r.RelevanceScore != nil:
			score = *r.RelevanceScore
		case r.Score != nil:
			score = *r.Score
		default:
			continue
		}
		outcome.Scores = append(outcome.Scores, ai.RerankScore{Index: r.Index, RelevanceScore: score})
	}

	if dropped := outcome.Validate(len(documents)); dropped > 0 {
		c.logger.Warn("dropped invalid rerank scores", "dropped", dropped)
	}
	if topK > 0 && len(outcome.Scores) > topK {
		outcome.Scores = outcome.Scores[:topK]
	}
	return outcome, nil
}
