// Package tmdb implements the catalog gateway over a TMDB-compatible REST API.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"
	"golang.org/x/time/rate"

	"github.com/pbflix/neteflix-api/config"
	"github.com/pbflix/neteflix-api/internal/domain/model"
	apperrors "github.com/pbflix/neteflix-api/internal/errors"
	"github.com/pbflix/neteflix-api/internal/ports"
)

// maxResponseBytes caps catalog response bodies.
const maxResponseBytes = 4 << 20

// Client talks to the external movie catalog. Outbound calls are rate limited
// and every response is unwrapped through a JMESPath expression so envelope
// changes stay a config concern.
type Client struct {
	cfg        config.CatalogConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	results    jmespath.JMESPath
}

// NewClient creates a catalog client from configuration. It panics if the API
// key is missing or the results expression does not compile, matching other
// constructor guards.
func NewClient(cfg config.CatalogConfig, httpClient *http.Client) *Client {
	if cfg.APIKey == "" {
		panic("tmdb.NewClient: API key is required")
	}
	cfg.Sanitize()

	expr, err := jmespath.Compile(cfg.ResultsExpr)
	if err != nil {
		panic(fmt.Sprintf("tmdb.NewClient: invalid results expression %q: %v", cfg.ResultsExpr, err))
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		results:    expr,
	}
}

var _ ports.CatalogGateway = (*Client)(nil)

// Popular returns the catalog's popular movie list.
func (c *Client) Popular(ctx context.Context) ([]model.Movie, error) {
	return c.fetchMovies(ctx, "/movie/popular", nil)
}

// NowPlaying returns movies currently in theaters.
func (c *Client) NowPlaying(ctx context.Context) ([]model.Movie, error) {
	return c.fetchMovies(ctx, "/movie/now_playing", nil)
}

// TopRated returns the catalog's top rated movie list.
func (c *Client) TopRated(ctx context.Context) ([]model.Movie, error) {
	return c.fetchMovies(ctx, "/movie/top_rated", nil)
}

// Search returns movies matching the query in the service's own relevance
// ordering.
func (c *Client) Search(ctx context.Context, query string) ([]model.Movie, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperrors.ValidationField("query", "search query is required")
	}
	return c.fetchMovies(ctx, "/search/movie", url.Values{"query": []string{query}})
}

// PosterURL resolves a poster path against the fixed image base URL. An empty
// path resolves to an empty URL.
func (c *Client) PosterURL(path string) string {
	if path == "" {
		return ""
	}
	return strings.TrimSuffix(c.cfg.ImageBaseURL, "/") + "/" + strings.TrimPrefix(path, "/")
}

func (c *Client) fetchMovies(ctx context.Context, path string, params url.Values) ([]model.Movie, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("catalog rate limit: %w", err)
	}

	reqURL, err := c.buildURL(path, params)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeUnavailable, "catalog request %s failed", path)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeUnavailable, "read catalog response for %s", path)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(path, resp.StatusCode, body)
	}

	var envelope any
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeInternal, "decode catalog response for %s", path)
	}

	extracted, err := c.results.Search(envelope)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeInternal, "extract catalog results for %s", path)
	}
	if extracted == nil {
		return []model.Movie{}, nil
	}

	// Round-trip through JSON to map the extracted documents onto movies.
	raw, err := json.Marshal(extracted)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeInternal, "encode catalog results for %s", path)
	}
	var movies []model.Movie
	if err := json.Unmarshal(raw, &movies); err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeInternal, "map catalog results for %s", path)
	}
	return movies, nil
}

func (c *Client) buildURL(path string, params url.Values) (string, error) {
	u, err := url.Parse(strings.TrimSuffix(c.cfg.BaseURL, "/") + path)
	if err != nil {
		return "", fmt.Errorf("parse catalog URL: %w", err)
	}

	q := u.Query()
	q.Set("api_key", c.cfg.APIKey)
	for key, values := range params {
		for _, v := range values {
			q.Set(key, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// statusError shapes a non-200 catalog reply into an AppError, surfacing the
// service's status_message when present.
func (c *Client) statusError(path string, status int, body []byte) error {
	var payload struct {
		StatusMessage string `json:"status_message"`
	}
	_ = json.Unmarshal(body, &payload)

	msg := payload.StatusMessage
	if msg == "" {
		msg = http.StatusText(status)
	}

	switch status {
	case http.StatusUnauthorized:
		return apperrors.Unauthorized(fmt.Sprintf("catalog rejected API key: %s", msg))
	case http.StatusNotFound:
		return apperrors.NotFoundf("catalog path %s: %s", path, msg)
	default:
		return apperrors.Unavailable(fmt.Sprintf("catalog request %s returned %d: %s", path, status, msg))
	}
}
