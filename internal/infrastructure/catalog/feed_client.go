package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/dealscope/backend/internal/domain"
)

const (
	maxAttempts      = 3
	baseBackoff      = 500 * time.Millisecond
	maxErrorBodySize = 1024
	defaultPageSize  = 100
	maxPages         = 1000
)

// FeedClient pulls the catalog from a remote HTTP feed
type FeedClient struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	pageSize    int
	rateLimiter *rate.Limiter
	logger      zerolog.Logger
	debug       bool
}

// NewFeedClient creates a new catalog feed client allowing requestsPerMinute
// requests with a burst of 10.
func NewFeedClient(apiKey, baseURL string, requestsPerMinute int, logger zerolog.Logger) *FeedClient {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	limiter := rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60), 10)

	return &FeedClient{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:      apiKey,
		baseURL:     baseURL,
		pageSize:    defaultPageSize,
		rateLimiter: limiter,
		logger:      logger.With().Str("component", "catalog_feed").Logger(),
	}
}

// SetDebug enables or disables per-request debug logging
func (c *FeedClient) SetDebug(debug bool) {
	c.debug = debug
}

// LoadProducts fetches every page of the feed and maps the records once all
// pages are in, so fallback ids are unique across pages.
func (c *FeedClient) LoadProducts(ctx context.Context) ([]domain.Product, error) {
	var records []FeedProduct

	for page := 1; page <= maxPages; page++ {
		doc, err := c.fetchPage(ctx, page)
		if err != nil {
			return nil, err
		}

		records = append(records, doc.Products...)

		if doc.TotalPages <= page || len(doc.Products) == 0 {
			break
		}
	}

	products := MapAll(records)
	c.logger.Info().Int("products", len(products)).Msg("catalog feed loaded")
	return products, nil
}

// fetchPage requests one page, retrying transient failures (5xx, 429, network)
func (c *FeedClient) fetchPage(ctx context.Context, page int) (*FeedDocument, error) {
	params := url.Values{}
	params.Add("page", strconv.Itoa(page))
	params.Add("pageSize", strconv.Itoa(c.pageSize))
	if c.apiKey != "" {
		params.Add("api_key", c.apiKey)
	}
	reqURL := fmt.Sprintf("%s/v1/products?%s", c.baseURL, params.Encode())

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		c.debugLog("GET page %d (attempt %d)", page, attempt)

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			lastErr = err
			c.logger.Warn().Err(err).Int("attempt", attempt).Msg("feed request failed")
			if !sleepContext(ctx, exponentialBackoff(attempt)) {
				return nil, ctx.Err()
			}
			continue
		}

		if resp.StatusCode != http.StatusOK {
			body, _ := readLimitedBody(resp.Body, maxErrorBodySize)
			resp.Body.Close()

			lastErr = fmt.Errorf("%w: status %d", domain.ErrFeedFailure, resp.StatusCode)
			c.logger.Warn().
				Int("status", resp.StatusCode).
				Int("attempt", attempt).
				Str("body", string(body)).
				Msg("feed returned error status")

			if !isRetryableStatus(resp.StatusCode) {
				return nil, lastErr
			}
			if !sleepContext(ctx, exponentialBackoff(attempt)) {
				return nil, ctx.Err()
			}
			continue
		}

		var doc FeedDocument
		err = json.NewDecoder(resp.Body).Decode(&doc)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		return &doc, nil
	}

	c.logger.Error().Err(lastErr).Int("page", page).Msg("all feed retries failed")
	return nil, lastErr
}

// doRequest executes an HTTP GET request with proper headers and error handling
func (c *FeedClient) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "DealScope/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFeedFailure, err)
	}

	return resp, nil
}

func (c *FeedClient) debugLog(format string, args ...interface{}) {
	if c.debug {
		c.logger.Debug().Msgf(format, args...)
	}
}

func isRetryableStatus(status int) bool {
	return status >= 500 || status == http.StatusTooManyRequests
}

// exponentialBackoff returns 500ms, 1s, 2s, ... for attempts 1, 2, 3, ...
func exponentialBackoff(attempt int) time.Duration {
	return baseBackoff * time.Duration(1<<(attempt-1))
}

// readLimitedBody reads at most limit bytes from r
func readLimitedBody(r io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, limit))
}

// sleepContext waits for d or until ctx is done; it reports whether the full
// duration elapsed.
func sleepContext(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
