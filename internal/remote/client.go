// Package remote is the HTTP client for the PokeTrack API. It implements the
// request/response contract the tracker consumes.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/codyseavey/poketrack/internal/metrics"
	"github.com/codyseavey/poketrack/internal/models"
)

const (
	defaultTimeout = 10 * time.Second
	// Bodies larger than this are not read into error messages
	maxErrorBody = 4096
)

// StatusError is returned for any non-2xx response
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("PokeTrack API error: status %d: %s", e.StatusCode, e.Message)
}

// Client talks to the PokeTrack API over HTTP
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

type Option func(*Client)

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithRateLimit caps outgoing requests at perSecond with the given burst.
// A non-positive rate leaves requests unlimited.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a client for the API rooted at baseURL
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchCards returns catalog matches for query
func (c *Client) SearchCards(ctx context.Context, query string) ([]models.Card, error) {
	params := url.Values{}
	params.Set("q", query)

	var resp models.CardSearchResult
	if err := c.do(ctx, "search", http.MethodGet, "/api/cards/search?"+params.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// PriceHistory returns the history for cardName over the last days
func (c *Client) PriceHistory(ctx context.Context, cardName string, days models.Window) (*models.PriceHistory, error) {
	params := url.Values{}
	params.Set("days", strconv.Itoa(int(days)))
	path := fmt.Sprintf("/api/cards/%s/price-history?%s", url.PathEscape(cardName), params.Encode())

	var history models.PriceHistory
	if err := c.do(ctx, "price_history", http.MethodGet, path, nil, &history); err != nil {
		return nil, err
	}
	return &history, nil
}

// ListWatchlist returns the saved cards, newest first
func (c *Client) ListWatchlist(ctx context.Context) ([]models.WatchlistItem, error) {
	var items []models.WatchlistItem
	if err := c.do(ctx, "watchlist_list", http.MethodGet, "/api/watchlist", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// AddWatchlist saves cardName. Saving a card twice is not an error.
func (c *Client) AddWatchlist(ctx context.Context, cardName string) error {
	body := models.AddToWatchlistRequest{CardName: cardName}
	return c.do(ctx, "watchlist_add", http.MethodPost, "/api/watchlist", body, nil)
}

// RemoveWatchlist deletes cardName. Removing an absent card is not an error.
func (c *Client) RemoveWatchlist(ctx context.Context, cardName string) error {
	path := "/api/watchlist/" + url.PathEscape(cardName)
	return c.do(ctx, "watchlist_remove", http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) (err error) {
	start := time.Now()
	defer func() {
		result := "ok"
		if err != nil {
			result = "error"
		}
		metrics.RemoteRequestsTotal.WithLabelValues(op, result).Inc()
		metrics.RemoteRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newStatusError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// newStatusError picks the most descriptive message the server gave:
// gin handlers answer {"error": ...}, other backends {"detail": ...}.
func newStatusError(resp *http.Response) *StatusError {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var payload struct {
		Error  string `json:"error"`
		Detail any    `json:"detail"`
	}
	message := ""
	if json.Unmarshal(data, &payload) == nil {
		switch {
		case payload.Error != "":
			message = payload.Error
		case payload.Detail != nil:
			if s, ok := payload.Detail.(string); ok {
				message = s
			} else if b, err := json.Marshal(payload.Detail); err == nil {
				message = string(b)
			}
		}
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}
	if message == "" {
		message = resp.Status
	}

	return &StatusError{StatusCode: resp.StatusCode, Message: message}
}
