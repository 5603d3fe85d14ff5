// Package search implements the recent-search collaborator against the
// X API v2, with per-call bearer tokens for account rotation.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"redwatch/internal/model"
)

// ErrQuotaExhausted reports that the current credential has no call budget
// left. Callers classify it separately from real faults.
var ErrQuotaExhausted = errors.New("search quota exhausted")

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client queries the recent-search endpoint. The rate limiter paces outgoing
// requests across the whole account pool; provider-side per-credential limits
// surface as ErrQuotaExhausted.
type Client struct {
	client     HTTPClient
	baseURL    string
	limiter    *rate.Limiter
	maxResults int
}

// New creates a Client with the given HTTP client.
func New(client HTTPClient) *Client {
	return &Client{
		client:     client,
		baseURL:    "https://api.twitter.com/2",
		limiter:    rate.NewLimiter(rate.Limit(1), 2),
		maxResults: 10,
	}
}

// SetBaseURL overrides the API base URL (useful for testing).
func (c *Client) SetBaseURL(u string) {
	c.baseURL = u
}

// Search returns recent posts matching query, newest first. Both lower bounds
// are applied when set: startTime bounds by post age and sinceID excludes ids
// at or below the bookmark.
func (c *Client) Search(ctx context.Context, bearerToken, query string, startTime time.Time, sinceID string) (model.Batch, error) {
	var batch model.Batch

	q := url.Values{}
	q.Set("query", query)
	q.Set("max_results", strconv.Itoa(c.maxResults))
	q.Set("tweet.fields", "created_at")
	if !startTime.IsZero() {
		q.Set("start_time", startTime.UTC().Format(time.RFC3339))
	}
	if sinceID != "" {
		q.Set("since_id", sinceID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/tweets/search/recent?"+q.Encode(), nil)
	if err != nil {
		return batch, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+bearerToken)
	req.Header.Set("Accept", "application/json")

	if err := c.limiter.Wait(ctx); err != nil {
		return batch, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return batch, fmt.Errorf("http get: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests {
		return batch, ErrQuotaExhausted
	}
	if resp.StatusCode != http.StatusOK {
		return batch, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var raw struct {
		Data []struct {
			ID        string    `json:"id"`
			Text      string    `json:"text"`
			CreatedAt time.Time `json:"created_at"`
		} `json:"data"`
		Meta struct {
			NewestID string `json:"newest_id"`
		} `json:"meta"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return batch, fmt.Errorf("decode response: %w", err)
	}

	batch.NewestID = raw.Meta.NewestID
	for _, d := range raw.Data {
		batch.Items = append(batch.Items, model.Item{
			ID:        d.ID,
			Text:      d.Text,
			CreatedAt: d.CreatedAt,
		})
	}
	return batch, nil
}

// Permalink returns the canonical URL for a post id.
func Permalink(id string) string {
	return "https://twitter.com/anyuser/status/" + id
}
