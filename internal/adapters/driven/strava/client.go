// Package strava is the HTTP client for the Strava v3 REST API.
package strava

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

	"golang.org/x/oauth2"

	"github.com/cadence-labs/cadence-cli/internal/core/domain"
	"github.com/cadence-labs/cadence-cli/internal/core/ports/driven"
	"github.com/cadence-labs/cadence-cli/internal/logger"
)

const (
	defaultBaseURL = "https://www.strava.com/api/v3"
	// defaultPerPage is the page size for activity listing. A page shorter
	// than this signals the end of the collection.
	defaultPerPage = 200
)

// Client fetches athlete activities from the Strava API.
// Requests carry bearer authentication and are paced by a client-side
// rate limiter to stay under Strava's per-application quota.
type Client struct {
	baseURL string
	perPage int
	client  *http.Client
	limiter *RateLimiter
}

var _ driven.ActivitySource = (*Client)(nil)

// NewClient creates an API client authenticated with the given bearer token.
func NewClient(ctx context.Context, accessToken string) *Client {
	return NewClientWithBaseURL(ctx, accessToken, defaultBaseURL)
}

// NewClientWithBaseURL creates a client against a custom API base URL.
// Used by tests to point at a local fake.
func NewClientWithBaseURL(ctx context.Context, accessToken, baseURL string) *Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	})

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		perPage: defaultPerPage,
		client:  oauth2.NewClient(ctx, src),
		limiter: NewRateLimiter(),
	}
}

// ListActivities pages through the athlete's activities within
// (after, before) until a short page signals the end. A provider-reported
// error discards everything fetched so far; the run cannot trust partials.
func (c *Client) ListActivities(ctx context.Context, after, before time.Time) ([]domain.Activity, error) {
	var all []domain.Activity

	for page := 1; ; page++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		batch, err := c.fetchPage(ctx, after, before, page)
		if err != nil {
			return nil, err
		}

		logger.Debug("activities page %d: %d records", page, len(batch))
		all = append(all, batch...)

		// An empty page is an unconditional stop, same as a short one.
		if len(batch) < c.perPage {
			break
		}
	}

	return all, nil
}

// fetchPage requests one page of the activity listing.
func (c *Client) fetchPage(ctx context.Context, after, before time.Time, page int) ([]domain.Activity, error) {
	q := url.Values{}
	q.Set("after", strconv.FormatInt(after.Unix(), 10))
	q.Set("before", strconv.FormatInt(before.Unix(), 10))
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(c.perPage))

	endpoint := c.baseURL + "/athlete/activities?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("activities request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading activities response: %w", err)
	}

	// Strava signals failure through an error-shaped JSON object; the
	// success shape is a JSON array. Dispatch on the body, not the status.
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return nil, providerError(trimmed)
	}

	var activities []domain.Activity
	if err := json.Unmarshal(trimmed, &activities); err != nil {
		return nil, fmt.Errorf("parsing activities response: %w (raw response: %s)", err, string(body))
	}

	return activities, nil
}

// providerError turns an error-shaped mapping into an error carrying
// Strava's message and error entries verbatim.
func providerError(body []byte) error {
	var errResp struct {
		Message string `json:"message"`
		Errors  []struct {
			Resource string `json:"resource"`
			Field    string `json:"field"`
			Code     string `json:"code"`
		} `json:"errors"`
	}

	if err := json.Unmarshal(body, &errResp); err != nil {
		return fmt.Errorf("parsing activities response: %w (raw response: %s)", err, string(body))
	}

	details := make([]string, 0, len(errResp.Errors))
	for _, e := range errResp.Errors {
		details = append(details, fmt.Sprintf("%s.%s: %s", e.Resource, e.Field, e.Code))
	}

	message := errResp.Message
	if message == "" {
		message = "unknown error"
	}
	if len(details) > 0 {
		return fmt.Errorf("%w: %s (%s)", domain.ErrProviderRejected,
			message, strings.Join(details, "; "))
	}
	return fmt.Errorf("%w: %s", domain.ErrProviderRejected, message)
}
