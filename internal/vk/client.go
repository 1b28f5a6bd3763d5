package vk

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/dghubble/sling"
)

const (
	apiBaseURL = "https://api.vk.ru/method/"
	apiVersion = "5.199"
	UserAgent  = "meowmap/1.0 (github.com/meowafisha/meowmap)"

	// BatchSize is the wall.get maximum page size.
	BatchSize = 100

	timeout = 20 * time.Second
)

// Client fetches posts from a public VK group wall
type Client struct {
	sling  *sling.Sling
	token  string
	domain string
	pause  time.Duration
}

// Post is a single VK wall post
type Post struct {
	ID   int64  `json:"id"`
	Date int64  `json:"date"` // unix seconds
	Text string `json:"text"`
}

type wallGetParams struct {
	Domain      string `url:"domain"`
	Offset      int    `url:"offset"`
	Count       int    `url:"count"`
	AccessToken string `url:"access_token"`
	V           string `url:"v"`
}

type wallGetResponse struct {
	Response *struct {
		Count int    `json:"count"`
		Items []Post `json:"items"`
	} `json:"response"`
	Error *apiError `json:"error"`
}

type apiError struct {
	Code    int    `json:"error_code"`
	Message string `json:"error_msg"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("vk api error %d: %s", e.Code, e.Message)
}

// NewClient creates a VK wall client. pause is the delay between wall.get
// pages to stay near the 1 rps API quota.
func NewClient(token, domain string, pause time.Duration) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("vk token is required")
	}
	if domain == "" {
		return nil, fmt.Errorf("vk group domain is required")
	}

	httpClient := &http.Client{Timeout: timeout}
	base := sling.New().
		Client(httpClient).
		Base(apiBaseURL).
		Set("User-Agent", UserAgent)

	return &Client{
		sling:  base,
		token:  token,
		domain: domain,
		pause:  pause,
	}, nil
}

// FetchPosts pages through wall.get until maxPosts posts have been seen or
// the wall runs out. Transport failures are retried with exponential
// backoff; a VK API error body is terminal.
func (c *Client) FetchPosts(ctx context.Context, maxPosts int) ([]Post, error) {
	posts := make([]Post, 0, maxPosts)

	for offset := 0; offset < maxPosts; offset += BatchSize {
		batch, err := c.wallPage(ctx, offset)
		if err != nil {
			return nil, fmt.Errorf("fetching wall page at offset %d: %w", offset, err)
		}
		if len(batch) == 0 {
			break
		}
		posts = append(posts, batch...)

		if offset+BatchSize < maxPosts && c.pause > 0 {
			select {
			case <-time.After(c.pause):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	return posts, nil
}

func (c *Client) wallPage(ctx context.Context, offset int) ([]Post, error) {
	params := &wallGetParams{
		Domain:      c.domain,
		Offset:      offset,
		Count:       BatchSize,
		AccessToken: c.token,
		V:           apiVersion,
	}

	var items []Post
	operation := func() error {
		var body wallGetResponse
		resp, err := c.sling.New().Get("wall.get").QueryStruct(params).ReceiveSuccess(&body)
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
		if body.Error != nil {
			// API-level errors (bad token, rate limit lockout) will not
			// recover within a retry budget.
			return backoff.Permanent(body.Error)
		}
		if body.Response == nil {
			return backoff.Permanent(fmt.Errorf("vk response missing body"))
		}
		items = body.Response.Items
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return items, nil
}

// SetBaseURL overrides the API endpoint, used by tests.
func (c *Client) SetBaseURL(base string) {
	c.sling = c.sling.New().Base(base)
}
