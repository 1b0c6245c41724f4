package updater

import (
	"net/http"
	"strings"
	"time"
)

const userAgent = "newt-feed-client"

// Client is a package feed client.
type Client struct {
	feedURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// New creates a Client for the feed rooted at feedURL.
func New(feedURL string, opts ...Option) *Client {
	c := &Client{
		feedURL:    strings.TrimRight(feedURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FeedURL returns the feed base URL.
func (c *Client) FeedURL() string {
	return c.feedURL
}
