// Package marsapi is the HTTP transport for the listings API.
package marsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tinytelemetry/marsestate/internal/model"
)

// Client implements model.ListingsFetcher against GET /realestate.
type Client struct {
	base string
	http *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Timeout: d}
		}
	}
}

// NewClient creates a client for the service at baseURL.
// An empty baseURL selects model.DefaultAPIURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = model.DefaultAPIURL
	}
	c := &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: model.DefaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the listings matching filter, in server order.
func (c *Client) Fetch(ctx context.Context, filter model.Filter) ([]model.Listing, error) {
	u := c.base + "/realestate?filter=" + url.QueryEscape(filter.Value())
	var out []model.Listing
	if err := c.getJSON(ctx, u, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns one listing by id.
func (c *Client) Get(ctx context.Context, id string) (model.Listing, error) {
	var out model.Listing
	if err := c.getJSON(ctx, c.base+"/realestate/"+url.PathEscape(id), &out); err != nil {
		return model.Listing{}, err
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, u string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("marsapi: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("marsapi: get %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return &StatusError{URL: u, Code: resp.StatusCode, Status: resp.Status}
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("marsapi: decode %s: %w", u, err)
	}
	return nil
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	URL    string
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("marsapi: get %s: %s", e.URL, e.Status)
}

// Is maps a 404 onto model.ErrNotFound.
func (e *StatusError) Is(target error) bool {
	return target == model.ErrNotFound && e.Code == http.StatusNotFound
}
