// Package directory is the client for the remote REST backend that owns all
// business logic. The edge only ever reads from it.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
)

// Client performs lookups against the directory API over a shared tuned
// http.Client.
type Client struct {
	client *http.Client
	base   *url.URL
	logger *logrus.Logger
}

// NewClient parses the base URL once so request paths can be joined cheaply.
func NewClient(client *http.Client, baseURL string, logger *logrus.Logger) (*Client, error) {
	if client == nil {
		return nil, fmt.Errorf("http client is required")
	}
	base, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid API base URL: %s", baseURL)
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Client{client: client, base: base, logger: logger}, nil
}

// ExistsBySlug probes the categories endpoint. A 404 is a clean negative;
// transport errors, unexpected statuses, and undecodable payloads are
// returned as errors for the caller to degrade on.
func (c *Client) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	endpoint := c.base.JoinPath("categories", "slug", slug)

	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return false, fmt.Errorf("category lookup: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var category Category
		if err := json.NewDecoder(resp.Body).Decode(&category); err != nil {
			return false, &DecodeError{Endpoint: endpoint.Path, Err: err}
		}
		if err := category.validate(); err != nil {
			return false, &DecodeError{Endpoint: endpoint.Path, Err: err}
		}
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("category lookup: unexpected status %d", resp.StatusCode)
	}
}

// BusinessBySlug fetches a single business record, including its weekly
// working hours.
func (c *Client) BusinessBySlug(ctx context.Context, slug string) (*Business, error) {
	endpoint := c.base.JoinPath("businesses", "slug", slug)

	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("business lookup: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var business Business
		if err := json.NewDecoder(resp.Body).Decode(&business); err != nil {
			return nil, &DecodeError{Endpoint: endpoint.Path, Err: err}
		}
		if err := business.validate(); err != nil {
			return nil, &DecodeError{Endpoint: endpoint.Path, Err: err}
		}
		return &business, nil
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("business lookup: unexpected status %d", resp.StatusCode)
	}
}

func (c *Client) get(ctx context.Context, endpoint *url.URL) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), http.NoBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return c.client.Do(req)
}
