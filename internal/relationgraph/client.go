// Copyright ContinuousC. Licensed under the "Elastic License 2.0".

package relationgraph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultTimeout is the per-request timeout applied to the publisher's
// HTTP client, matching the reference implementation's reqwest client.
const DefaultTimeout = 60 * time.Second

// PublisherStatusError is returned when the downstream service responds
// with a non-2xx status (spec §7, "publisher-status").
type PublisherStatusError struct {
	Status int
	Body   string
}

func (e *PublisherStatusError) Error() string {
	return fmt.Sprintf("relation graph publish failed: status %d: %s", e.Status, e.Body)
}

// Client publishes items-and-relations documents to a relation-graph
// service.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
}

// NewClient builds a Client targeting baseURL.
func NewClient(baseURL string) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid relation graph url: %w", err)
	}
	return &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    u,
	}, nil
}

// Publish sends items to the service via PUT <base>/items.
func (c *Client) Publish(ctx context.Context, items *Items) error {
	body, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}

	target := c.baseURL.JoinPath("items")
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target.String(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build publish request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-PROXY-ROLE", "Editor")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("publish items: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		respBody, _ := io.ReadAll(res.Body)
		return &PublisherStatusError{Status: res.StatusCode, Body: string(respBody)}
	}
	return nil
}
