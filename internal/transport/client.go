// Package transport provides the authenticated HTTP client shared by the
// Falcon and Jira adapters. Non-2xx responses are surfaced as typed API
// errors so callers can distinguish rate limiting, auth failures, and
// transient server errors.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Jarhead00/falcon2jira/pkg/errors"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
const DefaultHTTPTimeout = 30 * time.Second

// maxErrorBody caps how much of an error response body is kept for messages.
const maxErrorBody = 4096

// Client provides HTTP client functionality with authentication.
type Client struct {
	http    *http.Client
	auth    Authenticator
	service string
}

// New creates a new transport client for the named service ("falcon" or
// "jira") with the specified authenticator.
func New(service string, auth Authenticator) *Client {
	if auth == nil {
		auth = &NoAuth{}
	}
	return &Client{
		http:    &http.Client{Timeout: DefaultHTTPTimeout},
		auth:    auth,
		service: service,
	}
}

// Do performs an HTTP request with authentication applied and, when out is
// non-nil, decodes a successful JSON response into it.
func (c *Client) Do(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s request body: %w", method, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("creating %s %s request: %w", method, url, err)
	}
	if err := c.auth.Apply(req); err != nil {
		return fmt.Errorf("authenticating %s request: %w", c.service, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return c.wrapTransportErr(url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return errors.NewAPIError(c.service, resp.StatusCode, url, string(msg))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errors.WrapAPI(c.service, resp.StatusCode, url, err)
		}
	}
	return nil
}

// wrapTransportErr wraps a request-level failure as an APIError, tagging
// deadline expiries with ErrTimeout so callers can match them.
func (c *Client) wrapTransportErr(url string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		err = fmt.Errorf("%w: %v", errors.ErrTimeout, err)
	}
	return errors.WrapAPI(c.service, 0, url, err)
}

// Get performs a GET request decoding the JSON response into out.
func (c *Client) Get(ctx context.Context, url string, out any) error {
	return c.Do(ctx, http.MethodGet, url, nil, out)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, url string, body, out any) error {
	return c.Do(ctx, http.MethodPost, url, body, out)
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, url string, body, out any) error {
	return c.Do(ctx, http.MethodPut, url, body, out)
}

// PostForm performs a POST with URL-encoded form data, used for the Falcon
// OAuth2 token endpoint.
func (c *Client) PostForm(ctx context.Context, url string, form string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBufferString(form))
	if err != nil {
		return fmt.Errorf("creating POST %s request: %w", url, err)
	}
	if err := c.auth.Apply(req); err != nil {
		return fmt.Errorf("authenticating %s request: %w", c.service, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return c.wrapTransportErr(url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return errors.NewAPIError(c.service, resp.StatusCode, url, string(msg))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errors.WrapAPI(c.service, resp.StatusCode, url, err)
		}
	}
	return nil
}
