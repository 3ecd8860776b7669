// Package source fetches raw content over HTTP and classifies failures
// into the fetch error taxonomy.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/segv/websegment/fetch"
)

const (
	DefaultTimeout = 15 * time.Second
	DefaultMaxBody = 8 << 20

	// detailLimit bounds how much of an error body is read for a detail message.
	detailLimit = 64 << 10
)

// Client resolves origin-relative references and GETs them. It is safe for
// concurrent use.
type Client struct {
	origin  *url.URL
	http    *http.Client
	maxBody int64
	agent   string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout of the underlying transport.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the transport. Its timeout is kept as is.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithMaxBody caps the size of a response body.
func WithMaxBody(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBody = n
		}
	}
}

// WithUserAgent sets the User-Agent header sent with each request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.agent = ua
	}
}

// New returns a Client resolving references against origin, which must be
// an absolute http(s) URL.
func New(origin string, opts ...Option) (*Client, error) {
	u, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("websegment: parse origin: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("websegment: origin %q is not an absolute http(s) URL", origin)
	}
	c := &Client{
		origin:  u,
		http:    &http.Client{Timeout: DefaultTimeout},
		maxBody: DefaultMaxBody,
		agent:   "websegment",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Origin is the base every relative reference resolves against.
func (c *Client) Origin() string {
	return c.origin.String()
}

// Resolve turns ref into an absolute URL. Absolute references are
// returned unchanged.
func (c *Client) Resolve(ref string) (string, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", &fetch.TransportError{URL: ref, Err: err}
	}
	return c.origin.ResolveReference(u).String(), nil
}

// Get fetches ref and returns the body of a 2xx response. A 404 is a
// *fetch.NotFoundError; any other status, a network failure or an
// oversized body is a *fetch.TransportError. When the remote explains a
// failure with a JSON {"detail": "..."} body, the detail becomes the error
// text.
func (c *Client) Get(ctx context.Context, ref string) ([]byte, error) {
	target, err := c.Resolve(ref)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &fetch.TransportError{URL: target, Err: err}
	}
	if c.agent != "" {
		req.Header.Set("User-Agent", c.agent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &fetch.TransportError{URL: target, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, &fetch.NotFoundError{URL: target}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &fetch.TransportError{
			URL:    target,
			Status: resp.StatusCode,
			Detail: detail(resp.Body),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, &fetch.TransportError{URL: target, Status: resp.StatusCode, Err: err}
	}
	if int64(len(body)) > c.maxBody {
		return nil, &fetch.TransportError{
			URL:    target,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("response body for %s exceeds %d bytes", target, c.maxBody),
		}
	}
	return body, nil
}

func detail(r io.Reader) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.NewDecoder(io.LimitReader(r, detailLimit)).Decode(&payload); err != nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(payload.Detail, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(string(payload.Detail))
}
