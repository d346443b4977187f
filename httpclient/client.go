package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Session is the part of the session store the client needs.
type Session interface {
	Token() (string, bool)
	ClearSession() error
}

// Client sends JSON requests to the forum backend, attaching the bearer
// token and turning every failure into an *Error.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	session Session
	nav     Navigator
}

type options struct {
	transport http.RoundTripper
	nav       Navigator
	retry     int
	timeout   time.Duration
}

type Option func(*options)

// WithTransport sets the underlying round tripper, e.g. the mock interceptor.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

func WithNavigator(nav Navigator) Option {
	return func(o *options) { o.nav = nav }
}

// WithRetry sets how many times transient failures of idempotent requests
// are retried. Zero disables retries.
func WithRetry(limit int) Option {
	return func(o *options) { o.retry = limit }
}

func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

func New(baseURL string, session Session, opts ...Option) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: scheme and host required", baseURL)
	}

	o := options{retry: 2, timeout: 30 * time.Second}
	for _, opt := range opts {
		opt(&o)
	}
	if o.nav == nil {
		o.nav = NewMemoryNavigator("/")
	}

	transport := o.transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	if o.retry > 0 {
		transport = &RetryTransport{Base: transport, Limit: o.retry}
	}

	return &Client{
		baseURL: base,
		http:    &http.Client{Transport: transport, Timeout: o.timeout},
		session: session,
		nav:     o.nav,
	}, nil
}

func (c *Client) Navigator() Navigator { return c.nav }

func (c *Client) resolve(path string) (string, error) {
	rel, err := url.Parse(path)
	if err != nil {
		return "", err
	}
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(rel.Path, "/")
	u.RawQuery = rel.RawQuery
	return u.String(), nil
}

// Do sends a request with body encoded as JSON (nil for none). On success
// the caller owns the response body. Non-2xx responses and transport
// failures come back as *Error with the body already closed.
func (c *Client) Do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	target, err := c.resolve(path)
	if err != nil {
		return nil, &Error{Kind: KindUnknown, Message: fmt.Sprintf("invalid request path %q", path), Err: err}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, &Error{Kind: KindUnknown, Message: "could not encode request body", Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, &Error{Kind: KindUnknown, Message: err.Error(), Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := c.session.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindNetworkError, Message: "Network connection failed", Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.handleUnauthorized()
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, errorFromResponse(resp)
	}
	return resp, nil
}

// JSON performs Do and decodes the response into out (nil to discard).
func (c *Client) JSON(ctx context.Context, method, path string, in, out any) error {
	resp, err := c.Do(ctx, method, path, in)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Kind: KindUnknown, Status: resp.StatusCode, Message: "invalid response body", Err: err}
	}
	return nil
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.JSON(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.JSON(ctx, http.MethodPost, path, in, out)
}

// handleUnauthorized drops the local session and sends the user to the
// login view, unless they are already there.
func (c *Client) handleUnauthorized() {
	if c.nav.CurrentPath() == LoginPath {
		return
	}
	if err := c.session.ClearSession(); err != nil {
		log.Printf("clearing session after 401: %v", err)
	}
	c.nav.Navigate(LoginPath)
}
