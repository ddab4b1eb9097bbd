package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrymomot/storefront/pkg/logger"
)

// Client is a thin typed wrapper over the storefront HTTP API.
//
// A single Client is shared by the whole process. Per-visitor clients are
// derived with WithTokens; they share the connection pool and differ only
// in where the bearer token comes from.
type Client struct {
	http      *http.Client
	base      *url.URL
	headers   http.Header
	tokens    TokenStore
	validate  *validator.Validate
	logger    *slog.Logger
	userAgent string
	timeout   time.Duration
}

// New creates a client for the API rooted at baseURL (e.g. "http://localhost:5000/api").
//
// Example:
//
//	api, err := apiclient.New(cfg.BaseURL(),
//	    apiclient.WithTimeout(5*time.Second),
//	    apiclient.WithLogger(log),
//	)
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, errors.Join(ErrInvalidBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")

	c := &Client{
		base:      u,
		headers:   make(http.Header),
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		logger:    logger.NewNope(),
		userAgent: defaultUserAgent,
		timeout:   defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	return c, nil
}

// WithTokens returns a shallow copy of the client that reads and purges
// the bearer token through ts.
func (c *Client) WithTokens(ts TokenStore) *Client {
	cp := *c
	cp.tokens = ts
	return &cp
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Ping checks that the API answers at all. Any response below 500 counts as up.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.base.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Join(ErrNetwork, err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		return &Error{Status: resp.StatusCode}
	}
	return nil
}

// do performs a JSON request against path and decodes the response into out.
//
// The bearer token is attached when the TokenStore has one. A 401 response
// purges the token before returning; the caller decides where to navigate.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("apiclient: encode %s %s: %w", method, path, err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), payload)
	if err != nil {
		return fmt.Errorf("apiclient: build %s %s: %w", method, path, err)
	}
	for k, vs := range c.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token, ok := c.tokens.Token(ctx); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.logger.WarnContext(ctx, "api request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%w: %s %s: %w", ErrNetwork, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("%w: read %s %s: %w", ErrNetwork, method, path, err)
	}

	c.logger.DebugContext(ctx, "api request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode == http.StatusUnauthorized && c.tokens != nil {
		if err := c.tokens.DeleteToken(ctx); err != nil {
			c.logger.ErrorContext(ctx, "failed to purge rejected token", slog.String("error", err.Error()))
		}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return newError(resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return fmt.Errorf("%w: %s %s: empty body", ErrInvalidResponse, method, path)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrInvalidResponse, method, path, err)
	}
	return nil
}

// check validates a decoded response against its struct tags.
func (c *Client) check(v any) error {
	if err := c.validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	return nil
}

// endpoint joins the base URL with an already escaped path.
func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.base
	raw := c.base.EscapedPath() + "/" + strings.TrimPrefix(path, "/")
	u.Path, _ = url.PathUnescape(raw)
	u.RawPath = raw
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// segment escapes an id for use as a single path segment. Dot segments are
// encoded too so an id can never walk up the API path.
func segment(id ID) string {
	s := url.PathEscape(string(id))
	if s == "." || s == ".." {
		return strings.ReplaceAll(s, ".", "%2E")
	}
	return s
}
