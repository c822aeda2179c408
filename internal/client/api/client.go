// Package api is the HTTP client for the NoteKeeper REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/notekeeperapp/notekeeper/internal/ratelimit"
)

const (
	defaultTimeout = 30 * time.Second

	// Outbound limit per server host. Keystroke-driven search is debounced
	// upstream, so this only bounds runaway loops.
	defaultRPS   = 20.0
	defaultBurst = 20

	userAgent = "NoteKeeper-Client/1.0"
)

// TokenStore persists the access token between requests and sessions.
type TokenStore interface {
	Token() (string, error)
	SetToken(token string) error
	ClearToken() error
}

// MemoryTokenStore keeps the token in memory only.
type MemoryTokenStore struct {
	mu    sync.RWMutex
	token string
}

// Token returns the stored token, or "" when none is stored.
func (m *MemoryTokenStore) Token() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, nil
}

// SetToken stores token.
func (m *MemoryTokenStore) SetToken(token string) error {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return nil
}

// ClearToken removes the stored token.
func (m *MemoryTokenStore) ClearToken() error {
	return m.SetToken("")
}

// Options configures a Client.
type Options struct {
	BaseURL string
	Timeout time.Duration

	RequestsPerSecond float64
	Burst             int

	// HTTPClient overrides the transport. Its Timeout is replaced by Timeout
	// when Timeout is set.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client is a rate-limited NoteKeeper API client. It is safe for concurrent use.
type Client struct {
	base    *url.URL
	http    *http.Client
	tokens  TokenStore
	limiter *ratelimit.KeyedRateLimiter
	logger  *slog.Logger
}

// New creates a client for the server at opts.BaseURL.
func New(tokens TokenStore, opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("server url %q must use http or https", opts.BaseURL)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("server url %q has no host", opts.BaseURL)
	}

	if tokens == nil {
		tokens = &MemoryTokenStore{}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = defaultRPS
	}
	if opts.Burst <= 0 {
		opts.Burst = defaultBurst
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	httpClient := &http.Client{}
	if opts.HTTPClient != nil {
		clone := *opts.HTTPClient
		httpClient = &clone
	}
	httpClient.Timeout = opts.Timeout

	return &Client{
		base:    base,
		http:    httpClient,
		tokens:  tokens,
		limiter: ratelimit.New(opts.RequestsPerSecond, opts.Burst),
		logger:  opts.Logger,
	}, nil
}

// Close releases resources held by the client.
func (c *Client) Close() {
	c.limiter.Stop()
}

// Tokens returns the token store the client authenticates with.
func (c *Client) Tokens() TokenStore {
	return c.tokens
}

// BaseURL returns the server address.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// do executes one request. body is JSON encoded when non-nil and out is
// decoded from the response unless the server answered 204.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	contentType := ""
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
		contentType = "application/json"
	}
	return c.send(ctx, method, path, query, reader, contentType, out)
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	if err := c.limiter.Wait(ctx, c.base.Host); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	u := *c.base
	u.Path = c.base.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	token, err := c.tokens.Token()
	if err != nil {
		return fmt.Errorf("read token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("api request failed",
			"request_id", requestID,
			"method", method,
			"path", path,
			"error", err,
		)
		return wrapTransport(method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("api request",
		"request_id", requestID,
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		_, _ = io.Copy(io.Discard, resp.Body)
		if err := c.tokens.ClearToken(); err != nil {
			c.logger.Warn("failed to clear token", "error", err)
		}
		return ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &Error{Status: resp.StatusCode, Message: readDetail(resp.Body)}
	case resp.StatusCode == http.StatusNoContent || out == nil:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func readDetail(r io.Reader) string {
	var body errorBody
	if err := json.NewDecoder(io.LimitReader(r, 1<<20)).Decode(&body); err != nil || body.Detail == "" {
		return DefaultErrorMessage
	}
	return body.Detail
}

// idPath builds a path with an escaped id segment, e.g. idPath("/api/books/%s", id).
func idPath(format string, id ID) string {
	return fmt.Sprintf(format, url.PathEscape(string(id)))
}

