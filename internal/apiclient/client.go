// Package apiclient is the JSON-over-HTTP client for the remote hospital API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/hospital-portal/internal/config"
	apperrors "github.com/spec-kit/hospital-portal/pkg/util"
)

var (
	// ErrUnreachable marks calls that never reached the API (connection refused,
	// DNS failure, reset before a response).
	ErrUnreachable = apperrors.NewDomainError("UPSTREAM_UNAVAILABLE", "api server unreachable", http.StatusServiceUnavailable, nil)
	// ErrTimeout marks calls abandoned because of the per-call timeout or a
	// canceled context.
	ErrTimeout = apperrors.NewDomainError("UPSTREAM_TIMEOUT", "api call timed out", http.StatusGatewayTimeout, nil)
	// ErrBadResponse marks calls that got a response whose body could not be
	// read to the end. The API answered, so this is never ErrUnreachable.
	ErrBadResponse = apperrors.NewDomainError("UPSTREAM_BAD_RESPONSE", "api response truncated", http.StatusBadGateway, nil)
)

// Client sends JSON requests to the API base URL.
type Client struct {
	base    *url.URL
	http    *http.Client
	timeout time.Duration
	logger  *zap.Logger
}

// New builds a client. transport is the outbound stage chain; nil means
// http.DefaultTransport.
func New(cfg config.APIConfig, transport http.RoundTripper, logger *zap.Logger) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid API base url %q", cfg.BaseURL)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &Client{
		base:    base,
		http:    &http.Client{Transport: transport},
		timeout: cfg.Timeout(),
		logger:  logger.Named("apiclient"),
	}, nil
}

// Get fetches endpoint and decodes the body into T.
func Get[T any](ctx context.Context, c *Client, endpoint string) (T, error) {
	var out T
	err := c.do(ctx, http.MethodGet, endpoint, nil, &out)
	return out, err
}

// Post sends body to endpoint and decodes the answer into Resp.
func Post[Req any, Resp any](ctx context.Context, c *Client, endpoint string, body Req) (Resp, error) {
	var out Resp
	err := c.do(ctx, http.MethodPost, endpoint, body, &out)
	return out, err
}

// Put replaces the resource at endpoint and decodes the answer into Resp.
func Put[Req any, Resp any](ctx context.Context, c *Client, endpoint string, body Req) (Resp, error) {
	var out Resp
	err := c.do(ctx, http.MethodPut, endpoint, body, &out)
	return out, err
}

// Delete removes the resource at endpoint.
func Delete(ctx context.Context, c *Client, endpoint string) error {
	return c.do(ctx, http.MethodDelete, endpoint, nil, nil)
}

func (c *Client) resolve(endpoint string) (string, error) {
	ref, err := url.Parse(strings.TrimPrefix(endpoint, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	return c.base.ResolveReference(ref).String(), nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	target, err := c.resolve(endpoint)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, endpoint, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		err = classify(ctx, method, endpoint, err)
		c.logger.Error("api call failed", zap.String("method", method), zap.String("endpoint", endpoint), zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		err = classifyRead(ctx, method, endpoint, err)
		c.logger.Error("api response unreadable", zap.String("method", method), zap.String("endpoint", endpoint), zap.Int("status", resp.StatusCode), zap.Error(err))
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := apperrors.NewUpstreamError(resp.StatusCode, method, endpoint, string(data))
		c.logger.Error("api call rejected", zap.String("method", method), zap.String("endpoint", endpoint), zap.Int("status", resp.StatusCode))
		return err
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, endpoint, err)
	}
	return nil
}

func classify(ctx context.Context, method, endpoint string, err error) error {
	var urlErr *url.Error
	if ctx.Err() != nil || (errors.As(err, &urlErr) && urlErr.Timeout()) {
		return fmt.Errorf("%s %s: %w: %w", method, endpoint, ErrTimeout, err)
	}
	return fmt.Errorf("%s %s: %w: %w", method, endpoint, ErrUnreachable, err)
}

func classifyRead(ctx context.Context, method, endpoint string, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s %s: %w: %w", method, endpoint, ErrTimeout, err)
	}
	return fmt.Errorf("%s %s: %w: %w", method, endpoint, ErrBadResponse, err)
}
