package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/smarthealth/internal/config"
	apperrors "github.com/jwalitptl/smarthealth/pkg/errors"
	"github.com/jwalitptl/smarthealth/pkg/httputil"
	"github.com/jwalitptl/smarthealth/pkg/logger"
	"github.com/jwalitptl/smarthealth/pkg/metrics"
)

const maxErrorBody = 1 << 20

// TokenSource supplies the bearer token for outgoing requests. An empty
// token means the request is sent unauthenticated.
type TokenSource interface {
	Token() string
}

type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// Client talks to the SmartHealth REST API
type Client struct {
	http      *http.Client
	baseURL   *url.URL
	tokens    TokenSource
	limiter   *rate.Limiter
	userAgent string
	log       *logger.Logger
	metrics   *metrics.Metrics
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

func New(cfg config.APIConfig, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse base url: %w", err)
	}

	limit := rate.Inf
	if cfg.RateLimitRPS > 0 {
		limit = rate.Limit(cfg.RateLimitRPS)
	}
	burst := cfg.RateLimitBurst
	if burst <= 0 {
		burst = 1
	}

	c := &Client{
		http:      &http.Client{Timeout: cfg.Timeout},
		baseURL:   base,
		tokens:    TokenFunc(func() string { return "" }),
		limiter:   rate.NewLimiter(limit, burst),
		userAgent: cfg.UserAgent,
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Do sends a JSON request and decodes the data member of the response
// envelope into out. body and out may be nil.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	var (
		reader      io.Reader
		contentType string
	)
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
		contentType = "application/json"
	}
	return c.send(ctx, method, path, query, reader, contentType, out)
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return apperrors.Network(fmt.Errorf("rate limiter: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path, query), body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.New().String()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resource := resourceOf(path)
	start := time.Now()
	resp, err := c.http.Do(req)
	elapsed := time.Since(start)

	if err != nil {
		c.metrics.ObserveRequest(resource, method, apperrors.KindNetwork.String(), elapsed)
		c.log.Debug("request failed", "request_id", requestID, "method", method, "path", path, "error", err.Error())
		return apperrors.Network(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		appErr := decodeError(resp)
		c.metrics.ObserveRequest(resource, method, appErr.Kind.String(), elapsed)
		c.log.Debug("request rejected",
			"request_id", requestID,
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"latency", elapsed.String(),
		)
		return appErr
	}

	c.metrics.ObserveRequest(resource, method, "success", elapsed)
	c.log.Debug("request completed",
		"request_id", requestID,
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"latency", elapsed.String(),
	)

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return decodeData(resp.Body, out)
}

func (c *Client) url(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func decodeData(r io.Reader, out interface{}) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return apperrors.Network(fmt.Errorf("failed to read response: %w", err))
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	var envelope httputil.Response[json.RawMessage]
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) *apperrors.AppError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var body httputil.ErrorBody
	message := ""
	if err := json.Unmarshal(raw, &body); err == nil {
		message = body.Message
		// a bare status text is no better than the generic message for server faults
		if resp.StatusCode < 500 {
			message = body.Text()
		}
	}
	return apperrors.FromStatus(resp.StatusCode, message)
}

func resourceOf(path string) string {
	path = strings.Trim(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		path = path[:i]
	}
	return path
}
