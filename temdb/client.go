// Package temdb is a Go client for the TEMdb electron-microscopy metadata
// service.
//
// The client exposes one create operation per resource type in the domain
// hierarchy (specimen → block → cutting session → section → ROI → imaging
// session → acquisition → tile). Every create returns the stored record as
// echoed back by the server, including server-assigned fields such as the
// opaque _id.
//
// Failures map onto the sentinel taxonomy in the errors package: a 404 from
// the server surfaces as errors.ErrNotFound; anything else is a generic
// client error. Check with errors.IsNotFoundError.
package temdb

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/temdb/temdb-go/errors"
	"github.com/temdb/temdb-go/internal/httpclient"
	"github.com/temdb/temdb-go/logger"
)

const (
	apiPrefix = "/api/v1"

	// DefaultTimeout bounds a single create call end to end
	DefaultTimeout = 30 * time.Second
)

// Client is a TEMdb API client. Construct with NewClient and release with
// Close; the zero value is not usable.
type Client struct {
	baseURL    string
	httpClient *httpclient.Client
	limiter    *rate.Limiter
	userAgent  string
	log        *zap.SugaredLogger
}

// Option customizes a Client
type Option func(*Client)

// WithTimeout overrides the per-request timeout (default 30s)
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient = httpclient.New(d)
	}
}

// WithLogger attaches a structured logger. Without it the client is silent.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// WithRateLimit throttles the client to at most rps requests per second.
// Useful when seeding a shared TEMdb instance that others are working against.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithUserAgent overrides the User-Agent header sent with every request
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithHTTPClient replaces the underlying HTTP client.
// Intended for tests pointing at an httptest.Server.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpclient.WrapClient(hc)
	}
}

// NewClient creates a TEMdb client for the server at baseURL
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid TEMdb URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Newf("invalid TEMdb URL %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, errors.Newf("invalid TEMdb URL %q: missing host", baseURL)
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpclient.New(DefaultTimeout),
		userAgent:  "temdb-go",
		log:        zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Close releases the client's idle connections. Always pair a successful
// NewClient with a deferred Close so the connection pool is torn down on
// every exit path.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// post issues a JSON POST and decodes the server's echo of the stored record
// into out. Non-2xx statuses map onto the client error taxonomy.
func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return errors.Wrap(err, "rate limiter")
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "failed to marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+apiPrefix+path, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "POST %s failed", path)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "POST %s: failed to read response", path)
	}

	c.log.Debugw("temdb request",
		logger.FieldMethod, http.MethodPost,
		logger.FieldPath, path,
		logger.FieldStatus, resp.StatusCode,
		logger.FieldRequestID, requestID,
		logger.FieldDurationMS, time.Since(start).Milliseconds(),
	)

	if err := statusToError(resp.StatusCode, path, respBody); err != nil {
		return err
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return errors.Wrapf(err, "POST %s: failed to unmarshal response", path)
		}
	}
	return nil
}

// statusToError maps an HTTP status onto the client error taxonomy
func statusToError(status int, path string, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}

	detail := strings.TrimSpace(string(body))
	switch status {
	case http.StatusNotFound:
		return errors.WrapNotFound(errors.Newf("POST %s: %s", path, detail), "resource not found")
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return errors.Wrapf(errors.ErrInvalidRequest, "POST %s: %s", path, detail)
	case http.StatusConflict:
		return errors.Wrapf(errors.ErrConflict, "POST %s: %s", path, detail)
	default:
		return errors.Newf("POST %s: request failed with status %d: %s", path, status, detail)
	}
}
