// Package api provides the HTTP client for the remote library service. The
// service owns all durable state; this client is a thin, typed veneer over
// its REST endpoints with no caching or retries of its own.
package api

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/biblioteca-app/circ/internal/config"
	"github.com/biblioteca-app/circ/internal/errors"
	"github.com/biblioteca-app/circ/internal/id"
)

// maxErrorBody bounds how much of an error response is read into the
// user-facing message.
const maxErrorBody = 2048

// Client talks to the library service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// New creates a client for the service at cfg.BaseURL.
func New(cfg config.ServiceConfig, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		logger:     logger,
	}
}

// do issues one request and decodes the response into out (when non-nil).
// Transport failures map to CONNECTIVITY; non-2xx statuses map through
// errors.FromStatus, carrying the response body as the message when the
// service supplies one.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return errors.Wrap(err, errors.CodeConnectivity, "rate limit wait")
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, errors.CodeInternal, "encode request body")
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "create request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	reqID := id.MustGenerate("req")
	req.Header.Set("X-Request-ID", reqID)

	c.logger.Debug("api request",
		"method", method,
		"path", path,
		"request_id", reqID,
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Connectivity("library service unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.errorFromResponse(method, path, resp)
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.UnmarshalRead(resp.Body, out); err != nil {
			return errors.Wrapf(err, errors.CodeInternal, "decode %s %s response", method, path)
		}
	}

	return nil
}

// errorFromResponse turns a non-2xx response into a coded domain error.
func (c *Client) errorFromResponse(method, path string, resp *http.Response) error {
	code := errors.FromStatus(resp.StatusCode)

	msg := ""
	if data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)); err == nil {
		msg = strings.TrimSpace(string(data))
	}
	// Some endpoints wrap the message in a JSON object or bare string.
	msg = strings.Trim(msg, `"`)
	if msg == "" || strings.HasPrefix(msg, "{") {
		msg = http.StatusText(resp.StatusCode)
	}

	c.logger.Debug("api error response",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"code", string(code),
	)

	return errors.New(code, msg)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}
