// Package transport performs the single outbound HTTPS POST made per invocation.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"explainer/internal/logging"
)

// Request describes one POST. Body is sent verbatim.
type Request struct {
	Hostname string
	Path     string // may carry a query string
	Headers  map[string]string
	Body     string
}

// StatusError is returned for any non-2xx response. The response body is
// logged but not attached.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP status code %d", e.StatusCode)
}

// Client sends Requests over HTTPS.
type Client struct {
	httpClient *http.Client
	log        *slog.Logger
}

// New returns a Client. A nil httpClient uses http.DefaultClient and a nil
// logger uses slog.Default(). The client is copied so redirects are never
// followed: a 3xx comes back as a StatusError.
func New(httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	hc := *httpClient
	hc.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return &Client{httpClient: &hc, log: logger}
}

// Post sends r and decodes a 2xx response body as JSON into T.
// A body that is not valid JSON is returned as the decoding error.
func Post[T any](ctx context.Context, c *Client, r Request) (*T, error) {
	raw, err := c.do(ctx, r)
	if err != nil {
		return nil, err
	}

	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		c.log.Warn("https post: response is not JSON", "host", r.Hostname, "error", err)
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, r Request) ([]byte, error) {
	path := logging.RedactKey(r.Path)
	c.log.Info("https post: preparing request", "host", r.Hostname, "path", path)

	endpoint := "https://" + r.Hostname + r.Path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(r.Body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", redactURLError(err))
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		err = redactURLError(err)
		c.log.Error("https post: request error", "host", r.Hostname, "path", path, "error", err)
		return nil, err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		err = redactURLError(err)
		c.log.Error("https post: reading response", "host", r.Hostname, "status", res.StatusCode, "error", err)
		return nil, fmt.Errorf("read response: %w", err)
	}
	c.log.Info("https post: response received", "host", r.Hostname, "status", res.StatusCode, "bytes", len(raw))

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		c.log.Warn("https post: error response", "host", r.Hostname, "status", res.StatusCode, "body", truncate(string(raw), 2048))
		return nil, &StatusError{StatusCode: res.StatusCode}
	}

	c.log.Debug("https post: successful response", "host", r.Hostname, "body", truncate(string(raw), 2048))
	return raw, nil
}

// redactURLError strips the key query value from the URL that net/http
// embeds in its errors.
func redactURLError(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		uerr.URL = logging.RedactKey(uerr.URL)
	}
	return err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
