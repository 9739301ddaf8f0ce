// ABOUTME: HTTP client choke point attaching credentials and the call deadline
// ABOUTME: Funnels every response through one observation point for 401 handling

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout is the fixed upper bound on any single vault call.
const DefaultTimeout = 30 * time.Second

// CredentialSource supplies the current credential for outbound calls.
// The gateway re-reads it on every request rather than caching a copy.
type CredentialSource interface {
	Get() (string, error)
}

// Client wraps all HTTP traffic to the vault service.
type Client struct {
	baseURL string
	http    *http.Client
	creds   CredentialSource
	logger  *slog.Logger

	mu        sync.Mutex
	onExpired func()
}

// New creates a gateway client for the service at baseURL. A timeout of
// zero selects DefaultTimeout.
func New(baseURL string, timeout time.Duration, creds CredentialSource) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("base URL %q must include scheme and host", baseURL)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		creds:   creds,
		logger:  slog.Default().With("component", "gateway"),
	}, nil
}

// OnSessionExpired registers the single handler invoked when the service
// rejects a credential with 401. The handler must be idempotent: two
// in-flight requests can both observe a 401 and each fires the event
// once.
func (c *Client) OnSessionExpired(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onExpired = fn
}

// GetJSON performs a GET and decodes the JSON response into out. Pass a
// *json.RawMessage to defer shape interpretation to the caller.
func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	return c.roundTripJSON(ctx, http.MethodGet, path, nil, out)
}

// PostJSON performs a POST with a JSON body, decoding the response into
// out when out is non-nil.
func (c *Client) PostJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return &APIError{Message: "Failed to encode request", kind: ErrRequestFailed}
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.finishJSON(req, out)
}

// Delete performs a DELETE and discards any response body.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.roundTripJSON(ctx, http.MethodDelete, path, nil, nil)
}

// PostMultipart performs a multipart form upload with a single file
// field, decoding the response into out when out is non-nil.
func (c *Client) PostMultipart(ctx context.Context, path, field, filename string, r io.Reader, out any) error {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile(field, filename)
	if err != nil {
		return &APIError{Message: "Failed to encode upload", kind: ErrRequestFailed}
	}
	if _, err := io.Copy(part, r); err != nil {
		return &APIError{Message: fmt.Sprintf("Failed to read upload: %v", err), kind: ErrRequestFailed}
	}
	if err := form.Close(); err != nil {
		return &APIError{Message: "Failed to encode upload", kind: ErrRequestFailed}
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	return c.finishJSON(req, out)
}

// GetStream performs a GET and returns the raw response body for
// streaming reads. The caller must close it. Failures are normalized
// like every other call, including the 401 side effect.
func (c *Client) GetStream(ctx context.Context, path string) (io.ReadCloser, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// roundTripJSON is the shared GET/DELETE path.
func (c *Client) roundTripJSON(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	return c.finishJSON(req, out)
}

// finishJSON executes the request and decodes a JSON response body.
func (c *Client) finishJSON(req *http.Request, out any) error {
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("Failed to read response: %v", err),
			kind:       ErrRequestFailed,
		}
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &APIError{
			StatusCode: resp.StatusCode,
			Body:       data,
			Message:    "Unexpected response format",
			kind:       ErrUnexpectedShape,
		}
	}
	return nil
}

// newRequest builds a request with the bearer credential (when one
// exists) and a correlation ID attached.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, &APIError{Message: fmt.Sprintf("Invalid request: %v", err), kind: ErrRequestFailed}
	}

	cred, err := c.creds.Get()
	if err != nil {
		c.logger.Warn("reading credential failed, sending unauthenticated", "error", err)
	} else if cred != "" {
		req.Header.Set("Authorization", "Bearer "+cred)
	}
	req.Header.Set("X-Request-ID", uuid.New().String())
	return req, nil
}

// do executes the request and funnels the response through the single
// observation point: timeout and network failures are normalized, a 401
// fires the SessionExpired event, and any other non-2xx becomes a
// status error. On success the response is returned with its body open.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			c.logger.Warn("request timed out", "method", req.Method, "url", req.URL.Path)
			return nil, &APIError{Message: "Request timed out", kind: ErrTimeout}
		}
		c.logger.Warn("request failed", "method", req.Method, "url", req.URL.Path, "error", err)
		return nil, &APIError{Message: err.Error(), kind: ErrRequestFailed}
	}

	c.logger.Debug("request completed",
		"method", req.Method,
		"url", req.URL.Path,
		"status", resp.StatusCode,
		"duration", time.Since(start))

	if resp.StatusCode == http.StatusUnauthorized {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		c.notifyExpired()
		return nil, newStatusError(resp.StatusCode, body)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, newStatusError(resp.StatusCode, body)
	}
	return resp, nil
}

// notifyExpired fires the SessionExpired event. One handler, fired once
// per unauthorized response; safety under concurrent 401s comes from
// the handler's idempotence, not from suppression here.
func (c *Client) notifyExpired() {
	c.mu.Lock()
	fn := c.onExpired
	c.mu.Unlock()

	if fn == nil {
		c.logger.Warn("credential rejected but no session-expired handler registered")
		return
	}
	c.logger.Info("credential rejected, session expired")
	fn()
}

// isTimeout reports whether err represents the call-deadline being
// exceeded, either via the client timeout or the request context.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ue *url.Error
	return errors.As(err, &ue) && ue.Timeout()
}
