// ABOUTME: Failure taxonomy and normalization for vault service calls
// ABOUTME: Every gateway failure is an *APIError wrapping one sentinel

package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors for the gateway failure taxonomy. Callers match with
// errors.Is; the concrete error is always *APIError.
var (
	ErrTimeout         = errors.New("request timed out")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrRequestFailed   = errors.New("request failed")
	ErrUnexpectedShape = errors.New("unexpected response shape")
)

// APIError is the normalized form of every gateway failure. StatusCode
// is zero for failures that never produced a response (network errors,
// timeouts). Body holds the raw response body when one was read.
type APIError struct {
	StatusCode int
	Body       []byte
	Message    string
	kind       error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.kind
}

// newStatusError builds the APIError for a non-2xx response.
func newStatusError(status int, body []byte) *APIError {
	kind := ErrRequestFailed
	if status == http.StatusUnauthorized {
		kind = ErrUnauthorized
	}
	return &APIError{
		StatusCode: status,
		Body:       body,
		Message:    messageFromBody(body, fmt.Sprintf("Request failed with status %d", status)),
		kind:       kind,
	}
}

// messageFromBody extracts a user-facing message from a response body.
// Preference order: a structured {"message": ...} field, then the raw
// body text, then the fallback. First non-empty wins.
func messageFromBody(body []byte, fallback string) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return fallback
	}

	var structured struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &structured); err == nil && structured.Message != "" {
		return structured.Message
	}

	// Raw bodies can be arbitrary; keep them short enough to render inline.
	const maxInline = 512
	if len(trimmed) > maxInline {
		trimmed = trimmed[:maxInline]
	}
	return trimmed
}
