// Package redmine implements a client for the Redmine REST API.
// Every method issues exactly one HTTP request; nothing is cached or
// retried. Responses are passed through as raw JSON so callers see the
// same shapes the Redmine API documents.
package redmine

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// APIError is returned when Redmine answers with a non-2xx status.
// Detail carries the entries of the response's "errors" array when the
// body includes one (Redmine uses it for validation failures on writes).
type APIError struct {
	StatusCode int
	Message    string
	Detail     []string
}

func (e *APIError) Error() string {
	if len(e.Detail) > 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Message, e.StatusCode, strings.Join(e.Detail, "; "))
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

// TransportError is returned when no HTTP response arrived at all:
// connection refused, DNS failure, or a timeout.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError is returned when a 2xx response carries a body that is
// not valid JSON.
type DecodeError struct {
	StatusCode int
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("malformed response body (status %d): %v", e.StatusCode, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// newAPIError builds an APIError from a response status and body,
// mirroring the status-specific wording the Redmine API documentation
// suggests for its common failure modes.
func newAPIError(status int, body []byte) *APIError {
	msg := fmt.Sprintf("Redmine API error: %s", strings.TrimSpace(string(body)))
	switch {
	case status == 401:
		msg = "authentication failed, check your API key"
	case status == 403:
		msg = "access forbidden, check your permissions"
	case status == 404:
		msg = "resource not found"
	case status >= 500:
		msg = "Redmine server error"
	}

	var detail []string
	if result := gjson.GetBytes(body, "errors"); result.IsArray() {
		for _, entry := range result.Array() {
			detail = append(detail, entry.String())
		}
	}
	return &APIError{StatusCode: status, Message: msg, Detail: detail}
}
