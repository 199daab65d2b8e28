package tools

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/mark3labs/mcp-go/mcp"
)

// requireInt extracts a required positive integer argument. JSON numbers
// arrive as float64; int is accepted for direct in-process callers.
func requireInt(args map[string]any, name string) (int, error) {
	value, ok := args[name]
	if !ok {
		return 0, fmt.Errorf("%s parameter is required", name)
	}
	n, err := toInt(value, name)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be positive", name)
	}
	return n, nil
}

// optionalInt extracts an optional positive integer argument, returning
// nil when absent.
func optionalInt(args map[string]any, name string) (*int, error) {
	value, ok := args[name]
	if !ok || value == nil {
		return nil, nil
	}
	n, err := toInt(value, name)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, fmt.Errorf("%s must be positive", name)
	}
	return &n, nil
}

// intOr extracts an optional integer argument with a default, without
// the positivity requirement (offset may be zero).
func intOr(args map[string]any, name string, fallback int) (int, error) {
	value, ok := args[name]
	if !ok || value == nil {
		return fallback, nil
	}
	n, err := toInt(value, name)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%s must not be negative", name)
	}
	return n, nil
}

func toInt(value any, name string) (int, error) {
	switch v := value.(type) {
	case float64:
		// JSON has no integer type; a fractional number must not be
		// truncated into a different id than the caller wrote.
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("%s must be an integer", name)
		}
		return int(v), nil
	case int:
		return v, nil
	default:
		return 0, fmt.Errorf("%s must be an integer", name)
	}
}

// requireString extracts a required non-empty string argument.
func requireString(args map[string]any, name string) (string, error) {
	value, ok := args[name]
	if !ok {
		return "", fmt.Errorf("%s parameter is required", name)
	}
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", name)
	}
	if s == "" {
		return "", fmt.Errorf("%s must not be empty", name)
	}
	return s, nil
}

// optionalString extracts an optional string argument, returning nil
// when absent or empty.
func optionalString(args map[string]any, name string) (*string, error) {
	value, ok := args[name]
	if !ok || value == nil {
		return nil, nil
	}
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("%s must be a string", name)
	}
	if s == "" {
		return nil, nil
	}
	return &s, nil
}

// stringOr extracts an optional string argument with a default.
func stringOr(args map[string]any, name, fallback string) (string, error) {
	ptr, err := optionalString(args, name)
	if err != nil {
		return "", err
	}
	if ptr == nil {
		return fallback, nil
	}
	return *ptr, nil
}

// passthrough turns a raw Redmine response into a tool result. Empty
// bodies (successful DELETE) become a minimal acknowledgment so the
// host always receives valid JSON.
func passthrough(raw json.RawMessage) *mcp.CallToolResult {
	if len(raw) == 0 {
		raw = json.RawMessage(`{"success":true}`)
	}
	return mcp.NewToolResultText(string(raw))
}

// failure maps a client error onto a failed tool call. Transport, API
// and decode errors all surface here; APIError messages carry the
// remote status code.
func failure(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(err.Error())
}
