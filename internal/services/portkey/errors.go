package portkey

import (
	"context"
	"errors"
	"net/http"
	"strings"

	apperrors "github.com/socialchef/hogwarts-kitchen/internal/errors"
)

// Error codes attached to gateway AppErrors.
const (
	CodeUnreachable = "GATEWAY_UNREACHABLE"
	CodeStatus      = "GATEWAY_STATUS"
	CodeMalformed   = "GATEWAY_MALFORMED_RESPONSE"
	CodeNoChoices   = "GATEWAY_NO_CHOICES"
)

// Failure is a classified gateway error, used for log and metric labels only.
// Callers still treat every failure the same way.
type Failure struct {
	Type    string // "timeout", "network", "auth", "rate_limit", "server_error", "client_error", "malformed_response", "no_choices", "unknown"
	Message string
	Route   string
}

// Error implements the error interface
func (e *Failure) Error() string {
	return e.Message
}

// ClassifyError analyzes an error and returns a Failure with classification
func ClassifyError(err error, route string) *Failure {
	if err == nil {
		return nil
	}

	msg := err.Error()
	failure := func(kind string) *Failure {
		return &Failure{Type: kind, Message: msg, Route: route}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return failure("timeout")
	}
	if errors.Is(err, ErrNoChoices) {
		return failure("no_choices")
	}

	if appErr, ok := apperrors.As(err); ok && appErr.Type == apperrors.ErrorTypeGateway {
		switch appErr.Code() {
		case CodeMalformed:
			return failure("malformed_response")
		case CodeNoChoices:
			return failure("no_choices")
		case CodeUnreachable:
			if containsSubstring(msg, "timeout") || containsSubstring(msg, "deadline exceeded") {
				return failure("timeout")
			}
			return failure("network")
		}
		if kind := classifyStatus(appErr.StatusCode); kind != "" {
			return failure(kind)
		}
	}

	// Message-based fallbacks for errors raised outside this package
	switch {
	case containsSubstring(msg, "timeout") || containsSubstring(msg, "deadline exceeded"):
		return failure("timeout")
	case containsSubstring(msg, "status 429") || containsSubstring(msg, "rate limit") || containsSubstring(msg, "too many requests"):
		return failure("rate_limit")
	case containsSubstring(msg, "status 401") || containsSubstring(msg, "status 403") || containsSubstring(msg, "unauthorized") || containsSubstring(msg, "forbidden"):
		return failure("auth")
	case containsSubstring(msg, "status 5") || containsSubstring(msg, "server error"):
		return failure("server_error")
	case containsSubstring(msg, "status 4") || containsSubstring(msg, "bad request"):
		return failure("client_error")
	case containsSubstring(msg, "connection refused") || containsSubstring(msg, "no such host") || containsSubstring(msg, "connection reset"):
		return failure("network")
	}

	return failure("unknown")
}

func classifyStatus(status int) string {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return "auth"
	case status == http.StatusTooManyRequests:
		return "rate_limit"
	case status >= 500:
		return "server_error"
	case status >= 400:
		return "client_error"
	default:
		return ""
	}
}

// containsSubstring checks if a string contains a substring (case-insensitive)
func containsSubstring(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
