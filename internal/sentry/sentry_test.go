package sentry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/socialchef/hogwarts-kitchen/internal/middleware"
)

func TestInit_EmptyDSN(t *testing.T) {
	if err := Init("", "test", "hogwarts-kitchen", "1.0.0"); err != nil {
		t.Errorf("expected nil error for empty DSN, got %v", err)
	}
}

func TestCaptureError_NoClient(t *testing.T) {
	// Without an initialised client both paths are no-ops.
	CaptureError(context.Background(), errors.New("boom"))
	CaptureError(context.Background(), nil)
}

func TestHTTPMiddleware_RecoversPanic(t *testing.T) {
	handler := middleware.TraceID(HTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("cauldron exploded")
	})))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, rr.Code)
	}
}

func TestHTTPMiddleware_PassesThrough(t *testing.T) {
	handler := HTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	if rr.Code != http.StatusTeapot {
		t.Errorf("expected status %d, got %d", http.StatusTeapot, rr.Code)
	}
}
