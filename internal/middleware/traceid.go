package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/socialchef/hogwarts-kitchen/internal/services/portkey"
)

type contextKey string

const TraceIDKey contextKey = "traceID"

// maxTraceIDLen bounds client-supplied ids before they are forwarded upstream.
const maxTraceIDLen = 128

// TraceID tags each request with a trace id: the caller's x-portkey-trace-id
// when it is usable, a fresh UUID otherwise. The id is echoed on the response.
func TraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(portkey.HeaderTraceID)
		if !validTraceID(id) {
			id = uuid.New().String()
		}

		w.Header().Set(portkey.HeaderTraceID, id)
		next.ServeHTTP(w, r.WithContext(WithTraceID(r.Context(), id)))
	})
}

// WithTraceID stores id in ctx.
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, TraceIDKey, id)
}

// GetTraceID extracts the trace id from request context
func GetTraceID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(TraceIDKey).(string)
	return id, ok && id != ""
}

func validTraceID(id string) bool {
	if id == "" || len(id) > maxTraceIDLen {
		return false
	}
	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_', c == '.', c == ':':
		default:
			return false
		}
	}
	return true
}
