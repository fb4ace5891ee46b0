// Package integration exercises the kitchen end to end: router, gateway
// clients and the Go controller, against an in-process fake gateway.
package integration

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/socialchef/hogwarts-kitchen/internal/config"
)

// ============================================================================
// Fake Portkey Gateway
// ============================================================================

// GatewayCall records one request the fake gateway received
type GatewayCall struct {
	Path    string
	Headers http.Header
	Body    map[string]any
}

// FakeGateway answers both the native /chatComplete endpoint and the
// OpenAI-compatible /chat/completions proxy with a fixed message.
type FakeGateway struct {
	*httptest.Server

	mu      sync.Mutex
	calls   []GatewayCall
	status  int
	message string
}

func NewFakeGateway(t *testing.T) *FakeGateway {
	t.Helper()
	g := &FakeGateway{status: http.StatusOK, message: `{"role":"assistant","content":"false"}`}
	g.Server = httptest.NewServer(http.HandlerFunc(g.serve))
	t.Cleanup(g.Close)
	return g
}

// Reply sets the status and raw message object returned from now on.
func (g *FakeGateway) Reply(status int, message string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.status = status
	g.message = message
}

func (g *FakeGateway) Calls() []GatewayCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]GatewayCall(nil), g.calls...)
}

func (g *FakeGateway) GatewayConfig() config.GatewayConfig {
	return config.GatewayConfig{
		BaseURL:    g.URL + "/v1",
		Provider:   config.DefaultProvider,
		Model:      config.DefaultModel,
		RetryCount: config.DefaultRetryCount,
		CacheMode:  config.DefaultCacheMode,
		Timeout:    5 * time.Second,
	}
}

func (g *FakeGateway) serve(w http.ResponseWriter, r *http.Request) {
	data, _ := io.ReadAll(r.Body)
	var body map[string]any
	_ = json.Unmarshal(data, &body)

	g.mu.Lock()
	g.calls = append(g.calls, GatewayCall{Path: r.URL.Path, Headers: r.Header.Clone(), Body: body})
	status, message := g.status, g.message
	g.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if status != http.StatusOK {
		io.WriteString(w, `{"error":{"message":"upstream failure","type":"server_error"}}`)
		return
	}
	io.WriteString(w, `{"id":"chatcmpl-1","object":"chat.completion","created":1700000000,"model":"gpt-3.5-turbo","choices":[{"index":0,"finish_reason":"stop","logprobs":null,"message":`+message+`}]}`)
}
