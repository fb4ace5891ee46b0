package portkey

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/socialchef/hogwarts-kitchen/internal/config"
	apperrors "github.com/socialchef/hogwarts-kitchen/internal/errors"
	"github.com/socialchef/hogwarts-kitchen/internal/httpclient"
)

// ChatCompleteClient calls the gateway's native /chatComplete endpoint.
// Provider credentials travel in the request body's config block.
type ChatCompleteClient struct {
	http       *resty.Client
	cfg        config.GatewayConfig
	openAIKey  string
	portkeyKey string
}

type chatCompleteBody struct {
	Config chatCompleteConfig `json:"config"`
	Params chatCompleteParams `json:"params"`
}

type chatCompleteConfig struct {
	Provider string `json:"provider"`
	APIKey   string `json:"api_key"`
}

type chatCompleteParams struct {
	Messages    []Message `json:"messages"`
	Model       string    `json:"model"`
	Temperature *float64  `json:"temperature,omitempty"`
}

type chatCompleteResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Index        int             `json:"index"`
		FinishReason string          `json:"finish_reason"`
		Message      json.RawMessage `json:"message"`
	} `json:"choices"`
}

// NewChatCompleteClient builds a client over the instrumented HTTP transport.
func NewChatCompleteClient(cfg config.GatewayConfig, openAIKey, portkeyKey string) *ChatCompleteClient {
	hc := httpclient.NewInstrumentedClient(cfg.Timeout)
	return &ChatCompleteClient{
		http:       resty.NewWithClient(hc).SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")),
		cfg:        cfg,
		openAIKey:  openAIKey,
		portkeyKey: portkeyKey,
	}
}

func (c *ChatCompleteClient) Complete(ctx context.Context, req Request) (resp *Response, err error) {
	start := time.Now()
	defer func() { recordCall(ctx, RouteChatComplete, start, err) }()

	model := req.Model
	if model == "" {
		model = c.cfg.Model
	}

	body, err := json.Marshal(chatCompleteBody{
		Config: chatCompleteConfig{Provider: c.cfg.Provider, APIKey: c.openAIKey},
		Params: chatCompleteParams{Messages: req.Messages, Model: model, Temperature: req.Temperature},
	})
	if err != nil {
		return nil, fmt.Errorf("encode chatComplete body: %w", err)
	}

	r := c.http.R().
		SetContext(httpclient.WithProvider(ctx, "portkey")).
		SetHeader("Content-Type", "application/json").
		SetHeader(HeaderAPIKey, c.portkeyKey).
		SetBody(body)
	if c.cfg.RetryCount > 0 {
		r.SetHeader(HeaderRetryCount, strconv.Itoa(c.cfg.RetryCount))
	}
	if c.cfg.CacheMode != "" {
		r.SetHeader(HeaderCache, c.cfg.CacheMode)
	}
	if req.TraceID != "" {
		r.SetHeader(HeaderTraceID, req.TraceID)
	}

	res, err := r.Post("/chatComplete")
	if err != nil {
		return nil, apperrors.NewGatewayError("gateway request failed", CodeUnreachable, 0, err)
	}
	if res.IsError() || res.StatusCode() < http.StatusOK || res.StatusCode() >= http.StatusMultipleChoices {
		return nil, apperrors.NewGatewayError(
			fmt.Sprintf("gateway returned status %d", res.StatusCode()), CodeStatus, res.StatusCode(),
			fmt.Errorf("%s", truncate(res.String(), 512)))
	}

	return decodeChatComplete(res.Body())
}

func decodeChatComplete(data []byte) (*Response, error) {
	var raw chatCompleteResponse
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, apperrors.NewGatewayError("gateway response is not valid JSON", CodeMalformed, http.StatusOK, err)
	}
	if len(raw.Choices) == 0 {
		return nil, apperrors.NewGatewayError("gateway response has no choices", CodeNoChoices, http.StatusOK, ErrNoChoices)
	}

	resp := &Response{Model: raw.Model, Choices: make([]Choice, 0, len(raw.Choices))}
	for _, rc := range raw.Choices {
		if len(rc.Message) == 0 || string(rc.Message) == "null" {
			return nil, apperrors.NewGatewayError("gateway choice has no message", CodeMalformed, http.StatusOK, nil)
		}
		msg, err := decodeMessage(rc.Message)
		if err != nil {
			return nil, apperrors.NewGatewayError("gateway message is not a JSON object", CodeMalformed, http.StatusOK, err)
		}
		resp.Choices = append(resp.Choices, Choice{
			Index:        rc.Index,
			FinishReason: rc.FinishReason,
			Message:      msg,
			Raw:          append(json.RawMessage(nil), rc.Message...),
		})
	}
	return resp, nil
}

// decodeMessage reads a gateway message object. Content that is not a JSON
// string (an array of parts, for one) is kept as its JSON text; Raw still
// carries the original bytes for relaying.
func decodeMessage(data json.RawMessage) (Message, error) {
	var m struct {
		Role    string          `json:"role"`
		Content json.RawMessage `json:"content"`
		Name    string          `json:"name"`
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, err
	}

	msg := Message{Role: m.Role, Name: m.Name}
	switch {
	case len(m.Content) == 0 || string(m.Content) == "null":
	case m.Content[0] == '"':
		if err := json.Unmarshal(m.Content, &msg.Content); err != nil {
			return Message{}, err
		}
	default:
		msg.Content = string(m.Content)
	}
	return msg, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
