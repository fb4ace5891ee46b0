package portkey

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/socialchef/hogwarts-kitchen/internal/config"
	apperrors "github.com/socialchef/hogwarts-kitchen/internal/errors"
	"github.com/socialchef/hogwarts-kitchen/internal/httpclient"
)

// ProxyClient talks to the gateway through its OpenAI-compatible surface.
type ProxyClient struct {
	client openai.Client
	model  string
	// temperature is sent on every call; zero keeps recipes deterministic.
	temperature float64
}

// NewProxyClient configures the OpenAI SDK against the gateway base URL.
// SDK retries are off; the gateway retries per x-portkey-retry-count.
func NewProxyClient(cfg config.GatewayConfig, openAIKey, portkeyKey string) *ProxyClient {
	baseURL := cfg.BaseURL
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	opts := []option.RequestOption{
		option.WithAPIKey(openAIKey),
		option.WithBaseURL(baseURL),
		option.WithHTTPClient(httpclient.NewInstrumentedClient(cfg.Timeout)),
		option.WithMaxRetries(0),
		option.WithHeader(HeaderAPIKey, portkeyKey),
		option.WithHeader(HeaderProvider, cfg.Provider),
	}
	if cfg.RetryCount > 0 {
		opts = append(opts, option.WithHeader(HeaderRetryCount, strconv.Itoa(cfg.RetryCount)))
	}
	if cfg.CacheMode != "" {
		opts = append(opts, option.WithHeader(HeaderCache, cfg.CacheMode))
	}

	return &ProxyClient{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
	}
}

func (c *ProxyClient) Complete(ctx context.Context, req Request) (resp *Response, err error) {
	start := time.Now()
	defer func() { recordCall(ctx, RouteProxy, start, err) }()

	model := req.Model
	if model == "" {
		model = c.model
	}
	temperature := c.temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages))
	for _, m := range req.Messages {
		switch m.Role {
		case RoleSystem:
			messages = append(messages, openai.SystemMessage(m.Content))
		case RoleAssistant:
			messages = append(messages, openai.AssistantMessage(m.Content))
		default:
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}

	var reqOpts []option.RequestOption
	if req.TraceID != "" {
		reqOpts = append(reqOpts, option.WithHeader(HeaderTraceID, req.TraceID))
	}

	completion, err := c.client.Chat.Completions.New(httpclient.WithProvider(ctx, "portkey"), openai.ChatCompletionNewParams{
		Messages:    messages,
		Model:       openai.ChatModel(model),
		Temperature: openai.Float(temperature),
	}, reqOpts...)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return nil, apperrors.NewGatewayError(
				fmt.Sprintf("gateway returned status %d", apiErr.StatusCode), CodeStatus, apiErr.StatusCode, err)
		}
		return nil, apperrors.NewGatewayError("gateway request failed", CodeUnreachable, 0, err)
	}
	if len(completion.Choices) == 0 {
		return nil, apperrors.NewGatewayError("gateway response has no choices", CodeNoChoices, http.StatusOK, ErrNoChoices)
	}

	resp = &Response{Model: completion.Model, Choices: make([]Choice, 0, len(completion.Choices))}
	for _, ch := range completion.Choices {
		msg := Message{Role: string(ch.Message.Role), Content: ch.Message.Content}
		raw := json.RawMessage(ch.Message.RawJSON())
		if len(raw) == 0 {
			if raw, err = json.Marshal(msg); err != nil {
				return nil, fmt.Errorf("encode message: %w", err)
			}
		}
		resp.Choices = append(resp.Choices, Choice{
			Index:        int(ch.Index),
			FinishReason: string(ch.FinishReason),
			Message:      msg,
			Raw:          raw,
		})
	}
	return resp, nil
}
