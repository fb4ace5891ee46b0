package portkey

import (
	"context"
	"encoding/json"
	"errors"
)

// Portkey request headers.
const (
	HeaderAPIKey     = "x-portkey-api-key"
	HeaderProvider   = "x-portkey-provider"
	HeaderRetryCount = "x-portkey-retry-count"
	HeaderCache      = "x-portkey-cache"
	HeaderTraceID    = "x-portkey-trace-id"
)

// Chat roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Completer submits one chat completion to the gateway. Implementations
// make exactly one outbound request per call and never retry locally.
type Completer interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}

// Message is a role/content pair, as sent and as returned by the gateway.
type Message struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content"`
	Name    string `json:"name,omitempty"`
}

// Request is one completion call. Provider credentials and behavioural
// hints belong to the client, not the request.
type Request struct {
	Messages []Message
	// Model overrides the client's configured model when set.
	Model string
	// Temperature overrides the client's default sampling temperature.
	Temperature *float64
	// TraceID is forwarded as x-portkey-trace-id when set.
	TraceID string
}

// Response is the subset of the gateway's completion body the kitchen uses.
type Response struct {
	Model   string
	Choices []Choice
}

// Choice holds one completion choice. Raw keeps the message object exactly
// as the gateway sent it so it can be relayed unchanged.
type Choice struct {
	Index        int
	FinishReason string
	Message      Message
	Raw          json.RawMessage
}

// ErrNoChoices is returned when a completion carries no choices.
var ErrNoChoices = errors.New("completion has no choices")

// FirstChoice returns choices[0].
func (r *Response) FirstChoice() (Choice, error) {
	if r == nil || len(r.Choices) == 0 {
		return Choice{}, ErrNoChoices
	}
	return r.Choices[0], nil
}

// SystemMessage and UserMessage build the two turns of a recipe request.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}
