package kitchen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/socialchef/hogwarts-kitchen/internal/httpclient"
	"github.com/socialchef/hogwarts-kitchen/internal/services/portkey"
)

// Client calls a running kitchen server's recipe endpoint.
type Client struct {
	http  *resty.Client
	route string
}

// NewClient targets baseURL (e.g. http://localhost:3000). route is "axios"
// or "portkey" and selects the endpoint.
func NewClient(baseURL, route string, timeout time.Duration) *Client {
	return &Client{
		http:  resty.NewWithClient(httpclient.NewInstrumentedClient(timeout)).SetBaseURL(strings.TrimSuffix(baseURL, "/")),
		route: route,
	}
}

type recipeRequest struct {
	Ingredients string `json:"ingredients"`
}

// RequestRecipe posts the ingredients and returns the relayed message.
func (c *Client) RequestRecipe(ctx context.Context, ingredients string) (portkey.Message, error) {
	res, err := c.http.R().
		SetContext(httpclient.WithProvider(ctx, "kitchen")).
		SetHeader("Content-Type", "application/json").
		SetBody(recipeRequest{Ingredients: ingredients}).
		Post(fmt.Sprintf("/api/%s/recipes", c.route))
	if err != nil {
		return portkey.Message{}, fmt.Errorf("recipe request failed: %w", err)
	}
	if res.IsError() {
		return portkey.Message{}, fmt.Errorf("recipe request failed with status %d: %s", res.StatusCode(), strings.TrimSpace(res.String()))
	}

	var msg portkey.Message
	if err := json.Unmarshal(res.Body(), &msg); err != nil {
		return portkey.Message{}, fmt.Errorf("decode recipe message: %w", err)
	}
	return msg, nil
}
