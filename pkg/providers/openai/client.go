// Package openai implements the provider adapter for the OpenAI chat
// completions API (and compatible servers).
package openai

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"campus-ai/agent-gateway/pkg/providers"
)

// defaultBaseURL is used when no base URL is configured.
const defaultBaseURL = "https://api.openai.com"

// Client talks to the OpenAI chat completions API.
type Client struct {
	*providers.HTTPProvider
}

// NewProvider creates the OpenAI adapter.
func NewProvider(config providers.Config) (*Client, error) {
	if config.APIKey == "" {
		return nil, &providers.ConfigError{
			Provider: providers.ProviderOpenAI,
			Field:    "api_key",
			Message:  "API key is required",
		}
	}
	if config.Model == "" {
		return nil, &providers.ConfigError{
			Provider: providers.ProviderOpenAI,
			Field:    "model",
			Message:  "model is required",
		}
	}
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}

	return &Client{
		HTTPProvider: providers.NewHTTPProvider(providers.ProviderOpenAI, config),
	}, nil
}

// Generate performs one completion via /v1/chat/completions.
func (c *Client) Generate(ctx context.Context, req *providers.GenerateRequest) (*providers.GenerateResponse, error) {
	config := c.Config()

	model := req.Model
	if model == "" {
		model = config.Model
	}

	body := newChatRequest(model, req, config)

	var resp chatResponse
	url := strings.TrimSuffix(config.BaseURL, "/") + "/v1/chat/completions"
	err := c.DoJSONRequest(ctx, http.MethodPost, url, c.authHeaders(), body, &resp)
	if err != nil {
		// A 404 on chat completions means the model id does not exist;
		// surfacing it beats quietly swapping in another model.
		var badResp *providers.BadResponseError
		if errors.As(err, &badResp) && badResp.StatusCode == http.StatusNotFound {
			return nil, &providers.ModelNotFoundError{
				Provider: providers.ProviderOpenAI,
				Model:    model,
			}
		}
		return nil, err
	}

	return resp.toGenerateResponse(c.Name())
}

// HealthCheck probes /v1/models, which is cheap and exercises auth.
func (c *Client) HealthCheck(ctx context.Context) error {
	url := strings.TrimSuffix(c.Config().BaseURL, "/") + "/v1/models"
	return c.HealthGet(ctx, url, c.authHeaders())
}

func (c *Client) authHeaders() map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + c.Config().APIKey,
	}
}
