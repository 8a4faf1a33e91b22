// Package ollama implements the provider adapter for a local Ollama server
// using the non-streaming /api/generate endpoint.
package ollama

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"campus-ai/agent-gateway/pkg/providers"
)

// Client talks to an Ollama server. Local inference is slow, so the
// configured timeout is typically much larger than for hosted providers.
type Client struct {
	*providers.HTTPProvider
}

// generateRequest is the /api/generate request body.
type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	System  string          `json:"system,omitempty"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options,omitempty"`
}

// generateOptions carries sampling parameters.
type generateOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

// generateResponse is the non-streaming /api/generate response body.
type generateResponse struct {
	Model           string `json:"model"`
	Response        string `json:"response"`
	Done            bool   `json:"done"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
}

// NewProvider creates the Ollama adapter.
func NewProvider(config providers.Config) (*Client, error) {
	if config.BaseURL == "" {
		return nil, &providers.ConfigError{
			Provider: providers.ProviderOllama,
			Field:    "base_url",
			Message:  "base URL is required",
		}
	}
	if config.Model == "" {
		return nil, &providers.ConfigError{
			Provider: providers.ProviderOllama,
			Field:    "model",
			Message:  "model is required",
		}
	}

	return &Client{
		HTTPProvider: providers.NewHTTPProvider(providers.ProviderOllama, config),
	}, nil
}

// Generate performs one completion via /api/generate.
func (c *Client) Generate(ctx context.Context, req *providers.GenerateRequest) (*providers.GenerateResponse, error) {
	config := c.Config()

	model := req.Model
	if model == "" {
		model = config.Model
	}

	body := generateRequest{
		Model:  model,
		Prompt: providers.RenderPrompt(req.Message, req.Context),
		System: req.SystemPrompt,
		Stream: false,
		Options: generateOptions{
			Temperature: config.Temperature,
			NumPredict:  config.MaxTokens,
		},
	}

	var resp generateResponse
	url := strings.TrimSuffix(config.BaseURL, "/") + "/api/generate"
	if err := c.DoJSONRequest(ctx, http.MethodPost, url, nil, body, &resp); err != nil {
		// Ollama answers 404 with {"error":"model '<name>' not found"} when
		// the model has not been pulled.
		var badResp *providers.BadResponseError
		if errors.As(err, &badResp) && badResp.StatusCode == http.StatusNotFound {
			return nil, &providers.ModelNotFoundError{
				Provider: providers.ProviderOllama,
				Model:    model,
			}
		}
		return nil, err
	}

	return &providers.GenerateResponse{
		Text:       resp.Response,
		TokensUsed: resp.PromptEvalCount + resp.EvalCount,
		Model:      resp.Model,
	}, nil
}

// HealthCheck probes the server root, which answers 200 "Ollama is running"
// without touching any model.
func (c *Client) HealthCheck(ctx context.Context) error {
	return c.HealthGet(ctx, strings.TrimSuffix(c.Config().BaseURL, "/")+"/", nil)
}
