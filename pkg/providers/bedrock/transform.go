package bedrock

import "campus-ai/agent-gateway/pkg/providers"

// anthropicVersion is the Bedrock body version for Anthropic models.
const anthropicVersion = "bedrock-2023-05-31"

// invokeBody is the Anthropic messages request placed in InvokeModel.Body.
type invokeBody struct {
	AnthropicVersion string          `json:"anthropic_version"`
	MaxTokens        int             `json:"max_tokens"`
	System           string          `json:"system,omitempty"`
	Messages         []invokeMessage `json:"messages"`
	Temperature      float64         `json:"temperature,omitempty"`
}

// invokeMessage is a single conversation turn.
type invokeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// invokeResponse is the Anthropic messages response body.
type invokeResponse struct {
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
	Usage      invokeUsage    `json:"usage"`
}

// contentBlock is one block of the response content.
type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// invokeUsage is the token accounting block.
type invokeUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// newInvokeBody builds the wire request from a generation request.
func newInvokeBody(req *providers.GenerateRequest, config providers.Config) invokeBody {
	maxTokens := config.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	return invokeBody{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        maxTokens,
		System:           req.SystemPrompt,
		Messages: []invokeMessage{
			{Role: "user", Content: providers.RenderPrompt(req.Message, req.Context)},
		},
		Temperature: config.Temperature,
	}
}

// toGenerateResponse validates the wire response and converts it,
// concatenating text blocks in order.
func (r *invokeResponse) toGenerateResponse(model string) (*providers.GenerateResponse, error) {
	var text string
	for _, block := range r.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	if text == "" {
		return nil, &providers.BadResponseError{
			Provider: providers.ProviderBedrock,
			Message:  "response contained no text content",
		}
	}

	return &providers.GenerateResponse{
		Text:       text,
		TokensUsed: r.Usage.InputTokens + r.Usage.OutputTokens,
		Model:      model,
	}, nil
}
