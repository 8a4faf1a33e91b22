package openai

import "campus-ai/agent-gateway/pkg/providers"

// chatRequest is the /v1/chat/completions request body.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
	Stream      bool          `json:"stream"`
}

// chatMessage is a single conversation turn.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the /v1/chat/completions response body.
type chatResponse struct {
	ID      string       `json:"id"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   chatUsage    `json:"usage"`
}

// chatChoice is one completion alternative.
type chatChoice struct {
	Index        int         `json:"index"`
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// chatUsage is the token accounting block.
type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// newChatRequest builds the wire request: optional system message first,
// then the rendered user prompt.
func newChatRequest(model string, req *providers.GenerateRequest, config providers.Config) chatRequest {
	messages := make([]chatMessage, 0, 2)
	if req.SystemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.SystemPrompt})
	}
	messages = append(messages, chatMessage{
		Role:    "user",
		Content: providers.RenderPrompt(req.Message, req.Context),
	})

	return chatRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   config.MaxTokens,
		Temperature: config.Temperature,
		Stream:      false,
	}
}

// toGenerateResponse validates the wire response and converts it.
func (r *chatResponse) toGenerateResponse(provider string) (*providers.GenerateResponse, error) {
	if len(r.Choices) == 0 {
		return nil, &providers.BadResponseError{
			Provider: provider,
			Message:  "response contained no choices",
		}
	}

	return &providers.GenerateResponse{
		Text:       r.Choices[0].Message.Content,
		TokensUsed: r.Usage.TotalTokens,
		Model:      r.Model,
	}, nil
}
