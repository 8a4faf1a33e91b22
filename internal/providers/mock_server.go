// Package providers contains HTTP test doubles for the provider adapters
// and the telemetry collector.
package providers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// MockServer is a configurable HTTP server for adapter and sink tests.
// It returns a canned MockResponse per path and records request bodies.
type MockServer struct {
	server       *httptest.Server
	responses    map[string]MockResponse
	requestCount int
	bodies       [][]byte
	mu           sync.Mutex
}

// MockResponse defines a canned response for one path.
type MockResponse struct {
	StatusCode int
	Body       interface{}
	Delay      time.Duration
	Headers    map[string]string
}

// NewMockServer creates and starts the server.
func NewMockServer() *MockServer {
	ms := &MockServer{
		responses: make(map[string]MockResponse),
	}
	ms.server = httptest.NewServer(http.HandlerFunc(ms.handler))
	return ms
}

// URL returns the server's base URL.
func (ms *MockServer) URL() string {
	return ms.server.URL
}

// Close shuts the server down.
func (ms *MockServer) Close() {
	ms.server.Close()
}

// SetResponse registers the canned response for a path.
func (ms *MockServer) SetResponse(path string, response MockResponse) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.responses[path] = response
}

// RequestCount returns how many requests have been received.
func (ms *MockServer) RequestCount() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.requestCount
}

// Bodies returns copies of all recorded request bodies in arrival order.
func (ms *MockServer) Bodies() [][]byte {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	out := make([][]byte, len(ms.bodies))
	copy(out, ms.bodies)
	return out
}

func (ms *MockServer) handler(w http.ResponseWriter, r *http.Request) {
	body := make([]byte, 0)
	if r.Body != nil {
		buf := make([]byte, 64*1024)
		for {
			n, err := r.Body.Read(buf)
			body = append(body, buf[:n]...)
			if err != nil {
				break
			}
		}
	}

	ms.mu.Lock()
	ms.requestCount++
	ms.bodies = append(ms.bodies, body)
	response, ok := ms.responses[r.URL.Path]
	ms.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}

	if response.Delay > 0 {
		time.Sleep(response.Delay)
	}

	for key, value := range response.Headers {
		w.Header().Set(key, value)
	}

	status := response.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)

	switch v := response.Body.(type) {
	case nil:
	case string:
		_, _ = w.Write([]byte(v))
	case []byte:
		_, _ = w.Write(v)
	default:
		_ = json.NewEncoder(w).Encode(response.Body)
	}
}

// MockOllamaResponse builds a non-streaming /api/generate response body.
func MockOllamaResponse(text, model string, promptTokens, evalTokens int) map[string]interface{} {
	return map[string]interface{}{
		"model":             model,
		"response":          text,
		"done":              true,
		"prompt_eval_count": promptTokens,
		"eval_count":        evalTokens,
	}
}

// MockOpenAIResponse builds a chat completion response body.
func MockOpenAIResponse(content, model string, totalTokens int) map[string]interface{} {
	return map[string]interface{}{
		"id":     "chatcmpl-test",
		"object": "chat.completion",
		"model":  model,
		"choices": []map[string]interface{}{
			{
				"index": 0,
				"message": map[string]interface{}{
					"role":    "assistant",
					"content": content,
				},
				"finish_reason": "stop",
			},
		},
		"usage": map[string]interface{}{
			"prompt_tokens":     totalTokens / 2,
			"completion_tokens": totalTokens - totalTokens/2,
			"total_tokens":      totalTokens,
		},
	}
}

// MockHECSuccess builds the collector's acknowledgement body.
func MockHECSuccess() MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       map[string]interface{}{"text": "Success", "code": 0},
	}
}

// MockModelNotFound builds the 404 body providers return for an unknown model.
func MockModelNotFound(model string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusNotFound,
		Body:       map[string]interface{}{"error": fmt.Sprintf("model %q not found", model)},
	}
}

// MockServerError builds a 500 response.
func MockServerError() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       map[string]interface{}{"error": "internal server error"},
	}
}

// MockSlowResponse delays a valid response past the caller's deadline to
// exercise timeout classification.
func MockSlowResponse(body interface{}, delay time.Duration) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       body,
		Delay:      delay,
	}
}
