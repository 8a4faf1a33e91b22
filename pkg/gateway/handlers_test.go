package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"campus-ai/agent-gateway/pkg/providers"
	"campus-ai/agent-gateway/pkg/telemetry/metrics"
	"campus-ai/agent-gateway/pkg/telemetry/sink"
)

// stubProvider implements providers.Provider with injectable behavior.
type stubProvider struct {
	mu      sync.Mutex
	name    string
	resp    *providers.GenerateResponse
	err     error
	block   bool
	lastReq *providers.GenerateRequest
}

func (p *stubProvider) Generate(ctx context.Context, req *providers.GenerateRequest) (*providers.GenerateResponse, error) {
	p.mu.Lock()
	p.lastReq = req
	p.mu.Unlock()

	if p.block {
		<-ctx.Done()
		return nil, &providers.TimeoutError{Provider: p.name, Timeout: 50 * time.Millisecond}
	}
	if p.err != nil {
		return nil, p.err
	}
	return p.resp, nil
}

func (p *stubProvider) HealthCheck(_ context.Context) error { return nil }
func (p *stubProvider) Name() string                        { return p.name }
func (p *stubProvider) Close() error                        { return nil }

func (p *stubProvider) last() *providers.GenerateRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastReq
}

func newTestHandler(p providers.Provider, config providers.Config, s *sink.Sink) *Handler {
	if config.Timeout <= 0 {
		config.Timeout = 5 * time.Second
	}
	if s == nil {
		s = sink.New(sink.Config{}, nil)
	}
	return NewHandler(p, config, s, metrics.NewCollector(metrics.Config{}), "test")
}

func postJSON(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest("POST", "/", bytes.NewBufferString(body)))
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorDetail {
	t.Helper()
	var envelope ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("error body is not the envelope: %v\n%s", err, rec.Body.String())
	}
	return envelope.Error
}

func TestChatMockSuccess(t *testing.T) {
	h := newTestHandler(&stubProvider{
		name: "mock",
		resp: &providers.GenerateResponse{Text: "Mock AI response: processing \"hello\"", TokensUsed: 7, Model: "mock-v1"},
	}, providers.Config{}, nil)

	rec := postJSON(t, h.Chat, `{"message":"hello"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\n%s", rec.Code, rec.Body.String())
	}

	var resp ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("body is not a ChatResponse: %v", err)
	}

	if !strings.HasPrefix(resp.Text, "Mock AI response") {
		t.Errorf("text = %q, want Mock AI response prefix", resp.Text)
	}
	if resp.ProviderID != "mock" {
		t.Errorf("providerId = %q, want mock", resp.ProviderID)
	}
	if !resp.Success {
		t.Error("success = false, want true")
	}
	if resp.TokensUsed < 0 {
		t.Errorf("tokensUsed = %d, want >= 0", resp.TokensUsed)
	}
	if resp.LatencyMs < 0 {
		t.Errorf("latencyMs = %d, want >= 0", resp.LatencyMs)
	}
	if resp.QuestionType != QuestionTypeGeneral {
		t.Errorf("questionType = %q, want general", resp.QuestionType)
	}
}

func TestValidationRejectsBadMessages(t *testing.T) {
	h := newTestHandler(&stubProvider{name: "mock"}, providers.Config{}, nil)

	endpoints := map[string]http.HandlerFunc{"chat": h.Chat, "process": h.Process}
	bodies := map[string]string{
		"empty message":      `{"message":""}`,
		"whitespace message": `{"message":"  \n\t "}`,
		"malformed json":     `{"message"`,
	}

	for epName, ep := range endpoints {
		for bodyName, body := range bodies {
			t.Run(epName+"/"+bodyName, func(t *testing.T) {
				rec := postJSON(t, ep, body)

				if rec.Code != http.StatusBadRequest {
					t.Errorf("status = %d, want 400", rec.Code)
				}
				detail := decodeError(t, rec)
				if detail.Code != CodeInvalidRequest {
					t.Errorf("code = %q, want %q", detail.Code, CodeInvalidRequest)
				}
				if detail.Message == "" {
					t.Error("message empty; must echo the violated constraint")
				}
			})
		}
	}
}

func TestValidationDoesNotCallProvider(t *testing.T) {
	p := &stubProvider{name: "mock"}
	h := newTestHandler(p, providers.Config{}, nil)

	postJSON(t, h.Chat, `{"message":"   "}`)

	if p.last() != nil {
		t.Error("provider was called for an invalid request")
	}
}

func TestProcessForwardsContextVerbatim(t *testing.T) {
	p := &stubProvider{name: "mock", resp: &providers.GenerateResponse{Text: "ok"}}
	h := newTestHandler(p, providers.Config{}, nil)

	rec := postJSON(t, h.Process, `{"message":"advise me","context":{"student_id":"123","term":"spring"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	got := p.last()
	if got == nil {
		t.Fatal("provider not called")
	}
	if got.Context["student_id"] != "123" || got.Context["term"] != "spring" {
		t.Errorf("context = %v, want the request map verbatim", got.Context)
	}
	if len(got.Context) != 2 {
		t.Errorf("context has %d entries, want 2 (no additions)", len(got.Context))
	}
}

func TestProviderTimeoutReturns504Promptly(t *testing.T) {
	p := &stubProvider{name: "ollama", block: true}
	h := newTestHandler(p, providers.Config{Timeout: 50 * time.Millisecond}, nil)

	start := time.Now()
	rec := postJSON(t, h.Chat, `{"message":"hello"}`)
	elapsed := time.Since(start)

	if rec.Code != http.StatusGatewayTimeout {
		t.Errorf("status = %d, want 504", rec.Code)
	}
	if detail := decodeError(t, rec); detail.Code != CodeProviderTimeout {
		t.Errorf("code = %q, want %q", detail.Code, CodeProviderTimeout)
	}
	if elapsed > time.Second {
		t.Errorf("response took %v, want shortly after the 50ms timeout", elapsed)
	}
}

func TestProviderErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "unreachable",
			err:        &providers.UnreachableError{Provider: "ollama", Err: errors.New("refused")},
			wantStatus: 504,
			wantCode:   CodeProviderUnreachable,
		},
		{
			name:       "bad response",
			err:        &providers.BadResponseError{Provider: "ollama", StatusCode: 500, Message: "boom"},
			wantStatus: 502,
			wantCode:   CodeProviderBadResponse,
		},
		{
			name:       "model not found",
			err:        &providers.ModelNotFoundError{Provider: "ollama", Model: "phi-99"},
			wantStatus: 502,
			wantCode:   CodeModelNotFound,
		},
		{
			name:       "unexpected",
			err:        errors.New("wild panic averted"),
			wantStatus: 500,
			wantCode:   CodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(&stubProvider{name: "ollama", err: tt.err}, providers.Config{}, nil)

			rec := postJSON(t, h.Chat, `{"message":"hello"}`)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			detail := decodeError(t, rec)
			if detail.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", detail.Code, tt.wantCode)
			}
			if detail.Message == "" {
				t.Error("human-readable message missing")
			}
			if strings.Contains(detail.Message, tt.wantCode) {
				t.Error("message duplicates the machine code; they are separate fields")
			}
		})
	}
}

func TestTechnicalQuestionsUseCodeModel(t *testing.T) {
	tests := []struct {
		name      string
		message   string
		wantModel string
	}{
		{name: "technical override", message: "debug my python code", wantModel: "deepseek-coder"},
		{name: "general default", message: "tell me a story", wantModel: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &stubProvider{name: "ollama", resp: &providers.GenerateResponse{Text: "ok"}}
			h := newTestHandler(p, providers.Config{CodeModel: "deepseek-coder"}, nil)

			postJSON(t, h.Chat, `{"message":"`+tt.message+`"}`)

			got := p.last()
			if got == nil {
				t.Fatal("provider not called")
			}
			if got.Model != tt.wantModel {
				t.Errorf("Model = %q, want %q", got.Model, tt.wantModel)
			}
			if got.SystemPrompt == "" {
				t.Error("SystemPrompt empty, want question-type prompt")
			}
		})
	}
}

// hecEnvelopes decodes newline-delimited envelopes from collector payloads.
func hecEnvelopes(t *testing.T, payloads []string) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, payload := range payloads {
		for _, line := range strings.Split(strings.TrimSpace(payload), "\n") {
			if line == "" {
				continue
			}
			var envelope map[string]interface{}
			if err := json.Unmarshal([]byte(line), &envelope); err != nil {
				t.Fatalf("bad envelope %q: %v", line, err)
			}
			out = append(out, envelope)
		}
	}
	return out
}

func TestFailedRequestEmitsExactlyOneErrorEvent(t *testing.T) {
	var mu sync.Mutex
	var payloads []string
	collector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		payloads = append(payloads, string(body))
		mu.Unlock()
		_, _ = w.Write([]byte(`{"code":0}`))
	}))
	defer collector.Close()

	s := sink.New(sink.Config{URL: collector.URL, FlushInterval: 10 * time.Millisecond}, nil)
	s.Start()

	h := newTestHandler(&stubProvider{
		name: "ollama",
		err:  &providers.UnreachableError{Provider: "ollama", Err: errors.New("refused")},
	}, providers.Config{}, s)

	rec := postJSON(t, h.Chat, `{"message":"hello"}`)
	if rec.Code != http.StatusGatewayTimeout {
		t.Fatalf("status = %d, want 504", rec.Code)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := len(payloads)
		mu.Unlock()
		if n > 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	_ = s.Close(context.Background())

	mu.Lock()
	envelopes := hecEnvelopes(t, payloads)
	mu.Unlock()

	if len(envelopes) != 1 {
		t.Fatalf("got %d telemetry events, want exactly 1", len(envelopes))
	}

	event, _ := envelopes[0]["event"].(map[string]interface{})
	if event["level"] != "error" {
		t.Errorf("event level = %v, want error", event["level"])
	}
	fields, _ := event["fields"].(map[string]interface{})
	if fields["error_code"] != CodeProviderUnreachable {
		t.Errorf("error_code = %v, want %q", fields["error_code"], CodeProviderUnreachable)
	}
	if fields["provider"] != "ollama" {
		t.Errorf("provider = %v, want ollama", fields["provider"])
	}
}

func TestSuccessEmitsExactlyOneInfoEvent(t *testing.T) {
	var mu sync.Mutex
	var payloads []string
	collector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		payloads = append(payloads, string(body))
		mu.Unlock()
		_, _ = w.Write([]byte(`{"code":0}`))
	}))
	defer collector.Close()

	s := sink.New(sink.Config{URL: collector.URL, FlushInterval: 10 * time.Millisecond}, nil)
	s.Start()

	h := newTestHandler(&stubProvider{
		name: "mock",
		resp: &providers.GenerateResponse{Text: "ok", TokensUsed: 3},
	}, providers.Config{}, s)

	postJSON(t, h.Chat, `{"message":"hello"}`)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := len(payloads)
		mu.Unlock()
		if n > 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	_ = s.Close(context.Background())

	mu.Lock()
	envelopes := hecEnvelopes(t, payloads)
	mu.Unlock()

	if len(envelopes) != 1 {
		t.Fatalf("got %d telemetry events, want exactly 1", len(envelopes))
	}
	event, _ := envelopes[0]["event"].(map[string]interface{})
	if event["level"] != "info" {
		t.Errorf("event level = %v, want info", event["level"])
	}
}

func TestInfoEndpoint(t *testing.T) {
	h := newTestHandler(&stubProvider{name: "mock"}, providers.Config{}, nil)

	rec := httptest.NewRecorder()
	h.Info(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var info ServiceInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("body is not ServiceInfo: %v", err)
	}
	if info.Service != "agent-gateway" {
		t.Errorf("service = %q", info.Service)
	}
	if info.Provider != "mock" {
		t.Errorf("provider = %q, want mock", info.Provider)
	}
	if _, ok := info.Endpoints["chat"]; !ok {
		t.Error("endpoints missing chat")
	}
}
