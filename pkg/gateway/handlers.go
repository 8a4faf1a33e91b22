package gateway

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"campus-ai/agent-gateway/pkg/gateway/middleware"
	"campus-ai/agent-gateway/pkg/providers"
	"campus-ai/agent-gateway/pkg/telemetry/metrics"
	"campus-ai/agent-gateway/pkg/telemetry/sink"
)

// Handler serves /chat, /process, and the service info root. One instance
// exists per process, bound to the single active provider.
type Handler struct {
	provider       providers.Provider
	providerConfig providers.Config
	sink           *sink.Sink
	metrics        *metrics.Collector
	version        string
}

// NewHandler wires the request pipeline.
func NewHandler(provider providers.Provider, providerConfig providers.Config, s *sink.Sink, m *metrics.Collector, version string) *Handler {
	return &Handler{
		provider:       provider,
		providerConfig: providerConfig,
		sink:           s,
		metrics:        m,
		version:        version,
	}
}

// Chat handles POST /chat.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	h.handleGenerate(w, r)
}

// Process handles POST /process. Same pipeline as /chat; the context map,
// when present, travels to the provider untouched.
func (h *Handler) Process(w http.ResponseWriter, r *http.Request) {
	h.handleGenerate(w, r)
}

// Info handles GET /, describing the service and its endpoints.
func (h *Handler) Info(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, ServiceInfo{
		Service:  "agent-gateway",
		Version:  h.version,
		Provider: h.provider.Name(),
		Endpoints: map[string]string{
			"chat":      "POST /chat",
			"process":   "POST /process",
			"health":    "GET /health",
			"readiness": "GET /readiness",
			"metrics":   "GET /metrics",
		},
	})
}

// handleGenerate is the shared request pipeline. It emits exactly one
// telemetry event per request, after the response is assembled.
func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	h.metrics.ActiveRequests.Inc()
	defer h.metrics.ActiveRequests.Dec()

	requestID := middleware.GetRequestID(r.Context())
	providerName := h.provider.Name()

	req, reqErr := ParseChatRequest(r)
	if reqErr != nil {
		latency := time.Since(start)
		WriteError(w, reqErr.Code, reqErr.Message, reqErr.Param)
		h.metrics.ObserveRequest(providerName, metrics.OutcomeInvalidRequest, latency)
		h.sink.Enqueue(sink.Event{
			Level:   sink.LevelInfo,
			Message: "request rejected: " + reqErr.Message,
			Logger:  "gateway",
			Fields: map[string]interface{}{
				"request_id": requestID,
				"provider":   providerName,
				"outcome":    metrics.OutcomeInvalidRequest,
				"latency_ms": latency.Milliseconds(),
			},
		})
		return
	}

	questionType := ClassifyQuestion(req.Message)
	h.metrics.ChatTotal.WithLabelValues(questionType).Inc()

	genReq := &providers.GenerateRequest{
		Message:      req.Message,
		Context:      req.Context,
		SystemPrompt: SystemPromptFor(questionType),
		Model:        h.modelFor(questionType),
	}

	// The provider call is bounded by the provider timeout, not the client
	// connection: a disconnect must not cancel in-flight inference.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), h.providerConfig.Timeout)
	defer cancel()

	genResp, err := h.provider.Generate(ctx, genReq)
	latency := time.Since(start)

	if err != nil {
		code, message := MapProviderError(err)
		slog.ErrorContext(r.Context(), "generation failed",
			"request_id", requestID,
			"provider", providerName,
			"error_code", code,
			"error", err,
			"latency_ms", latency.Milliseconds(),
		)
		WriteError(w, code, message, "")
		h.metrics.ObserveRequest(providerName, code, latency)
		h.sink.Enqueue(sink.Event{
			Level:   sink.LevelError,
			Message: "request failed: " + err.Error(),
			Logger:  "gateway",
			Fields: map[string]interface{}{
				"request_id":    requestID,
				"provider":      providerName,
				"outcome":       code,
				"question_type": questionType,
				"latency_ms":    latency.Milliseconds(),
				"error_code":    code,
			},
		})
		return
	}

	WriteJSON(w, http.StatusOK, &ChatResponse{
		Text:         genResp.Text,
		ProviderID:   providerName,
		TokensUsed:   genResp.TokensUsed,
		LatencyMs:    latency.Milliseconds(),
		Success:      true,
		QuestionType: questionType,
		Timestamp:    time.Now().UTC(),
	})
	h.metrics.ObserveRequest(providerName, metrics.OutcomeSuccess, latency)
	h.sink.Enqueue(sink.Event{
		Level:   sink.LevelInfo,
		Message: "request served",
		Logger:  "gateway",
		Fields: map[string]interface{}{
			"request_id":    requestID,
			"provider":      providerName,
			"outcome":       metrics.OutcomeSuccess,
			"question_type": questionType,
			"latency_ms":    latency.Milliseconds(),
			"tokens_used":   genResp.TokensUsed,
			"model":         genResp.Model,
		},
	})
}

// modelFor applies question-type model selection: technical questions use
// the configured code model when one exists. No other substitution happens.
func (h *Handler) modelFor(questionType string) string {
	if questionType == QuestionTypeTechnical && h.providerConfig.CodeModel != "" {
		return h.providerConfig.CodeModel
	}
	return ""
}
