package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRequest(t *testing.T) {
	c := NewCollector(Config{})

	c.ObserveRequest("mock", OutcomeSuccess, 12*time.Millisecond)
	c.ObserveRequest("mock", OutcomeSuccess, 40*time.Millisecond)
	c.ObserveRequest("ollama", OutcomeProviderTimeout, 90*time.Second)

	if got := testutil.ToFloat64(c.RequestsTotal.WithLabelValues("mock", OutcomeSuccess)); got != 2 {
		t.Errorf("requests_total{mock,success} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.RequestsTotal.WithLabelValues("ollama", OutcomeProviderTimeout)); got != 1 {
		t.Errorf("requests_total{ollama,provider_timeout} = %v, want 1", got)
	}
}

func TestRegisterDroppedTelemetry(t *testing.T) {
	c := NewCollector(Config{})

	dropped := 0.0
	c.RegisterDroppedTelemetry(func() float64 { return dropped })
	dropped = 7

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	if !strings.Contains(body, "ai_agent_telemetry_dropped_total 7") {
		t.Errorf("exposition missing dropped counter:\n%s", body)
	}
}

func TestHandlerExposition(t *testing.T) {
	c := NewCollector(Config{Namespace: "ai_agent"})
	c.ObserveRequest("mock", OutcomeSuccess, 5*time.Millisecond)
	c.ActiveRequests.Set(3)
	c.ChatTotal.WithLabelValues("technical").Inc()

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := rec.Body.String()
	for _, want := range []string{
		`ai_agent_requests_total{outcome="success",provider="mock"} 1`,
		"ai_agent_request_latency_ms_bucket",
		"ai_agent_active_requests 3",
		`ai_agent_chat_total{question_type="technical"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}

func TestDefaultNamespace(t *testing.T) {
	c := NewCollector(Config{})
	c.ObserveRequest("mock", OutcomeSuccess, time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if !strings.Contains(rec.Body.String(), "ai_agent_requests_total") {
		t.Error("default namespace not applied")
	}
}
