package providers

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

type echoPayload struct {
	Value string `json:"value"`
}

func TestDoJSONRequestSuccess(t *testing.T) {
	srv := newTestServer(t, "/gen", http.StatusOK, `{"value":"ok"}`)
	defer srv.Close()

	p := NewHTTPProvider("test", Config{Timeout: 5 * time.Second})
	defer func() { _ = p.Close() }()

	var resp echoPayload
	err := p.DoJSONRequest(context.Background(), http.MethodPost, srv.URL+"/gen", nil, echoPayload{Value: "in"}, &resp)
	if err != nil {
		t.Fatalf("DoJSONRequest() error = %v", err)
	}
	if resp.Value != "ok" {
		t.Errorf("decoded value = %q, want %q", resp.Value, "ok")
	}
}

func TestDoJSONRequestErrorStatus(t *testing.T) {
	srv := newTestServer(t, "/gen", http.StatusBadGateway, `{"error":"upstream exploded"}`)
	defer srv.Close()

	p := NewHTTPProvider("test", Config{Timeout: 5 * time.Second})
	defer func() { _ = p.Close() }()

	err := p.DoJSONRequest(context.Background(), http.MethodPost, srv.URL+"/gen", nil, nil, nil)

	var badResp *BadResponseError
	if !errors.As(err, &badResp) {
		t.Fatalf("error = %v, want BadResponseError", err)
	}
	if badResp.StatusCode != http.StatusBadGateway {
		t.Errorf("StatusCode = %d, want %d", badResp.StatusCode, http.StatusBadGateway)
	}
}

func TestDoJSONRequestTimeout(t *testing.T) {
	srv := newSlowTestServer(t, "/gen", 500*time.Millisecond)
	defer srv.Close()

	p := NewHTTPProvider("test", Config{Timeout: 50 * time.Millisecond})
	defer func() { _ = p.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := p.DoJSONRequest(ctx, http.MethodPost, srv.URL+"/gen", nil, nil, nil)

	var timeout *TimeoutError
	if !errors.As(err, &timeout) {
		t.Fatalf("error = %v, want TimeoutError", err)
	}
	if timeout.Timeout != 50*time.Millisecond {
		t.Errorf("Timeout = %v, want %v", timeout.Timeout, 50*time.Millisecond)
	}
}

func TestDoJSONRequestUnreachable(t *testing.T) {
	srv := newTestServer(t, "/gen", http.StatusOK, `{}`)
	url := srv.URL
	srv.Close()

	p := NewHTTPProvider("test", Config{Timeout: 5 * time.Second})
	defer func() { _ = p.Close() }()

	err := p.DoJSONRequest(context.Background(), http.MethodPost, url+"/gen", nil, nil, nil)

	var unreachable *UnreachableError
	if !errors.As(err, &unreachable) {
		t.Fatalf("error = %v, want UnreachableError", err)
	}
}

func TestDoJSONRequestCustomHeaders(t *testing.T) {
	var gotAuth string
	srv := newInspectingTestServer(t, func(r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	})
	defer srv.Close()

	p := NewHTTPProvider("test", Config{Timeout: 5 * time.Second})
	defer func() { _ = p.Close() }()

	headers := map[string]string{"Authorization": "Bearer sk-test"}
	if err := p.DoJSONRequest(context.Background(), http.MethodPost, srv.URL+"/", headers, nil, nil); err != nil {
		t.Fatalf("DoJSONRequest() error = %v", err)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("Authorization header = %q, want %q", gotAuth, "Bearer sk-test")
	}
}

func TestHealthGet(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{name: "healthy", status: http.StatusOK, wantErr: false},
		{name: "server error", status: http.StatusServiceUnavailable, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, "/", tt.status, "ok")
			defer srv.Close()

			p := NewHTTPProvider("test", Config{Timeout: 5 * time.Second})
			defer func() { _ = p.Close() }()

			err := p.HealthGet(context.Background(), srv.URL+"/", nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("HealthGet() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
