package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// maxErrorBodySize bounds how much of a provider error body is captured
// into BadResponseError messages.
const maxErrorBodySize = 2048

// HTTPProvider is the shared base for HTTP-backed adapters. It owns the
// pooled client and classifies transport and status failures into the typed
// errors of this package. Concrete adapters embed it and implement Generate
// on top of DoJSONRequest.
type HTTPProvider struct {
	name   string
	config Config
	client *http.Client
}

// NewHTTPProvider creates the base with a pooled transport. The client
// carries no timeout of its own; deadlines come from the request context so
// a single Generate call is bounded by the per-provider timeout.
func NewHTTPProvider(name string, config Config) *HTTPProvider {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	return &HTTPProvider{
		name:   name,
		config: config,
		client: &http.Client{Transport: transport},
	}
}

// Name returns the provider id.
func (p *HTTPProvider) Name() string {
	return p.name
}

// Config returns the provider configuration.
func (p *HTTPProvider) Config() Config {
	return p.config
}

// Close releases idle connections.
func (p *HTTPProvider) Close() error {
	if t, ok := p.client.Transport.(*http.Transport); ok {
		t.CloseIdleConnections()
	}
	return nil
}

// DoJSONRequest sends reqBody as JSON and decodes a 2xx response into
// respBody. Failures come back as typed errors:
//
//   - context deadline exceeded      -> TimeoutError
//   - dial/DNS/TLS failure           -> UnreachableError
//   - non-2xx status                 -> BadResponseError (callers translate
//     model-specific statuses, e.g. 404, into ModelNotFoundError)
//   - undecodable 2xx body           -> BadResponseError
func (p *HTTPProvider) DoJSONRequest(ctx context.Context, method, requestURL string, headers map[string]string, reqBody, respBody interface{}) error {
	var bodyReader io.Reader
	if reqBody != nil {
		payload, err := json.Marshal(reqBody)
		if err != nil {
			return &BadResponseError{
				Provider: p.name,
				Message:  fmt.Sprintf("failed to encode request: %v", err),
				Err:      err,
			}
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if err != nil {
		return &ConfigError{Provider: p.name, Field: "base_url", Message: err.Error()}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return p.classifyTransportError(ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return &BadResponseError{
			Provider:   p.name,
			StatusCode: resp.StatusCode,
			Message:    string(bytes.TrimSpace(snippet)),
		}
	}

	if respBody != nil {
		if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
			return &BadResponseError{
				Provider: p.name,
				Message:  fmt.Sprintf("failed to decode response: %v", err),
				Err:      err,
			}
		}
	}

	return nil
}

// HealthGet issues a GET against the given URL and reports non-2xx or
// transport failures as errors. Used by adapter HealthCheck implementations.
func (p *HTTPProvider) HealthGet(ctx context.Context, requestURL string, headers map[string]string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return &ConfigError{Provider: p.name, Field: "base_url", Message: err.Error()}
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return p.classifyTransportError(ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBodySize))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &BadResponseError{
			Provider:   p.name,
			StatusCode: resp.StatusCode,
			Message:    "health probe failed",
		}
	}
	return nil
}

// classifyTransportError turns a client.Do failure into a typed error.
// Deadline expiry wins over the wrapped url.Error so a slow-but-reachable
// endpoint reports as a timeout, not as unreachable.
func (p *HTTPProvider) classifyTransportError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Provider: p.name, Timeout: p.config.Timeout}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return &TimeoutError{Provider: p.name, Timeout: p.config.Timeout}
	}

	return &UnreachableError{Provider: p.name, Err: err}
}
