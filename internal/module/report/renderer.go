package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	apperrors "github.com/reportd/reportd/internal/shared/errors"
)

// Renderer produces report bytes from a definition and data. The actual
// layout engine is an external collaborator; implementations adapt it.
type Renderer interface {
	Render(ctx context.Context, definition, data json.RawMessage, format OutputFormat) ([]byte, error)
}

// RendererConfig holds the render service client configuration.
type RendererConfig struct {
	BaseURL string
	Timeout time.Duration
}

// DefaultRendererConfig returns the default renderer configuration.
func DefaultRendererConfig() *RendererConfig {
	return &RendererConfig{
		BaseURL: "http://localhost:8010",
		Timeout: 60 * time.Second,
	}
}

// renderResult is the render service response as seen by the breaker.
// Only transport failures and 5xx responses count as breaker failures;
// a definition rejected by the engine is the client's problem, not the
// engine's health.
type renderResult struct {
	status int
	body   []byte
}

// HTTPRenderer calls the external render service over HTTP, protected by
// a circuit breaker.
type HTTPRenderer struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[*renderResult]
}

// NewHTTPRenderer creates a renderer client for the render service.
func NewHTTPRenderer(cfg *RendererConfig) *HTTPRenderer {
	if cfg == nil {
		cfg = DefaultRendererConfig()
	}

	settings := gobreaker.Settings{
		Name:        "renderer",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}

	return &HTTPRenderer{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
		breaker: gobreaker.NewCircuitBreaker[*renderResult](settings),
	}
}

// renderPayload is the request body sent to the render service.
type renderPayload struct {
	Report       json.RawMessage `json:"report"`
	Data         json.RawMessage `json:"data"`
	OutputFormat string          `json:"outputFormat"`
}

// Render renders the report through the external service.
func (r *HTTPRenderer) Render(ctx context.Context, definition, data json.RawMessage, format OutputFormat) ([]byte, error) {
	body, err := json.Marshal(renderPayload{
		Report:       definition,
		Data:         data,
		OutputFormat: string(format),
	})
	if err != nil {
		return nil, apperrors.Validation(fmt.Sprintf("encode render request: %v", err))
	}

	res, err := r.breaker.Execute(func() (*renderResult, error) {
		return r.post(ctx, body)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, apperrors.Generation("report renderer unavailable", err)
		}
		return nil, apperrors.Generation("report generation failed", err)
	}

	if res.status != http.StatusOK {
		return nil, apperrors.Validation(renderErrorMessage(res.body))
	}
	return res.body, nil
}

// post performs one render call. It returns an error only for transport
// failures and 5xx responses so that those alone feed the breaker.
func (r *HTTPRenderer) post(ctx context.Context, body []byte) (*renderResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/render", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("render service returned %d", resp.StatusCode)
	}

	return &renderResult{status: resp.StatusCode, body: data}, nil
}

// renderErrorMessage extracts a client-safe message from an engine error
// response.
func renderErrorMessage(body []byte) string {
	var single struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &single); err == nil && single.Error != "" {
		return single.Error
	}

	var multi struct {
		Errors []struct {
			Msg string `json:"msg"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &multi); err == nil && len(multi.Errors) > 0 && multi.Errors[0].Msg != "" {
		return multi.Errors[0].Msg
	}

	return "invalid report definition"
}
