package report

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/reportd/reportd/internal/shared/errors"
)

func newRendererForServer(srv *httptest.Server) *HTTPRenderer {
	return NewHTTPRenderer(&RendererConfig{
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
	})
}

func TestHTTPRendererRender(t *testing.T) {
	var got renderPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/render", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &got))

		w.Write([]byte("%PDF-1.7"))
	}))
	defer srv.Close()

	renderer := newRendererForServer(srv)
	payload, err := renderer.Render(context.Background(),
		json.RawMessage(`{"docElements":[]}`), json.RawMessage(`{"name":"x"}`), FormatPDF)
	require.NoError(t, err)

	assert.Equal(t, []byte("%PDF-1.7"), payload)
	assert.Equal(t, "pdf", got.OutputFormat)
	assert.JSONEq(t, `{"docElements":[]}`, string(got.Report))
	assert.JSONEq(t, `{"name":"x"}`, string(got.Data))
}

func TestHTTPRendererEngineRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"unknown parameter ${nope}"}`))
	}))
	defer srv.Close()

	renderer := newRendererForServer(srv)
	_, err := renderer.Render(context.Background(), json.RawMessage(`{}`), nil, FormatPDF)
	require.Error(t, err)

	assert.Equal(t, "VALIDATION_ERROR", apperrors.GetCode(err))
	assert.Contains(t, err.Error(), "unknown parameter ${nope}")
}

func TestHTTPRendererEngineFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	renderer := newRendererForServer(srv)
	_, err := renderer.Render(context.Background(), json.RawMessage(`{}`), nil, FormatPDF)
	require.Error(t, err)
	assert.Equal(t, "GENERATION_ERROR", apperrors.GetCode(err))
	assert.True(t, errors.Is(err, apperrors.ErrGeneration))
}

func TestHTTPRendererBreakerOpens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	renderer := newRendererForServer(srv)
	for i := 0; i < 5; i++ {
		_, err := renderer.Render(context.Background(), json.RawMessage(`{}`), nil, FormatPDF)
		require.Error(t, err)
	}

	// Breaker is open now; the request must fail without hitting the server.
	_, err := renderer.Render(context.Background(), json.RawMessage(`{}`), nil, FormatPDF)
	require.Error(t, err)
	assert.Equal(t, "GENERATION_ERROR", apperrors.GetCode(err))
	assert.Contains(t, err.Error(), "unavailable")
}

func TestHTTPRendererRejectionsDoNotTripBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"bad definition"}`))
	}))
	defer srv.Close()

	renderer := newRendererForServer(srv)
	for i := 0; i < 10; i++ {
		_, err := renderer.Render(context.Background(), json.RawMessage(`{}`), nil, FormatPDF)
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperrors.GetCode(err))
	}
}

func TestRenderErrorMessage(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"single error", `{"error":"bad report"}`, "bad report"},
		{"error list", `{"errors":[{"msg":"missing band"},{"msg":"other"}]}`, "missing band"},
		{"unparseable", `<html>oops</html>`, "invalid report definition"},
		{"empty", ``, "invalid report definition"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, renderErrorMessage([]byte(tc.body)))
		})
	}
}
