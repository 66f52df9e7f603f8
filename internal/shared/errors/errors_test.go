package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"not found", NotFound("report"), "NOT_FOUND", http.StatusNotFound},
		{"validation", Validation("no report definition provided"), "VALIDATION_ERROR", http.StatusBadRequest},
		{"unsupported format", UnsupportedFormat("docx"), "UNSUPPORTED_FORMAT", http.StatusBadRequest},
		{"generation", Generation("", errors.New("boom")), "GENERATION_ERROR", http.StatusInternalServerError},
		{"storage", Storage(errors.New("disk full")), "STORAGE_ERROR", http.StatusInternalServerError},
		{"internal", Internal("oops", nil), "INTERNAL_ERROR", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.StatusCode)
			assert.NotEmpty(t, tt.err.Message)
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("engine exploded")
	err := Generation("report generation failed", cause)

	assert.True(t, errors.Is(err, ErrGeneration))
	assert.True(t, errors.Is(err, cause))
}

func TestGetStatusCode(t *testing.T) {
	t.Run("app error", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, GetStatusCode(NotFound("artifact")))
	})

	t.Run("wrapped app error", func(t *testing.T) {
		err := fmt.Errorf("fetch: %w", NotFound("artifact"))
		assert.Equal(t, http.StatusNotFound, GetStatusCode(err))
	})

	t.Run("sentinel errors", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, GetStatusCode(ErrNotFound))
		assert.Equal(t, http.StatusBadRequest, GetStatusCode(ErrBadRequest))
		assert.Equal(t, http.StatusBadRequest, GetStatusCode(ErrUnsupportedFormat))
	})

	t.Run("unknown error", func(t *testing.T) {
		assert.Equal(t, http.StatusInternalServerError, GetStatusCode(errors.New("whatever")))
	})
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, "UNSUPPORTED_FORMAT", GetCode(UnsupportedFormat("csv")))
	assert.Equal(t, "INTERNAL_ERROR", GetCode(errors.New("whatever")))
}
