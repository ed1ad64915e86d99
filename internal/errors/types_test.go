package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorMessage(t *testing.T) {
	err := New(ErrCodeInvalidInput, "limit must be an integer")
	assert.Equal(t, "INVALID_INPUT: limit must be an integer", err.Error())

	wrapped := Wrap(fmt.Errorf("connection refused"), ErrCodeRemoteAPI, "graph request failed")
	assert.Equal(t, "REMOTE_API: graph request failed: connection refused", wrapped.Error())
}

func TestUnwrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("disk full")
	wrapped := Wrap(cause, ErrCodeDatabaseQuery, "upsert failed")

	assert.True(t, stderrors.Is(wrapped, cause))

	var appErr *AppError
	assert.True(t, stderrors.As(fmt.Errorf("outer: %w", wrapped), &appErr))
	assert.Equal(t, ErrCodeDatabaseQuery, appErr.Code)
}

func TestRetryable(t *testing.T) {
	assert.True(t, IsRetryable(WrapRetryable(fmt.Errorf("locked"), ErrCodeDatabaseConnection, "open failed")))
	assert.False(t, IsRetryable(New(ErrCodeInvalidInput, "bad request")))
	assert.False(t, IsRetryable(fmt.Errorf("plain error")))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, ErrCodeRemoteAuth, GetCode(New(ErrCodeRemoteAuth, "token expired")))
	assert.Equal(t, ErrCodeInternalError, GetCode(fmt.Errorf("plain error")))
}

func TestWithContext(t *testing.T) {
	err := New(ErrCodeRemoteAPI, "send failed").
		WithContext("platform", "facebook").
		WithContext("status", 500)

	assert.Equal(t, "facebook", err.Context["platform"])
	assert.Equal(t, 500, err.Context["status"])
}

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid input", New(ErrCodeInvalidInput, "x"), http.StatusBadRequest},
		{"validation failed", New(ErrCodeValidationFailed, "x"), http.StatusBadRequest},
		{"remote auth", New(ErrCodeRemoteAuth, "x"), http.StatusUnauthorized},
		{"not found", New(ErrCodeNotFound, "x"), http.StatusNotFound},
		{"missing config", New(ErrCodeMissingConfig, "x"), http.StatusInternalServerError},
		{"remote api", New(ErrCodeRemoteAPI, "x"), http.StatusInternalServerError},
		{"plain error", fmt.Errorf("boom"), http.StatusInternalServerError},
		{"wrapped app error", fmt.Errorf("outer: %w", New(ErrCodeRemoteAuth, "x")), http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
