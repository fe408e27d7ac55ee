package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	warns  []string
	errors []string
}

func (r *recordingLogger) Warn(msg string, _ map[string]interface{})  { r.warns = append(r.warns, msg) }
func (r *recordingLogger) Error(msg string, _ map[string]interface{}) { r.errors = append(r.errors, msg) }

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeUnauthenticated, http.StatusUnauthorized},
		{ErrCodeValidationFailed, http.StatusBadRequest},
		{ErrCodeInvalidStatus, http.StatusBadRequest},
		{ErrCodeScreenNotFound, http.StatusNotFound},
		{ErrCodeScreenClosed, http.StatusGone},
		{ErrCodeTooManyScreens, http.StatusTooManyRequests},
		{ErrCodeTransport, http.StatusServiceUnavailable},
		{ErrCodeUpdateFailed, http.StatusBadGateway},
		{ErrCodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.code))
		})
	}
}

func TestStandardError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("handler: %w", NewUpdateFailedError("Failed to update status", cause))

	assert.ErrorIs(t, err, cause)
	std := AsStandard(err)
	assert.Equal(t, ErrCodeUpdateFailed, std.Code)
	assert.True(t, std.Retryable)
	assert.Equal(t, "connection refused", std.Details)
}

func TestAsStandard_WrapsUnknown(t *testing.T) {
	std := AsStandard(errors.New("weird"))
	assert.Equal(t, ErrCodeInternal, std.Code)
	assert.Equal(t, "REMOTE", GetErrorCategory(ErrCodeLoadFailed))
}

func TestErrorHandler_Handle(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   ErrorCode
		wantWarn   bool
	}{
		{
			name:       "standard error",
			err:        NewUnauthenticatedError("missing bearer token"),
			wantStatus: http.StatusUnauthorized,
			wantCode:   ErrCodeUnauthenticated,
			wantWarn:   true,
		},
		{
			name:       "echo not found",
			err:        echo.NewHTTPError(http.StatusNotFound, "no route"),
			wantStatus: http.StatusNotFound,
			wantCode:   ErrCodeNotFound,
			wantWarn:   true,
		},
		{
			name:       "plain error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   ErrCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := &recordingLogger{}
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/admin/puppies", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			NewErrorHandler(log).Handle(tt.err, c)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body struct {
				Error StandardError `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Error.Code)

			if tt.wantWarn {
				assert.Len(t, log.warns, 1)
				assert.Empty(t, log.errors)
			} else {
				assert.Len(t, log.errors, 1)
			}
		})
	}
}
