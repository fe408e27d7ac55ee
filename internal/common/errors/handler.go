// internal/common/errors/handler.go
package errors

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorHandler renders errors returned by echo handlers as StandardError JSON.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle satisfies echo.HTTPErrorHandler.
func (h *ErrorHandler) Handle(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	stdErr, status := h.normalizeError(err)
	h.logError(c, stdErr, status)

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, map[string]interface{}{"error": stdErr})
	}
	if writeErr != nil && h.logger != nil {
		h.logger.Error("failed to write error response", map[string]interface{}{
			"error": writeErr.Error(),
		})
	}
}

// normalizeError ensures we always have a StandardError and a status to send.
func (h *ErrorHandler) normalizeError(err error) (*StandardError, int) {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr, HTTPStatus(stdErr.Code)
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code := ErrCodeInternal
		switch httpErr.Code {
		case http.StatusNotFound, http.StatusMethodNotAllowed:
			code = ErrCodeNotFound
		case http.StatusUnauthorized:
			code = ErrCodeUnauthenticated
		case http.StatusBadRequest, http.StatusUnsupportedMediaType, http.StatusRequestEntityTooLarge:
			code = ErrCodeInvalidRequest
		}
		e := newError(code, http.StatusText(httpErr.Code), httpErr.Internal, false)
		if msg, ok := httpErr.Message.(string); ok && msg != "" {
			e.Details = msg
		}
		return e, httpErr.Code
	}

	return NewInternalError(err), http.StatusInternalServerError
}

func (h *ErrorHandler) logError(c echo.Context, stdErr *StandardError, status int) {
	if h.logger == nil {
		return
	}

	fields := map[string]interface{}{
		"method":   c.Request().Method,
		"path":     c.Path(),
		"status":   status,
		"code":     string(stdErr.Code),
		"category": GetErrorCategory(stdErr.Code),
		"details":  stdErr.Details,
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", fields)
		return
	}
	h.logger.Warn("request rejected", fields)
}
