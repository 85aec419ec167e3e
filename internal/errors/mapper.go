package errors

import (
	"context"
	"errors"
	"net/http"

	"gorm.io/gorm"
)

// Error is a transport-facing error with an HTTP status attached.
// Service code builds these for conditions it can classify; everything
// else falls through Map's infra-error translation.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

// InvalidArgument rejects bad input before any storage access.
func InvalidArgument(msg string) error {
	return &Error{Status: http.StatusBadRequest, Message: msg}
}

// NotFound reports a missing entity on the primary path.
func NotFound(msg string) error {
	return &Error{Status: http.StatusNotFound, Message: msg}
}

// Map converts repo/infra errors into an HTTP status + safe message.
// Keeps handlers clean by centralizing error translation.
func Map(err error) (int, string) {
	if err == nil {
		return http.StatusOK, ""
	}

	var e *Error
	switch {
	case errors.As(err, &e):
		return e.Status, e.Message

	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, "record not found"

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "request timed out"

	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, "request was canceled"

	default:
		return http.StatusInternalServerError, "internal error"
	}
}
