// Package errors defines the application error carried from repositories to
// the HTTP layer. Every AppError knows its status code and, when it has a
// catalog key, renders in the request language.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/attendly/attendly-backend/pkg/i18n"
)

// Sentinel kinds, matched with Is
var (
	ErrNotFound    = errors.New("resource not found")
	ErrBadRequest  = errors.New("bad request")
	ErrConflict    = errors.New("resource conflict")
	ErrInternal    = errors.New("internal server error")
	ErrValidation  = errors.New("validation error")
	ErrTimeout     = errors.New("query timeout")
	ErrUnavailable = errors.New("service unavailable")
)

// AppError is an error with an HTTP status and an optional catalog message
type AppError struct {
	Err        error             `json:"-"`
	Message    string            `json:"message"`
	MessageKey string            `json:"-"`
	Params     map[string]string `json:"-"`
	Code       string            `json:"code"`
	StatusCode int               `json:"status_code"`
	Details    map[string]string `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Localize renders the message in the locale stored in ctx
func (e *AppError) Localize(ctx context.Context) string {
	if e.MessageKey == "" {
		return e.Message
	}
	return i18n.TFromContext(ctx, e.MessageKey, e.Params)
}

// keyed builds an error whose Message is the Spanish catalog text of key
func keyed(kind error, code string, status int, key string, params map[string]string) *AppError {
	return &AppError{
		Err:        kind,
		Code:       code,
		Message:    i18n.T(key, params),
		MessageKey: key,
		Params:     params,
		StatusCode: status,
	}
}

// Wrap attaches an HTTP status to err
func Wrap(err error, code string, message string, statusCode int) *AppError {
	return &AppError{
		Err:        err,
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// NotFound reports a missing resource. The English message keeps the
// resource name as given.
func NotFound(resource string) *AppError {
	err := keyed(ErrNotFound, "NOT_FOUND", http.StatusNotFound, "errors.not_found",
		map[string]string{"resource": resource})
	err.Message = resource + " not found"
	return err
}

// BadRequest reports a malformed request with a fixed message
func BadRequest(message string) *AppError {
	return &AppError{
		Err:        ErrBadRequest,
		Code:       "BAD_REQUEST",
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

// BadRequestWithKey reports a malformed request with a catalog message
func BadRequestWithKey(messageKey string, params ...map[string]string) *AppError {
	var p map[string]string
	if len(params) > 0 {
		p = params[0]
	}
	return keyed(ErrBadRequest, "BAD_REQUEST", http.StatusBadRequest, messageKey, p)
}

func Conflict(message string) *AppError {
	return &AppError{
		Err:        ErrConflict,
		Code:       "CONFLICT",
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func Internal(message string) *AppError {
	err := keyed(ErrInternal, "INTERNAL_ERROR", http.StatusInternalServerError, "errors.internal", nil)
	err.Message = message
	return err
}

// Validation reports field errors; details maps field name to problem
func Validation(details map[string]string) *AppError {
	err := keyed(ErrValidation, "VALIDATION_ERROR", http.StatusBadRequest, "errors.validation_failed", nil)
	err.Message = "validation failed"
	err.Details = details
	return err
}

// Timeout reports a report query that outlived its deadline
func Timeout(cause error) *AppError {
	err := keyed(ErrTimeout, "QUERY_TIMEOUT", http.StatusGatewayTimeout, "errors.timeout", nil)
	err.Err = fmt.Errorf("%w: %v", ErrTimeout, cause)
	return err
}

// Unavailable reports a database that cannot serve the request right now
func Unavailable(cause error) *AppError {
	err := keyed(ErrUnavailable, "UNAVAILABLE", http.StatusServiceUnavailable, "errors.unavailable", nil)
	err.Err = fmt.Errorf("%w: %v", ErrUnavailable, cause)
	return err
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
