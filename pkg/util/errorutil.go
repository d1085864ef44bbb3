package util

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Error codes surfaced to API clients.
const (
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeMissingField     = "MISSING_FIELD"
	CodeInvalidStatus    = "INVALID_STATUS"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeNotFound         = "NOT_FOUND"
	CodeDependencyFailed = "DEPENDENCY_FAILED"
	CodeConfigMissing    = "CONFIG_MISSING"
	CodeInternal         = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidationFailed, message, http.StatusBadRequest, details)
}

// NewMissingField reports absent required input fields.
func NewMissingField(message string, fields ...string) error {
	var details map[string]any
	if len(fields) > 0 {
		details = map[string]any{"fields": fields}
	}
	return NewDomainError(CodeMissingField, message, http.StatusBadRequest, details)
}

// NewInvalidStatus reports a status value outside the accepted vocabulary.
func NewInvalidStatus(message, value string) error {
	return NewDomainError(CodeInvalidStatus, message, http.StatusBadRequest, map[string]any{"status": value})
}

func NewNotFound(message string, details map[string]any) error {
	return NewDomainError(CodeNotFound, message, http.StatusNotFound, details)
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

// NewDependencyError wraps a failed downstream call (database, CRM, webhook, mail).
func NewDependencyError(dependency string, err error) error {
	return &DomainError{
		Code:       CodeDependencyFailed,
		Message:    fmt.Sprintf("%s unavailable", dependency),
		HTTPStatus: http.StatusBadGateway,
		Details:    map[string]any{"dependency": dependency},
		Err:        err,
	}
}

// NewConfigError reports required configuration that is not set.
// Variable names are kept out of the client-facing message.
func NewConfigError(missing ...string) error {
	return &DomainError{
		Code:       CodeConfigMissing,
		Message:    "서버 환경변수가 누락되었습니다.",
		HTTPStatus: http.StatusInternalServerError,
		Err:        fmt.Errorf("missing configuration: %s", strings.Join(missing, ", ")),
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "서버 내부 오류가 발생했습니다.",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// IsCode reports whether err carries the given DomainError code.
func IsCode(err error, code string) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == code
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return NewDomainError(CodeNotFound, "resource not found", http.StatusNotFound, nil)
	}
	return &DomainError{
		Code:       CodeInternal,
		Message:    "서버 내부 오류가 발생했습니다.",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}
