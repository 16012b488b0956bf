package genai

import (
	"errors"
	"fmt"
	"net/http"
)

// Backend identifies which backend family produced an error.
type Backend string

const (
	BackendGateway      Backend = "gateway"
	BackendGemini       Backend = "gemini"
	BackendCodeAssist   Backend = "codeassist"
	BackendOpenAICompat Backend = "openai-compat"
)

// ErrorCode categorizes gateway errors.
type ErrorCode string

const (
	ErrCodeUnknown             ErrorCode = "unknown"
	ErrCodeAuthentication      ErrorCode = "authentication"
	ErrCodeRateLimit           ErrorCode = "rate_limit"
	ErrCodeInvalidRequest      ErrorCode = "invalid_request"
	ErrCodeNotFound            ErrorCode = "not_found"
	ErrCodeServerError         ErrorCode = "server_error"
	ErrCodeNetwork             ErrorCode = "network"
	ErrCodeNotImplemented      ErrorCode = "not_implemented"
	ErrCodeUnsupportedAuthMode ErrorCode = "unsupported_auth_mode"
	ErrCodeMissingCredentials  ErrorCode = "missing_credentials"
)

// GatewayError is the standardized error surfaced by the gateway. Backend
// native failures are carried in Err and exposed through Unwrap so callers
// can still reach the precise underlying cause.
type GatewayError struct {
	Code       ErrorCode
	Message    string
	StatusCode int // HTTP status, 0 when not applicable
	Backend    Backend
	Operation  string // e.g. "generateContent", "countTokens"
	Err        error
}

func (e *GatewayError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("[%s] %s (status=%d, code=%s)", e.Backend, e.Message, e.StatusCode, e.Code)
	}
	return fmt.Sprintf("[%s] %s (code=%s)", e.Backend, e.Message, e.Code)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// WithOperation sets the operation field and returns the error for chaining.
func (e *GatewayError) WithOperation(operation string) *GatewayError {
	e.Operation = operation
	return e
}

// WithStatusCode sets the status code field and returns the error for chaining.
func (e *GatewayError) WithStatusCode(statusCode int) *GatewayError {
	e.StatusCode = statusCode
	return e
}

// WithCause sets the wrapped cause and returns the error for chaining.
func (e *GatewayError) WithCause(err error) *GatewayError {
	e.Err = err
	return e
}

// NewError creates a GatewayError with the given code and message.
func NewError(backend Backend, code ErrorCode, message string) *GatewayError {
	return &GatewayError{Code: code, Message: message, Backend: backend}
}

// NewNotImplementedError reports an operation the adapter has no backend
// support for. The call fails loudly so callers can branch.
func NewNotImplementedError(backend Backend, message string) *GatewayError {
	return &GatewayError{Code: ErrCodeNotImplemented, Message: message, Backend: backend}
}

// NewUnsupportedAuthModeError reports an auth mode the factory cannot
// dispatch.
func NewUnsupportedAuthModeError(mode string) *GatewayError {
	return &GatewayError{
		Code:    ErrCodeUnsupportedAuthMode,
		Message: fmt.Sprintf("unsupported auth mode: %s", mode),
		Backend: BackendGateway,
	}
}

// IsNotImplemented reports whether err is a not-implemented gateway error.
func IsNotImplemented(err error) bool {
	var ge *GatewayError
	return errors.As(err, &ge) && ge.Code == ErrCodeNotImplemented
}

// IsUnsupportedAuthMode reports whether err is an unsupported-auth-mode error.
func IsUnsupportedAuthMode(err error) bool {
	var ge *GatewayError
	return errors.As(err, &ge) && ge.Code == ErrCodeUnsupportedAuthMode
}

// ClassifyHTTPStatus maps an HTTP status to an error code.
func ClassifyHTTPStatus(statusCode int) ErrorCode {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrCodeAuthentication
	case http.StatusTooManyRequests:
		return ErrCodeRateLimit
	case http.StatusBadRequest:
		return ErrCodeInvalidRequest
	case http.StatusNotFound:
		return ErrCodeNotFound
	default:
		if statusCode >= 500 {
			return ErrCodeServerError
		}
		return ErrCodeUnknown
	}
}
