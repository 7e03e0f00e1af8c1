package authsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/gatekeeper/pkg/httpx"
)

// ============================================================================
// Error Codes
// ============================================================================

const (
	ErrorCodeInvalidRequest   = "invalid_request"
	ErrorCodeValidation       = "validation_error"
	ErrorCodeInvalidToken     = "invalid_token"
	ErrorCodeTokenExpired     = "token_expired"
	ErrorCodeAccountSuspended = "account_suspended"
	ErrorCodeForbidden        = "forbidden"
	ErrorCodeNotFound         = "not_found"
	ErrorCodeConflict         = "conflict"
	ErrorCodeRateLimited      = "rate_limit_exceeded"
	ErrorCodeServerError      = "server_error"
)

// ============================================================================
// APIError
// ============================================================================

// APIError is the single error type crossing the HTTP boundary. Services
// return it, the server writes it, and the SDK client parses it back.
//
// Two APIErrors match under errors.Is when their status and code agree, so
// a specific message still matches its predefined counterpart:
//
//	errors.Is(authsdk.Forbidden("nope"), authsdk.ErrForbidden) // true
type APIError struct {
	// StatusCode is the HTTP status code for this error.
	StatusCode int `json:"-"`

	// Code is the machine-readable error code, e.g. "invalid_token".
	Code string `json:"error"`

	// Message is a human-readable description.
	Message string `json:"error_description"`

	// Details maps request fields to validation failures.
	Details map[string]string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is reports whether target is an *APIError with the same status and code.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.StatusCode == t.StatusCode && e.Code == t.Code
}

// WithMessage returns a copy of e carrying msg.
func (e *APIError) WithMessage(msg string) *APIError {
	cp := *e
	cp.Message = msg
	return &cp
}

// WriteError writes the error as a JSON body with its status code.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	if e.StatusCode == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer error="`+e.Code+`"`)
	}
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(e)
}

// ============================================================================
// Predefined Errors
// ============================================================================

var (
	// ErrInvalidRequest is returned for malformed bodies and missing fields.
	ErrInvalidRequest = &APIError{
		StatusCode: http.StatusBadRequest,
		Code:       ErrorCodeInvalidRequest,
		Message:    "the request is malformed or missing required parameters",
	}

	// ErrValidation is returned with Details when fields fail validation.
	ErrValidation = &APIError{
		StatusCode: http.StatusBadRequest,
		Code:       ErrorCodeValidation,
		Message:    "validation failed",
	}

	// ErrUnauthenticated is returned when no usable bearer token was sent.
	ErrUnauthenticated = &APIError{
		StatusCode: http.StatusUnauthorized,
		Code:       ErrorCodeInvalidToken,
		Message:    "Not authorized to access this route",
	}

	// ErrInvalidToken is returned for tokens that fail signature or claim checks.
	ErrInvalidToken = &APIError{
		StatusCode: http.StatusUnauthorized,
		Code:       ErrorCodeInvalidToken,
		Message:    "invalid token",
	}

	// ErrTokenExpired is returned for well-signed tokens past their expiry.
	ErrTokenExpired = &APIError{
		StatusCode: http.StatusUnauthorized,
		Code:       ErrorCodeTokenExpired,
		Message:    "token expired",
	}

	// ErrAccountSuspended is returned whenever a suspended identity tries to
	// sign in, refresh, or use an access token.
	ErrAccountSuspended = &APIError{
		StatusCode: http.StatusUnauthorized,
		Code:       ErrorCodeAccountSuspended,
		Message:    "account suspended",
	}

	// ErrForbidden is returned when an authenticated caller lacks permission.
	ErrForbidden = &APIError{
		StatusCode: http.StatusForbidden,
		Code:       ErrorCodeForbidden,
		Message:    "You do not have permission to perform this action",
	}

	// ErrNotFound is returned when a referenced resource does not exist.
	ErrNotFound = &APIError{
		StatusCode: http.StatusNotFound,
		Code:       ErrorCodeNotFound,
		Message:    "resource not found",
	}

	// ErrRouteNotFound is returned for unmatched paths.
	ErrRouteNotFound = &APIError{
		StatusCode: http.StatusNotFound,
		Code:       ErrorCodeNotFound,
		Message:    "Route Not Found",
	}

	// ErrConflict is returned for duplicate unique names.
	ErrConflict = &APIError{
		StatusCode: http.StatusConflict,
		Code:       ErrorCodeConflict,
		Message:    "resource already exists",
	}

	// ErrServerError is returned for unexpected failures.
	ErrServerError = &APIError{
		StatusCode: http.StatusInternalServerError,
		Code:       ErrorCodeServerError,
		Message:    "internal server error",
	}
)

// NewAPIError creates an error with an arbitrary status, code and message.
func NewAPIError(statusCode int, code, message string) *APIError {
	return &APIError{StatusCode: statusCode, Code: code, Message: message}
}

func BadRequest(msg string) *APIError   { return ErrInvalidRequest.WithMessage(msg) }
func Unauthorized(msg string) *APIError { return ErrInvalidToken.WithMessage(msg) }
func Forbidden(msg string) *APIError    { return ErrForbidden.WithMessage(msg) }
func NotFound(msg string) *APIError     { return ErrNotFound.WithMessage(msg) }
func Conflict(msg string) *APIError     { return ErrConflict.WithMessage(msg) }
func ServerError(msg string) *APIError  { return ErrServerError.WithMessage(msg) }

// ValidationFailed wraps per-field failures into a 400.
func ValidationFailed(details map[string]string) *APIError {
	cp := *ErrValidation
	cp.Details = details
	return &cp
}

// ============================================================================
// Error Parsing
// ============================================================================

// parseErrorResponse turns a non-2xx response into an *APIError. Bodies that
// are not in the error format still produce an error carrying the status.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode: resp.StatusCode,
			Code:       errResp.Error,
			Message:    errResp.ErrorDescription,
			Details:    errResp.Details,
		}
	}

	code := ErrorCodeServerError
	if resp.StatusCode < 500 {
		code = ErrorCodeInvalidRequest
	}
	return &APIError{
		StatusCode: resp.StatusCode,
		Code:       code,
		Message:    fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
