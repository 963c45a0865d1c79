package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Common error sentinel values
var (
	ErrBadRequest   = errors.New("malformed request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInternal     = errors.New("internal server error")
	ErrTooMany      = errors.New("too many requests")
)

// Request & Input-Validation Errors
var (
	ErrMissingRequiredField = errors.New("missing required field")
	ErrInvalidField         = errors.New("invalid field")
	ErrInvalidIdentifier    = errors.New("invalid identifier")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrMaxBodySizeExceeded  = errors.New("max body size exceeded")
	ErrInvalidJSON          = errors.New("invalid JSON")
)

type ApiErr struct {
	StatusCode int
	err        error
	Details    string // Additional details about the error
	Field      string // Field that caused the error (for validation errors)
	Cause      error  // The underlying cause of the error, never sent to clients
}

// implements error interface. this allows us to pass an instance of ApiErr as an argument of type `error`
func (e *ApiErr) Error() string {
	return e.err.Error()
}

// GetFullError returns a recursive error message including all causes
func (e *ApiErr) GetFullError() string {
	msg := e.Error()
	if e.Details != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Details)
	}
	if e.Cause != nil {
		var apiErr *ApiErr
		if errors.As(e.Cause, &apiErr) {
			msg = fmt.Sprintf("%s -> %s", msg, apiErr.GetFullError())
		} else {
			msg = fmt.Sprintf("%s -> %s", msg, e.Cause.Error())
		}
	}
	return msg
}

// this function allows us to do the following:
// err := &ApiErr{StatusCode: ..., err: someSentinelError}
// errors.Is(err, someSentinelError) ==> evaluates to true
func (e *ApiErr) Unwrap() error {
	return e.err
}

// IsServerError reports whether the error should be hidden from clients.
func (e *ApiErr) IsServerError() bool {
	return e.StatusCode >= http.StatusInternalServerError
}

// kindError keeps the caller's message while still matching a sentinel.
type kindError struct {
	msg  string
	kind error
}

func (e kindError) Error() string { return e.msg }
func (e kindError) Unwrap() error { return e.kind }

func withKind(message string, kind error) error {
	return kindError{msg: message, kind: kind}
}

// Common error constructors with appropriate HTTP status codes
func NewBadRequestError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusBadRequest, err: withKind(message, ErrBadRequest)}
}

func NewInternalError(message string, cause error) *ApiErr {
	return &ApiErr{StatusCode: http.StatusInternalServerError, err: withKind(message, ErrInternal), Cause: cause}
}

func NewTooManyRequestsError() *ApiErr {
	return &ApiErr{StatusCode: http.StatusTooManyRequests, err: ErrTooMany}
}

func IsBadRequest(err error) bool {
	return errors.Is(err, ErrBadRequest)
}

func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Request & Input-Validation Error Constructors
func NewMissingRequiredFieldError(fieldName string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrMissingRequiredField,
		Details:    fmt.Sprintf("Missing required field: %s", fieldName),
		Field:      fieldName,
	}
}

func NewInvalidFieldError(fieldName string, reason string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrInvalidField,
		Details:    fmt.Sprintf("Invalid field %s: %s", fieldName, reason),
		Field:      fieldName,
	}
}

func NewInvalidIdentifierError(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        fmt.Errorf("invalid %s id: %w", entity, ErrInvalidIdentifier),
		Field:      "id",
	}
}

func NewUnsupportedMediaTypeError(contentType string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnsupportedMediaType,
		err:        ErrUnsupportedMediaType,
		Details:    fmt.Sprintf("Unsupported media type: %s", contentType),
		Field:      "content_type",
	}
}

func NewMaxBodySizeExceededError(maxSize int64) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusRequestEntityTooLarge,
		err:        ErrMaxBodySizeExceeded,
		Details:    fmt.Sprintf("Request body size exceeded maximum allowed size of %d bytes", maxSize),
		Field:      "body_size",
	}
}

func NewInvalidJSONError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrInvalidJSON,
		Details:    "Invalid JSON format",
		Cause:      cause,
		Field:      "json",
	}
}

func IsMissingRequiredFieldError(err error) bool {
	return errors.Is(err, ErrMissingRequiredField)
}

func IsInvalidFieldError(err error) bool {
	return errors.Is(err, ErrInvalidField)
}

func IsInvalidIdentifierError(err error) bool {
	return errors.Is(err, ErrInvalidIdentifier)
}

func IsInvalidJSONError(err error) bool {
	return errors.Is(err, ErrInvalidJSON)
}
