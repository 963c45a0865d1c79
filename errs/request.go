package errs

import (
	"errors"
	"net/http"
)

// Unauthorized is the only body a rejected session ever sees.
var (
	Unauthorized = &ApiErr{StatusCode: http.StatusUnauthorized, err: ErrUnauthorized}
)

// Authentication & Authorization Errors. The token reasons are only logged;
// clients always get Unauthorized.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingToken       = errors.New("missing access token")
	ErrInvalidToken       = errors.New("invalid access token")
)

func BadRequest(message string) *ApiErr {
	return NewBadRequestError(message)
}

// NewInvalidCredentialsError is shared by every login failure so callers
// cannot tell an unknown user from a wrong password.
func NewInvalidCredentialsError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrInvalidCredentials,
	}
}

func IsInvalidCredentialsError(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}
