package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Configuration & External Service Errors
var (
	ErrConfiguration = errors.New("configuration error")
	ErrUpstream      = errors.New("upstream service error")
)

func NewConfigError(configName string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        fmt.Errorf("%w: %s", ErrConfiguration, configName),
		Cause:      cause,
	}
}

func NewEnvironmentVariableError(varName string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        fmt.Errorf("%w: %s is not set", ErrConfiguration, varName),
		Field:      varName,
	}
}

func NewUpstreamError(service string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        fmt.Errorf("%s: %w", service, ErrUpstream),
		Cause:      cause,
	}
}

func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

func IsUpstreamError(err error) bool {
	return errors.Is(err, ErrUpstream)
}
