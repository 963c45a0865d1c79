package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrDatabaseQuery      = errors.New("database query failed")
	ErrDatabaseConnection = errors.New("database connection failed")
)

func NewAlreadyExists(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusConflict,
		err:        fmt.Errorf("%s %w", entity, ErrAlreadyExists),
	}
}

func NewNotFound(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        fmt.Errorf("%s %w", entity, ErrNotFound),
	}
}

// NewDatabaseError classifies a storage failure. Anything that is not a
// recognised client-side condition becomes a 5xx whose cause is only logged.
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	var apiErr *ApiErr
	if errors.As(cause, &apiErr) {
		return apiErr
	}

	details := fmt.Sprintf("Failed to %s %s", operation, entity)

	if cause != nil {
		errStr := strings.ToLower(cause.Error())
		switch {
		case strings.Contains(errStr, "duplicate key"), strings.Contains(errStr, "unique constraint"):
			apiErr := NewAlreadyExists(entity)
			apiErr.Details = details
			apiErr.Cause = cause
			return apiErr
		case strings.Contains(errStr, "connection refused"), strings.Contains(errStr, "bad connection"),
			strings.Contains(errStr, "database is closed"):
			return &ApiErr{
				StatusCode: http.StatusServiceUnavailable,
				err:        ErrDatabaseConnection,
				Details:    details,
				Cause:      cause,
			}
		}
	}

	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrDatabaseQuery,
		Details:    details,
		Cause:      cause,
	}
}

func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

func IsDatabaseConnectionError(err error) bool {
	return errors.Is(err, ErrDatabaseConnection)
}
