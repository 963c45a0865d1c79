package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rpupo63/portfolio-backend/errs"
)

const maxResponseSize = 10 * 1024 * 1024 // 10MB

type Responder struct {
	logger zerolog.Logger
}

func NewResponder(logger zerolog.Logger) Responder {
	return Responder{logger}
}

func (r Responder) WriteJSON(w http.ResponseWriter, data any) {
	r.WriteJSONStatus(w, http.StatusOK, data)
}

func (r Responder) WriteJSONStatus(w http.ResponseWriter, status int, data any) {
	// Marshal the data first so a failure can still produce a clean 500
	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if len(jsonData) > maxResponseSize {
		r.logger.Error().
			Int("responseSize", len(jsonData)).
			Int("maxSize", maxResponseSize).
			Msg("response too large")
		status = http.StatusInternalServerError
		jsonData, _ = json.Marshal(ErrorResponse{Error: "response too large", Status: "error"})
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

// WriteError converts err into the public error body. Server-side failures
// are logged with their cause and answered with a generic message.
func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var apiErr *errs.ApiErr
	if !errors.As(err, &apiErr) {
		apiErr = errs.NewInternalError("unexpected error", err)
	}

	if apiErr.IsServerError() {
		r.logger.Error().
			Int("status", apiErr.StatusCode).
			Str("error", apiErr.GetFullError()).
			Msg("request failed")
		r.WriteJSONStatus(w, apiErr.StatusCode, ErrorResponse{
			Error:  strings.ToLower(http.StatusText(apiErr.StatusCode)),
			Status: "error",
		})
		return
	}

	r.WriteJSONStatus(w, apiErr.StatusCode, ErrorResponse{
		Error:   apiErr.Error(),
		Status:  "error",
		Field:   apiErr.Field,
		Details: apiErr.Details,
	})
}

type messageResponse struct {
	Message string `json:"message"`
}

type createdResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}
