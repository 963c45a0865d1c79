package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/errs"
)

const healthCheckTimeout = 3 * time.Second

// Pinger is the database check behind /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthHandler struct {
	responder   Responder
	logger      zerolog.Logger
	db          Pinger
	startupTime time.Time
}

func newHealthHandler(db Pinger, startupTime time.Time) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()

	return healthHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		db:          db,
		startupTime: startupTime,
	}
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Uptime   string `json:"uptime"`
}

func (h healthHandler) check() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		resp := healthResponse{
			Status:   "ok",
			Database: "ok",
			Uptime:   time.Since(h.startupTime).Round(time.Second).String(),
		}
		status := http.StatusOK
		if err := h.db.Ping(ctx); err != nil {
			h.logger.Error().Err(err).Msg("database ping failed")
			resp.Status = "unavailable"
			resp.Database = "error"
			if errs.IsDatabaseConnectionError(err) {
				resp.Database = "unreachable"
			}
			status = http.StatusServiceUnavailable
		}
		h.responder.WriteJSONStatus(w, status, resp)
	}
}
