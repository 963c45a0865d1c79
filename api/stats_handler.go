package api

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/rpupo63/portfolio-backend/database"
)

type statsHandler struct {
	responder Responder
	logger    zerolog.Logger
	database  database.Database
}

func newStatsHandler(database database.Database) statsHandler {
	logger := log.With().Str("handlerName", "statsHandler").Logger()

	return statsHandler{
		responder: NewResponder(logger),
		logger:    logger,
		database:  database,
	}
}

// StatsResponse holds the dashboard counters.
type StatsResponse struct {
	Projects     int64 `json:"projects"`
	Certificates int64 `json:"certificates"`
	Skills       int64 `json:"skills"`
	Contacts     int64 `json:"contacts"`
}

// getStats counts every collection concurrently.
func (h statsHandler) getStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var stats StatsResponse
		g, ctx := errgroup.WithContext(r.Context())

		count := func(dst *int64, fn func(context.Context) (int64, error)) {
			g.Go(func() error {
				n, err := fn(ctx)
				if err != nil {
					return err
				}
				*dst = n
				return nil
			})
		}
		count(&stats.Projects, h.database.ProjectRepo().Count)
		count(&stats.Certificates, h.database.CertificateRepo().Count)
		count(&stats.Skills, h.database.SkillRepo().Count)
		count(&stats.Contacts, h.database.ContactRepo().Count)

		if err := g.Wait(); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, stats)
	}
}
