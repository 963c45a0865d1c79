package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(deps Dependencies) (Server, error) {
	if deps.StartupTime.IsZero() {
		deps.StartupTime = time.Now()
	}

	router, err := newRouter(deps)
	if err != nil {
		return Server{}, err
	}

	cfg := deps.Config.Server
	server := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return Server{server, deps.StartupTime}, nil
}

func newRouter(deps Dependencies) (*chi.Mux, error) {
	handlers := initializeHandlers(deps)
	session := newSessionMiddleware(deps.Sessions)

	limiterResponder := NewResponder(log.With().Str("handlerName", "loginRateLimiter").Logger())
	loginLimiter, err := loginRateLimiter(deps.Config.Server.LoginRateLimit, limiterResponder)
	if err != nil {
		return nil, err
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(middleware.RequestID)
	chiRouter.Use(middleware.RealIP)
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(requestLogger(log.With().Str("component", "http").Logger()))
	if deps.Config.Server.MetricsEnabled {
		chiRouter.Use(prometheusMiddleware)
	}
	chiRouter.Use(secureHeaders(deps.Config.IsProduction()))
	chiRouter.Use(corsMiddleware(deps.Config.Server.AcceptedOrigins))

	setupRoutes(chiRouter, handlers, session, loginLimiter, deps.Config.Server.MetricsEnabled)

	return chiRouter, nil
}

// Start serves until the listener fails. The http.ErrServerClosed that
// follows a graceful shutdown is not reported.
func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		errChannel <- err
	}
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Dur("uptime", time.Since(s.startupTime)).Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
