package api

import (
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	"github.com/unrolled/secure"

	"github.com/rpupo63/portfolio-backend/errs"
)

const sessionCookieName = "admin-token"

type sessionMiddleware struct {
	responder Responder
	logger    zerolog.Logger
	sessions  SessionVerifier
}

func newSessionMiddleware(sessions SessionVerifier) sessionMiddleware {
	logger := log.With().Str("handlerName", "sessionMiddleware").Logger()
	return sessionMiddleware{
		responder: NewResponder(logger),
		logger:    logger,
		sessions:  sessions,
	}
}

// authenticate rejects the request unless the bearer header, or failing
// that the session cookie, carries a valid token.
func (m sessionMiddleware) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := sessionToken(r)
		if token == "" {
			m.reject(w, r, errs.ErrMissingToken)
			return
		}
		userID, ok := m.sessions.Verify(token)
		if !ok {
			m.reject(w, r, errs.ErrInvalidToken)
			return
		}
		next.ServeHTTP(w, r.WithContext(ctxWithUserID(r.Context(), userID)))
	})
}

// reject logs why the session was refused; the client only sees Unauthorized.
func (m sessionMiddleware) reject(w http.ResponseWriter, r *http.Request, reason error) {
	m.logger.Debug().
		Err(reason).
		Str("path", r.URL.Path).
		Str("requestId", middleware.GetReqID(r.Context())).
		Msg("session rejected")
	m.responder.WriteError(w, errs.Unauthorized)
}

func sessionToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		if token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")); token != "" {
			return token
		}
	}
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func sessionCookie(token string, ttl time.Duration, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// expiredSessionCookie is written with Max-Age=0.
func expiredSessionCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// LogInternalServerErrors recovers panics and logs every 5xx.
func LogInternalServerErrors(next http.Handler) http.Handler {
	responder := NewResponder(log.With().Str("handlerName", "recoverer").Logger())

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.Error().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Str("requestId", middleware.GetReqID(r.Context())).
					Interface("panic", rec).
					Str("stack", string(debug.Stack())).
					Msg("Recovered from panic")

				if ww.Status() == 0 {
					responder.WriteError(ww, errs.NewInternalError("panic", nil))
				}
			}
		}()

		next.ServeHTTP(ww, r)

		if ww.Status() >= http.StatusInternalServerError {
			log.Error().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Str("requestId", middleware.GetReqID(r.Context())).
				Msg("server error response")
		}
	})
}

// requestLogger logs each request with a level picked from its status class.
func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			var logEvent *zerolog.Event
			switch {
			case status >= 500:
				logEvent = logger.Error()
			case status >= 400:
				logEvent = logger.Warn()
			default:
				logEvent = logger.Info()
			}

			logEvent.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Str("remoteAddr", r.RemoteAddr).
				Str("requestId", middleware.GetReqID(r.Context())).
				Msg("HTTP Request")
		})
	}
}

// corsMiddleware allows credentialed requests from the configured origins.
// With no origins configured the API is same-origin only.
func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	if len(allowedOrigins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

func secureHeaders(production bool) func(http.Handler) http.Handler {
	opts := secure.Options{
		IsDevelopment:         !production,
		ContentTypeNosniff:    true,
		FrameDeny:             true,
		BrowserXssFilter:      true,
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}
	if production {
		opts.STSSeconds = 31536000
		opts.STSIncludeSubdomains = true
	}
	return secure.New(opts).Handler
}

// loginRateLimiter limits login attempts per client IP. rateFormatted uses
// the limiter syntax, e.g. "20-M"; empty disables it.
func loginRateLimiter(rateFormatted string, responder Responder) (func(http.Handler) http.Handler, error) {
	if rateFormatted == "" {
		return func(next http.Handler) http.Handler { return next }, nil
	}
	rate, err := limiter.NewRateFromFormatted(rateFormatted)
	if err != nil {
		return nil, errs.NewConfigError("LOGIN_RATE_LIMIT", err)
	}
	instance := limiter.New(memory.NewStore(), rate)
	return stdlib.NewMiddleware(instance,
		stdlib.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
			responder.WriteError(w, errs.NewTooManyRequestsError())
		}),
	).Handler, nil
}
