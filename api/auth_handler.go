package api

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

type authHandler struct {
	responder     Responder
	logger        zerolog.Logger
	auth          Authenticator
	sessionTTL    time.Duration
	secureCookies bool
}

func newAuthHandler(auth Authenticator, sessionTTL time.Duration, secureCookies bool) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder:     NewResponder(logger),
		logger:        logger,
		auth:          auth,
		sessionTTL:    sessionTTL,
		secureCookies: secureCookies,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message string                 `json:"message"`
	Token   string                 `json:"token"`
	User    models.PublicAdminUser `json:"user"`
}

type meResponse struct {
	User models.PublicAdminUser `json:"user"`
}

// login authenticates an admin and sets the session cookie
// @Summary Admin login
// @Description Checks the credentials, sets the admin-token cookie and returns the token
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body loginRequest true "username and password"
// @Success 200 {object} loginResponse
// @Failure 400 {object} ErrorResponse "Missing username or password"
// @Failure 401 {object} ErrorResponse "invalid credentials"
// @Failure 429 {object} ErrorResponse "Too many attempts"
// @Router /api/admin/auth/login [post]
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(w, r, &req); err != nil {
			if errs.IsInvalidJSONError(err) {
				recordLoginAttempt("malformed")
			}
			h.responder.WriteError(w, err)
			return
		}

		result, err := h.auth.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			switch {
			case errs.IsInvalidCredentialsError(err):
				recordLoginAttempt("rejected")
			case errs.IsBadRequest(err):
				recordLoginAttempt("malformed")
			default:
				recordLoginAttempt("error")
			}
			h.responder.WriteError(w, err)
			return
		}
		recordLoginAttempt("success")

		http.SetCookie(w, sessionCookie(result.Token, h.sessionTTL, h.secureCookies))
		h.responder.WriteJSON(w, loginResponse{
			Message: "Login successful",
			Token:   result.Token,
			User:    result.User,
		})
	}
}

// logout always succeeds, with or without a session.
func (h authHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, expiredSessionCookie(h.secureCookies))
		h.responder.WriteJSON(w, messageResponse{Message: "Logout successful"})
	}
}

func (h authHandler) me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		user, err := h.auth.CurrentUser(r.Context(), userID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, meResponse{User: user})
	}
}
