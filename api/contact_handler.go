package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/models"
)

const notifyTimeout = 5 * time.Second

type contactHandler struct {
	responder Responder
	logger    zerolog.Logger
	repo      *database.ContactRepo
	validate  *validator.Validate
	notifier  ContactNotifier
}

func newContactHandler(repo *database.ContactRepo, validate *validator.Validate, notifier ContactNotifier) contactHandler {
	logger := log.With().Str("handlerName", "contactHandler").Logger()

	return contactHandler{
		responder: NewResponder(logger),
		logger:    logger,
		repo:      repo,
		validate:  validate,
		notifier:  notifier,
	}
}

// submit stores a visitor message
// @Summary Submit a contact message
// @Tags Contact
// @Accept json
// @Produce json
// @Param message body models.ContactMessage true "name, email, subject and message"
// @Success 201 {object} createdResponse
// @Failure 400 {object} ErrorResponse "Missing field"
// @Router /api/contact [post]
func (h contactHandler) submit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var msg models.ContactMessage
		if err := decodeJSON(w, r, &msg); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		msg.ResetServerFields()

		if err := h.validate.StructCtx(r.Context(), &msg); err != nil {
			h.responder.WriteError(w, validationError(err))
			return
		}

		if err := h.repo.Add(r.Context(), &msg); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if h.notifier != nil {
			ctx, cancel := context.WithTimeout(r.Context(), notifyTimeout)
			if err := h.notifier.NotifyContact(ctx, msg); err != nil {
				h.logger.Warn().Err(err).Str("id", msg.ID.String()).Msg("contact notification failed")
			}
			cancel()
		}

		h.responder.WriteJSONStatus(w, http.StatusCreated, createdResponse{
			Message: "Message sent successfully",
			ID:      msg.ID.String(),
		})
	}
}

func (h contactHandler) list() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		messages, err := h.repo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, map[string]any{"contacts": messages})
	}
}

func (h contactHandler) delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, h.repo.Entity())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.repo.Delete(r.Context(), id); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, messageResponse{Message: "Message deleted successfully"})
	}
}
