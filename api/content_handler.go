package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

// contentRoutes is implemented by every contentHandler instantiation.
type contentRoutes interface {
	list() http.HandlerFunc
	get() http.HandlerFunc
	create() http.HandlerFunc
	update() http.HandlerFunc
	delete() http.HandlerFunc
}

// contentHandler serves one content collection. label is the display name
// used in messages ("Project"), listKey wraps list responses ("projects").
type contentHandler[T any, PT models.Record[T]] struct {
	responder Responder
	logger    zerolog.Logger
	repo      *database.Repo[T, PT]
	validate  *validator.Validate
	label     string
	listKey   string
}

func newContentHandler[T any, PT models.Record[T]](repo *database.Repo[T, PT], validate *validator.Validate, label, listKey string) contentHandler[T, PT] {
	logger := log.With().Str("handlerName", listKey+"Handler").Logger()

	return contentHandler[T, PT]{
		responder: NewResponder(logger),
		logger:    logger,
		repo:      repo,
		validate:  validate,
		label:     label,
		listKey:   listKey,
	}
}

// list returns the whole collection newest first. Shared by the public and
// admin routes.
func (h contentHandler[T, PT]) list() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := h.repo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, map[string]any{h.listKey: records})
	}
}

func (h contentHandler[T, PT]) get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, h.repo.Entity())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		record, err := h.repo.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, record)
	}
}

// create inserts the draft. Client supplied ids and timestamps are ignored.
func (h contentHandler[T, PT]) create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		record := PT(new(T))
		if err := decodeJSON(w, r, record); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		record.ResetServerFields()

		if err := h.validate.StructCtx(r.Context(), record); err != nil {
			h.responder.WriteError(w, validationError(err))
			return
		}

		if err := h.repo.Add(r.Context(), record); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("id", record.GetID().String()).Msgf("%s created", h.repo.Entity())
		h.responder.WriteJSONStatus(w, http.StatusCreated, createdResponse{
			Message: h.label + " created successfully",
			ID:      record.GetID().String(),
		})
	}
}

// update merges the patch onto the stored record, so omitted fields keep
// their values and present lists replace the stored ones. The merged record
// must still validate.
func (h contentHandler[T, PT]) update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, h.repo.Entity())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var patch map[string]json.RawMessage
		if err := decodeJSON(w, r, &patch); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		stored, err := h.repo.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		record, err := mergePatch(stored, patch)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		record.SetID(id)

		if err := h.validate.StructCtx(r.Context(), record); err != nil {
			h.responder.WriteError(w, validationError(err))
			return
		}

		if err := h.repo.Update(r.Context(), record); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, messageResponse{Message: h.label + " updated successfully"})
	}
}

func (h contentHandler[T, PT]) delete() http.HandlerFunc {
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

		h.logger.Info().Str("id", id.String()).Msgf("%s deleted", h.repo.Entity())
		h.responder.WriteJSON(w, messageResponse{Message: h.label + " deleted successfully"})
	}
}

// mergePatch overlays the top-level keys of patch on stored and decodes the
// result into a fresh record, so a list in the patch replaces the stored list
// instead of being merged into it element by element.
func mergePatch[T any, PT models.Record[T]](stored PT, patch map[string]json.RawMessage) (PT, error) {
	raw, err := json.Marshal(stored)
	if err != nil {
		return nil, errs.NewInternalError("encode stored record", err)
	}
	merged := make(map[string]json.RawMessage)
	if err := json.Unmarshal(raw, &merged); err != nil {
		return nil, errs.NewInternalError("decode stored record", err)
	}
	for key, value := range patch {
		merged[key] = value
	}

	raw, err = json.Marshal(merged)
	if err != nil {
		return nil, errs.NewInternalError("encode merged record", err)
	}
	record := PT(new(T))
	if err := json.Unmarshal(raw, record); err != nil {
		return nil, errs.NewInvalidJSONError(err)
	}
	return record, nil
}

// idParam parses the {id} URL parameter. A malformed id is a 400, never a 404.
func idParam(r *http.Request, entity string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, errs.NewInvalidIdentifierError(entity)
	}
	return id, nil
}
