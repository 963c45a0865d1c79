package api

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/errs"
)

const maxUploadSize = 10 << 20

type uploadHandler struct {
	responder Responder
	logger    zerolog.Logger
	images    ImageUploader
}

func newUploadHandler(images ImageUploader) *uploadHandler {
	if images == nil {
		return nil
	}
	logger := log.With().Str("handlerName", "uploadHandler").Logger()

	return &uploadHandler{
		responder: NewResponder(logger),
		logger:    logger,
		images:    images,
	}
}

// uploadImage stores the multipart "file" field and returns its URL, to be
// used as a project or certificate image reference.
func (h *uploadHandler) uploadImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1024)
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) || errors.Is(err, multipart.ErrMessageTooLarge) {
				h.responder.WriteError(w, errs.NewMaxBodySizeExceededError(maxUploadSize))
				return
			}
			h.responder.WriteError(w, errs.BadRequest("expected a multipart form with a file field"))
			return
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("file")
		if err != nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("file"))
			return
		}
		defer file.Close()

		// Sniff instead of trusting the client header.
		head := make([]byte, 512)
		n, err := io.ReadFull(file, head)
		if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
			h.responder.WriteError(w, errs.NewInternalError("read upload", err))
			return
		}
		head = head[:n]
		contentType := http.DetectContentType(head)
		if !strings.HasPrefix(contentType, "image/") {
			h.responder.WriteError(w, errs.NewUnsupportedMediaTypeError(contentType))
			return
		}

		stored, err := h.images.Put(r.Context(), header.Filename, contentType, io.MultiReader(bytes.NewReader(head), file))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("key", stored.Key).Int64("size", header.Size).Msg("image uploaded")
		h.responder.WriteJSONStatus(w, http.StatusCreated, stored)
	}
}
