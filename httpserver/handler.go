package httpserver

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sealstore/sealstore/interfaces"
	"github.com/sealstore/sealstore/store"
)

// Handler serves the blob API over a store.Store. Plain blobs and sealed
// blobs share the same key space; the two route families only select which
// pipeline the bytes travel through.
type Handler struct {
	store *store.Store
	log   *slog.Logger
}

// NewHandler creates an API handler over the given store.
func NewHandler(s *store.Store, log *slog.Logger) *Handler {
	return &Handler{
		store: s,
		log:   log,
	}
}

// HandleSaveBlob stores the request body under the key taken from the URL.
// PUT /api/blob/{key}
func (h *Handler) HandleSaveBlob(w http.ResponseWriter, r *http.Request) {
	h.handleSave(w, r, h.store.SaveFile)
}

// HandleGetBlob returns the blob stored under the key taken from the URL.
// GET /api/blob/{key}
func (h *Handler) HandleGetBlob(w http.ResponseWriter, r *http.Request) {
	h.handleGet(w, r, h.store.GetFile)
}

// HandleDeleteBlob removes the blob stored under the key taken from the URL.
// DELETE /api/blob/{key}
func (h *Handler) HandleDeleteBlob(w http.ResponseWriter, r *http.Request) {
	key, ok := h.requestKey(w, r)
	if !ok {
		return
	}

	if err := h.store.RemoveFile(r.Context(), key); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleSaveSealedBlob stores the request body through the sealing pipeline.
// PUT /api/sealed/{key}
func (h *Handler) HandleSaveSealedBlob(w http.ResponseWriter, r *http.Request) {
	h.handleSave(w, r, h.store.SaveSealedFile)
}

// HandleGetSealedBlob unseals and returns the blob stored under the key.
// GET /api/sealed/{key}
func (h *Handler) HandleGetSealedBlob(w http.ResponseWriter, r *http.Request) {
	h.handleGet(w, r, h.store.GetSealedFile)
}

type saveFunc func(ctx context.Context, key interfaces.StorageKey, data []byte) error
type getFunc func(ctx context.Context, key interfaces.StorageKey) ([]byte, error)

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request, save saveFunc) {
	key, ok := h.requestKey(w, r)
	if !ok {
		return
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		h.log.Debug("Failed to read request body", "err", err)
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	if err := save(r.Context(), key, data); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request, get getFunc) {
	key, ok := h.requestKey(w, r)
	if !ok {
		return
	}

	data, err := get(r.Context(), key)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// requestKey extracts and validates the storage key from the route's
// wildcard segment.
func (h *Handler) requestKey(w http.ResponseWriter, r *http.Request) (interfaces.StorageKey, bool) {
	key, err := interfaces.NewStorageKey(chi.URLParam(r, "*"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return "", false
	}
	return key, true
}

// writeError maps pipeline and backend errors onto HTTP status codes.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	switch {
	case errors.Is(err, interfaces.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, interfaces.ErrInvalidKey):
		status = http.StatusBadRequest
	case errors.Is(err, interfaces.ErrIntegrityCheckFailed),
		errors.Is(err, interfaces.ErrMalformedEnvelope):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, interfaces.ErrBackendUnavailable):
		status = http.StatusServiceUnavailable
	default:
		status = http.StatusInternalServerError
	}

	if status >= 500 {
		h.log.Error("Request failed",
			slog.String("path", r.URL.Path),
			slog.Int("status", status),
			"err", err)
	} else {
		h.log.Debug("Request failed",
			slog.String("path", r.URL.Path),
			slog.Int("status", status),
			"err", err)
	}

	http.Error(w, err.Error(), status)
}
