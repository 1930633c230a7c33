package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"garderoba/internal/imaging"
	"garderoba/internal/store"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			zap.L().Error("encoding response", zap.Error(err))
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

// storeError maps the store's error kinds onto HTTP statuses without
// collapsing them into a generic failure. fallback describes the
// operation for the 500 path.
func storeError(w http.ResponseWriter, err error, fallback string) {
	var ve *store.ValidationError
	switch {
	case errors.As(err, &ve):
		jsonResponse(w, http.StatusBadRequest, map[string]string{
			"error": ve.Error(),
			"field": ve.Field,
		})
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrAlreadyComposed):
		jsonError(w, http.StatusConflict, store.ErrAlreadyComposed.Error())
	default:
		zap.L().Error(fallback, zap.Error(err))
		jsonError(w, http.StatusInternalServerError, fallback)
	}
}

// imagingError maps image pipeline failures onto HTTP statuses, each
// with its specific reason.
func imagingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, imaging.ErrTooLarge):
		jsonError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, imaging.ErrRejectedFormat):
		jsonError(w, http.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, imaging.ErrCorruptData):
		jsonError(w, http.StatusBadRequest, err.Error())
	default:
		zap.L().Error("processing image", zap.Error(err))
		jsonError(w, http.StatusInternalServerError, "failed to process image")
	}
}
