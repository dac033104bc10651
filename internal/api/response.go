package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mlakar/hlev/internal/store"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
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

// storeError maps domain errors to HTTP status codes. Everything that is
// not a known domain error is treated as a store failure and hidden behind
// a generic 500.
func storeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrLocationNotFound),
		errors.Is(err, store.ErrAnimalNotFound),
		errors.Is(err, store.ErrSampleNotFound),
		errors.Is(err, store.ErrSaleNotFound):
		jsonError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrCapacityFull),
		errors.Is(err, store.ErrAnimalInactive):
		jsonError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrLocationInUse),
		errors.Is(err, store.ErrSampleCompleted):
		jsonError(w, http.StatusConflict, err.Error())
	default:
		slog.Error("store error", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
	}
}
