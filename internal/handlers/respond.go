package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"concord-backend/internal/chat"

	"github.com/go-chi/chi/v5"
)

// respondError maps the chat error taxonomy onto status codes. AlreadyDeleted
// folds into 404, tombstoned messages are gone as far as callers can tell.
// Anything outside the taxonomy is logged and kept opaque.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chat.ErrValidation):
		http.Error(w, "Invalid request", http.StatusBadRequest)
	case errors.Is(err, chat.ErrForbidden):
		http.Error(w, "Forbidden", http.StatusForbidden)
	case errors.Is(err, chat.ErrNotFound), errors.Is(err, chat.ErrAlreadyDeleted):
		http.Error(w, "Not found", http.StatusNotFound)
	default:
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
	}
}

func respondJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		sugar.Error(err)
	}
}

// urlParamID parses a snowflake path parameter. Zero is never a valid ID.
func urlParamID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id == 0 {
		return 0, chat.ErrValidation
	}
	return id, nil
}
