package utils

import (
	"encoding/json"
	"net/http"

	"github.com/crudmaker/Bank-REST/internal/errs"
)

// RespondWithJSON writes a JSON response with the given status code
func RespondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// RespondWithError writes a JSON error response
func RespondWithError(w http.ResponseWriter, status int, message string) {
	RespondWithJSON(w, status, map[string]string{"error": message})
}

// RespondWithAppError maps a classified error to an HTTP status code and
// writes its stable message
func RespondWithAppError(w http.ResponseWriter, err error) {
	RespondWithError(w, StatusForError(err), errs.MessageOf(err))
}

// StatusForError maps error kinds to HTTP status codes
func StatusForError(err error) int {
	switch errs.KindOf(err) {
	case errs.NotFound:
		return http.StatusNotFound
	case errs.AccessDenied:
		return http.StatusForbidden
	case errs.InvalidOperation:
		return http.StatusBadRequest
	case errs.Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
