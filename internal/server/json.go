package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/playperu/junta/internal/junta"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeEngineError maps the engine's error taxonomy onto HTTP statuses:
// precondition violations are conflicts (or 404 for unknown players),
// one-shot violations are conflicts, adapter failures are 502.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, junta.ErrNotPlayer):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, junta.ErrInvalidProof):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, junta.ErrInvalidPayment):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, junta.ErrPrecondition), errors.Is(err, junta.ErrOneShot):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, junta.ErrAdapter):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
