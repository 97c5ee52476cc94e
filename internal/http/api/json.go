package api

import (
	"encoding/json"
	"errors"
	"net/http"

	commonerrors "github.com/slok/slafeed/pkg/common/errors"
)

type jsonError struct {
	Error string `json:"error"`
}

func (a api) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Errorf("Could not write JSON response: %s", err)
	}
}

// writeError maps domain errors to HTTP status codes.
func (a api) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, commonerrors.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, commonerrors.ErrNotValid):
		code = http.StatusBadRequest
	default:
		a.logger.WithCtxValues(r.Context()).Errorf("Error handling request: %s", err)
	}

	a.writeJSON(w, code, jsonError{Error: err.Error()})
}
