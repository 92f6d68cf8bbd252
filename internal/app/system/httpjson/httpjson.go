// Package httpjson writes JSON responses and maps apperr kinds to HTTP
// status codes. Every API handler funnels its error path through Error so
// the status mapping stays in one place.
package httpjson

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/launchdesk/internal/app/system/apperr"
	"go.uber.org/zap"
)

// errorBody is the wire shape for all error responses.
type errorBody struct {
	Error string `json:"error"`
}

// Write encodes v as JSON with the given status.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK encodes v as JSON with status 200.
func OK(w http.ResponseWriter, v any) {
	Write(w, http.StatusOK, v)
}

// Created encodes v as JSON with status 201.
func Created(w http.ResponseWriter, v any) {
	Write(w, http.StatusCreated, v)
}

// Status maps an apperr kind to its HTTP status code. The switch is
// exhaustive over the closed kind set; unknown kinds fall through to 500.
func Status(kind apperr.Kind) int {
	switch kind {
	case apperr.Unauthenticated:
		return http.StatusUnauthorized
	case apperr.Forbidden:
		return http.StatusForbidden
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.Validation, apperr.SignatureInvalid:
		return http.StatusBadRequest
	case apperr.Internal:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

// Error writes the JSON error response for err. Internal errors are logged
// with full detail; the client body never carries more than a short
// message field.
func Error(w http.ResponseWriter, logger *zap.Logger, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.Internal && logger != nil {
		logger.Error("internal error", zap.Error(err))
	}
	Write(w, Status(kind), errorBody{Error: apperr.Message(err)})
}

// Decode reads a JSON request body into v, returning a Validation error
// on malformed input.
func Decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Wrap(apperr.Validation, "invalid request body", err)
	}
	return nil
}
