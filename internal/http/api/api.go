// Package api holds the response, error and request helpers shared by the
// HTTP handlers.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/finboard/internal/account"
	"github.com/MrJamesThe3rd/finboard/internal/auth"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
	"github.com/MrJamesThe3rd/finboard/internal/user"
	"github.com/MrJamesThe3rd/finboard/internal/validation"
)

type ErrorResponse struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Message writes a bare {"message": msg} body.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, ErrorResponse{Message: msg})
}

// Error maps err onto a status code and a client-safe body. Anything not
// recognised is logged and reported as a 500 without details.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		JSON(w, http.StatusBadRequest, ErrorResponse{Message: "invalid input", Fields: verr.Fields})
		return
	}

	status, msg := Status(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}

	Message(w, status, msg)
}

// Status returns the status code and message for a domain error.
func Status(err error) (int, string) {
	switch {
	case errors.Is(err, user.ErrDuplicateEmail):
		return http.StatusConflict, "email already registered"
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid email or password"
	case errors.Is(err, auth.ErrUnauthenticated):
		return http.StatusUnauthorized, "not authenticated"
	case errors.Is(err, account.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, account.ErrNotFound):
		return http.StatusNotFound, "account not found"
	case errors.Is(err, transaction.ErrNotFound):
		return http.StatusNotFound, "transaction not found"
	case errors.Is(err, user.ErrNotFound):
		return http.StatusNotFound, "user not found"
	}

	return http.StatusInternalServerError, "internal error"
}

// Decode reads a JSON body into v, rejecting unknown fields.
func Decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return validation.Field("body", "must be valid JSON: "+err.Error())
	}

	return nil
}
